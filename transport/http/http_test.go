package http_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inap/config"
	"inap/infras/kafka"
	"inap/infras/otel/mocks"
	"inap/infras/postgres"
	cacheMocks "inap/shared/cache/mocks"
	transport "inap/transport/http"
	"inap/transport/http/middleware"
	"inap/transport/http/router"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T, monitorPings bool) (sqlmock.Sqlmock, *transport.HTTP) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(monitorPings))
	require.NoError(t, err)

	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")

	cfg := &config.Config{}
	cfg.Server.Env = "production"

	mw := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cacheMocks.NewMockRedisCache(gomock.NewController(t)))

	return mock, transport.New(cfg, router.New(router.DomainHandlers{}), mw, &postgres.Connection{Read: db, Write: db}, kafka.New(cfg))
}

func TestHTTP_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		_, server := newServer(t, false)

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, transport.ServerStateReady, server.State())
	})

	t.Run("database down", func(t *testing.T) {
		mock, server := newServer(t, true)

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHTTP_NoSwaggerInProduction(t *testing.T) {
	_, server := newServer(t, false)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
