package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inap/config"
	"inap/infras/otel/mocks"
	"inap/shared"
	cacheMocks "inap/shared/cache/mocks"
	"inap/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func actorEcho(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(shared.Actor(r.Context())))
}

func newMiddleware(t *testing.T, cfg *config.Config) (*cacheMocks.MockRedisCache, middleware.AppMiddleware) {
	t.Helper()

	mockCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))

	return mockCache, middleware.NewAppMiddleware(mocks.NewOtel(), cfg, mockCache)
}

func TestAppMiddleware_Actor(t *testing.T) {
	_, app := newMiddleware(t, &config.Config{})

	router := chi.NewRouter()
	router.Use(app.Tracing, app.Actor)
	router.Get("/", actorEcho)

	t.Run("header names the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", " u1 ")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "u1", rec.Body.String())
	})

	t.Run("missing header means guest", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "guest", rec.Body.String())
	})
}

func TestAppMiddleware_RateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	serve := func(app middleware.AppMiddleware) *httptest.ResponseRecorder {
		router := chi.NewRouter()
		router.Use(app.RateLimit())
		router.Get("/", actorEcho)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	t.Run("first request opens a window", func(t *testing.T) {
		mockCache, app := newMiddleware(t, cfg)

		mockCache.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.1:unknown", 60).Return(int64(1), nil)

		rec := serve(app)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("over the limit", func(t *testing.T) {
		mockCache, app := newMiddleware(t, cfg)

		mockCache.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).Return(int64(3), nil)

		rec := serve(app)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("cache outage lets requests through", func(t *testing.T) {
		mockCache, app := newMiddleware(t, cfg)

		mockCache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection refused"))

		rec := serve(app)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		_, app := newMiddleware(t, &config.Config{})

		assert.Equal(t, http.StatusOK, serve(app).Code)
	})
}
