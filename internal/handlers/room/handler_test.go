package room_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inap/infras/otel/mocks"
	"inap/internal/domains/room/model/dto"
	svcMocks "inap/internal/domains/room/service/mocks"
	"inap/internal/handlers/room"
	"inap/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const validUpdateBody = `{
	"name": "Deluxe",
	"description": "desc",
	"shortDescription": "short",
	"basePrice": 500000,
	"maxGuests": 2,
	"size_sqm": 30,
	"roomTypeId": "Tp-1",
	"amenities": ["Am-2", "Am-3"],
	"features": [],
	"images": [{"imageUrl": "https://cdn.example.com/u2.jpg", "isPrimary": false}]
}`

func newRouter(t *testing.T) (*svcMocks.MockRoom, http.Handler) {
	t.Helper()

	svc := svcMocks.NewMockRoom(gomock.NewController(t))
	handler := room.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func TestHandler_UpdateRoom(t *testing.T) {
	t.Run("full payload is accepted", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Update(gomock.Any(), gomock.Any(), "r1").
			DoAndReturn(func(_ any, req dto.UpdateRoomRequest, _ string) error {
				assert.Equal(t, int64(500000), *req.BasePrice)
				assert.Empty(t, req.Features)

				return nil
			})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/rooms/r1", strings.NewReader(validUpdateBody)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing field is rejected before the service", func(t *testing.T) {
		_, router := newRouter(t)

		body := strings.Replace(validUpdateBody, `"maxGuests": 2,`, "", 1)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/rooms/r1", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		_, router := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/rooms/r1", strings.NewReader(`{"name":`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Update(gomock.Any(), gomock.Any(), "missing").Return(failure.NotFound("room not found"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/rooms/missing", strings.NewReader(validUpdateBody)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_GetRoomByID(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), "r1").Return(dto.RoomResponse{
		ID:        "r1",
		Type:      "Suite",
		Available: true,
		Images:    []string{"u2", "u3"},
		Amenities: []string{},
		Features:  []string{},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/r1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "Suite", body.Data["type"])
	assert.Equal(t, true, body.Data["available"])
	assert.Equal(t, []any{"u2", "u3"}, body.Data["images"])
	assert.Equal(t, []any{}, body.Data["features"])
}

func TestHandler_GetRoomBySlug(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().GetBySlug(gomock.Any(), "deluxe-room").Return(dto.RoomResponse{ID: "r1"}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/slug/deluxe-room", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_UpdateRoomStatus(t *testing.T) {
	_, router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/rooms/r1/status", strings.NewReader(`{"status":"closed"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
