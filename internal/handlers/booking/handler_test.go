package booking_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inap/infras/otel/mocks"
	"inap/internal/domains/booking/model/dto"
	svcMocks "inap/internal/domains/booking/service/mocks"
	"inap/internal/handlers/booking"
	"inap/shared/constant"
	gDto "inap/shared/dto"
	"inap/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (*svcMocks.MockBooking, http.Handler) {
	t.Helper()

	svc := svcMocks.NewMockBooking(gomock.NewController(t))
	handler := booking.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func TestHandler_CreateBooking(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error) {
				assert.Equal(t, "r1", req.RoomID)
				assert.Equal(t, 2, req.Guests)

				return dto.BookingResponse{ID: "b1", RoomID: "r1", Nights: 2, TotalPrice: 200}, nil
			})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(
			`{"roomId":"r1","guestName":"Ann","guestEmail":"ann@example.com","checkIn":"2030-01-01","checkOut":"2030-01-03","guests":2}`)))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"totalPrice":200`)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, router := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(
			`{"roomId":"r1","guestName":"Ann","guestEmail":"ann@example.com","checkIn":"01/01/2030","checkOut":"2030-01-03","guests":2}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("overlapping stay", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.Conflict("room is already booked for these dates"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(
			`{"roomId":"r1","guestName":"Ann","guestEmail":"ann@example.com","checkIn":"2030-01-01","checkOut":"2030-01-03","guests":1}`)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandler_GetBookings(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
			where, args := filter.GetWhereClause()

			assert.Equal(t, 2, params.Page)
			assert.Contains(t, where, "bookings.status = :status")
			assert.Contains(t, where, "LOWER(rooms.name) LIKE LOWER(:search_room_name)")
			assert.Equal(t, "confirmed", args["status"])
			assert.Equal(t, "%ann%", args["search_guest_name"])
			assert.NotContains(t, args, "payment_status")

			return dto.GetBookingsResponse{Bookings: []dto.BookingResponse{}, TotalPage: 1}, nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings?status=confirmed&q=ann&page=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_GetMyBookings(t *testing.T) {
	t.Run("guest is rejected", func(t *testing.T) {
		_, router := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/mybookings", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("filters by caller", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
				where, args := filter.GetWhereClause()

				assert.Equal(t, "(bookings.user_id = :user_id)", where)
				assert.Equal(t, "u1", args["user_id"])

				return dto.GetBookingsResponse{Bookings: []dto.BookingResponse{}}, nil
			})

		req := httptest.NewRequest(http.MethodGet, "/bookings/mybookings", nil)
		req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, "u1"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandler_GetStats(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Stats(gomock.Any()).Return(dto.StatsResponse{TotalBookings: 3, OccupancyRate: 50}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalBookings":3`)
}

func TestHandler_UpdateBookingStatus(t *testing.T) {
	t.Run("invalid transition", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().UpdateStatus(gomock.Any(), dto.UpdateStatusRequest{Status: "pending"}, "b1").
			Return(failure.Conflict("cannot move booking from completed to pending"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/bookings/b1/status", strings.NewReader(`{"status":"pending"}`)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, router := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/bookings/b1/status", strings.NewReader(`{"status":"lost"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_UpdatePaymentStatus(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().UpdatePaymentStatus(gomock.Any(), dto.UpdatePaymentStatusRequest{PaymentStatus: "paid"}, "b1").Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/bookings/b1/payment-status", strings.NewReader(`{"paymentStatus":"paid"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_DeleteBooking(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Delete(gomock.Any(), "b9").Return(failure.NotFound("booking not found"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/bookings/b9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
