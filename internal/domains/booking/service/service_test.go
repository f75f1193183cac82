package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"inap/config"
	"inap/infras/kafka"
	kafkaMocks "inap/infras/kafka/mocks"
	"inap/infras/otel/mocks"
	bookingMocks "inap/internal/domains/booking/mocks"
	"inap/internal/domains/booking/model"
	"inap/internal/domains/booking/model/dto"
	"inap/internal/domains/booking/service"
	roomMocks "inap/internal/domains/room/mocks"
	roomModel "inap/internal/domains/room/model"
	"inap/shared/cache"
	cacheMocks "inap/shared/cache/mocks"
	"inap/shared/constant"
	gDto "inap/shared/dto"
	"inap/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo  *bookingMocks.MockBooking
	rooms *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	kafka *kafkaMocks.MockClient
	svc   service.Booking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  bookingMocks.NewMockBooking(ctrl),
		rooms: roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		kafka: kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topics.Booking = "inap.booking"

	f.svc = service.New(f.repo, f.rooms, cfg, f.cache, mocks.NewOtel(), f.kafka)

	return f
}

func stayRequest(nights int) dto.CreateBookingRequest {
	checkIn := time.Now().AddDate(0, 0, 7)

	return dto.CreateBookingRequest{
		RoomID:     "r1",
		GuestName:  "Ayu",
		GuestEmail: "ayu@example.com",
		CheckIn:    checkIn.Format(model.DateLayout),
		CheckOut:   checkIn.AddDate(0, 0, nights).Format(model.DateLayout),
		Guests:     2,
	}
}

func availableRoom() roomModel.Room {
	return roomModel.Room{ID: "r1", Name: "Deluxe 101", BasePrice: 500000, MaxGuests: 2, Status: roomModel.StatusAvailable}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("prices nights times base price", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
		f.repo.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				assert.Equal(t, 3, booking.Nights)
				assert.Equal(t, int64(1500000), booking.TotalPrice)
				assert.Nil(t, booking.UserID)

				return nil
			})
		f.cache.EXPECT().Bump(gomock.Any(), "generation:booking").Return(int64(1), nil)

		res, err := f.svc.Create(context.Background(), stayRequest(3))

		require.NoError(t, err)
		assert.Equal(t, "Deluxe 101", res.RoomName)
		assert.Equal(t, model.StatusPending, res.Status)
	})

	t.Run("check out before check in", func(t *testing.T) {
		f := newFixture(t)

		req := stayRequest(1)
		req.CheckIn, req.CheckOut = req.CheckOut, req.CheckIn

		_, err := f.svc.Create(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("past check in", func(t *testing.T) {
		f := newFixture(t)

		req := stayRequest(1)
		req.CheckIn = time.Now().AddDate(0, 0, -3).Format(model.DateLayout)

		_, err := f.svc.Create(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("room under maintenance", func(t *testing.T) {
		f := newFixture(t)

		room := availableRoom()
		room.Status = roomModel.StatusMaintenance

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)

		_, err := f.svc.Create(context.Background(), stayRequest(2))

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("too many guests", func(t *testing.T) {
		f := newFixture(t)

		req := stayRequest(2)
		req.Guests = 5

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)

		_, err := f.svc.Create(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("dates already taken", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
		f.repo.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(failure.Conflict("room is already booked for the selected dates"))

		_, err := f.svc.Create(context.Background(), stayRequest(2))

		assert.True(t, failure.IsConflict(err))
	})
}

func TestBookingService_UpdateStatus(t *testing.T) {
	t.Run("pending to confirmed publishes an event", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1", RoomID: "r1", Status: model.StatusPending}, nil)
		f.repo.EXPECT().Transition(gomock.Any(), "b1", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, fields map[string]any, guards ...gDto.Filter) error {
				assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
				require.Len(t, guards, 1)
				assert.Equal(t, model.FieldStatus, guards[0].Field)
				assert.Equal(t, model.StatusPending, guards[0].Value)

				return nil
			})
		f.cache.EXPECT().Bump(gomock.Any(), "generation:booking").Return(int64(2), nil)

		sent := make(chan dto.BookingEvent, 1)
		f.kafka.EXPECT().SendMessages(gomock.Any(), "inap.booking", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				event, _ := messages[0].Value.(dto.BookingEvent)
				sent <- event

				return nil
			})

		require.NoError(t, f.svc.UpdateStatus(context.Background(), dto.UpdateStatusRequest{Status: model.StatusConfirmed}, "b1"))

		select {
		case event := <-sent:
			assert.Equal(t, constant.EventBookingStatusChanged, event.Event)
			assert.Equal(t, model.StatusPending, event.From)
			assert.Equal(t, model.StatusConfirmed, event.To)
		case <-time.After(time.Second):
			t.Fatal("booking event was not published")
		}
	})

	t.Run("status changed since it was read", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1", Status: model.StatusPending}, nil)
		f.repo.EXPECT().Transition(gomock.Any(), "b1", gomock.Any(), gomock.Any()).
			Return(failure.Conflict("booking b1 was changed by another request"))

		err := f.svc.UpdateStatus(context.Background(), dto.UpdateStatusRequest{Status: model.StatusConfirmed}, "b1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1", Status: model.StatusCancelled}, nil)

		err := f.svc.UpdateStatus(context.Background(), dto.UpdateStatusRequest{Status: model.StatusConfirmed}, "b1")

		assert.True(t, failure.IsConflict(err))
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := f.svc.UpdateStatus(context.Background(), dto.UpdateStatusRequest{Status: model.StatusConfirmed}, "b404")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_UpdatePaymentStatus(t *testing.T) {
	t.Run("payment is guarded against a concurrent cancellation", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "b1", Status: model.StatusConfirmed, PaymentStatus: model.PaymentPending}, nil)
		f.repo.EXPECT().Transition(gomock.Any(), "b1", gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, fields map[string]any, guards ...gDto.Filter) error {
				assert.Equal(t, model.PaymentPaid, fields[model.FieldPaymentStatus])
				assert.Equal(t, []gDto.Filter{
					{ArgName: "guard_payment_status", Field: model.FieldPaymentStatus, Value: model.PaymentPending, Operator: gDto.FilterOperatorEq, Table: model.TableName},
					{ArgName: "guard_status", Field: model.FieldStatus, Value: model.StatusCancelled, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
				}, guards)

				return failure.Conflict("booking b1 was changed by another request")
			})

		err := f.svc.UpdatePaymentStatus(context.Background(), dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentPaid}, "b1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})


	t.Run("cancelled booking cannot be paid", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "b1", Status: model.StatusCancelled, PaymentStatus: model.PaymentPending}, nil)

		err := f.svc.UpdatePaymentStatus(context.Background(), dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentPaid}, "b1")

		assert.True(t, failure.IsConflict(err))
	})

	t.Run("refund before payment", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "b1", Status: model.StatusConfirmed, PaymentStatus: model.PaymentPending}, nil)

		err := f.svc.UpdatePaymentStatus(context.Background(), dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentRefunded}, "b1")

		assert.True(t, failure.IsConflict(err))
	})
}

func TestBookingService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "generation:booking", gomock.Any()).Return(cache.Nil)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, "bookings.check_in", params.SortBy)

			return []model.Booking{{ID: "b1"}}, nil
		})
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "check_in", SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Len(t, res.Bookings, 1)
}

func TestBookingService_Stats(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "generation:booking", gomock.Any()).Return(cache.Nil)
	f.cache.EXPECT().Get(gomock.Any(), "booking:v0:stats", gomock.Any()).Return(cache.Nil)
	f.repo.EXPECT().Stats(gomock.Any(), gomock.Any()).Return(model.Stats{TotalBookings: 2, OccupiedRooms: 1, TotalRooms: 4}, nil)
	f.repo.EXPECT().MonthlyRevenue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, since time.Time) ([]model.MonthlyRevenue, error) {
			assert.Equal(t, 1, since.Day())

			return []model.MonthlyRevenue{{Month: "2030-01", Revenue: 100}}, nil
		})
	f.repo.EXPECT().CountByRoomType(gomock.Any()).Return(nil, nil)
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res, err := f.svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 25.0, res.OccupancyRate)
	assert.Len(t, res.MonthlyRevenue, 1)
	assert.Empty(t, res.RoomTypeBookings)
}

func TestBookingService_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := f.svc.Delete(context.Background(), "b404")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
