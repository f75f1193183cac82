package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"inap/config"
	"inap/infras/kafka"
	"inap/infras/otel"
	"inap/internal/domains/booking/model"
	"inap/internal/domains/booking/model/dto"
	"inap/internal/domains/booking/repository"
	roomModel "inap/internal/domains/room/model"
	roomRepo "inap/internal/domains/room/repository"
	"inap/shared"
	"inap/shared/cache"
	"inap/shared/constant"
	gDto "inap/shared/dto"
	"inap/shared/failure"
	"inap/shared/timezone"

	"github.com/rs/zerolog/log"
)

// cacheBooking versions every cached booking read. Writers bump it after commit.
const cacheBooking = "booking"

const (
	cacheGetBooking    = "get"
	cacheGetAllBooking = "gets"
	cacheCountBooking  = "count"
	cacheStatsBooking  = "stats"

	revenueMonths = 12
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Stats(ctx context.Context) (dto.StatsResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
	UpdatePaymentStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	kafka    kafka.Client
}

func New(repo repository.Booking, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		kafka:    kafka,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	checkIn, checkOut, err := req.Stay()
	if err != nil {
		return res, failure.BadRequestFromString("invalid stay dates: " + err.Error())
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("checkOut must be after checkIn")
	}

	if checkIn.Before(timezone.Today()) {
		return res, failure.BadRequestFromString("checkIn cannot be in the past")
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.BadRequestFromString(fmt.Sprintf("room %s does not exist", req.RoomID))
	}

	if !room.Available() {
		return res, failure.BadRequestFromString(fmt.Sprintf("room %s is %s", room.ID, room.Status))
	}

	if req.Guests > room.MaxGuests {
		return res, failure.BadRequestFromString(fmt.Sprintf("room %s hosts at most %d guests", room.ID, room.MaxGuests))
	}

	booking := req.ToModel(shared.Actor(ctx), checkIn, checkOut, room.BasePrice)
	booking.RoomName = &room.Name

	if err = s.repo.Reserve(ctx, booking); err != nil {
		log.Error().Err(err).Str("room", room.ID).Msg("failed to reserve room")

		return res, err
	}

	shared.BumpCacheGeneration(ctx, s.cache, cacheBooking)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	shared.SanitizeSort(&req, model.FieldCreatedAt, gDto.SortDirDesc,
		model.FieldCreatedAt, model.FieldCheckIn, model.FieldCheckOut, model.FieldTotalPrice, model.FieldStatus)

	// rooms is joined in, so the sort column needs its table.
	req.SortBy = model.TableName + "." + req.SortBy

	cacheKey, cacheable := shared.VersionedCacheKey(ctx, s.cache, cacheBooking, shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter))

	if cacheable && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if cacheable {
		shared.CacheInBackground(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)
	}

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey, cacheable := shared.VersionedCacheKey(ctx, s.cache, cacheBooking, shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter))

	if cacheable && s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	if cacheable {
		shared.CacheInBackground(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey, cacheable := shared.VersionedCacheKey(ctx, s.cache, cacheBooking, cacheGetBooking, id)

	if cacheable && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	if cacheable {
		shared.CacheInBackground(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)
	}

	return res, nil
}

// Stats summarizes every booking for the dashboard: counts per status, paid revenue,
// today's occupancy, the last twelve months of revenue and bookings per room type.
func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Stats")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey, cacheable := shared.VersionedCacheKey(ctx, s.cache, cacheBooking, cacheStatsBooking)

	if cacheable && s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	today := timezone.Today()
	since := time.Date(today.Year(), today.Month()-(revenueMonths-1), 1, 0, 0, 0, 0, time.UTC)

	stats, err := s.repo.Stats(ctx, today)
	if err != nil {
		return res, err
	}

	monthly, err := s.repo.MonthlyRevenue(ctx, since)
	if err != nil {
		return res, err
	}

	byType, err := s.repo.CountByRoomType(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(stats, monthly, byType)

	if cacheable {
		shared.CacheInBackground(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)
	}

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, req.Status) {
		return failure.Conflict(fmt.Sprintf("booking cannot move from %s to %s", booking.Status, req.Status))
	}

	err = s.repo.Transition(ctx, id, shared.TransformFields(req, shared.Actor(ctx)), guard(model.FieldStatus, gDto.FilterOperatorEq, booking.Status))
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	shared.BumpCacheGeneration(ctx, s.cache, cacheBooking)
	s.publish(ctx, constant.EventBookingStatusChanged, booking, booking.Status, req.Status)

	return nil
}

func (s *serviceImpl) UpdatePaymentStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdatePaymentStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransitionPayment(booking.PaymentStatus, req.PaymentStatus) {
		return failure.Conflict(fmt.Sprintf("payment cannot move from %s to %s", booking.PaymentStatus, req.PaymentStatus))
	}

	if req.PaymentStatus == model.PaymentPaid && booking.Status == model.StatusCancelled {
		return failure.Conflict("a cancelled booking cannot be paid")
	}

	guards := []gDto.Filter{guard(model.FieldPaymentStatus, gDto.FilterOperatorEq, booking.PaymentStatus)}
	if req.PaymentStatus == model.PaymentPaid {
		guards = append(guards, guard(model.FieldStatus, gDto.FilterOperatorNotEq, model.StatusCancelled))
	}

	if err = s.repo.Transition(ctx, id, shared.TransformFields(req, shared.Actor(ctx)), guards...); err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to update payment status")

		return fmt.Errorf("failed to update payment status: %w", err)
	}

	shared.BumpCacheGeneration(ctx, s.cache, cacheBooking)
	s.publish(ctx, constant.EventBookingPaymentChanged, booking, booking.PaymentStatus, req.PaymentStatus)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := filterByID(id)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound("booking not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	shared.BumpCacheGeneration(ctx, s.cache, cacheBooking)

	return nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, filterByID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

func (s *serviceImpl) publish(ctx context.Context, event string, booking model.Booking, from, to string) {
	msg := kafka.Message{
		Key:   booking.ID,
		Event: event,
		Value: dto.BookingEvent{
			Event:      event,
			BookingID:  booking.ID,
			RoomID:     booking.RoomID,
			From:       from,
			To:         to,
			Actor:      shared.Actor(ctx),
			OccurredAt: timezone.Now(),
		},
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Booking, msg); err != nil {
			log.Error().Err(err).Str("event", event).Msg("failed to publish booking event")
		}
	}()
}

// guard matches a booking whose column still compares to value as it did when read.
// Arguments are prefixed so they never collide with the columns being written.
func guard(column, operator, value string) gDto.Filter {
	return gDto.Filter{
		ArgName:  "guard_" + column,
		Field:    column,
		Value:    value,
		Operator: operator,
		Table:    model.TableName,
	}
}

func filterByID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}
