package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"inap/config"
	"inap/infras/kafka"
	"inap/infras/otel"
	"inap/internal/domains/room/model"
	"inap/internal/domains/room/model/dto"
	"inap/internal/domains/room/repository"
	"inap/shared"
	"inap/shared/cache"
	"inap/shared/constant"
	gDto "inap/shared/dto"
	"inap/shared/failure"
	"inap/shared/timezone"

	"github.com/rs/zerolog/log"
)

// cacheRoom versions every cached room read. Writers bump it after commit.
const cacheRoom = "room"

const (
	cacheGetRoom       = "get"
	cacheGetRoomBySlug = "slug"
	cacheGetAllRoom    = "gets"
	cacheCountRoom     = "count"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.CreateRoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	GetBySlug(ctx context.Context, slug string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateRoomStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	kafka kafka.Client
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Room {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		kafka: kafka,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.CreateRoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	room := req.ToModel(shared.Actor(ctx))

	written, err := s.repo.CreateAggregate(ctx, room, req.ToLinks())
	if err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	logDuplicates(room.ID, written)

	shared.BumpCacheGeneration(ctx, s.cache, cacheRoom)

	return dto.CreateRoomResponse{ID: room.ID, Slug: room.Slug}, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	shared.SanitizeSort(&req, model.FieldCreatedAt, gDto.SortDirDesc,
		model.FieldName, model.FieldBasePrice, model.FieldMaxGuests, model.FieldCreatedAt, model.FieldID)

	cacheKey, cacheable := shared.VersionedCacheKey(ctx, s.cache, cacheRoom, shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter))

	if cacheable && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	aggs, err := s.repo.GetAggregates(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to read room: %w", err)
	}

	res.FromModels(aggs, total, req.Limit)

	if cacheable {
		shared.CacheInBackground(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)
	}

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey, cacheable := shared.VersionedCacheKey(ctx, s.cache, cacheRoom, shared.BuildCacheKeyWithQuery(cacheCountRoom, gDto.QueryParams{}, filter))

	if cacheable && s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	if cacheable {
		shared.CacheInBackground(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.getAggregate(ctx, shared.FilterByID(id, model.FieldID, model.TableName), cacheGetRoom, id)
}

func (s *serviceImpl) GetBySlug(ctx context.Context, slug string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetBySlug")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.getAggregate(ctx, shared.FilterByID(slug, model.FieldSlug, model.TableName), cacheGetRoomBySlug, slug)
}

func (s *serviceImpl) getAggregate(ctx context.Context, filter gDto.FilterGroup, keyParts ...string) (res dto.RoomResponse, err error) {
	cacheKey, cacheable := shared.VersionedCacheKey(ctx, s.cache, cacheRoom, keyParts...)

	if cacheable && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	agg, err := s.repo.GetAggregate(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to read room: %w", err)
	}

	if agg.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	res.FromModel(agg)

	if cacheable {
		shared.CacheInBackground(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)
	}

	return res, nil
}

// Update replaces the room's scalar fields, amenities, features and images in one
// transaction. The cache generation is bumped after commit, before the call returns.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	written, err := s.repo.ReplaceAggregate(ctx, req.ToModel(id, shared.Actor(ctx)), req.ToLinks())
	if err != nil {
		log.Error().Err(err).Str("room", id).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	logDuplicates(id, written)

	shared.BumpCacheGeneration(ctx, s.cache, cacheRoom)
	s.publish(ctx, constant.EventRoomUpdated, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateRoomStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.Actor(ctx),
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room status")

		return fmt.Errorf("failed to update room status: %w", err)
	}

	shared.BumpCacheGeneration(ctx, s.cache, cacheRoom)
	s.publish(ctx, constant.EventRoomUpdated, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = s.repo.DeleteAggregate(ctx, id); err != nil {
		log.Error().Err(err).Str("room", id).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	shared.BumpCacheGeneration(ctx, s.cache, cacheRoom)
	s.publish(ctx, constant.EventRoomDeleted, id)

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, event, id string) {
	msg := kafka.Message{
		Key:   id,
		Event: event,
		Value: dto.RoomEvent{
			Event:      event,
			RoomID:     id,
			Actor:      shared.Actor(ctx),
			OccurredAt: timezone.Now(),
		},
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Room, msg); err != nil {
			log.Error().Err(err).Str("event", event).Msg("failed to publish room event")
		}
	}()
}

func logDuplicates(id string, written model.WriteResult) {
	if dup := model.Duplicates(written.Amenities); len(dup) > 0 {
		log.Debug().Str("room", id).Strs("amenities", dup).Msg("duplicate amenity ids were already present")
	}

	if dup := model.Duplicates(written.Features); len(dup) > 0 {
		log.Debug().Str("room", id).Strs("features", dup).Msg("duplicate feature ids were already present")
	}
}
