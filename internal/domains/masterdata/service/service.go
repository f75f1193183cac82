package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"inap/config"
	"inap/infras/otel"
	"inap/internal/domains/masterdata/model"
	"inap/internal/domains/masterdata/model/dto"
	"inap/internal/domains/masterdata/repository"
	"inap/shared"
	"inap/shared/cache"
	"inap/shared/constant"
	"inap/shared/failure"
	"inap/shared/sequence"
	"inap/shared/timezone"

	"github.com/rs/zerolog/log"
)

// roomCacheNamespace versions every cached room read, which embeds master data labels.
const roomCacheNamespace = "room"

type MasterData interface {
	Kind() model.Kind
	GetAll(ctx context.Context, search string) ([]dto.Response, error)
	Get(ctx context.Context, id string) (dto.Response, error)
	Create(ctx context.Context, req dto.Request) (dto.Response, error)
	Update(ctx context.Context, req dto.Request, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	kind  model.Kind
	repo  repository.MasterData
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(kind model.Kind, repo repository.MasterData, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) MasterData {
	return &serviceImpl{
		kind:  kind,
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Kind() model.Kind {
	return s.kind
}

func (s *serviceImpl) cacheNamespace() string {
	return shared.BuildCacheKey(model.CachePrefix, s.kind.Key)
}

func (s *serviceImpl) GetAll(ctx context.Context, search string) (res []dto.Response, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+"."+s.kind.Key+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey, cacheable := shared.VersionedCacheKey(ctx, s.cache, s.cacheNamespace(), "list", search)

	var items []model.Item

	if cacheable && s.cache.Get(ctx, cacheKey, &items) == nil {
		return dto.FromModels(s.kind, items), nil
	}

	items, err = s.repo.GetAll(ctx, search)
	if err != nil {
		log.Error().Err(err).Str("kind", s.kind.Key).Msg("failed to list master data")

		return nil, fmt.Errorf("failed to list %s: %w", s.kind.Name, err)
	}

	if cacheable {
		shared.CacheInBackground(ctx, s.cache, cacheKey, items, s.cfg.Cache.TTL)
	}

	return dto.FromModels(s.kind, items), nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.Response, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+"."+s.kind.Key+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, fmt.Errorf("failed to get %s: %w", s.kind.Name, err)
	}

	if item.ID == constant.Empty {
		return res, failure.NotFound(s.kind.Name + " not found") // nolint:wrapcheck
	}

	res.FromModel(s.kind, item)

	return res, nil
}

// Create allocates the next <prefix>-<n> identifier and inserts the row, retrying
// allocation when a concurrent insert took the same identifier.
func (s *serviceImpl) Create(ctx context.Context, req dto.Request) (res dto.Response, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+"."+s.kind.Key+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	label, err := req.Label(s.kind)
	if err != nil {
		return res, err
	}

	user := shared.Actor(ctx)
	now := timezone.Now()

	item := model.Item{Label: label}
	item.CreatedAt, item.ModifiedAt = now, now
	item.CreatedBy, item.ModifiedBy = user, user

	id, err := sequence.Allocate(ctx, s.kind.Prefix, s.cfg.App.Allocator.MaxAttempts, s.repo.ListIDs,
		func(ctx context.Context, id string) error {
			item.ID = id

			return s.repo.Insert(ctx, item)
		})
	if err != nil {
		log.Error().Err(err).Str("kind", s.kind.Key).Msg("failed to create master data")

		return res, err
	}

	item.ID = id

	shared.BumpCacheGeneration(ctx, s.cache, s.cacheNamespace())

	res.FromModel(s.kind, item)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.Request, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+"."+s.kind.Key+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	label, err := req.Label(s.kind)
	if err != nil {
		return err
	}

	item := model.Item{ID: id, Label: label}
	item.ModifiedAt = timezone.Now()
	item.ModifiedBy = shared.Actor(ctx)

	if err = s.repo.UpdateLabel(ctx, item); err != nil {
		log.Error().Err(err).Str("kind", s.kind.Key).Str("id", id).Msg("failed to update master data")

		return err
	}

	shared.BumpCacheGeneration(ctx, s.cache, s.cacheNamespace())
	shared.BumpCacheGeneration(ctx, s.cache, roomCacheNamespace)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+"."+s.kind.Key+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = s.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("kind", s.kind.Key).Str("id", id).Msg("failed to delete master data")

		return err
	}

	shared.BumpCacheGeneration(ctx, s.cache, s.cacheNamespace())

	return nil
}
