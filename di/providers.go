package di

import (
	"inap/config"
	"inap/infras/otel"
	"inap/infras/postgres"
	"inap/internal/domains/masterdata/model"
	"inap/internal/domains/masterdata/repository"
	"inap/internal/domains/masterdata/service"
	"inap/internal/handlers/masterdata"
	"inap/shared/cache"
)

// ProvideMasterDataHandlers builds one handler per master data kind.
func ProvideMasterDataHandlers(cfg *config.Config, db *postgres.Connection, redisCache cache.RedisCache, ot otel.Otel) masterdata.Handlers {
	handlers := make(masterdata.Handlers, 0, len(model.Kinds))

	for _, kind := range model.Kinds {
		repo := repository.New(kind, db, ot)
		handlers = append(handlers, masterdata.New(service.New(kind, repo, cfg, redisCache, ot), ot))
	}

	return handlers
}
