//go:build wireinject
// +build wireinject

package di

import (
	"inap/config"
	"inap/infras/kafka"
	"inap/infras/otel"
	"inap/infras/postgres"
	"inap/infras/redis"
	"inap/infras/s3"
	"inap/shared/cache"
	"inap/transport/http"
	"inap/transport/http/middleware"
	"inap/transport/http/router"

	authService "inap/internal/domains/auth/service"
	bookingRepository "inap/internal/domains/booking/repository"
	bookingService "inap/internal/domains/booking/service"
	roomRepository "inap/internal/domains/room/repository"
	roomService "inap/internal/domains/room/service"
	uploadService "inap/internal/domains/upload/service"
	userRepository "inap/internal/domains/user/repository"
	userService "inap/internal/domains/user/service"
	authHandler "inap/internal/handlers/auth"
	bookingHandler "inap/internal/handlers/booking"
	roomHandler "inap/internal/handlers/room"
	uploadHandler "inap/internal/handlers/upload"
	userHandler "inap/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var uploadDomain = wire.NewSet(
	uploadService.New,
)

var domains = wire.NewSet(
	userDomain,
	roomDomain,
	bookingDomain,
	uploadDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	ProvideMasterDataHandlers,
	roomHandler.New,
	bookingHandler.New,
	uploadHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
