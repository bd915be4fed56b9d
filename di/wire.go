//go:build wireinject
// +build wireinject

package di

import (
	"warehub/config"
	"warehub/infras/jwt"
	"warehub/infras/kafka"
	"warehub/infras/otel"
	"warehub/infras/postgres"
	"warehub/infras/redis"
	"warehub/infras/s3"
	"warehub/permissions"
	"warehub/shared/cache"
	"warehub/transport/http"
	"warehub/transport/http/middleware"
	"warehub/transport/http/router"
	"warehub/transport/worker"

	"github.com/google/wire"

	authService "warehub/internal/domains/auth/service"
	availabilityService "warehub/internal/domains/availability/service"
	bookingRepository "warehub/internal/domains/booking/repository"
	bookingService "warehub/internal/domains/booking/service"
	notificationEvent "warehub/internal/domains/notification/event"
	notificationRepository "warehub/internal/domains/notification/repository"
	notificationService "warehub/internal/domains/notification/service"
	userRepository "warehub/internal/domains/user/repository"
	userService "warehub/internal/domains/user/service"
	warehouseRepository "warehub/internal/domains/warehouse/repository"
	warehouseService "warehub/internal/domains/warehouse/service"
	authHandler "warehub/internal/handlers/auth"
	bookingHandler "warehub/internal/handlers/booking"
	notificationHandler "warehub/internal/handlers/notification"
	userHandler "warehub/internal/handlers/user"
	warehouseHandler "warehub/internal/handlers/warehouse"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	kafka.New,
)

var httpInfrastructures = wire.NewSet(
	jwt.New,
	s3.New,
	permissions.Get,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	middleware.NewReconcileMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var availabilityDomain = wire.NewSet(
	bookingRepository.New,
	warehouseRepository.New,
	notificationEvent.NewPublisher,
	availabilityService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var domains = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
	warehouseService.New,
	bookingService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	warehouseHandler.New,
	bookingHandler.New,
	notificationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		httpInfrastructures,
		middlewares,
		sharedHelpers,
		availabilityDomain,
		notificationDomain,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *worker.Worker {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		availabilityDomain,
		notificationDomain,
		notificationEvent.NewConsumer,
		worker.New,
	)

	return &worker.Worker{}
}
