package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	petstoreserver "github.com/petstore/go-petstore-server/go"

	customersmemory "github.com/petstore/go-petstore-server/internal/domains/customers/adapters/memory"
	customersobs "github.com/petstore/go-petstore-server/internal/domains/customers/adapters/observability"
	customerspostgres "github.com/petstore/go-petstore-server/internal/domains/customers/adapters/persistence/postgres"
	customersapp "github.com/petstore/go-petstore-server/internal/domains/customers/application"
	customersports "github.com/petstore/go-petstore-server/internal/domains/customers/ports"

	ordersmemory "github.com/petstore/go-petstore-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/petstore/go-petstore-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/petstore/go-petstore-server/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/petstore/go-petstore-server/internal/domains/orders/application"
	ordersports "github.com/petstore/go-petstore-server/internal/domains/orders/ports"

	petsmemory "github.com/petstore/go-petstore-server/internal/domains/pets/adapters/memory"
	petsobs "github.com/petstore/go-petstore-server/internal/domains/pets/adapters/observability"
	petspostgres "github.com/petstore/go-petstore-server/internal/domains/pets/adapters/persistence/postgres"
	petsapp "github.com/petstore/go-petstore-server/internal/domains/pets/application"
	petsports "github.com/petstore/go-petstore-server/internal/domains/pets/ports"

	"github.com/petstore/go-petstore-server/internal/platform/migrations"
	platformobservability "github.com/petstore/go-petstore-server/internal/platform/observability"
	platformpostgres "github.com/petstore/go-petstore-server/internal/platform/postgres"
)

const serviceName = "petstore-api"

// Run boots the pet store HTTP API with observability and repositories wired.
func Run(ctx context.Context) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	cfg := LoadConfig()

	repos, cleanupRepos := buildRepositories(ctx, cfg, logger)
	defer cleanupRepos()

	petService := petsobs.New(
		petsapp.NewService(repos.pets),
		petsobs.WithLogger(logger),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)
	customerService := customersobs.New(
		customersapp.NewService(repos.customers),
		customersobs.WithLogger(logger),
		customersobs.WithTracer(instruments.Tracer("internal.customers.application")),
		customersobs.WithMeter(instruments.Meter("internal.customers.application")),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(repos.orders, repos.pets, repos.customers, repos.uow),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	handlers := petstoreserver.ApiHandleFunctions{
		PetAPI:      petstoreserver.NewPetAPI(petService),
		OrderAPI:    petstoreserver.NewOrderAPI(orderService),
		CustomerAPI: petstoreserver.NewCustomerAPI(customerService),
	}

	router := petstoreserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	logger.Info("pet store API listening", slog.String("addr", cfg.Addr()))
	if err := router.Run(cfg.Addr()); err != nil {
		logger.Error("pet store API server exited", slog.String("addr", cfg.Addr()), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type repositories struct {
	pets      petsports.Repository
	orders    ordersports.Repository
	customers customersports.Repository
	uow       ordersports.UnitOfWork
}

// buildRepositories wires the postgres adapters when a DSN is configured and
// reachable, and the in-memory adapters otherwise. Both sets satisfy the same
// ports, including the conditional-update contract the reservation relies on.
func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryRepositories(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		pets:      petspostgres.NewRepository(db),
		orders:    orderspostgres.NewRepository(db),
		customers: customerspostgres.NewRepository(db),
		uow:       orderspostgres.NewUnitOfWork(db),
	}, closeFunc(db)
}

func memoryRepositories() repositories {
	pets := petsmemory.NewRepository()
	orders := ordersmemory.NewRepository()
	return repositories{
		pets:      pets,
		orders:    orders,
		customers: customersmemory.NewRepository(),
		uow:       ordersmemory.NewUnitOfWork(orders, pets),
	}
}

func closeFunc(db *gorm.DB) func() {
	return func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
