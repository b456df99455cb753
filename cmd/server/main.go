package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"cabbook/internal/app"
	"cabbook/internal/config"
	"cabbook/internal/events"
	"cabbook/internal/handler"
	"cabbook/internal/logging"
	internalRedis "cabbook/internal/redis"
	"cabbook/internal/repository"
	"cabbook/internal/repository/memory"
	"cabbook/internal/repository/postgres"
	"cabbook/internal/service"
)

func main() {
	// Load .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the datastores can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", "err", err)
		} else {
			logger.Info("New Relic enabled", "app", cfg.NewRelic.AppName)
		}
	}

	// Redis backs the durable snapshot slot in every storage mode.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	logger.Info("connected to Redis", "addr", cfg.Redis.Addr)

	catalog := service.NewCatalog()
	snapshots := internalRedis.NewSnapshotStore(redisClient)

	userRepo, bookingRepo, err := buildRepositories(ctx, cfg, nrApp, snapshots, catalog, logger)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	// Booking events go to Kafka when brokers are configured.
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
		logger.Info("publishing booking events", "topic", cfg.Kafka.Topic)
	}

	server := wireServer(cfg, logger, redisClient, nrApp, snapshots, catalog, userRepo, bookingRepo, publisher)

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	logger.Info("server exited")
}

// buildRepositories selects the storage implementation. The default memory
// mode rehydrates from the Redis snapshot slot; postgres mode uses the SQL
// repositories and seeds the demo fixtures into an empty database.
func buildRepositories(
	ctx context.Context,
	cfg *config.Config,
	nrApp *newrelic.Application,
	snapshots *internalRedis.SnapshotStore,
	catalog *service.Catalog,
	logger *slog.Logger,
) (repository.UserRepository, repository.BookingRepository, error) {
	if cfg.Storage.Driver == "postgres" {
		db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to PostgreSQL", "db", cfg.Database.DBName)

		if cfg.Storage.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return nil, nil, err
			}
		}

		userRepo := postgres.NewUserRepository(db)
		bookingRepo := postgres.NewBookingRepository(db)

		if err := userRepo.Seed(ctx, app.DemoDirectory()); err != nil {
			return nil, nil, err
		}
		existing, err := bookingRepo.GetAll(ctx)
		if err != nil {
			return nil, nil, err
		}
		if len(existing) == 0 {
			if err := bookingRepo.Seed(ctx, app.SampleBookings(catalog)); err != nil {
				return nil, nil, err
			}
		}

		return userRepo, bookingRepo, nil
	}

	bookingRepo, err := memory.NewBookingRepository(ctx, snapshots, app.SampleBookings(catalog))
	if err != nil {
		return nil, nil, err
	}
	return memory.NewUserRepository(app.DemoDirectory()), bookingRepo, nil
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	cfg *config.Config,
	logger *slog.Logger,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	snapshots *internalRedis.SnapshotStore,
	catalog *service.Catalog,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	publisher events.Publisher,
) *http.Server {
	// Distance estimation: routing service when configured, random stand-in otherwise.
	var router service.DistanceEstimator
	if cfg.Routing.Endpoint != "" {
		router = service.NewOSRMEstimator(cfg.Routing.Endpoint, cfg.Routing.Timeout)
	}
	fallback := service.NewRandomEstimator()

	// Initialize services.
	notificationService := service.NewNotificationService(logger, publisher)
	authService := service.NewAuthService(userRepo, snapshots, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	bookingService := service.NewBookingService(bookingRepo, catalog, router, fallback, notificationService)

	// Initialize handlers.
	authHandler := handler.NewAuthHandler(authService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	catalogHandler := handler.NewCatalogHandler(catalog)

	// Create router.
	engine := app.NewRouter(app.RouterDeps{
		AuthHandler:    authHandler,
		BookingHandler: bookingHandler,
		CatalogHandler: catalogHandler,
		AuthService:    authService,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
