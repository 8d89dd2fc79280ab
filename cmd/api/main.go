package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopify-mirror/docs"
	"shopify-mirror/internal/application"
	"shopify-mirror/internal/config"
	"shopify-mirror/internal/domain"
	apiinfra "shopify-mirror/internal/infrastructure/api"
	"shopify-mirror/internal/infrastructure/database"
	"shopify-mirror/internal/infrastructure/metrics"
	"shopify-mirror/internal/infrastructure/pubsub"
	"shopify-mirror/internal/infrastructure/repository"
	shopifyinfra "shopify-mirror/internal/infrastructure/shopify"
	"shopify-mirror/internal/ports"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mirrormiddleware "shopify-mirror/internal/infrastructure/middleware"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger = newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Relational mirror
	if cfg.Postgres.AutoMigrate {
		if err := database.RunMigrations(cfg.Postgres.URL); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logger.Info().Msg("Database migrations applied")
	}

	db, err := database.Connect(ctx, cfg.Postgres.URL, database.PoolOptions{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer db.Close()

	tenantRepo := repository.NewPostgresTenantRepository(db)
	customerRepo := repository.NewPostgresCustomerRepository(db)
	productRepo := repository.NewPostgresProductRepository(db)
	orderRepo := repository.NewPostgresOrderRepository(db)

	// Activity log
	var eventRepo ports.EventRepository
	if cfg.Mongo.URI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer client.Disconnect(context.Background())

		mongoEvents := repository.NewMongoEventRepository(client.Database(cfg.Mongo.Database))
		if err := mongoEvents.EnsureIndexes(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to create event indexes")
		}
		eventRepo = mongoEvents
		logger.Info().Str("database", cfg.Mongo.Database).Msg("Activity log stored in MongoDB")
	} else {
		eventRepo = repository.NewMemoryEventRepository(repository.DefaultMemoryEventCapacity)
		logger.Info().Msg("MONGODB_URI not set, activity log kept in memory")
	}

	// Sync status
	var statusStore ports.SyncStatusStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		}
		statusStore = repository.NewRedisSyncStatusRepository(rdb)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Sync status stored in Redis")
	} else {
		statusStore = repository.NewMemorySyncStatusRepository()
		logger.Info().Msg("REDIS_ADDR not set, sync status kept in memory")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Shopify
	clientFactory := shopifyinfra.NewClientFactory(shopifyinfra.FactoryOptions{
		APIVersion: cfg.Shopify.APIVersion,
		Metrics:    collector,
	}, logger)
	tokenManager := shopifyinfra.NewTokenManager(clientFactory, logger)

	// Initialize application services
	eventPubSub := pubsub.NewEventPubSub(logger)
	activity := application.NewActivityRecorder(eventRepo, statusStore, eventPubSub, collector, logger)

	mirrorService := application.NewMirrorService(
		tenantRepo,
		customerRepo,
		productRepo,
		orderRepo,
		clientFactory,
		activity,
		logger,
	)
	dashboardService := application.NewDashboardService(customerRepo, productRepo, orderRepo, logger)

	var bootstrap domain.Credentials
	if cfg.Shopify.HasBootstrapStore() {
		bootstrap = domain.Credentials{
			ShopDomain:  domain.ShopifyDomainForStore(cfg.Shopify.StoreName),
			AccessToken: cfg.Shopify.AccessToken,
		}
	} else {
		logger.Warn().Msg("SHOPIFY_STORE_NAME or SHOPIFY_ACCESS_TOKEN not set, GET /api/tenant is disabled")
	}
	tenantService := application.NewTenantService(tenantRepo, clientFactory, tokenManager, bootstrap, logger)

	router := apiinfra.NewRouter(apiinfra.RouterDeps{
		Dashboard: dashboardService,
		Mirror:    mirrorService,
		Tenants:   tenantService,
		Activity:  activity,
		Stream:    eventPubSub,
		Health:    db.PingContext,
		Metrics:   metrics.Handler(registry),
		Docs:      docs.Handler(),
		AllowedOrigins: []string{
			cfg.Server.FrontendURL,
		},
		Middleware: []func(http.Handler) http.Handler{
			mirrormiddleware.RequestLogger(logger),
			collector.Middleware,
			mirrormiddleware.TenantIDMiddleware(logger),
		},
		Logger: logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("Starting API server")
		logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Server.Port + "/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil || cfg.Logger.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}
