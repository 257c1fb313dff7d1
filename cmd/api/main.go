package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medoraclinic/medora-site/backend/internal/adapters/cache"
	"github.com/medoraclinic/medora-site/backend/internal/adapters/database"
	"github.com/medoraclinic/medora-site/backend/internal/adapters/storage"
	"github.com/medoraclinic/medora-site/backend/internal/api/handlers"
	"github.com/medoraclinic/medora-site/backend/internal/api/middleware"
	"github.com/medoraclinic/medora-site/backend/internal/api/routes"
	"github.com/medoraclinic/medora-site/backend/internal/application/services"
	"github.com/medoraclinic/medora-site/backend/internal/assets"
	"github.com/medoraclinic/medora-site/backend/internal/domain/providers"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/clients/postgres"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/clients/redis"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
	"github.com/medoraclinic/medora-site/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	log.Info().
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Env).
		Msg("Starting API server")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Redis only backs the response cache, so the API runs without it
	var cacheProvider providers.CacheProvider
	if cfg.Cache.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client; response cache disabled")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			log.Info().Msg("Redis client initialized successfully")
		}
	}

	objectStore, err := storage.NewR2Store(ctx, &cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}
	log.Info().Str("bucket", cfg.Storage.Bucket).Msg("Object storage initialized successfully")

	// Initialize adapters
	procedureAdapter := database.NewProcedureAdapter(pgClient)
	caseAdapter := database.NewProcedureCaseAdapter(pgClient)
	surgeonAdapter := database.NewSurgeonAdapter(pgClient)
	assetReferenceAdapter := database.NewAssetReferenceAdapter(pgClient)

	// Initialize services
	resolver := assets.NewResolver(cfg.Storage.PublicURL)
	cacheInvalidation := services.NewCacheInvalidationService(cacheProvider)

	contentService := services.NewContentService(procedureAdapter, caseAdapter, resolver)
	surgeonService := services.NewSurgeonService(surgeonAdapter, cacheInvalidation)
	caseService := services.NewCaseService(procedureAdapter, caseAdapter, cacheInvalidation)
	assetService := services.NewAssetService(objectStore, assetReferenceAdapter)

	// Initialize handlers
	procedureHandler := handlers.NewProcedureHandler(contentService)
	surgeonHandler := handlers.NewSurgeonHandler(surgeonService)
	caseHandler := handlers.NewCaseHandler(caseService)
	assetHandler := handlers.NewAssetHandler(assetService)

	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set; admin endpoints will reject every request")
	}
	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics, cfg.Cache.TTLSeconds)
		log.Info().Int("ttl_seconds", cfg.Cache.TTLSeconds).Msg("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		procedureHandler,
		surgeonHandler,
		caseHandler,
		assetHandler,
		authenticator,
		cacheMiddleware,
		cfg.CORS.AllowedOrigins,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
