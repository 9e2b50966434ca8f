package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"shopify-insights-service/internal/application"
	"shopify-insights-service/internal/config"
	apiinfra "shopify-insights-service/internal/infrastructure/api"
	authinfra "shopify-insights-service/internal/infrastructure/auth"
	"shopify-insights-service/internal/infrastructure/cache"
	"shopify-insights-service/internal/infrastructure/metrics"
	"shopify-insights-service/internal/infrastructure/repository"
	shopifyinfra "shopify-insights-service/internal/infrastructure/shopify"
	"shopify-insights-service/internal/ports"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := repository.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}

	// Repositories
	tenantRepo := repository.NewGormTenantRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	catalogStore := repository.NewGormCatalogStore(db)
	dashboardRepo := repository.NewGormDashboardRepository(db)

	// Source: live Admin API or the deterministic mock
	var source ports.Source
	if cfg.UseShopifyAPI {
		source = shopifyinfra.NewLiveSource(shopifyinfra.Config{
			APIVersion:   cfg.ShopifyAPIVersion,
			ListTimeout:  cfg.ListTimeout,
			ProbeTimeout: cfg.ProbeTimeout,
		}, logger)
	} else {
		source = shopifyinfra.NewMockSource(logger)
	}
	logger.Info().Str("mode", string(source.Mode())).Msg("Shopify source configured")

	// Optional dashboard snapshot cache
	var snapshots ports.SnapshotCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		snapshots = cache.NewRedisSnapshotCache(redisClient, cfg.SnapshotTTL, logger)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("Dashboard snapshot cache enabled")
	}

	registry := prometheus.NewRegistry()
	ingestionMetrics := metrics.NewIngestion(registry)

	tokens := authinfra.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Application services
	tenantService := application.NewTenantService(tenantRepo, logger)
	authService := application.NewAuthService(userRepo, tenantRepo, tokens, logger)
	ingestionService := application.NewIngestionService(tenantRepo, catalogStore, source, ingestionMetrics, snapshots, logger)
	dashboardService := application.NewDashboardService(dashboardRepo, snapshots, logger)

	handlers := apiinfra.NewHandlers(tenantService, authService, ingestionService, dashboardService, logger)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tenants", handlers.CreateTenant)
		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		// Everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(apiinfra.RequireAuth(authService, logger))
			r.Post("/ingest/shopify/products", handlers.IngestProducts)
			r.Post("/ingest/shopify/orders", handlers.IngestOrders)
			r.Post("/ingest/shopify/customers", handlers.IngestCustomers)
			r.Get("/ingest/shopify/test-connection", handlers.TestConnection)
			r.Get("/dashboard", handlers.Dashboard)
		})
	})

	logger.Info().Str("port", cfg.Port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
