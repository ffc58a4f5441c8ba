// cmd/api/main.go
// Main entry point for the Akwa-Connect API.
// This file bootstraps all components and starts the server.

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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/auth"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/common/database"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/common/logger"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/common/utils"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/config"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/dating"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/matching"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/messaging"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/middleware"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/profile"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "akwa-connect: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (.env first, then the environment)
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// 2. Logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting Akwa-Connect API",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. PostgreSQL
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	// 4. Redis (optional)
	redisClient := connectRedis(ctx, log, cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 5. Migrations
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// 6. Wire modules
	router, hub, scheduler := buildRouter(cfg, db, redisClient)

	go hub.Run(ctx)
	scheduler.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// 7. Serve until a signal arrives
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// connectRedis returns nil when Redis is not configured or unreachable;
// the API then runs without a match cache.
func connectRedis(ctx context.Context, log *zap.Logger, url string) *redis.Client {
	if url == "" {
		log.Warn("REDIS_URL not set, match cache disabled")
		return nil
	}
	client, err := database.NewRedisClient(ctx, url)
	if err != nil {
		log.Warn("redis unavailable, match cache disabled", zap.Error(err))
		return nil
	}
	log.Info("connected to Redis")
	return client
}

func buildRouter(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client) (http.Handler, *dating.Hub, *dating.Scheduler) {
	engineCfg := matching.DefaultConfig()
	engineCfg.Workers = cfg.Matching.ScoringWorkers
	engine := matching.NewEngine(engineCfg)

	cache := dating.NewMatchCache(redisClient, cfg.Matching.CacheTTL)

	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo, cache)
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret, profileService)

	hub := dating.NewHub(cfg.AllowedOrigins)
	datingRepo := dating.NewPostgresRepository(db)
	datingService := dating.NewService(engine, profileService, datingRepo, cache, hub, dating.Options{
		MaxCandidatePool:  cfg.Matching.MaxCandidatePool,
		SwipeLimitPerHour: cfg.Matching.SwipeLimitPerHour,
	})
	datingHandler := dating.NewHandler(datingService, dating.NewAdminService(datingRepo, profileService))
	scheduler := dating.NewScheduler(datingRepo, dating.NewMetricsCollector(datingRepo))

	messagingService := messaging.NewService(messaging.NewPostgresRepository(db), profileService, hub)
	hub.HandleFrames(messagingService)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(zap.L()))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(middleware.CORSOptions(cfg.AllowedOrigins)))

	r.Get("/health", healthCheck(db, redisClient))
	r.Handle("/metrics", promhttp.Handler())

	profile.RegisterRoutes(r, profile.NewHandler(profileService), authMiddleware)
	dating.RegisterRoutes(r, datingHandler, hub, authMiddleware)
	messaging.RegisterRoutes(r, messaging.NewHandler(messagingService), authMiddleware)

	return r, hub, scheduler
}

// healthCheck reports database and cache reachability
func healthCheck(db *sqlx.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{
			"status":    "healthy",
			"database":  "up",
			"cache":     "disabled",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		code := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			status["status"] = "unhealthy"
			status["database"] = "down"
			code = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			status["cache"] = "up"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				status["cache"] = "down"
			}
		}

		utils.SuccessResponse(w, status, code)
	}
}
