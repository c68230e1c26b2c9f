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

	"easypcm_backend/internal/api"
	"easypcm_backend/internal/bot"
	"easypcm_backend/internal/email"
	"easypcm_backend/internal/exports"
	"easypcm_backend/internal/extraction"
	identityrepo "easypcm_backend/internal/identity/repository"
	identitysvc "easypcm_backend/internal/identity/service"
	"easypcm_backend/internal/telegram"
	workorderrepo "easypcm_backend/internal/workorder/repository"
	workordersvc "easypcm_backend/internal/workorder/service"
	"easypcm_backend/migrations"
	"easypcm_backend/platform/config"
	"easypcm_backend/platform/db"
	"easypcm_backend/platform/events"
	"easypcm_backend/platform/httpkit"
	"easypcm_backend/platform/logger"
	"easypcm_backend/platform/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Redis is optional; without it dedup falls back to the events table.
	var redisClient *redis.Client
	if cfg.GetRedisURL() != "" {
		opt, err := redis.ParseURL(cfg.GetRedisURL())
		if err != nil {
			log.Error("invalid REDIS_URL", "error", err)
			panic("invalid REDIS_URL: " + err.Error())
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
	} else {
		log.Warn("REDIS_URL not configured; dedup fast path disabled")
	}

	tgClient := telegram.NewClient(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	identityService := identitysvc.New(identityrepo.New(pool), eventBus, cfg.GetInviteTTLDays())
	workOrderService := workordersvc.New(workorderrepo.New(pool), eventBus)

	var extractor bot.Extractor
	if cfg.IsExtractionEnabled() {
		extractionService, err := extraction.NewService(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize extraction service", "error", err)
			panic("failed to initialize extraction service: " + err.Error())
		}
		extractor = extractionService
		log.Info("extraction service initialized", "model", cfg.GetGeminiModel())
	} else {
		log.Warn("GEMINI_API_KEY not configured; /registrar extraction disabled")
	}

	var exporter api.Exporter
	if cfg.IsMinIOEnabled() {
		storage, err := exports.NewStorage(cfg)
		if err != nil {
			log.Error("failed to initialize export storage", "error", err)
			panic("failed to initialize export storage: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure exports bucket", 5, 2*time.Second, func() error {
			return storage.EnsureBucketExists(ctx)
		}); err != nil {
			log.Error("failed to ensure exports bucket exists", "error", err)
			panic("failed to ensure exports bucket exists: " + err.Error())
		}
		exporter = exports.NewService(workOrderService, storage, log)
		log.Info("export storage initialized", "bucket", cfg.GetMinIOBucketExports())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; CSV exports disabled")
	}

	if cfg.GetEmailEnabled() {
		notifier := email.NewNotifier(email.NewSMTPSender(cfg), cfg.GetEmailToAddress(), log)
		notifier.Subscribe(eventBus)
		log.Info("closure email notifications enabled", "to", cfg.GetEmailToAddress())
	}

	botModule, err := bot.NewModule(pool, redisClient, identityService, workOrderService, extractor, tgClient, cfg, log)
	if err != nil {
		log.Error("failed to initialize bot module", "error", err)
		panic("failed to initialize bot module: " + err.Error())
	}
	apiModule := api.NewModule(workOrderService, exporter, val, cfg)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(httpkit.NewIPRateLimiter(rate.Limit(10), 30, log).RateLimit())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetCORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	botModule.RegisterRoutes(engine)
	apiModule.RegisterRoutes(engine)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: engine}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
