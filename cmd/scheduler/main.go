package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"easypcm_backend/internal/bot"
	identityrepo "easypcm_backend/internal/identity/repository"
	"easypcm_backend/internal/scheduler"
	"easypcm_backend/platform/config"
	"easypcm_backend/platform/db"
	"easypcm_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the scheduler")
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	worker, err := scheduler.NewWorker(cfg, identityrepo.New(pool), bot.NewRepository(pool), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	if err := worker.Run(ctx); err != nil {
		log.Error("scheduler stopped", "error", err)
		panic("scheduler stopped: " + err.Error())
	}
}
