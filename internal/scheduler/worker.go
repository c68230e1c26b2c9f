package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"easypcm_backend/platform/config"
	"easypcm_backend/platform/logger"
)

// InviteStore is the slice of the identity repository the worker needs.
type InviteStore interface {
	ExpireInvites(ctx context.Context) (int64, error)
}

// EventStore is the slice of the bot repository the worker needs.
type EventStore interface {
	PruneEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, invites InviteStore, events EventStore, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues: map[string]int{
			cfg.GetAsynqQueueName(): 1,
		},
	})

	retention := time.Duration(cfg.GetEventRetentionDays()) * 24 * time.Hour

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskInviteExpire, func(ctx context.Context, _ *asynq.Task) error {
		n, err := invites.ExpireInvites(ctx)
		if err != nil {
			return fmt.Errorf("expire invites: %w", err)
		}
		log.Info("invites_expired", slog.Int64("count", n))
		return nil
	})
	mux.HandleFunc(TaskEventPrune, func(ctx context.Context, _ *asynq.Task) error {
		n, err := events.PruneEvents(ctx, retention)
		if err != nil {
			return fmt.Errorf("prune events: %w", err)
		}
		log.Info("events_pruned", slog.Int64("count", n), slog.String("retention", retention.String()))
		return nil
	})

	sched := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})
	queue := asynq.Queue(cfg.GetAsynqQueueName())
	if _, err := sched.Register("@every 1h", NewInviteExpireTask(), queue); err != nil {
		return nil, fmt.Errorf("register invite expiry: %w", err)
	}
	if _, err := sched.Register("@every 6h", NewEventPruneTask(), queue); err != nil {
		return nil, fmt.Errorf("register event pruning: %w", err)
	}

	return &Worker{server: server, mux: mux, scheduler: sched, logger: log}, nil
}

// Run blocks until ctx is cancelled or either the task server or the
// periodic scheduler stops.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		w.logger.Info("scheduler_shutdown")
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	var g errgroup.Group
	g.Go(func() error {
		if err := w.server.Run(w.mux); err != nil {
			return fmt.Errorf("run worker: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := w.scheduler.Run(); err != nil {
			return fmt.Errorf("run periodic scheduler: %w", err)
		}
		return nil
	})
	return g.Wait()
}
