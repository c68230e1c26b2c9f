// Package scheduler runs the background maintenance tasks: expiring stale
// invites and pruning the inbound-event dedup ledger.
package scheduler

import (
	"crypto/tls"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	// TaskInviteExpire deactivates invites whose expiry has passed.
	TaskInviteExpire = "invites:expire"
	// TaskEventPrune deletes dedup ledger rows older than the retention
	// window.
	TaskEventPrune = "events:prune"
)

func NewInviteExpireTask() *asynq.Task {
	return asynq.NewTask(TaskInviteExpire, nil)
}

func NewEventPruneTask() *asynq.Task {
	return asynq.NewTask(TaskEventPrune, nil)
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		tlsConfig = opt.TLSConfig.Clone()
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
