package bot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"easypcm_backend/platform/logger"
)

type fakeEventRegister struct {
	calls int
	fresh bool
}

func (f *fakeEventRegister) RegisterEventIfNew(_ context.Context, _, _ string, _ []byte) (bool, error) {
	f.calls++
	return f.fresh, nil
}

func TestDeduper_RedisFastPath(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &fakeEventRegister{fresh: true}
	d := NewDeduper(repo, client, time.Hour, logger.New("development"))

	seen, err := d.Seen(context.Background(), "upd:1", "500", nil)
	if err != nil {
		t.Fatalf("first Seen: %v", err)
	}
	if seen {
		t.Fatal("first delivery must not be seen")
	}
	if repo.calls != 1 {
		t.Fatalf("expected 1 ledger write, got %d", repo.calls)
	}

	seen, err = d.Seen(context.Background(), "upd:1", "500", nil)
	if err != nil {
		t.Fatalf("second Seen: %v", err)
	}
	if !seen {
		t.Fatal("redelivery must be seen")
	}
	if repo.calls != 1 {
		t.Fatalf("fast path must skip the ledger, got %d calls", repo.calls)
	}
}

func TestDeduper_FallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	repo := &fakeEventRegister{fresh: false}
	d := NewDeduper(repo, client, time.Hour, logger.New("development"))

	seen, err := d.Seen(context.Background(), "upd:2", "500", nil)
	if err != nil {
		t.Fatalf("Seen with redis down: %v", err)
	}
	if !seen {
		t.Fatal("ledger says duplicate; fallback must report seen")
	}
	if repo.calls != 1 {
		t.Fatalf("expected ledger fallback, got %d calls", repo.calls)
	}
}

func TestDeduper_WorksWithoutRedis(t *testing.T) {
	repo := &fakeEventRegister{fresh: true}
	d := NewDeduper(repo, nil, time.Hour, logger.New("development"))

	seen, err := d.Seen(context.Background(), "upd:3", "500", nil)
	if err != nil {
		t.Fatalf("Seen without redis: %v", err)
	}
	if seen {
		t.Fatal("fresh ledger row must not be seen")
	}
	if repo.calls != 1 {
		t.Fatalf("expected 1 ledger write, got %d", repo.calls)
	}
}
