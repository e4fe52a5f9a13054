package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"go.uber.org/zap"
)

func TestDisabledCacheIsAlwaysAMiss(t *testing.T) {
	ctx := context.Background()
	lb := NewLeaderboardCache(NewRedisCache(nil))

	if err := lb.Put(ctx, &domain.LeaderboardPage{Page: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := lb.Get(ctx, 1); ok {
		t.Fatal("disabled cache returned a page")
	}
	if err := lb.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	done := make(chan struct{})
	go func() {
		lb.Listen(ctx, func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen blocked on a disabled cache")
	}
}

func TestNewClientWithoutAddress(t *testing.T) {
	if c := NewClient(context.Background(), "", "", zap.NewNop().Sugar()); c != nil {
		t.Fatal("expected nil client")
	}
}

func TestLeaderboardCacheAgainstRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := NewClient(ctx, addr, "", zap.NewNop().Sugar())
	if client == nil {
		t.Fatal("redis unreachable")
	}
	defer client.Close()

	lb := NewLeaderboardCache(NewRedisCache(client))
	page := &domain.LeaderboardPage{Page: 3, TotalPages: 4, Entries: []domain.LeaderboardEntry{{Rank: 21, Nickname: "ana"}}}
	if err := lb.Put(ctx, page); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok := lb.Get(ctx, 3)
	if !ok || got.Entries[0].Nickname != "ana" {
		t.Fatalf("get = %+v, %v", got, ok)
	}

	refreshed := make(chan struct{}, 1)
	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go lb.Listen(listenCtx, func() { refreshed <- struct{}{} })
	time.Sleep(100 * time.Millisecond)

	if err := lb.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok := lb.Get(ctx, 3); ok {
		t.Fatal("page survived invalidation")
	}
	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh notification")
	}
}
