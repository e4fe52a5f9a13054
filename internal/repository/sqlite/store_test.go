package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

func openTempStore(t *testing.T) *GuestStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "guests.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "guests.db")
	for i := 0; i < 2; i++ {
		store, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		_ = store.Close()
	}
}

func TestGuestStatsRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	empty, err := store.GetStats(ctx, "g1")
	if err != nil {
		t.Fatalf("get unknown: %v", err)
	}
	if empty != (domain.StatsRecord{}) {
		t.Fatalf("unknown guest = %+v, want zero", empty)
	}

	rec := domain.StatsRecord{Wins: 1, Losses: 2, Draws: 3, TotalScore: 42, TopTierCleared: true}
	if err := store.SaveStats(ctx, "g1", rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec.Wins = 2
	rec.TopTierCleared = false
	if err := store.SaveStats(ctx, "g1", rec); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := store.GetStats(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := domain.StatsRecord{Wins: 2, Losses: 2, Draws: 3, TotalScore: 42, TopTierCleared: true}
	if got != want {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}
}

func TestGuestMatchesAndPrune(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base }
	if err := store.SaveStats(ctx, "old", domain.StatsRecord{Losses: 1}); err != nil {
		t.Fatalf("save old: %v", err)
	}
	store.now = func() time.Time { return base.Add(48 * time.Hour) }
	if err := store.SaveStats(ctx, "new", domain.StatsRecord{Wins: 1}); err != nil {
		t.Fatalf("save new: %v", err)
	}

	board := domain.Board{domain.Player, domain.Player, domain.Player, domain.Bot, domain.Bot}
	for i, id := range []string{"m1", "m2"} {
		rec := domain.MatchRecord{
			MatchID: id, Tier: 1, Result: domain.PlayerWin, ScoreDelta: 7, Turns: 3,
			Board: board, FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.RecordMatch(ctx, "new", rec); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}
	if err := store.RecordMatch(ctx, "old", domain.MatchRecord{MatchID: "m3", Tier: 2, Result: domain.BotWin}); err != nil {
		t.Fatalf("record m3: %v", err)
	}

	matches, err := store.ListMatches(ctx, "new", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(matches) != 2 || matches[0].MatchID != "m2" || matches[1].Board != board {
		t.Fatalf("matches = %+v", matches)
	}

	n, err := store.PruneStaleGuests(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned %d guests, want 1", n)
	}
	if rec, _ := store.GetStats(ctx, "old"); rec != (domain.StatsRecord{}) {
		t.Fatalf("old guest survived prune: %+v", rec)
	}
	if left, _ := store.ListMatches(ctx, "old", 0); len(left) != 0 {
		t.Fatalf("old guest matches survived prune: %+v", left)
	}
	if rec, _ := store.GetStats(ctx, "new"); rec.Wins != 1 {
		t.Fatalf("new guest lost: %+v", rec)
	}
}
