package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

type memAccounts struct {
	stats       map[int64]domain.StatsRecord
	boardCalls  int
	matches     []domain.MatchRecord
	leaderboard *domain.LeaderboardPage
}

func newMemAccounts() *memAccounts {
	return &memAccounts{stats: map[int64]domain.StatsRecord{}}
}

func (m *memAccounts) GetStats(_ context.Context, id int64) (domain.StatsRecord, error) {
	return m.stats[id], nil
}

func (m *memAccounts) SaveStats(_ context.Context, id int64, rec domain.StatsRecord) error {
	m.stats[id] = rec
	return nil
}

func (m *memAccounts) GetLeaderboard(_ context.Context, page, size int) (*domain.LeaderboardPage, error) {
	m.boardCalls++
	if m.leaderboard == nil {
		return nil, errors.New("db down")
	}
	lb := *m.leaderboard
	lb.Page = page
	return &lb, nil
}

func (m *memAccounts) RecordMatch(_ context.Context, rec domain.MatchRecord) error {
	m.matches = append(m.matches, rec)
	return nil
}

func (m *memAccounts) GetUserMatchHistory(_ context.Context, id int64, _ int) ([]domain.MatchRecord, error) {
	var out []domain.MatchRecord
	for _, rec := range m.matches {
		if rec.UserID == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memGuests struct {
	stats   map[string]domain.StatsRecord
	matches map[string][]domain.MatchRecord
}

func newMemGuests() *memGuests {
	return &memGuests{stats: map[string]domain.StatsRecord{}, matches: map[string][]domain.MatchRecord{}}
}

func (m *memGuests) GetStats(_ context.Context, id string) (domain.StatsRecord, error) {
	return m.stats[id], nil
}

func (m *memGuests) SaveStats(_ context.Context, id string, rec domain.StatsRecord) error {
	m.stats[id] = rec
	return nil
}

func (m *memGuests) RecordMatch(_ context.Context, id string, rec domain.MatchRecord) error {
	m.matches[id] = append(m.matches[id], rec)
	return nil
}

func (m *memGuests) ListMatches(_ context.Context, id string, _ int) ([]domain.MatchRecord, error) {
	return m.matches[id], nil
}

type memCache struct {
	pages       map[int]*domain.LeaderboardPage
	invalidated int
}

func (c *memCache) Get(_ context.Context, page int) (*domain.LeaderboardPage, bool) {
	p, ok := c.pages[page]
	return p, ok
}

func (c *memCache) Put(_ context.Context, p *domain.LeaderboardPage) error {
	c.pages[p.Page] = p
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.invalidated++
	c.pages = map[int]*domain.LeaderboardPage{}
	return nil
}

func TestAccountBindingRoutesToAccountStores(t *testing.T) {
	accounts, guests := newMemAccounts(), newMemGuests()
	cache := &memCache{pages: map[int]*domain.LeaderboardPage{}}
	svc := NewService(accounts, accounts, guests, cache, nil)
	ctx := context.Background()

	id := Identity{UserID: 7, Nickname: "ana"}
	b := svc.For(id)
	if b.Ranking == nil {
		t.Fatal("account binding has no ranking notifier")
	}

	rec := domain.StatsRecord{Wins: 1, TotalScore: 7}
	if err := b.Stats.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := b.History.RecordMatch(ctx, domain.MatchRecord{MatchID: "m1", Result: domain.PlayerWin}); err != nil {
		t.Fatalf("record: %v", err)
	}
	b.Ranking.NotifyMatchCompleted(ctx)

	if got, _ := svc.Stats(ctx, id); got != rec {
		t.Fatalf("stats = %+v, want %+v", got, rec)
	}
	history, _ := svc.History(ctx, id, 10)
	if len(history) != 1 || history[0].UserID != 7 || history[0].FinishedAt.IsZero() {
		t.Fatalf("history = %+v", history)
	}
	if len(guests.stats) != 0 {
		t.Fatalf("guest store touched: %+v", guests.stats)
	}
	if cache.invalidated != 1 {
		t.Fatalf("invalidated %d times, want 1", cache.invalidated)
	}
}

func TestGuestBindingSkipsRanking(t *testing.T) {
	accounts, guests := newMemAccounts(), newMemGuests()
	svc := NewService(accounts, accounts, guests, nil, nil)
	ctx := context.Background()

	id := Identity{GuestID: "g-1"}
	if id.IsAccount() || id.Key() != "guest:g-1" {
		t.Fatalf("identity = %+v key %q", id, id.Key())
	}
	b := svc.For(id)
	if b.Ranking != nil {
		t.Fatal("guests must not trigger a ranking refresh")
	}
	if err := b.Stats.Save(ctx, domain.StatsRecord{Losses: 1, TotalScore: -5}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := b.History.RecordMatch(ctx, domain.MatchRecord{MatchID: "m1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if guests.stats["g-1"].TotalScore != -5 || len(guests.matches["g-1"]) != 1 {
		t.Fatalf("guest store = %+v %+v", guests.stats, guests.matches)
	}
	if len(accounts.stats) != 0 {
		t.Fatal("account store touched by a guest")
	}
}

func TestLeaderboardUsesCache(t *testing.T) {
	accounts := newMemAccounts()
	accounts.leaderboard = &domain.LeaderboardPage{TotalPages: 1, Entries: []domain.LeaderboardEntry{{Rank: 1, Nickname: "ana"}}}
	cache := &memCache{pages: map[int]*domain.LeaderboardPage{}}
	svc := NewService(accounts, accounts, newMemGuests(), cache, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		lb, err := svc.Leaderboard(ctx, 0)
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if lb.Page != 1 || lb.Entries[0].Nickname != "ana" {
			t.Fatalf("page = %+v", lb)
		}
	}
	if accounts.boardCalls != 1 {
		t.Fatalf("store queried %d times, want 1", accounts.boardCalls)
	}

	svc.RefreshRanking(ctx)
	if _, err := svc.Leaderboard(ctx, 1); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if accounts.boardCalls != 2 {
		t.Fatalf("store queried %d times after refresh, want 2", accounts.boardCalls)
	}
}

func TestLeaderboardErrorIsReturned(t *testing.T) {
	svc := NewService(newMemAccounts(), nil, newMemGuests(), nil, nil)
	if _, err := svc.Leaderboard(context.Background(), 1); err == nil {
		t.Fatal("expected store error")
	}
}
