package game

import (
	"context"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// StatsStore loads and saves the player's aggregate record. Load returns a
// zero record when none exists.
type StatsStore interface {
	Load(ctx context.Context) (domain.StatsRecord, error)
	Save(ctx context.Context, record domain.StatsRecord) error
}

// RankingNotifier is told when a scored match has finished.
type RankingNotifier interface {
	NotifyMatchCompleted(ctx context.Context)
}

type MatchHistory interface {
	RecordMatch(ctx context.Context, record domain.MatchRecord) error
}

// Ticker delivers timer steps. It matches the shape of *time.Ticker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}
