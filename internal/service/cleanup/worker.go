package cleanup

import (
	"context"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/service/game"
	"go.uber.org/zap"
)

// GuestPruner deletes guest records untouched since cutoff.
type GuestPruner interface {
	PruneStaleGuests(ctx context.Context, cutoff time.Time) (int64, error)
}

type Worker struct {
	SessionManager *game.SessionManager
	Guests         GuestPruner

	Interval       time.Duration
	IdleTimeout    time.Duration
	GuestRetention time.Duration

	log *zap.SugaredLogger
	now func() time.Time
}

func NewWorker(sm *game.SessionManager, guests GuestPruner, interval, idleTimeout, guestRetention time.Duration, logger *zap.SugaredLogger) *Worker {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{
		SessionManager: sm,
		Guests:         guests,
		Interval:       interval,
		IdleTimeout:    idleTimeout,
		GuestRetention: guestRetention,
		log:            logger,
		now:            time.Now,
	}
}

// Start runs one pass immediately and then one per Interval until ctx ends.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.RunOnce(ctx)

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				w.log.Infow("[CLEANUP] worker stopped")
				return
			case <-ticker.C:
				w.RunOnce(ctx)
			}
		}
	}()
	w.log.Infow("[CLEANUP] background worker started", "interval", w.Interval)
}

// RunOnce drops idle matches from memory and prunes stale guests.
func (w *Worker) RunOnce(ctx context.Context) {
	now := w.now()

	if w.SessionManager != nil && w.IdleTimeout > 0 {
		w.SessionManager.CleanupOldSessions(now, w.IdleTimeout)
	}

	if w.Guests == nil || w.GuestRetention <= 0 {
		return
	}
	deleted, err := w.Guests.PruneStaleGuests(ctx, now.Add(-w.GuestRetention))
	if err != nil {
		w.log.Errorw("[CLEANUP] guest prune failed", "error", err)
		return
	}
	if deleted > 0 {
		w.log.Infow("[CLEANUP] removed stale guests", "count", deleted)
	}
}
