package game

import (
	"context"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// armTimerLocked starts the turn countdown when the player is to move in
// a timed tier. Any previous countdown is discarded. A closed match never
// arms again.
func (m *Match) armTimerLocked() {
	m.disarmTimerLocked()
	if m.closed || m.phase != domain.PhaseInProgress || !m.tier.Timed() || m.state.Turn != domain.Player {
		return
	}

	m.countdown = NewCountdown(m.tier.TurnTimeout, m.opts.TickStep)
	gen := m.timerGen
	ticker := m.opts.NewTicker(m.countdown.Step())
	stop := make(chan struct{})
	m.ticker, m.stopTimer = ticker, stop

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				m.onTick(gen)
			}
		}
	}()
}

// disarmTimerLocked stops the countdown. Bumping the generation makes any
// tick already waiting on the lock a no-op.
func (m *Match) disarmTimerLocked() {
	m.timerGen++
	m.countdown = nil
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.stopTimer)
		m.ticker, m.stopTimer = nil, nil
	}
}

func (m *Match) onTick(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.timerGen || m.countdown == nil || m.phase != domain.PhaseInProgress {
		return
	}
	if !m.countdown.Tick() {
		m.publishLocked()
		return
	}

	empty := m.state.Board.EmptyCells()
	if len(empty) == 0 {
		m.log.Errorw("[MATCH] turn expired with no empty cell", "match", m.matchID, "error", domain.ErrNoLegalMove)
		m.disarmTimerLocked()
		return
	}
	index := empty[m.opts.Rand.IntN(len(empty))]
	m.log.Infow("[MATCH] turn expired, forcing move", "match", m.matchID, "index", index)

	if err := m.playerMoveLocked(context.Background(), index, true); err != nil {
		m.log.Errorw("[MATCH] forced move failed", "match", m.matchID, "index", index, "error", err)
	}
}
