package game

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionManager keeps one Match per player key (account or guest).
type SessionManager struct {
	sessions map[string]*Match
	mu       sync.RWMutex
	log      *zap.SugaredLogger
}

func NewSessionManager(logger *zap.SugaredLogger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SessionManager{
		sessions: make(map[string]*Match),
		log:      logger,
	}
}

// GetOrCreate returns the player's match, building it with newMatch on
// first use.
func (sm *SessionManager) GetOrCreate(key string, newMatch func() *Match) *Match {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if m, ok := sm.sessions[key]; ok {
		return m
	}
	m := newMatch()
	sm.sessions[key] = m
	sm.log.Debugw("[SESSION] created", "player", key)
	return m
}

func (sm *SessionManager) Get(key string) (*Match, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	m, ok := sm.sessions[key]
	return m, ok
}

// Remove closes and forgets the player's match.
func (sm *SessionManager) Remove(key string) {
	sm.mu.Lock()
	m, ok := sm.sessions[key]
	delete(sm.sessions, key)
	sm.mu.Unlock()

	if ok {
		m.Close()
		sm.log.Debugw("[SESSION] removed", "player", key)
	}
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// CleanupOldSessions closes matches idle for longer than maxIdle. Idleness
// is checked outside sm.mu so a busy match cannot stall lookups.
func (sm *SessionManager) CleanupOldSessions(now time.Time, maxIdle time.Duration) int {
	sm.mu.RLock()
	candidates := make(map[string]*Match, len(sm.sessions))
	for key, m := range sm.sessions {
		candidates[key] = m
	}
	sm.mu.RUnlock()

	var stale []*Match
	for key, m := range candidates {
		if now.Sub(m.LastActivity()) <= maxIdle {
			continue
		}
		sm.mu.Lock()
		if sm.sessions[key] == m {
			delete(sm.sessions, key)
			stale = append(stale, m)
		}
		sm.mu.Unlock()
	}

	for _, m := range stale {
		m.Close()
	}
	if len(stale) > 0 {
		sm.log.Infow("[SESSION] memory cleanup", "removed", len(stale))
	}
	return len(stale)
}
