// Package stats routes finished matches to the account or guest record and
// serves the leaderboard.
package stats

import (
	"context"
	"strconv"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/game"
	"go.uber.org/zap"
)

type AccountStore interface {
	GetStats(ctx context.Context, userID int64) (domain.StatsRecord, error)
	SaveStats(ctx context.Context, userID int64, rec domain.StatsRecord) error
	GetLeaderboard(ctx context.Context, page, pageSize int) (*domain.LeaderboardPage, error)
}

type AccountHistory interface {
	RecordMatch(ctx context.Context, rec domain.MatchRecord) error
	GetUserMatchHistory(ctx context.Context, userID int64, limit int) ([]domain.MatchRecord, error)
}

type GuestStore interface {
	GetStats(ctx context.Context, guestID string) (domain.StatsRecord, error)
	SaveStats(ctx context.Context, guestID string, rec domain.StatsRecord) error
	RecordMatch(ctx context.Context, guestID string, rec domain.MatchRecord) error
	ListMatches(ctx context.Context, guestID string, limit int) ([]domain.MatchRecord, error)
}

// LeaderboardCache is optional; see repository/redis.LeaderboardCache.
type LeaderboardCache interface {
	Get(ctx context.Context, page int) (*domain.LeaderboardPage, bool)
	Put(ctx context.Context, page *domain.LeaderboardPage) error
	Invalidate(ctx context.Context) error
}

// Identity names whose record a match updates. UserID wins over GuestID.
type Identity struct {
	UserID   int64
	Nickname string
	GuestID  string
}

func (id Identity) IsAccount() bool {
	return id.UserID > 0
}

// Key is the session key for the identity.
func (id Identity) Key() string {
	if id.IsAccount() {
		return "user:" + strconv.FormatInt(id.UserID, 10)
	}
	return "guest:" + id.GuestID
}

// Binding holds the match collaborators for one identity.
type Binding struct {
	Stats   game.StatsStore
	Ranking game.RankingNotifier
	History game.MatchHistory
}

type Service struct {
	accounts AccountStore
	history  AccountHistory
	guests   GuestStore
	cache    LeaderboardCache
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewService(accounts AccountStore, history AccountHistory, guests GuestStore, cache LeaderboardCache, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		accounts: accounts,
		history:  history,
		guests:   guests,
		cache:    cache,
		log:      logger,
		now:      time.Now,
	}
}

// For binds the stores for id. Only accounts take part in the ranking.
func (s *Service) For(id Identity) Binding {
	if id.IsAccount() {
		return Binding{
			Stats:   accountStats{s: s, userID: id.UserID},
			Ranking: rankingNotifier{s: s},
			History: accountHistory{s: s, userID: id.UserID},
		}
	}
	return Binding{
		Stats:   guestStats{s: s, guestID: id.GuestID},
		History: guestHistory{s: s, guestID: id.GuestID},
	}
}

// Stats returns the identity's current record.
func (s *Service) Stats(ctx context.Context, id Identity) (domain.StatsRecord, error) {
	return s.For(id).Stats.Load(ctx)
}

// History returns the identity's most recent matches.
func (s *Service) History(ctx context.Context, id Identity, limit int) ([]domain.MatchRecord, error) {
	if id.IsAccount() {
		return s.history.GetUserMatchHistory(ctx, id.UserID, limit)
	}
	return s.guests.ListMatches(ctx, id.GuestID, limit)
}

// Leaderboard returns one page of the ranking, from cache when possible.
func (s *Service) Leaderboard(ctx context.Context, page int) (*domain.LeaderboardPage, error) {
	if page < 1 {
		page = 1
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, page); ok {
			return cached, nil
		}
	}

	result, err := s.accounts.GetLeaderboard(ctx, page, domain.LeaderboardPageSize)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, result); err != nil {
			s.log.Warnw("[STATS] leaderboard cache write failed", "page", page, "error", err)
		}
	}
	return result, nil
}

// RefreshRanking drops every cached leaderboard page.
func (s *Service) RefreshRanking(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warnw("[STATS] ranking refresh failed", "error", err)
	}
}

type accountStats struct {
	s      *Service
	userID int64
}

func (a accountStats) Load(ctx context.Context) (domain.StatsRecord, error) {
	return a.s.accounts.GetStats(ctx, a.userID)
}

func (a accountStats) Save(ctx context.Context, rec domain.StatsRecord) error {
	return a.s.accounts.SaveStats(ctx, a.userID, rec)
}

type accountHistory struct {
	s      *Service
	userID int64
}

func (a accountHistory) RecordMatch(ctx context.Context, rec domain.MatchRecord) error {
	rec.UserID = a.userID
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = a.s.now()
	}
	return a.s.history.RecordMatch(ctx, rec)
}

type rankingNotifier struct {
	s *Service
}

func (r rankingNotifier) NotifyMatchCompleted(ctx context.Context) {
	r.s.RefreshRanking(ctx)
}

type guestStats struct {
	s       *Service
	guestID string
}

func (g guestStats) Load(ctx context.Context) (domain.StatsRecord, error) {
	return g.s.guests.GetStats(ctx, g.guestID)
}

func (g guestStats) Save(ctx context.Context, rec domain.StatsRecord) error {
	return g.s.guests.SaveStats(ctx, g.guestID, rec)
}

type guestHistory struct {
	s       *Service
	guestID string
}

func (g guestHistory) RecordMatch(ctx context.Context, rec domain.MatchRecord) error {
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = g.s.now()
	}
	return g.s.guests.RecordMatch(ctx, g.guestID, rec)
}
