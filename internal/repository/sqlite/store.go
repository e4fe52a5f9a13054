// Package sqlite keeps guest stats and match history in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

type GuestStore struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open opens the guest database at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*GuestStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &GuestStore{sqlDB: sqlDB, now: time.Now}, nil
}

func (s *GuestStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetStats returns a zero record for an unknown guest.
func (s *GuestStore) GetStats(ctx context.Context, guestID string) (domain.StatsRecord, error) {
	var rec domain.StatsRecord
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT wins, losses, draws, total_score, top_tier_cleared FROM guests WHERE guest_id = ?`,
		guestID,
	).Scan(&rec.Wins, &rec.Losses, &rec.Draws, &rec.TotalScore, &rec.TopTierCleared)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StatsRecord{}, nil
	}
	if err != nil {
		return domain.StatsRecord{}, fmt.Errorf("get guest stats: %w", err)
	}
	return rec, nil
}

func (s *GuestStore) SaveStats(ctx context.Context, guestID string, rec domain.StatsRecord) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO guests (guest_id, wins, losses, draws, total_score, top_tier_cleared, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (guest_id) DO UPDATE SET
		   wins = excluded.wins,
		   losses = excluded.losses,
		   draws = excluded.draws,
		   total_score = excluded.total_score,
		   top_tier_cleared = MAX(guests.top_tier_cleared, excluded.top_tier_cleared),
		   updated_at = excluded.updated_at`,
		guestID, rec.Wins, rec.Losses, rec.Draws, rec.TotalScore, rec.TopTierCleared, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("save guest stats: %w", err)
	}
	return nil
}

// RecordMatch stores a finished guest match. The guest row must exist.
func (s *GuestStore) RecordMatch(ctx context.Context, guestID string, rec domain.MatchRecord) error {
	board, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	finishedAt := rec.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = s.now()
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT OR IGNORE INTO guest_matches (match_id, guest_id, tier, result, score_delta, turns, board, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.MatchID, guestID, rec.Tier, string(rec.Result), rec.ScoreDelta, rec.Turns, string(board), toMillis(finishedAt),
	)
	if err != nil {
		return fmt.Errorf("record guest match: %w", err)
	}
	return nil
}

// ListMatches returns the guest's most recent matches, newest first.
func (s *GuestStore) ListMatches(ctx context.Context, guestID string, limit int) ([]domain.MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT match_id, tier, result, score_delta, turns, board, finished_at
		   FROM guest_matches
		  WHERE guest_id = ?
		  ORDER BY finished_at DESC, rowid DESC
		  LIMIT ?`,
		guestID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list guest matches: %w", err)
	}
	defer rows.Close()

	matches := []domain.MatchRecord{}
	for rows.Next() {
		var rec domain.MatchRecord
		var result, board string
		var finishedAt int64
		if err := rows.Scan(&rec.MatchID, &rec.Tier, &result, &rec.ScoreDelta, &rec.Turns, &board, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan guest match: %w", err)
		}
		rec.Result = domain.Result(result)
		rec.FinishedAt = fromMillis(finishedAt)
		if err := json.Unmarshal([]byte(board), &rec.Board); err != nil {
			return nil, fmt.Errorf("unmarshal board: %w", err)
		}
		matches = append(matches, rec)
	}
	return matches, rows.Err()
}

// PruneStaleGuests deletes guests untouched since before cutoff, together
// with their matches, and reports how many guests went.
func (s *GuestStore) PruneStaleGuests(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM guests WHERE updated_at < ?`, toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune guests: %w", err)
	}
	return res.RowsAffected()
}
