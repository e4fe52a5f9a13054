package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// DefaultHistoryLimit caps GetUserMatchHistory when no limit is given.
const DefaultHistoryLimit = 20

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// RecordMatch stores a finished match. Recording the same match twice
// keeps the first row.
func (r *GameRepo) RecordMatch(ctx context.Context, rec domain.MatchRecord) error {
	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}
	finishedAt := rec.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	query := `
	INSERT INTO matches (match_id, player_id, tier, result, score_delta, turns, board, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (match_id) DO NOTHING;
	`
	_, err = r.DB.ExecContext(ctx, query, rec.MatchID, rec.UserID, rec.Tier, string(rec.Result), rec.ScoreDelta, rec.Turns, boardJSON, finishedAt)
	if err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}
	return nil
}

// GetUserMatchHistory returns the user's most recent matches, newest first.
func (r *GameRepo) GetUserMatchHistory(ctx context.Context, userID int64, limit int) ([]domain.MatchRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
	SELECT match_id, player_id, tier, result, score_delta, turns, board, finished_at
	FROM matches
	WHERE player_id = $1
	ORDER BY finished_at DESC
	LIMIT $2;
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history: %w", err)
	}
	defer rows.Close()

	matches := []domain.MatchRecord{}
	for rows.Next() {
		var rec domain.MatchRecord
		var result string
		var boardJSON []byte
		if err := rows.Scan(&rec.MatchID, &rec.UserID, &rec.Tier, &result, &rec.ScoreDelta, &rec.Turns, &boardJSON, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		rec.Result = domain.Result(result)
		if err := json.Unmarshal(boardJSON, &rec.Board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board: %w", err)
		}
		matches = append(matches, rec)
	}
	return matches, rows.Err()
}
