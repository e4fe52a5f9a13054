package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/lib/pq"
)

// ErrDuplicateAccount is returned when the nickname or email is taken.
var ErrDuplicateAccount = errors.New("nickname or email already registered")

type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// CreateUser inserts a new account with a zeroed stats record.
func (r *UserRepo) CreateUser(ctx context.Context, nickname, email, passwordHash string) (int64, error) {
	query := `
	INSERT INTO players (nickname, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING id;
	`
	var userID int64
	err := r.DB.QueryRowContext(ctx, query, nickname, strings.ToLower(email), passwordHash).Scan(&userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrDuplicateAccount
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return userID, nil
}

const userSelectFields = `id, nickname, email, password_hash, wins, losses, draws, total_score, top_tier_cleared`

// scanUser is a helper that scans a row into an Account
func scanUser(row interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Nickname,
		&a.Email,
		&a.PasswordHash,
		&a.Wins,
		&a.Losses,
		&a.Draws,
		&a.TotalScore,
		&a.TopTierCleared,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetUserByEmail returns nil when no account matches.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + userSelectFields + ` FROM players WHERE email = $1;`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID int64) (*domain.Account, error) {
	query := `SELECT ` + userSelectFields + ` FROM players WHERE id = $1;`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetStats returns a zero record for an unknown account.
func (r *UserRepo) GetStats(ctx context.Context, userID int64) (domain.StatsRecord, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return domain.StatsRecord{}, err
	}
	return user.StatsRecord, nil
}

func (r *UserRepo) SaveStats(ctx context.Context, userID int64, rec domain.StatsRecord) error {
	query := `
	UPDATE players
	SET wins = $2, losses = $3, draws = $4, total_score = $5,
	    top_tier_cleared = top_tier_cleared OR $6, updated_at = NOW()
	WHERE id = $1;
	`
	res, err := r.DB.ExecContext(ctx, query, userID, rec.Wins, rec.Losses, rec.Draws, rec.TotalScore, rec.TopTierCleared)
	if err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to save stats: user %d not found", userID)
	}
	return nil
}

// GetLeaderboard returns one page of accounts that have played at least
// once, ranked by total score.
func (r *UserRepo) GetLeaderboard(ctx context.Context, page, pageSize int) (*domain.LeaderboardPage, error) {
	if page < 1 {
		page = 1
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM players WHERE wins + losses + draws > 0;`
	if err := r.DB.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count leaderboard: %w", err)
	}

	query := `
	SELECT
		ROW_NUMBER() OVER (ORDER BY total_score DESC, wins DESC, nickname ASC) AS rank,
		id, nickname, wins, losses, draws, total_score, top_tier_cleared
	FROM players
	WHERE wins + losses + draws > 0
	ORDER BY total_score DESC, wins DESC, nickname ASC
	LIMIT $1 OFFSET $2;
	`
	rows, err := r.DB.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	result := &domain.LeaderboardPage{
		Page:       page,
		TotalPages: (total + pageSize - 1) / pageSize,
		Entries:    make([]domain.LeaderboardEntry, 0, pageSize),
	}
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.Rank, &e.UserID, &e.Nickname, &e.Wins, &e.Losses, &e.Draws, &e.TotalScore, &e.TopTierCleared); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		e.WinRate = e.StatsRecord.WinRate()
		result.Entries = append(result.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return result, nil
}
