package domain

import "math"

// StatsRecord is the persistent per-player aggregate.
type StatsRecord struct {
	Wins           int  `json:"wins"`
	Losses         int  `json:"losses"`
	Draws          int  `json:"draws"`
	TotalScore     int  `json:"totalScore"`
	TopTierCleared bool `json:"topTierCleared"`
}

// Apply folds one finished match into the record.
func (r StatsRecord) Apply(result Result, delta int, topTier bool) StatsRecord {
	switch result {
	case PlayerWin:
		r.Wins++
		if topTier {
			r.TopTierCleared = true
		}
	case BotWin:
		r.Losses++
	case Draw:
		r.Draws++
	default:
		return r
	}
	r.TotalScore += delta
	return r
}

func (r StatsRecord) Games() int {
	return r.Wins + r.Losses + r.Draws
}

// WinRate is the rounded win percentage, 0 with no games played.
func (r StatsRecord) WinRate() int {
	games := r.Games()
	if games == 0 {
		return 0
	}
	return int(math.Round(float64(r.Wins) / float64(games) * 100))
}

// LeaderboardEntry is one ranked account.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   int64  `json:"userId"`
	Nickname string `json:"nickname"`
	StatsRecord
	WinRate int `json:"winRate"`
}

type LeaderboardPage struct {
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Entries    []LeaderboardEntry `json:"entries"`
}

const LeaderboardPageSize = 10
