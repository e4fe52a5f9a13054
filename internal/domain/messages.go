package domain

import "time"

// ClientMessage is a request from the websocket client.
type ClientMessage struct {
	Type  string `json:"type"` // start, move, menu
	Tier  int    `json:"tier,omitempty"`
	Index *int   `json:"index,omitempty"` // required for move
}

type ServerMessage struct {
	Type     string    `json:"type"` // state, error, game_over
	Message  string    `json:"message,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Account is a registered player.
type Account struct {
	ID           int64  `json:"id"`
	Nickname     string `json:"nickname"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	StatsRecord
}

// MatchRecord is one finished account match.
type MatchRecord struct {
	MatchID    string `json:"matchId"`
	UserID     int64  `json:"userId"`
	Tier       int    `json:"tier"`
	Result     Result `json:"result"`
	ScoreDelta int    `json:"scoreDelta"`
	Turns      int    `json:"turns"`
	Board      Board  `json:"board"`

	FinishedAt time.Time `json:"finishedAt"`
}
