package domain

// Phase is the controller's lifecycle state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseInProgress Phase = "in_progress"
	PhaseTerminal   Phase = "terminal"
)

// Snapshot is a read-only copy of a match for presentation.
type Snapshot struct {
	MatchID         string       `json:"matchId,omitempty"`
	Phase           Phase        `json:"phase"`
	Tier            int          `json:"tier,omitempty"`
	TierName        string       `json:"tierName,omitempty"`
	Board           Board        `json:"board"`
	Turn            Cell         `json:"turn"`
	TurnNumber      int          `json:"turnNumber"`
	SlidingWindow   bool         `json:"slidingWindow"`
	PlayerStones    []int        `json:"playerStones"`
	BotStones       []int        `json:"botStones"`
	NextEviction    int          `json:"nextEviction"`
	Result          Result       `json:"result"`
	LastMove        int          `json:"lastMove"`
	LastMoveBy      Cell         `json:"lastMoveBy"`
	Evicted         int          `json:"evicted"`
	Forced          bool         `json:"forced,omitempty"`
	ScoreDelta      int          `json:"scoreDelta,omitempty"`
	Stats           *StatsRecord `json:"stats,omitempty"`
	TimerActive     bool         `json:"timerActive"`
	TimeRemainingMs int64        `json:"timeRemainingMs,omitempty"`
	PersistError    string       `json:"persistError,omitempty"`
}
