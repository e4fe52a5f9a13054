package domain

// Cell is the state of a single board square. The two non-empty values
// double as the identity of the side that owns the stone.
type Cell int

const (
	Empty  Cell = 0
	Player Cell = 1
	Bot    Cell = 2
)

func (c Cell) String() string {
	switch c {
	case Player:
		return "player"
	case Bot:
		return "bot"
	default:
		return "empty"
	}
}

// Opponent returns the other side. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Player:
		return Bot
	case Bot:
		return Player
	default:
		return Empty
	}
}

const (
	BoardSize = 9
	Center    = 4

	// MaxLiveStones caps each side's stones in sliding-window mode.
	MaxLiveStones = 3
)

var Corners = [4]int{0, 2, 6, 8}

// Lines lists every winning line: rows, then columns, then diagonals.
var Lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Result is the outcome of a match as seen by checkTerminal.
type Result string

const (
	Ongoing   Result = "ongoing"
	PlayerWin Result = "player_win"
	BotWin    Result = "bot_win"
	Draw      Result = "draw"
)

func (r Result) IsTerminal() bool {
	return r == PlayerWin || r == BotWin || r == Draw
}

// basic error type for the domain
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove       Error = "invalid move"
	ErrOutOfRange        Error = "cell index out of range"
	ErrCellOccupied      Error = "cell is already occupied"
	ErrNotYourTurn       Error = "not your turn"
	ErrMatchOver         Error = "match is already over"
	ErrNoLegalMove       Error = "no legal move available"
	ErrInconsistentState Error = "board and stone history disagree"
	ErrUnknownTier       Error = "unknown difficulty tier"
	ErrNoMatch           Error = "no match in progress"
	ErrRestartCooldown   Error = "restart is cooling down"
	ErrMissingIndex      Error = "move has no cell index"
)
