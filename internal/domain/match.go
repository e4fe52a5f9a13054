package domain

// NoCell marks "no cell" where an index is optional, such as a move that
// evicted nothing.
const NoCell = -1

// MatchState is the authoritative state of a single match. It is owned by
// one controller and never shared between matches.
type MatchState struct {
	Board         Board
	Turn          Cell
	TurnCount     int
	SlidingWindow bool
	Tier          int
	PlayerStones  []int
	BotStones     []int
	Result        Result
}

func NewMatchState(tier Tier, first Cell) *MatchState {
	return &MatchState{
		Turn:          first,
		SlidingWindow: tier.SlidingWindow,
		Tier:          tier.Level,
		PlayerStones:  make([]int, 0, MaxLiveStones+2),
		BotStones:     make([]int, 0, MaxLiveStones+2),
		Result:        Ongoing,
	}
}

// Stones returns the live stones of side, oldest first.
func (s *MatchState) Stones(side Cell) []int {
	switch side {
	case Player:
		return s.PlayerStones
	case Bot:
		return s.BotStones
	default:
		return nil
	}
}

func (s *MatchState) stonesRef(side Cell) *[]int {
	if side == Bot {
		return &s.BotStones
	}
	return &s.PlayerStones
}

// NextEviction returns the cell that side would lose by placing a stone
// now, or NoCell.
func (s *MatchState) NextEviction(side Cell) int {
	stones := s.Stones(side)
	if s.SlidingWindow && len(stones) >= MaxLiveStones {
		return stones[0]
	}
	return NoCell
}

// TurnNumber is the 1-based round counter, one round per pair of moves.
func (s *MatchState) TurnNumber() int {
	return (s.TurnCount + 1) / 2
}

func (s *MatchState) IsFinished() bool {
	return s.Result.IsTerminal()
}

func (s *MatchState) Clone() *MatchState {
	c := *s
	c.PlayerStones = append(make([]int, 0, cap(s.PlayerStones)), s.PlayerStones...)
	c.BotStones = append(make([]int, 0, cap(s.BotStones)), s.BotStones...)
	return &c
}
