package bot

import (
	"math/rand/v2"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// Greedy wins if it can, blocks if it must, then prefers the center and
// the corners.
type Greedy struct {
	rng *rand.Rand
}

func NewGreedy(rng *rand.Rand) *Greedy {
	return &Greedy{rng: rng}
}

func (g *Greedy) SelectMove(state *domain.MatchState) (int, error) {
	empty := state.Board.EmptyCells()
	if len(empty) == 0 {
		return domain.NoCell, domain.ErrNoLegalMove
	}

	me := state.Turn
	if i := completingMove(state, empty, me); i != domain.NoCell {
		return i, nil
	}
	if i := completingMove(state, empty, me.Opponent()); i != domain.NoCell {
		return i, nil
	}

	if state.Board[domain.Center] == domain.Empty {
		return domain.Center, nil
	}
	if corners := state.Board.EmptyCorners(); len(corners) > 0 {
		return pick(g.rng, corners)
	}
	return pick(g.rng, empty)
}

// completingMove returns the first empty cell that would give side a line,
// honouring the eviction side would suffer in sliding-window mode.
func completingMove(state *domain.MatchState, empty []int, side domain.Cell) int {
	evicted := state.NextEviction(side)
	for _, i := range empty {
		b := state.Board
		if evicted != domain.NoCell {
			b[evicted] = domain.Empty
		}
		b[i] = side
		if b.HasLine(side) {
			return i
		}
	}
	return domain.NoCell
}

// Hybrid defers to Greedy with probability p and plays randomly otherwise.
type Hybrid struct {
	p      float64
	rng    *rand.Rand
	greedy *Greedy
	random *Random
}

func NewHybrid(p float64, rng *rand.Rand) *Hybrid {
	return &Hybrid{
		p:      p,
		rng:    rng,
		greedy: NewGreedy(rng),
		random: NewRandom(rng),
	}
}

func (h *Hybrid) SelectMove(state *domain.MatchState) (int, error) {
	if h.rng.Float64() < h.p {
		return h.greedy.SelectMove(state)
	}
	return h.random.SelectMove(state)
}
