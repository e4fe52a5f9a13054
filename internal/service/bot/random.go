package bot

import (
	"math/rand/v2"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) SelectMove(state *domain.MatchState) (int, error) {
	return pick(r.rng, state.Board.EmptyCells())
}
