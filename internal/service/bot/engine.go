package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// Strategy picks a cell for the side to move. The returned index is
// always empty on state.Board.
type Strategy interface {
	SelectMove(state *domain.MatchState) (int, error)
}

// ForTier builds the strategy configured for tier. All randomness comes
// from rng so matches can be replayed from a seed.
func ForTier(tier domain.Tier, rng *rand.Rand) (Strategy, error) {
	switch tier.Strategy {
	case domain.StrategyRandom:
		return NewRandom(rng), nil
	case domain.StrategyGreedy:
		return NewGreedy(rng), nil
	case domain.StrategyHybrid:
		return NewHybrid(tier.GreedyProbability, rng), nil
	case domain.StrategySearch:
		return NewSearch(tier.SearchDepth, rng), nil
	default:
		return nil, fmt.Errorf("%w: strategy %q", domain.ErrUnknownTier, tier.Strategy)
	}
}

func pick(rng *rand.Rand, cells []int) (int, error) {
	if len(cells) == 0 {
		return domain.NoCell, domain.ErrNoLegalMove
	}
	return cells[rng.IntN(len(cells))], nil
}
