package bot

import (
	"math"
	"math/rand/v2"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

const (
	SEARCH_WIN = 1000

	// Sliding-window games never fill the board, so the tree is cut
	// deeper there than in classic play.
	SLIDING_DEPTH = 13
	CLASSIC_DEPTH = 9
)

// Search is minimax with alpha-beta pruning. Each root move is searched
// with a full window and ties between the best moves are broken randomly.
type Search struct {
	depth    int
	rng      *rand.Rand
	fallback *Random
}

// NewSearch returns a Search cut off below depth plies; zero picks the
// per-variant default.
func NewSearch(depth int, rng *rand.Rand) *Search {
	return &Search{depth: depth, rng: rng, fallback: NewRandom(rng)}
}

func (s *Search) SelectMove(state *domain.MatchState) (int, error) {
	moves, _ := s.BestMoves(state)
	if len(moves) == 0 {
		return s.fallback.SelectMove(state)
	}
	return pick(s.rng, moves)
}

// BestMoves returns every root move reaching the best score, in board
// order, along with that score.
func (s *Search) BestMoves(state *domain.MatchState) ([]int, int) {
	best := math.MinInt
	var moves []int
	for _, sm := range s.scoreMoves(state) {
		switch {
		case sm.score > best:
			best = sm.score
			moves = append(moves[:0], sm.index)
		case sm.score == best:
			moves = append(moves, sm.index)
		}
	}
	return moves, best
}

type scoredMove struct {
	index int
	score int
}

func (s *Search) scoreMoves(state *domain.MatchState) []scoredMove {
	me := state.Turn
	sr := searcher{me: me, opp: me.Opponent(), limit: s.limit(state.SlidingWindow)}
	p := newPosition(state)

	empty := state.Board.EmptyCells()
	scores := make([]scoredMove, 0, len(empty))
	for _, i := range empty {
		evicted := p.play(i, me)
		score := sr.minimax(p, 0, false, math.MinInt, math.MaxInt)
		p.undo(i, me, evicted)
		scores = append(scores, scoredMove{index: i, score: score})
	}
	return scores
}

func (s *Search) limit(sliding bool) int {
	if s.depth > 0 {
		return s.depth
	}
	if sliding {
		return SLIDING_DEPTH
	}
	return CLASSIC_DEPTH
}

type searcher struct {
	me    domain.Cell
	opp   domain.Cell
	limit int
}

func (sr *searcher) minimax(p *position, depth int, maximizing bool, alpha, beta int) int {
	if p.board.HasLine(sr.me) {
		return SEARCH_WIN - depth
	}
	if p.board.HasLine(sr.opp) {
		return depth - SEARCH_WIN
	}
	if !p.sliding && p.board.IsFull() {
		return 0
	}
	if depth > sr.limit {
		return evaluateBoard(&p.board, sr.me)
	}

	if maximizing {
		maxEval := math.MinInt
		for i := range p.board {
			if p.board[i] != domain.Empty {
				continue
			}
			evicted := p.play(i, sr.me)
			eval := sr.minimax(p, depth+1, false, alpha, beta)
			p.undo(i, sr.me, evicted)

			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break
			}
		}
		return maxEval
	}

	minEval := math.MaxInt
	for i := range p.board {
		if p.board[i] != domain.Empty {
			continue
		}
		evicted := p.play(i, sr.opp)
		eval := sr.minimax(p, depth+1, true, alpha, beta)
		p.undo(i, sr.opp, evicted)

		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break
		}
	}
	return minEval
}
