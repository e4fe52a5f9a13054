package bot

import (
	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

const (
	SCORE_OWN_TWO      = 50
	SCORE_OWN_ONE      = 10
	SCORE_THEIR_TWO    = -40
	SCORE_THEIR_ONE    = -5
	SCORE_OWN_CENTER   = 15
	SCORE_THEIR_CENTER = -10
	SCORE_OWN_CORNER   = 5
	SCORE_THEIR_CORNER = -3
)

// evaluateBoard scores a non-terminal position from me's point of view.
func evaluateBoard(board *domain.Board, me domain.Cell) int {
	score := 0

	for _, ln := range domain.Lines {
		own, their := board.LineCounts(ln, me)
		switch {
		case their == 0 && own == 2:
			score += SCORE_OWN_TWO
		case their == 0 && own == 1:
			score += SCORE_OWN_ONE
		case own == 0 && their == 2:
			score += SCORE_THEIR_TWO
		case own == 0 && their == 1:
			score += SCORE_THEIR_ONE
		}
	}

	switch board[domain.Center] {
	case me:
		score += SCORE_OWN_CENTER
	case me.Opponent():
		score += SCORE_THEIR_CENTER
	}

	for _, i := range domain.Corners {
		switch board[i] {
		case me:
			score += SCORE_OWN_CORNER
		case me.Opponent():
			score += SCORE_THEIR_CORNER
		}
	}

	return score
}
