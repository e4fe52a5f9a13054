package bot

import (
	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// stoneQueue is a side's stone history, oldest first. Five entries cover
// the most one side can hold on a classic board.
type stoneQueue struct {
	cells [5]int
	n     int
}

func (q *stoneQueue) push(i int) {
	q.cells[q.n] = i
	q.n++
}

func (q *stoneQueue) pop() int {
	q.n--
	return q.cells[q.n]
}

// shift removes and returns the oldest stone.
func (q *stoneQueue) shift() int {
	oldest := q.cells[0]
	copy(q.cells[:q.n-1], q.cells[1:q.n])
	q.n--
	return oldest
}

// unshift puts i back as the oldest stone.
func (q *stoneQueue) unshift(i int) {
	copy(q.cells[1:q.n+1], q.cells[:q.n])
	q.cells[0] = i
	q.n++
}

func (q *stoneQueue) slice() []int {
	return append([]int(nil), q.cells[:q.n]...)
}

// position is the scratch board the search mutates and restores.
type position struct {
	board   domain.Board
	stones  [3]stoneQueue // indexed by domain.Cell
	sliding bool
}

func newPosition(state *domain.MatchState) *position {
	p := &position{board: state.Board, sliding: state.SlidingWindow}
	for _, side := range [2]domain.Cell{domain.Player, domain.Bot} {
		for _, i := range state.Stones(side) {
			p.stones[side].push(i)
		}
	}
	return p
}

// play places side's stone at i and returns the cell it evicted, if any.
func (p *position) play(i int, side domain.Cell) int {
	q := &p.stones[side]
	evicted := domain.NoCell
	if p.sliding && q.n >= domain.MaxLiveStones {
		evicted = q.shift()
		p.board[evicted] = domain.Empty
	}
	q.push(i)
	p.board[i] = side
	return evicted
}

// undo reverses play, restoring an evicted stone to both the board and
// the front of its history.
func (p *position) undo(i int, side domain.Cell, evicted int) {
	q := &p.stones[side]
	q.pop()
	p.board[i] = domain.Empty
	if evicted != domain.NoCell {
		q.unshift(evicted)
		p.board[evicted] = side
	}
}
