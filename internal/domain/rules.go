package domain

import "fmt"

func rejectMove(reason Error) error {
	return fmt.Errorf("%w: %w", ErrInvalidMove, reason)
}

// ApplyMove places a stone for side at index. In sliding-window mode a
// side that already has MaxLiveStones loses its oldest stone first; that
// cell is returned as evicted, otherwise evicted is NoCell.
// A rejected move leaves the state untouched.
func (s *MatchState) ApplyMove(index int, side Cell) (evicted int, err error) {
	if err := s.Validate(); err != nil {
		return NoCell, err
	}

	switch {
	case s.Result.IsTerminal():
		return NoCell, rejectMove(ErrMatchOver)
	case !IsValidIndex(index):
		return NoCell, rejectMove(ErrOutOfRange)
	case side != s.Turn:
		return NoCell, rejectMove(ErrNotYourTurn)
	case s.Board[index] != Empty:
		return NoCell, rejectMove(ErrCellOccupied)
	}

	stones := s.stonesRef(side)
	evicted = s.NextEviction(side)
	if evicted != NoCell {
		s.Board[evicted] = Empty
		*stones = append((*stones)[:0], (*stones)[1:]...)
	}
	*stones = append(*stones, index)
	s.Board[index] = side
	s.TurnCount++

	s.Result = s.CheckTerminal()
	if !s.Result.IsTerminal() {
		s.Turn = side.Opponent()
	}

	if err := s.Validate(); err != nil {
		return evicted, err
	}
	return evicted, nil
}

// CheckTerminal scans rows, then columns, then diagonals. A full board is
// a draw only in classic mode; sliding-window matches never draw.
func (s *MatchState) CheckTerminal() Result {
	switch s.Board.Winner() {
	case Player:
		return PlayerWin
	case Bot:
		return BotWin
	}
	if !s.SlidingWindow && s.Board.IsFull() {
		return Draw
	}
	return Ongoing
}

// Validate checks that every occupied cell appears in its owner's stone
// history and nowhere else.
func (s *MatchState) Validate() error {
	if s.Turn != Player && s.Turn != Bot {
		return fmt.Errorf("%w: turn %d", ErrInconsistentState, s.Turn)
	}
	if s.SlidingWindow && (len(s.PlayerStones) > MaxLiveStones || len(s.BotStones) > MaxLiveStones) {
		return fmt.Errorf("%w: more than %d live stones", ErrInconsistentState, MaxLiveStones)
	}

	var seen Board
	for _, side := range [2]Cell{Player, Bot} {
		for _, i := range s.Stones(side) {
			if !IsValidIndex(i) || seen[i] != Empty || s.Board[i] != side {
				return fmt.Errorf("%w: %s stone at %d", ErrInconsistentState, side, i)
			}
			seen[i] = side
		}
	}
	if seen != s.Board {
		return fmt.Errorf("%w: board has stones missing from history", ErrInconsistentState)
	}
	return nil
}
