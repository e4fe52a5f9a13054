package domain

// Board is the 3x3 grid stored row-major, index 0 top-left.
type Board [BoardSize]Cell

func IsValidIndex(index int) bool {
	return index >= 0 && index < BoardSize
}

// EmptyCells returns the indexes of every empty cell in ascending order.
func (b *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, c := range b {
		if c == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

func (b *Board) EmptyCorners() []int {
	corners := make([]int, 0, len(Corners))
	for _, i := range Corners {
		if b[i] == Empty {
			corners = append(corners, i)
		}
	}
	return corners
}

func (b *Board) Count(c Cell) int {
	n := 0
	for _, cell := range b {
		if cell == c {
			n++
		}
	}
	return n
}

func (b *Board) IsFull() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// HasLine reports whether stone occupies all three cells of any line.
func (b *Board) HasLine(stone Cell) bool {
	if stone == Empty {
		return false
	}
	for _, ln := range Lines {
		if b[ln[0]] == stone && b[ln[1]] == stone && b[ln[2]] == stone {
			return true
		}
	}
	return false
}

// Winner returns the owner of the first complete line in Lines order,
// or Empty when no line is complete.
func (b *Board) Winner() Cell {
	for _, ln := range Lines {
		first := b[ln[0]]
		if first != Empty && first == b[ln[1]] && first == b[ln[2]] {
			return first
		}
	}
	return Empty
}

// LineCounts returns how many cells of line ln hold each side's stones.
func (b *Board) LineCounts(ln [3]int, side Cell) (own, other int) {
	for _, i := range ln {
		switch b[i] {
		case side:
			own++
		case side.Opponent():
			other++
		}
	}
	return own, other
}
