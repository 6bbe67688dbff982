package tictactoe

import (
	"github.com/samber/lo"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Board owns the live grid of one session. A cell that holds a marker keeps
// it until Reset.
type Board struct {
	cells entity.Grid
}

func NewBoard() *Board {
	return &Board{}
}

// FromGrid builds a board holding a previously taken snapshot.
func FromGrid(grid entity.Grid) *Board {
	return &Board{cells: grid}
}

// Reset - clears every cell and returns the empty snapshot.
func (that *Board) Reset() entity.Grid {
	that.cells = entity.Grid{}

	return that.Snapshot()
}

// Snapshot - returns a copy of the cells; changing it never touches the board.
func (that *Board) Snapshot() entity.Grid {
	return that.cells
}

// Place - writes marker at index if the index is on the board and the cell is empty.
func (that *Board) Place(index int, marker entity.Cell) bool {
	if !isValidIndex(index) || !marker.IsMarker() {
		return false
	}

	if that.cells[index] != entity.EmptyCell {
		return false
	}

	that.cells[index] = marker

	return true
}

func (that *Board) IsFull() bool {
	return !lo.Contains(that.cells[:], entity.EmptyCell)
}

// CheckTerminal - returns the first win pattern, in WinPatterns order, filled by one marker.
func (that *Board) CheckTerminal() (entity.WinResult, bool) {
	for _, pattern := range entity.WinPatterns {
		a, b, c := that.cells[pattern[0]], that.cells[pattern[1]], that.cells[pattern[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.WinResult{Winner: a, Line: pattern}, true
		}
	}

	return entity.WinResult{}, false
}

// AvailableMoves - empty cell indices in ascending order.
func (that *Board) AvailableMoves() []int {
	return lo.Filter(lo.Range(entity.GridSize), func(index int, _ int) bool {
		return that.cells[index] == entity.EmptyCell
	})
}

func isValidIndex(index int) bool {
	return index >= 0 && index < entity.GridSize
}
