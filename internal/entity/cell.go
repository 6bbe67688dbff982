package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Cell is the content of one board square.
type Cell uint8

const (
	EmptyCell Cell = iota
	MarkerX
	MarkerO
)

const GridSize = 9

var (
	ErrUnknownCell = errors.New("unknown cell value")
	ErrGridLength  = errors.New("grid must have exactly 9 cells")

	// WinPatterns - rows, then columns, then diagonals. Board and search both read this set.
	WinPatterns = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

func (that Cell) IsMarker() bool {
	return that == MarkerX || that == MarkerO
}

// Opponent returns the other marker. EmptyCell has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case MarkerX:
		return MarkerO
	case MarkerO:
		return MarkerX
	default:
		return EmptyCell
	}
}

func (that Cell) String() string {
	switch that {
	case MarkerX:
		return "X"
	case MarkerO:
		return "O"
	default:
		return ""
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	cell, err := ParseCell(string(text))
	if err != nil {
		return err
	}

	*that = cell

	return nil
}

// ParseCell accepts "X", "O" (any case) and "", ".", "-", "_", " " for an empty cell.
func ParseCell(value string) (Cell, error) {
	switch strings.ToUpper(value) {
	case "X":
		return MarkerX, nil
	case "O":
		return MarkerO, nil
	case "", ".", "-", "_", " ":
		return EmptyCell, nil
	default:
		return EmptyCell, fmt.Errorf("%w: %q", ErrUnknownCell, value)
	}
}

// Grid is a value copy of the nine cells in row-major order.
type Grid [GridSize]Cell

// ParseGrid reads a nine character board such as "X.O......".
func ParseGrid(value string) (Grid, error) {
	var grid Grid

	runes := []rune(value)
	if len(runes) != GridSize {
		return grid, fmt.Errorf("%w: got %d", ErrGridLength, len(runes))
	}

	for i, r := range runes {
		cell, err := ParseCell(string(r))
		if err != nil {
			return grid, fmt.Errorf("cell %d: %w", i, err)
		}
		grid[i] = cell
	}

	return grid, nil
}

// String renders the grid with "." for empty cells.
func (that Grid) String() string {
	var sb strings.Builder
	for _, cell := range that {
		if cell == EmptyCell {
			sb.WriteByte('.')
			continue
		}
		sb.WriteString(cell.String())
	}

	return sb.String()
}

// Count returns how many cells hold the given value.
func (that Grid) Count(cell Cell) int {
	n := 0
	for _, c := range that {
		if c == cell {
			n++
		}
	}

	return n
}
