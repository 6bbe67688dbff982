// Package minimax picks moves by exhaustive minimax over a 3x3 grid.
//
// The search never prunes and never limits depth; a win is worth WinScore
// whatever ply it happens on. Every branch works on its own copy of the grid,
// so callers' snapshots are never touched.
package minimax

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	WinScore  = 10
	LossScore = -10
	DrawScore = 0
)

// NoMove is returned as the index when the grid has no empty cell.
const NoMove = -1

// MoveScore is the minimax value of playing Index for the maximizing marker.
type MoveScore struct {
	Index int `json:"index"`
	Score int `json:"score"`
}

// BestMove returns the empty cell with the highest minimax score for marker.
// Equal scores go to the lowest index. ok is false when no cell is empty.
func BestMove(grid entity.Grid, marker entity.Cell) (index int, ok bool) {
	return Best(Analyze(grid, marker))
}

// Best picks the first highest score from scores as Analyze returns them.
func Best(scores []MoveScore) (index int, ok bool) {
	if len(scores) == 0 {
		return NoMove, false
	}

	best := scores[0]
	for _, candidate := range scores[1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}

	return best.Index, true
}

// Analyze scores every empty cell, in ascending index order, as if marker
// plays there and both sides play perfectly afterwards.
func Analyze(grid entity.Grid, marker entity.Cell) []MoveScore {
	opponent := marker.Opponent()

	scores := make([]MoveScore, 0, entity.GridSize)
	for i := range grid {
		if grid[i] != entity.EmptyCell {
			continue
		}

		child := grid
		child[i] = marker
		scores = append(scores, MoveScore{
			Index: i,
			Score: search(child, 0, false, marker, opponent),
		})
	}

	return scores
}

// search returns the minimax value of grid for self. depth only counts plies;
// it never changes the score.
func search(grid entity.Grid, depth int, maximizing bool, self, other entity.Cell) int {
	if score, terminal := evaluate(grid, self, other); terminal {
		return score
	}

	if maximizing {
		best := math.MinInt
		for i := range grid {
			if grid[i] != entity.EmptyCell {
				continue
			}

			child := grid
			child[i] = self
			if score := search(child, depth+1, false, self, other); score > best {
				best = score
			}
		}

		return best
	}

	best := math.MaxInt
	for i := range grid {
		if grid[i] != entity.EmptyCell {
			continue
		}

		child := grid
		child[i] = other
		if score := search(child, depth+1, true, self, other); score < best {
			best = score
		}
	}

	return best
}

// evaluate scores a finished grid. The first completed pattern decides, the
// same way Board.CheckTerminal reports it.
func evaluate(grid entity.Grid, self, other entity.Cell) (int, bool) {
	for _, pattern := range entity.WinPatterns {
		a := grid[pattern[0]]
		if a == entity.EmptyCell || a != grid[pattern[1]] || a != grid[pattern[2]] {
			continue
		}

		switch a {
		case self:
			return WinScore, true
		case other:
			return LossScore, true
		}
	}

	for _, cell := range grid {
		if cell == entity.EmptyCell {
			return 0, false
		}
	}

	return DrawScore, true
}
