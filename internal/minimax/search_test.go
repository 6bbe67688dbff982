package minimax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	x = entity.MarkerX
	o = entity.MarkerO
	e = entity.EmptyCell
)

func TestBestMove(t *testing.T) {
	t.Run("Takes the open cell of its own two in a row", func(t *testing.T) {
		// Given: X holds 0 and 1, everything else is empty
		grid := entity.Grid{x, x, e, e, e, e, e, e, e}

		// When: searching for X
		move, ok := BestMove(grid, x)

		// Then: X completes the top row
		require.True(t, ok)
		assert.Equal(t, 2, move)
	})

	t.Run("Blocks the opponent's two in a row", func(t *testing.T) {
		// Given: X threatens the top row and it is O's turn
		grid := entity.Grid{x, x, e, e, o, e, e, e, e}

		// When: searching for O
		move, ok := BestMove(grid, o)

		// Then: O blocks at 2
		require.True(t, ok)
		assert.Equal(t, 2, move)
	})

	t.Run("Answers a center opening with the first corner", func(t *testing.T) {
		// Given: X opened in the center
		grid := entity.Grid{e, e, e, e, x, e, e, e, e}

		// When: searching for O
		move, ok := BestMove(grid, o)

		// Then: O takes corner 0, the lowest of the drawing replies
		require.True(t, ok)
		assert.Contains(t, []int{0, 2, 6, 8}, move)
		assert.Equal(t, 0, move)
	})

	t.Run("Empty board goes to index 0", func(t *testing.T) {
		move, ok := BestMove(entity.Grid{}, x)

		require.True(t, ok)
		assert.Equal(t, 0, move)
	})

	t.Run("Does not prefer a faster win", func(t *testing.T) {
		// Given: X can win at once on 5, and 2 forks into a win one turn later
		grid := entity.Grid{o, o, e, x, x, e, e, e, e}

		// When: searching for X
		scores := Analyze(grid, x)
		move, ok := BestMove(grid, x)

		// Then: both score a win and the lower index is chosen
		require.True(t, ok)
		assert.Contains(t, scores, MoveScore{Index: 2, Score: WinScore})
		assert.Contains(t, scores, MoveScore{Index: 5, Score: WinScore})
		assert.Equal(t, 2, move)
	})

	t.Run("Full board has no move", func(t *testing.T) {
		// Given: a drawn, full board
		grid := entity.Grid{x, o, x, x, o, o, o, x, x}

		// When: searching
		move, ok := BestMove(grid, o)

		// Then: the no-move signal comes back
		assert.False(t, ok)
		assert.Equal(t, NoMove, move)
	})

	t.Run("Same input always gives the same move", func(t *testing.T) {
		grid := entity.Grid{x, e, e, e, o, e, e, e, x}

		first, _ := BestMove(grid, o)
		for n := 0; n < 5; n++ {
			again, _ := BestMove(grid, o)
			assert.Equal(t, first, again)
		}
	})

	t.Run("Input grid is left as it was", func(t *testing.T) {
		grid := entity.Grid{x, e, e, e, o, e, e, e, e}
		before := grid

		_, _ = BestMove(grid, x)
		_ = Analyze(grid, o)

		assert.Equal(t, before, grid)
	})
}

func TestBest(t *testing.T) {
	t.Run("First maximum wins a tie", func(t *testing.T) {
		scores := []MoveScore{
			{Index: 1, Score: LossScore},
			{Index: 3, Score: DrawScore},
			{Index: 5, Score: WinScore},
			{Index: 7, Score: WinScore},
		}

		move, ok := Best(scores)

		require.True(t, ok)
		assert.Equal(t, 5, move)
	})

	t.Run("Agrees with BestMove on one search", func(t *testing.T) {
		grid := entity.Grid{x, e, e, e, e, e, e, e, e}

		move, ok := Best(Analyze(grid, o))
		expected, _ := BestMove(grid, o)

		require.True(t, ok)
		assert.Equal(t, expected, move)
		assert.Equal(t, 4, move)
	})

	t.Run("Nothing to choose from", func(t *testing.T) {
		move, ok := Best(nil)

		assert.False(t, ok)
		assert.Equal(t, NoMove, move)
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("Edges lose against a center opening", func(t *testing.T) {
		// Given: X in the center
		grid := entity.Grid{e, e, e, e, x, e, e, e, e}

		// When: analysing for O
		scores := Analyze(grid, o)

		// Then: corners draw and edges lose, in ascending index order
		assert.Equal(t, []MoveScore{
			{Index: 0, Score: DrawScore},
			{Index: 1, Score: LossScore},
			{Index: 2, Score: DrawScore},
			{Index: 3, Score: LossScore},
			{Index: 5, Score: LossScore},
			{Index: 6, Score: DrawScore},
			{Index: 7, Score: LossScore},
			{Index: 8, Score: DrawScore},
		}, scores)
	})

	t.Run("Every opening draws", func(t *testing.T) {
		scores := Analyze(entity.Grid{}, x)

		require.Len(t, scores, entity.GridSize)
		for _, score := range scores {
			assert.Equal(t, DrawScore, score.Score, "opening %d", score.Index)
		}
	})

	t.Run("Full board has nothing to score", func(t *testing.T) {
		assert.Empty(t, Analyze(entity.Grid{x, o, x, x, o, o, o, x, x}, x))
	})
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		grid     entity.Grid
		score    int
		terminal bool
	}{
		{name: "self wins", grid: entity.Grid{o, o, o, x, x, e, x, e, e}, score: WinScore, terminal: true},
		{name: "other wins", grid: entity.Grid{x, o, e, x, o, e, x, e, e}, score: LossScore, terminal: true},
		{name: "draw", grid: entity.Grid{x, o, x, x, o, o, o, x, x}, score: DrawScore, terminal: true},
		{name: "ongoing", grid: entity.Grid{x, e, e, e, o, e, e, e, e}, score: 0, terminal: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, terminal := evaluate(tc.grid, o, x)

			assert.Equal(t, tc.score, score)
			assert.Equal(t, tc.terminal, terminal)
		})
	}
}

func TestBestMove_AgreesWithBoard(t *testing.T) {
	// Given: engine-vs-engine play from the empty board
	board := tictactoe.NewBoard()
	marker := x

	for !board.IsFull() {
		// When: each side plays the engine's move for itself
		move, ok := BestMove(board.Snapshot(), marker)
		require.True(t, ok)
		require.True(t, board.Place(move, marker), "engine picked occupied cell %d", move)

		_, won := board.CheckTerminal()
		require.False(t, won, "perfect play must not produce a winner")

		marker = marker.Opponent()
	}

	// Then: the board fills without a winner
	_, won := board.CheckTerminal()
	assert.False(t, won)
}
