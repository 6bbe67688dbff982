package main

import (
	"bytes"
	"testing"

	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
)

func TestRenderGrid(t *testing.T) {
	grid := entity.Grid{
		entity.MarkerX, entity.EmptyCell, entity.EmptyCell,
		entity.EmptyCell, entity.MarkerO, entity.EmptyCell,
		entity.EmptyCell, entity.EmptyCell, entity.MarkerX,
	}

	want := " X | 2 | 3\n" +
		"---+---+---\n" +
		" 4 | O | 6\n" +
		"---+---+---\n" +
		" 7 | 8 | X\n"

	assert.Equal(t, want, renderGrid(grid, aurora.NewAurora(false)))
}

func TestRenderGrid_Colors(t *testing.T) {
	grid := entity.Grid{entity.MarkerX, entity.MarkerO}

	rendered := renderGrid(grid, aurora.NewAurora(true))

	assert.Contains(t, rendered, "\x1b[")
	assert.Contains(t, rendered, "X")
	assert.Contains(t, rendered, "O")
}

func TestRenderAnalysis(t *testing.T) {
	scores := []minimax.MoveScore{{Index: 0, Score: 0}, {Index: 1, Score: -10}, {Index: 8, Score: 10}}

	assert.Equal(t, "1:+0 2:-10 9:+10", renderAnalysis(scores))
}

func TestTerminal(t *testing.T) {
	t.Run("Win names the line by key", func(t *testing.T) {
		var out bytes.Buffer

		terminal{out: &out, au: aurora.NewAurora(false)}.OnTerminal(entity.StatusWon, &entity.WinResult{Winner: entity.MarkerO, Line: [3]int{2, 4, 6}})

		assert.Equal(t, "O wins on cells 3-5-7!\n", out.String())
	})

	t.Run("Draw", func(t *testing.T) {
		var out bytes.Buffer

		terminal{out: &out, au: aurora.NewAurora(false)}.OnTerminal(entity.StatusDraw, nil)

		assert.Equal(t, "Game ended in a draw!\n", out.String())
	})

	t.Run("Status line only while playing", func(t *testing.T) {
		var out bytes.Buffer
		term := terminal{out: &out, au: aurora.NewAurora(false)}

		term.OnStatusChanged(entity.StatusPlaying, entity.Player{Name: "Ann", Marker: entity.MarkerX})
		term.OnStatusChanged(entity.StatusDraw, entity.Player{})

		assert.Equal(t, "Ann's turn (X)\n", out.String())
	})
}
