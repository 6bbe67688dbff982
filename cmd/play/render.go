package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
)

// renderGrid draws the board with the 1-9 key of every empty cell.
func renderGrid(grid entity.Grid, au aurora.Aurora) string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		cells := make([]string, 3)
		for col := range cells {
			i := row*3 + col
			switch grid[i] {
			case entity.MarkerX:
				cells[col] = au.Bold(au.Red("X")).String()
			case entity.MarkerO:
				cells[col] = au.Bold(au.Blue("O")).String()
			default:
				cells[col] = au.Gray(12, strconv.Itoa(i+1)).String()
			}
		}

		sb.WriteString(" " + strings.Join(cells, " | ") + "\n")
	}

	return sb.String()
}

// renderAnalysis lists the minimax score of every empty cell, by key.
func renderAnalysis(scores []minimax.MoveScore) string {
	parts := make([]string, 0, len(scores))
	for _, score := range scores {
		parts = append(parts, fmt.Sprintf("%d:%+d", score.Index+1, score.Score))
	}

	return strings.Join(parts, " ")
}

// terminal prints session events as they happen.
type terminal struct {
	out io.Writer
	au  aurora.Aurora
}

func (that terminal) OnBoardChanged(snapshot entity.Grid) {
	fmt.Fprint(that.out, "\n"+renderGrid(snapshot, that.au))
}

func (that terminal) OnStatusChanged(status entity.Status, player entity.Player) {
	if status == entity.StatusPlaying {
		fmt.Fprintf(that.out, "%s's turn (%s)\n", player.Name, player.Marker)
	}
}

func (that terminal) OnTerminal(status entity.Status, win *entity.WinResult) {
	if win != nil {
		fmt.Fprintf(that.out, "%s wins on cells %d-%d-%d!\n", win.Winner, win.Line[0]+1, win.Line[1]+1, win.Line[2]+1)
		return
	}

	fmt.Fprintln(that.out, "Game ended in a draw!")
}
