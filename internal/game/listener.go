package game

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// Listener receives session events. Calls happen synchronously, after the
// transition that caused them is complete.
type Listener interface {
	// OnBoardChanged - after every successful placement and after reset.
	OnBoardChanged(snapshot entity.Grid)
	// OnStatusChanged - after every transition. player is the active player
	// while playing, the winner after a win and the zero Player after a draw.
	OnStatusChanged(status entity.Status, player entity.Player)
	// OnTerminal - once, when the session becomes Won or Draw. win is nil for a draw.
	OnTerminal(status entity.Status, win *entity.WinResult)
}

type nopListener struct{}

func (nopListener) OnBoardChanged(entity.Grid)                   {}
func (nopListener) OnStatusChanged(entity.Status, entity.Player) {}
func (nopListener) OnTerminal(entity.Status, *entity.WinResult)  {}
