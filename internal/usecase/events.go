package usecase

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

// eventBuffer holds session events until the state that produced them is stored.
type eventBuffer struct {
	events []func(game.Listener)
}

func (that *eventBuffer) OnBoardChanged(snapshot entity.Grid) {
	that.events = append(that.events, func(l game.Listener) { l.OnBoardChanged(snapshot) })
}

func (that *eventBuffer) OnStatusChanged(status entity.Status, player entity.Player) {
	that.events = append(that.events, func(l game.Listener) { l.OnStatusChanged(status, player) })
}

func (that *eventBuffer) OnTerminal(status entity.Status, win *entity.WinResult) {
	that.events = append(that.events, func(l game.Listener) { l.OnTerminal(status, win) })
}

// replay sends the held events to listener in the order they happened.
func (that *eventBuffer) replay(listener game.Listener) {
	if listener == nil {
		return
	}

	for _, event := range that.events {
		event(listener)
	}

	that.events = nil
}
