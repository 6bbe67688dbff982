package entity

import (
	"fmt"
	"strings"
)

type Status uint8

const (
	StatusPlaying Status = iota
	StatusWon
	StatusDraw
)

func (that Status) String() string {
	switch that {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusDraw:
		return "draw"
	default:
		return fmt.Sprintf("status(%d)", uint8(that))
	}
}

func (that Status) IsTerminal() bool {
	return that == StatusWon || that == StatusDraw
}

func (that Status) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Status) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "playing":
		*that = StatusPlaying
	case "won":
		*that = StatusWon
	case "draw":
		*that = StatusDraw
	default:
		return fmt.Errorf("unknown status %q", text)
	}

	return nil
}

// WinResult is the marker that completed a line and the line itself.
type WinResult struct {
	Winner Cell   `json:"winner"`
	Line   [3]int `json:"line"`
}

// SessionState is a serialisable view of a game session.
type SessionState struct {
	ID           string     `json:"id"`
	Board        Grid       `json:"board"`
	Players      [2]Player  `json:"players"`
	ActivePlayer int        `json:"active_player"`
	Status       Status     `json:"status"`
	Win          *WinResult `json:"win,omitempty"`
}

func (that *SessionState) Active() Player {
	return that.Players[that.ActivePlayer]
}

// Winner returns the player holding the winning marker, if any.
func (that *SessionState) Winner() (Player, bool) {
	if that.Win == nil {
		return Player{}, false
	}

	for _, player := range that.Players {
		if player.Marker == that.Win.Winner {
			return player, true
		}
	}

	return Player{}, false
}

// AwaitingAutomatedMove - the game is on and the automated player has the turn.
func (that *SessionState) AwaitingAutomatedMove() bool {
	return that.Status == StatusPlaying && that.Active().Automated
}

// Message is the one-line status text shown to players.
func (that *SessionState) Message() string {
	switch that.Status {
	case StatusWon:
		if winner, ok := that.Winner(); ok {
			return winner.Name + " wins!"
		}
		return that.Win.Winner.String() + " wins!"
	case StatusDraw:
		return "Game ended in a draw!"
	default:
		active := that.Active()
		return fmt.Sprintf("%s's turn (%s)", active.Name, active.Marker)
	}
}
