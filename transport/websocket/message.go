package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

const (
	actionStart = "game:start"
	actionTurn  = "game:turn"
	actionReset = "game:reset"
	actionState = "game:state"
	actionEnd   = "game:end"

	eventBoardChanged  = "board:changed"
	eventStatusChanged = "status:changed"
	eventTerminal      = "game:terminal"
	eventError         = "error"
)

var errPlayerCount = errors.New("either no players or exactly two")

// Message is one frame in either direction.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type playerPayload struct {
	Name      string `json:"name"`
	Automated bool   `json:"automated,omitempty"`
}

// startPayload - without players a pve game against the engine is created.
type startPayload struct {
	SessionID string          `json:"session_id,omitempty"`
	Mode      string          `json:"mode,omitempty"`
	Players   []playerPayload `json:"players,omitempty"`
}

type turnPayload struct {
	SessionID string `json:"session_id"`
	Cell      *int   `json:"cell"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type sessionPayload struct {
	Session *entity.SessionState `json:"session,omitempty"`
	Message string               `json:"message,omitempty"`
	Error   string               `json:"error,omitempty"`
}

type boardPayload struct {
	Board entity.Grid `json:"board"`
}

type statusPayload struct {
	Status entity.Status  `json:"status"`
	Player *entity.Player `json:"player,omitempty"`
}

type terminalPayload struct {
	Status entity.Status     `json:"status"`
	Win    *entity.WinResult `json:"win,omitempty"`
}

func (that *startPayload) toPlayers() ([2]entity.Player, error) {
	if len(that.Players) != 0 && len(that.Players) != 2 {
		return [2]entity.Player{}, fmt.Errorf("%w: got %d", errPlayerCount, len(that.Players))
	}

	mode := that.Mode
	if mode == "" {
		mode = game.ModePvE
		if len(that.Players) == 2 {
			mode = game.ModePvP
		}
	}

	var names [2]string
	for i, player := range that.Players {
		names[i] = player.Name
	}

	players, err := game.NewPlayers(names[0], names[1], mode)
	if err != nil {
		return [2]entity.Player{}, fmt.Errorf("failed to build players: %w", err)
	}

	for i, player := range that.Players {
		if player.Automated {
			players[i].Automated = true
		}
	}

	return players, nil
}

func encode(action string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return msg, nil
}
