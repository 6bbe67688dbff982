package game

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	ModePvP = "pvp"
	ModePvE = "pve"

	defaultFirstName  = "Player X"
	defaultSecondName = "Player O"
)

var ErrUnknownMode = errors.New("unknown game mode")

// NewPlayers builds the two players of a session. Player 0 always holds X.
// In pve mode the second player is automated. Blank names get defaults.
func NewPlayers(firstName, secondName, mode string) ([2]entity.Player, error) {
	if firstName == "" {
		firstName = defaultFirstName
	}

	if secondName == "" {
		secondName = defaultSecondName
	}

	var automated bool

	switch mode {
	case ModePvP:
	case ModePvE:
		automated = true
	default:
		return [2]entity.Player{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	return [2]entity.Player{
		{Name: firstName, Marker: entity.MarkerX},
		{Name: secondName, Marker: entity.MarkerO, Automated: automated},
	}, nil
}
