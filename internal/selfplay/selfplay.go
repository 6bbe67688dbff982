// Package selfplay plays the engine against itself to check that perfect
// play from every opening is a draw.
package selfplay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

// EngineOpening marks the game where X's first move is left to the engine.
const EngineOpening = -1

type Result struct {
	Opening int               `json:"opening"`
	Status  entity.Status     `json:"status"`
	Win     *entity.WinResult `json:"win,omitempty"`
	Board   entity.Grid       `json:"board"`
	Moves   int               `json:"moves"`
	Elapsed time.Duration     `json:"elapsed"`
}

type Report struct {
	Results []Result `json:"results"`
	Draws   int      `json:"draws"`
	Wins    int      `json:"wins"`
}

// AllDrawn - true when no game produced a winner.
func (that *Report) AllDrawn() bool {
	return that.Wins == 0 && that.Draws == len(that.Results)
}

// Openings returns the engine opening followed by every cell.
func Openings() []int {
	return append([]int{EngineOpening}, lo.Range(entity.GridSize)...)
}

// Run plays one engine-vs-engine game per opening, in parallel. Results keep
// the order of openings.
func Run(ctx context.Context, logger *slog.Logger, openings []int) (*Report, error) {
	log := logger.With("component", "selfplay")

	results := make([]Result, len(openings))

	g, ctx := errgroup.WithContext(ctx)
	for i, opening := range openings {
		i, opening := i, opening
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := playOut(opening)
			if err != nil {
				return fmt.Errorf("opening %d: %w", opening, err)
			}

			log.Debug("game finished", "opening", opening, "status", result.Status.String(), "moves", result.Moves)
			results[i] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("self-play failed: %w", err)
	}

	report := &Report{
		Results: results,
		Draws:   lo.CountBy(results, func(r Result) bool { return r.Status == entity.StatusDraw }),
		Wins:    lo.CountBy(results, func(r Result) bool { return r.Status == entity.StatusWon }),
	}

	log.Info("self-play finished", "games", len(results), "draws", report.Draws, "wins", report.Wins)

	return report, nil
}

func playOut(opening int) (Result, error) {
	players := [2]entity.Player{
		{Name: "Engine X", Marker: entity.MarkerX, Automated: true},
		{Name: "Engine O", Marker: entity.MarkerO, Automated: true},
	}

	started := time.Now()

	session, err := openSession(players, opening)
	if err != nil {
		return Result{}, err
	}

	state := session.State()

	return Result{
		Opening: opening,
		Status:  state.Status,
		Win:     state.Win,
		Board:   state.Board,
		Moves:   state.Board.Count(entity.MarkerX) + state.Board.Count(entity.MarkerO),
		Elapsed: time.Since(started),
	}, nil
}

func openSession(players [2]entity.Player, opening int) (*game.Session, error) {
	opts := []game.Option{game.WithAutoPlay(true)}

	if opening == EngineOpening {
		session, err := game.NewSession(players, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}

		if err = session.Start(); err != nil {
			return nil, fmt.Errorf("failed to start session: %w", err)
		}

		return session, nil
	}

	if opening < 0 || opening >= entity.GridSize {
		return nil, fmt.Errorf("opening cell %d is off the board", opening)
	}

	var board entity.Grid
	board[opening] = entity.MarkerX

	session, err := game.Restore(&entity.SessionState{
		Board:        board,
		Players:      players,
		ActivePlayer: 1,
		Status:       entity.StatusPlaying,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	if err = session.AutomatedMove(); err != nil {
		return nil, fmt.Errorf("failed to play automated move: %w", err)
	}

	return session, nil
}
