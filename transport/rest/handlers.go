package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var (
	errBadMarkerCount = errors.New("marker counts cannot come from alternating play")
	errGameOver       = errors.New("board is already decided")
)

// positionRequest - board is nine cells in row-major order, see entity.ParseGrid.
// marker is optional; without it the side to move is taken from the counts.
type positionRequest struct {
	Board  string `json:"board"`
	Marker string `json:"marker,omitempty"`
}

type bestMoveResponse struct {
	Cell   int    `json:"cell"`
	Marker string `json:"marker"`
	Board  string `json:"board"`
}

type analyzeResponse struct {
	Marker string              `json:"marker"`
	Best   int                 `json:"best"`
	Moves  []minimax.MoveScore `json:"moves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
}

func newHandlers(logger *slog.Logger) *handlers {
	return &handlers{logger: logger.With("component", "rest")}
}

func (that *handlers) bestMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "bestMove")

	grid, marker, err := decodePosition(r)
	if err != nil {
		log.Debug("rejected position", "error", err)
		writeError(w, err)
		return
	}

	cell, ok := minimax.BestMove(grid, marker)
	if !ok {
		writeError(w, errGameOver)
		return
	}

	next := grid
	next[cell] = marker

	log.Debug("best move", "board", grid.String(), "marker", marker.String(), "cell", cell)

	writeJSON(w, http.StatusOK, bestMoveResponse{
		Cell:   cell,
		Marker: marker.String(),
		Board:  next.String(),
	})
}

func (that *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "analyze")

	grid, marker, err := decodePosition(r)
	if err != nil {
		log.Debug("rejected position", "error", err)
		writeError(w, err)
		return
	}

	moves := minimax.Analyze(grid, marker)

	cell, ok := minimax.Best(moves)
	if !ok {
		writeError(w, errGameOver)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Marker: marker.String(),
		Best:   cell,
		Moves:  moves,
	})
}

// decodePosition reads a position that could arise in a real game and has no winner yet.
func decodePosition(r *http.Request) (entity.Grid, entity.Cell, error) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return entity.Grid{}, entity.EmptyCell, fmt.Errorf("invalid payload: %w", err)
	}

	grid, err := entity.ParseGrid(req.Board)
	if err != nil {
		return entity.Grid{}, entity.EmptyCell, fmt.Errorf("invalid board: %w", err)
	}

	if _, won := tictactoe.FromGrid(grid).CheckTerminal(); won {
		return entity.Grid{}, entity.EmptyCell, errGameOver
	}

	marker, err := sideToMove(grid)
	if err != nil {
		return entity.Grid{}, entity.EmptyCell, err
	}

	if req.Marker != "" {
		marker, err = entity.ParseCell(req.Marker)
		if err != nil || !marker.IsMarker() {
			return entity.Grid{}, entity.EmptyCell, fmt.Errorf("invalid marker %q", req.Marker)
		}
	}

	return grid, marker, nil
}

// sideToMove - X always opens, so equal counts mean X is next.
func sideToMove(grid entity.Grid) (entity.Cell, error) {
	switch grid.Count(entity.MarkerX) - grid.Count(entity.MarkerO) {
	case 0:
		return entity.MarkerX, nil
	case 1:
		return entity.MarkerO, nil
	default:
		return entity.EmptyCell, errBadMarkerCount
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, errGameOver) {
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
