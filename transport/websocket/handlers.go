package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var (
	errSessionIDRequired = errors.New("session_id is required")
	errCellRequired      = errors.New("cell is required")
)

func (that *Server) handleStart(ctx context.Context, c *client, raw json.RawMessage) (*entity.SessionState, error) {
	var payload startPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	players, err := payload.toPlayers()
	if err != nil {
		return nil, err
	}

	state, err := that.sessions.StartSession(ctx, payload.SessionID, players, listener{client: c})
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return state, nil
}

func (that *Server) handleTurn(ctx context.Context, c *client, raw json.RawMessage) (*entity.SessionState, error) {
	var payload turnPayload
	if err := decodePayload(raw, &payload); err != nil {
		return nil, err
	}

	if payload.SessionID == "" {
		return nil, errSessionIDRequired
	}

	if payload.Cell == nil {
		return nil, errCellRequired
	}

	state, err := that.sessions.MakeTurn(ctx, payload.SessionID, *payload.Cell, listener{client: c})
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return state, nil
}

func (that *Server) handleReset(ctx context.Context, c *client, raw json.RawMessage) (*entity.SessionState, error) {
	id, err := decodeSessionID(raw)
	if err != nil {
		return nil, err
	}

	state, err := that.sessions.ResetSession(ctx, id, listener{client: c})
	if err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}

	return state, nil
}

func (that *Server) handleState(ctx context.Context, _ *client, raw json.RawMessage) (*entity.SessionState, error) {
	id, err := decodeSessionID(raw)
	if err != nil {
		return nil, err
	}

	state, err := that.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return state, nil
}

// handleEnd drops the stored session. It answers with an empty payload.
func (that *Server) handleEnd(ctx context.Context, _ *client, raw json.RawMessage) (*entity.SessionState, error) {
	id, err := decodeSessionID(raw)
	if err != nil {
		return nil, err
	}

	if err = that.sessions.EndSession(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to end session: %w", err)
	}

	return nil, nil
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	return nil
}

func decodeSessionID(raw json.RawMessage) (string, error) {
	var payload sessionRequest
	if err := decodePayload(raw, &payload); err != nil {
		return "", err
	}

	if payload.SessionID == "" {
		return "", errSessionIDRequired
	}

	return payload.SessionID, nil
}

// isRefusal - requests the game silently ignores: occupied cells, moves out of turn.
func isRefusal(err error) bool {
	return errors.Is(err, apperror.ErrInvalidMove) || errors.Is(err, apperror.ErrIllegalTransition)
}
