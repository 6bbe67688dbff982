package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, state *entity.SessionState) error
	GetByID(ctx context.Context, id string) (*entity.SessionState, error)
	DeleteByID(ctx context.Context, id string) error
}

// SessionManager drives stored sessions. Each call loads the state, applies one
// transition and saves the result. Automated turns are never played implicitly:
// callers pace them with AutomatedTurn.
type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is shared by every caller working on one id. refs counts holders
// and waiters; the entry leaves the map when the last of them is done.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo) *SessionManager {
	return &SessionManager{
		logger:      logger,
		sessionRepo: sessionRepo,
		locks:       make(map[string]*sessionLock),
	}
}

// StartSession creates a session, stores it and then announces it. An empty id
// gets a generated one; an existing id is overwritten by the new game.
func (that *SessionManager) StartSession(
	ctx context.Context, id string, players [2]entity.Player, listener game.Listener,
) (*entity.SessionState, error) {
	log := that.logger.With("method", "StartSession")

	if id == "" {
		id = pkg.GenerateSessionID()
	}

	unlock := that.lock(id)
	defer unlock()

	events := &eventBuffer{}

	session, err := game.NewSession(players, that.sessionOptions(id, events)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err = session.Start(); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	state := session.State()
	if err = that.sessionRepo.CreateOrUpdate(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	events.replay(listener)

	log.Info("session started", "session_id", id, "first", players[0].Name, "second", players[1].Name)

	return state, nil
}

// MakeTurn places the active human player's marker on cell.
func (that *SessionManager) MakeTurn(
	ctx context.Context, id string, cell int, listener game.Listener,
) (*entity.SessionState, error) {
	return that.apply(ctx, id, listener, func(session *game.Session) error {
		return session.RequestMove(cell)
	})
}

// AutomatedTurn lets the engine answer for the active automated player.
func (that *SessionManager) AutomatedTurn(
	ctx context.Context, id string, listener game.Listener,
) (*entity.SessionState, error) {
	return that.apply(ctx, id, listener, func(session *game.Session) error {
		return session.AutomatedMove()
	})
}

// ResetSession clears the board of a stored session, whatever its status.
func (that *SessionManager) ResetSession(
	ctx context.Context, id string, listener game.Listener,
) (*entity.SessionState, error) {
	return that.apply(ctx, id, listener, func(session *game.Session) error {
		return session.Reset()
	})
}

func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.SessionState, error) {
	state, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return state, nil
}

func (that *SessionManager) EndSession(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "method", "EndSession", "session_id", id)

	return nil
}

// apply runs one transition on a stored session. Its events reach listener only
// once the new state is saved. A refused transition leaves storage untouched
// and returns the unchanged state with the error.
func (that *SessionManager) apply(
	ctx context.Context, id string, listener game.Listener, transition func(*game.Session) error,
) (*entity.SessionState, error) {
	unlock := that.lock(id)
	defer unlock()

	stored, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	events := &eventBuffer{}

	session, err := game.Restore(stored, that.sessionOptions(id, events)...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	if err = transition(session); err != nil {
		return stored, err
	}

	state := session.State()
	if err = that.sessionRepo.CreateOrUpdate(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	events.replay(listener)

	return state, nil
}

func (that *SessionManager) sessionOptions(id string, listener game.Listener) []game.Option {
	return []game.Option{
		game.WithID(id),
		game.WithLogger(that.logger),
		game.WithListener(listener),
		game.WithAutoPlay(false),
	}
}

// lock serialises transitions on one session id. The returned func unlocks.
func (that *SessionManager) lock(id string) func() {
	that.mu.Lock()
	entry, ok := that.locks[id]
	if !ok {
		entry = &sessionLock{}
		that.locks[id] = entry
	}
	entry.refs++
	that.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, id)
		}
		that.mu.Unlock()
	}
}
