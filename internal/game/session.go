package game

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var ErrInvalidPlayers = errors.New("player 0 must hold X and player 1 must hold O")

// Engine chooses a move for marker on a snapshot of the board.
type Engine func(grid entity.Grid, marker entity.Cell) (int, bool)

type Option func(*Session)

func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithListener - a nil listener keeps the session silent.
func WithListener(listener Listener) Option {
	return func(s *Session) {
		if listener != nil {
			s.listener = listener
		}
	}
}

func WithEngine(engine Engine) Option {
	return func(s *Session) { s.engine = engine }
}

// WithAutoPlay - when enabled, automated turns are played inside the call that
// hands them the move. When disabled the caller paces them with AutomatedMove.
func WithAutoPlay(enabled bool) Option {
	return func(s *Session) { s.autoPlay = enabled }
}

// Session is the turn state machine of one game. It owns its board; the
// engine only ever sees snapshots. A Session is not safe for concurrent use.
type Session struct {
	id       string
	logger   *slog.Logger
	listener Listener
	engine   Engine
	autoPlay bool

	board   *tictactoe.Board
	players [2]entity.Player
	active  int
	status  entity.Status
	win     *entity.WinResult

	// set while a transition is being applied, including listener callbacks.
	busy bool
}

// NewSession creates a session in Playing with an empty board and player 0
// active. No events are sent until Start.
func NewSession(players [2]entity.Player, opts ...Option) (*Session, error) {
	if err := validatePlayers(players); err != nil {
		return nil, err
	}

	that := newSession(players, tictactoe.NewBoard(), opts)

	return that, nil
}

// Restore rebuilds a session from a stored state. The state must be one a
// session could have produced.
func Restore(state *entity.SessionState, opts ...Option) (*Session, error) {
	if err := validatePlayers(state.Players); err != nil {
		return nil, err
	}

	if state.ActivePlayer != 0 && state.ActivePlayer != 1 {
		return nil, fmt.Errorf("%w: active player %d", apperror.ErrCorruptedState, state.ActivePlayer)
	}

	board := tictactoe.FromGrid(state.Board)
	if err := validateStatus(board, state); err != nil {
		return nil, err
	}

	if err := validateTurn(state); err != nil {
		return nil, err
	}

	that := newSession(state.Players, board, append([]Option{WithID(state.ID)}, opts...))
	that.active = state.ActivePlayer
	that.status = state.Status

	if state.Win != nil {
		win := *state.Win
		that.win = &win
	}

	return that, nil
}

func newSession(players [2]entity.Player, board *tictactoe.Board, opts []Option) *Session {
	that := &Session{
		listener: nopListener{},
		engine:   minimax.BestMove,
		board:    board,
		players:  players,
		status:   entity.StatusPlaying,
	}

	for _, opt := range opts {
		opt(that)
	}

	if that.logger == nil {
		that.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	that.logger = that.logger.With("component", "session", "session_id", that.id)

	return that
}

func (that *Session) ID() string {
	return that.id
}

func (that *Session) Status() entity.Status {
	return that.status
}

func (that *Session) ActivePlayer() entity.Player {
	return that.players[that.active]
}

// AwaitingAutomatedMove - true when the next step belongs to the automated player.
func (that *Session) AwaitingAutomatedMove() bool {
	return !that.busy && that.status == entity.StatusPlaying && that.players[that.active].Automated
}

// State returns a copy of the session that shares nothing with it.
func (that *Session) State() *entity.SessionState {
	state := &entity.SessionState{
		ID:           that.id,
		Board:        that.board.Snapshot(),
		Players:      that.players,
		ActivePlayer: that.active,
		Status:       that.status,
	}

	if that.win != nil {
		win := *that.win
		state.Win = &win
	}

	return state
}

// Start announces the fresh session to the listener. It is Reset under another name.
func (that *Session) Start() error {
	return that.Reset()
}

// Reset clears the board and puts player 0 back on turn in Playing, from any state.
func (that *Session) Reset() error {
	if that.busy {
		return fmt.Errorf("%w: reset during a transition", apperror.ErrIllegalTransition)
	}

	that.reset()
	that.playAutomatedTurns()

	return nil
}

func (that *Session) reset() {
	that.busy = true
	defer func() { that.busy = false }()

	snapshot := that.board.Reset()
	that.active = 0
	that.status = entity.StatusPlaying
	that.win = nil

	that.logger.Debug("session reset")

	that.listener.OnBoardChanged(snapshot)
	that.listener.OnStatusChanged(that.status, that.players[that.active])
}

// RequestMove places the active human player's marker at index.
func (that *Session) RequestMove(index int) error {
	log := that.logger.With("method", "RequestMove", "cell", index)

	if err := that.checkTurn(false); err != nil {
		log.Debug("move refused", "error", err)
		return err
	}

	if !that.place(index) {
		log.Debug("move refused", "error", apperror.ErrInvalidMove)
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidMove, index)
	}

	that.playAutomatedTurns()

	return nil
}

// AutomatedMove lets the engine play for the active automated player.
// It panics with apperror.ErrEngineInvariant if the board rejects the engine's move.
func (that *Session) AutomatedMove() error {
	if err := that.checkTurn(true); err != nil {
		that.logger.Debug("automated move refused", "method", "AutomatedMove", "error", err)
		return err
	}

	that.playAutomated()
	that.playAutomatedTurns()

	return nil
}

func (that *Session) place(index int) bool {
	that.busy = true
	defer func() { that.busy = false }()

	if !that.board.Place(index, that.players[that.active].Marker) {
		return false
	}

	that.afterPlacement(index)

	return true
}

func (that *Session) playAutomatedTurns() {
	if !that.autoPlay {
		return
	}

	for that.AwaitingAutomatedMove() {
		that.playAutomated()
	}
}

func (that *Session) playAutomated() {
	that.busy = true
	defer func() { that.busy = false }()

	marker := that.players[that.active].Marker
	snapshot := that.board.Snapshot()

	move, ok := that.engine(snapshot, marker)
	if !ok {
		panic(fmt.Errorf("%w: no move for %s on %s", apperror.ErrEngineInvariant, marker, snapshot))
	}

	if !that.board.Place(move, marker) {
		panic(fmt.Errorf("%w: cell %d rejected for %s on %s", apperror.ErrEngineInvariant, move, marker, snapshot))
	}

	that.afterPlacement(move)
}

func (that *Session) checkTurn(automated bool) error {
	switch {
	case that.busy:
		return fmt.Errorf("%w: transition in progress", apperror.ErrIllegalTransition)
	case that.status.IsTerminal():
		return fmt.Errorf("%w: session is %s", apperror.ErrIllegalTransition, that.status)
	case that.players[that.active].Automated != automated:
		return fmt.Errorf("%w: not %s's turn", apperror.ErrIllegalTransition, that.kindOf(automated))
	default:
		return nil
	}
}

func (that *Session) kindOf(automated bool) string {
	if automated {
		return "the automated player"
	}
	return "a human player"
}

// afterPlacement settles the state first and only then notifies the listener.
func (that *Session) afterPlacement(cell int) {
	mover := that.players[that.active]

	if win, ok := that.board.CheckTerminal(); ok {
		that.status = entity.StatusWon
		that.win = &win
	} else if that.board.IsFull() {
		that.status = entity.StatusDraw
	} else {
		that.active = 1 - that.active
	}

	that.logger.Debug("move applied", "player", mover.Name, "marker", mover.Marker.String(), "cell", cell)

	that.listener.OnBoardChanged(that.board.Snapshot())

	switch that.status {
	case entity.StatusWon:
		that.logger.Info("game won", "winner", mover.Name, "line", that.win.Line)
		that.listener.OnStatusChanged(that.status, mover)
		that.listener.OnTerminal(that.status, that.State().Win)
	case entity.StatusDraw:
		that.logger.Info("game drawn")
		that.listener.OnStatusChanged(that.status, entity.Player{})
		that.listener.OnTerminal(that.status, nil)
	default:
		that.listener.OnStatusChanged(that.status, that.players[that.active])
	}
}

func validatePlayers(players [2]entity.Player) error {
	first, second := players[0].Marker, players[1].Marker
	if first != entity.MarkerX || second != entity.MarkerO {
		return fmt.Errorf("%w: got %q and %q", ErrInvalidPlayers, first, second)
	}

	return nil
}

func validateStatus(board *tictactoe.Board, state *entity.SessionState) error {
	win, won := board.CheckTerminal()

	switch {
	case won:
		if state.Status != entity.StatusWon || state.Win == nil || *state.Win != win {
			return fmt.Errorf("%w: board holds a win but status is %s", apperror.ErrCorruptedState, state.Status)
		}
	case board.IsFull():
		if state.Status != entity.StatusDraw {
			return fmt.Errorf("%w: board is full but status is %s", apperror.ErrCorruptedState, state.Status)
		}
	default:
		if state.Status != entity.StatusPlaying {
			return fmt.Errorf("%w: board is open but status is %s", apperror.ErrCorruptedState, state.Status)
		}
	}

	return nil
}

// validateTurn checks the active player against the marker counts. X opens, so
// while playing equal counts put player 0 on turn; once the game is over the
// active player is the one who made the last move.
func validateTurn(state *entity.SessionState) error {
	next := state.Board.Count(entity.MarkerX) - state.Board.Count(entity.MarkerO)
	if next != 0 && next != 1 {
		return fmt.Errorf("%w: %d more X than O", apperror.ErrCorruptedState, next)
	}

	expected := next
	if state.Status.IsTerminal() {
		expected = 1 - next
	}

	if state.ActivePlayer != expected {
		return fmt.Errorf("%w: player %d on turn after %d moves",
			apperror.ErrCorruptedState, state.ActivePlayer, state.Board.Count(entity.MarkerX)+state.Board.Count(entity.MarkerO))
	}

	return nil
}
