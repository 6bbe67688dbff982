package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

const (
	maxMessageSize  = 4096
	shutdownTimeout = 5 * time.Second
)

var errUnknownAction = errors.New("unknown action")

type sessionUseCase interface {
	StartSession(ctx context.Context, id string, players [2]entity.Player, listener game.Listener) (*entity.SessionState, error)
	MakeTurn(ctx context.Context, id string, cell int, listener game.Listener) (*entity.SessionState, error)
	AutomatedTurn(ctx context.Context, id string, listener game.Listener) (*entity.SessionState, error)
	ResetSession(ctx context.Context, id string, listener game.Listener) (*entity.SessionState, error)
	GetSession(ctx context.Context, id string) (*entity.SessionState, error)
	EndSession(ctx context.Context, id string) error
}

type handlerFunc func(ctx context.Context, client *client, payload json.RawMessage) (*entity.SessionState, error)

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase
	botDelay time.Duration
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

// New - botDelay is the pause before each automated answer is played.
func New(logger *slog.Logger, sessions sessionUseCase, botDelay time.Duration) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		botDelay: botDelay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	server.handlers = map[string]handlerFunc{
		actionStart: server.handleStart,
		actionTurn:  server.handleTurn,
		actionReset: server.handleReset,
		actionState: server.handleState,
		actionEnd:   server.handleEnd,
	}

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS", "remote", r.RemoteAddr)

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := newClient(log, conn)

	go func() {
		if writeErr := c.writeLoop(); writeErr != nil {
			log.Debug("write failed", "error", writeErr)
			_ = conn.Close()
		}
	}()

	log.Info("websocket connection established")

	that.readLoop(ctx, c)

	close(c.done)
	_ = conn.Close()

	log.Info("websocket connection closed")
}

func (that *Server) readLoop(ctx context.Context, c *client) {
	log := that.logger.With("method", "readLoop")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read failed", "error", err)
			}
			return
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			c.pushError(eventError, fmt.Errorf("invalid message: %w", err))
			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			c.pushError(msg.Action, fmt.Errorf("%w: %q", errUnknownAction, msg.Action))
			continue
		}

		state, err := handler(ctx, c, msg.Payload)
		if err != nil {
			if isRefusal(err) {
				log.Debug("request refused", "action", msg.Action, "error", err)
				continue
			}

			log.Warn("request failed", "action", msg.Action, "error", err)
			c.pushError(msg.Action, err)
			continue
		}

		if state == nil {
			c.push(msg.Action, sessionPayload{})
			continue
		}

		c.push(msg.Action, sessionPayload{Session: state, Message: state.Message()})

		if err = that.paceAutomatedTurns(ctx, c, state); err != nil {
			log.Warn("automated turn failed", "session_id", state.ID, "error", err)
			c.pushError(msg.Action, err)
		}
	}
}

// paceAutomatedTurns plays queued automated turns one at a time, botDelay apart.
func (that *Server) paceAutomatedTurns(ctx context.Context, c *client, state *entity.SessionState) error {
	for state.AwaitingAutomatedMove() {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(that.botDelay):
		}

		next, err := that.sessions.AutomatedTurn(ctx, state.ID, listener{client: c})
		if err != nil {
			if isRefusal(err) {
				return nil
			}
			return fmt.Errorf("failed automated turn: %w", err)
		}

		state = next
	}

	return nil
}
