package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	pingInterval  = 30 * time.Second
	writeTimeout  = 10 * time.Second
	sendQueueSize = 32
)

// client is one websocket connection. Only the writer goroutine touches conn for writes.
type client struct {
	logger *slog.Logger
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
}

func newClient(logger *slog.Logger, conn *websocket.Conn) *client {
	return &client{
		logger: logger,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// push queues a message unless the connection is already gone.
func (that *client) push(action string, payload any) {
	msg, err := encode(action, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "action", action, "error", err)
		return
	}

	select {
	case that.send <- msg:
	case <-that.done:
	}
}

func (that *client) pushError(action string, err error) {
	that.push(action, sessionPayload{Error: err.Error()})
}

// writeLoop drains the queue and pings an idle peer.
func (that *client) writeLoop() error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	lastWrite := time.Now()

	for {
		select {
		case <-that.done:
			return nil
		case msg := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := that.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < pingInterval {
				continue
			}
			if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

// listener forwards session events to the client.
type listener struct {
	client *client
}

func (that listener) OnBoardChanged(snapshot entity.Grid) {
	that.client.push(eventBoardChanged, boardPayload{Board: snapshot})
}

func (that listener) OnStatusChanged(status entity.Status, player entity.Player) {
	payload := statusPayload{Status: status}
	if player.Marker.IsMarker() {
		payload.Player = &player
	}

	that.client.push(eventStatusChanged, payload)
}

func (that listener) OnTerminal(status entity.Status, win *entity.WinResult) {
	that.client.push(eventTerminal, terminalPayload{Status: status, Win: win})
}
