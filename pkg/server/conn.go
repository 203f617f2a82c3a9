package server

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/contractflow/dashboard/internal/app"
	"github.com/contractflow/dashboard/pkg/state"
	"github.com/contractflow/dashboard/pkg/toast"
	"github.com/contractflow/dashboard/pkg/vdom"
)

// conn is one WebSocket connection hosting one page session. A single
// writer goroutine owns all writes to ws.
type conn struct {
	server  *Server
	ws      *websocket.Conn
	session *app.Session
	client  string

	out    chan ServerMessage
	done   chan struct{}
	closed atomic.Bool

	actions sync.WaitGroup
}

func newConn(s *Server, ws *websocket.Conn, client string) *conn {
	return &conn{
		server: s,
		ws:     ws,
		client: client,
		out:    make(chan ServerMessage, s.config.SendQueue),
		done:   make(chan struct{}),
	}
}

// Emit implements toast.Emitter.
func (c *conn) Emit(event string, data any) {
	t, ok := data.(toast.Toast)
	if !ok || event != toast.EventName {
		c.server.logger.Debug("dropping event", "event", event)
		return
	}
	c.send(ServerMessage{Type: MsgToast, Level: string(t.Level), Title: t.Title, Message: t.Message})
}

// send queues msg for the writer. It blocks while the queue is full and
// gives up once the connection closes.
func (c *conn) send(msg ServerMessage) {
	select {
	case c.out <- msg:
	case <-c.done:
	}
}

func (c *conn) close() {
	if c.closed.Swap(true) {
		return
	}
	close(c.done)
}

// attach wires the session's outputs to the connection.
func (c *conn) attach() func() {
	sess := c.session

	sess.Container.OnChange(func(tree *vdom.VNode) {
		html, err := c.server.renderer.RenderToString(tree)
		if err != nil {
			c.server.logger.Error("render mount", "client", c.client, "error", err)
			return
		}
		c.send(ServerMessage{Type: MsgMount, HTML: html})
	})

	sess.Location.Observe(func(fragment string) {
		c.send(ServerMessage{Type: MsgNavigate, Hash: fragment})
	})

	return sess.Store.Subscribe(func(key string, _, _ any, _ map[string]any) {
		if key != state.KeyDarkMode && key != state.KeyStateReset {
			return
		}
		dark := sess.Store.DarkMode()
		c.send(ServerMessage{Type: MsgState, Key: state.KeyDarkMode, DarkMode: &dark})
	})
}

// writeLoop sends queued messages and pings until the connection closes.
func (c *conn) writeLoop() {
	ticker := time.NewTicker(c.server.config.PingInterval)
	defer ticker.Stop()
	defer c.ws.Close()

	write := func(fn func() error) bool {
		c.ws.SetWriteDeadline(time.Now().Add(c.server.config.WriteTimeout))
		if err := fn(); err != nil {
			c.server.logger.Debug("write failed", "client", c.client, "error", err)
			c.close()
			return false
		}
		return true
	}

	for {
		select {
		case msg := <-c.out:
			if !write(func() error { return c.ws.WriteJSON(msg) }) {
				return
			}

		case <-ticker.C:
			if !write(func() error { return c.ws.WriteMessage(websocket.PingMessage, nil) }) {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(time.Second))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// readLoop handles client messages until the connection fails or ctx ends.
func (c *conn) readLoop(ctx context.Context) {
	defer c.close()

	cfg := c.server.config
	c.ws.SetReadLimit(cfg.MaxMessageSize)
	deadline := func() time.Time { return time.Now().Add(2 * cfg.PingInterval) }
	c.ws.SetReadDeadline(deadline())
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(deadline())
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.server.logger.Error("read error", "client", c.client, "error", err)
			}
			return
		}
		c.ws.SetReadDeadline(deadline())

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.server.logger.Warn("malformed client message", "client", c.client, "error", err)
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *conn) handle(ctx context.Context, msg ClientMessage) {
	if m := c.server.config.Metrics; m != nil {
		m.MessageReceived(msg.Type)
	}

	switch msg.Type {
	case MsgHashChange:
		c.session.Location.Sync(msg.Hash)

	case MsgAction:
		c.actions.Add(1)
		go func() {
			defer c.actions.Done()
			// Failures are already shown to the user as toasts.
			_ = c.session.Dispatch(ctx, msg.Name, msg.Fields)
		}()

	default:
		c.server.logger.Warn("unknown client message", "client", c.client, "type", msg.Type)
	}
}
