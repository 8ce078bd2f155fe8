// internal/realtime/client.go
package realtime

import (
	"context"
	"sync"
	"time"

	rt "kynix-service/internal/domain/realtime"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024

	closeSuperseded = websocket.CloseNormalClosure
	closeGoingAway  = websocket.CloseGoingAway
)

// Client wraps one websocket connection after a successful handshake and
// implements Channel. Frames are pushed through a buffered send queue; the
// write pump owns the socket for writes.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	userID   int64
	registry *Registry
	logger   *zap.Logger

	mu     sync.Mutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(conn *websocket.Conn, userID int64, registry *Registry, logger *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		conn:     conn,
		send:     make(chan []byte, 256),
		userID:   userID,
		registry: registry,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// UserID returns the verified identity this channel is bound to.
func (c *Client) UserID() int64 {
	return c.userID
}

// Send marshals and enqueues a frame. Never blocks: a full queue or a closed
// client drops the frame, and a full queue additionally tears the client
// down, since a reader that far behind is not coming back.
func (c *Client) Send(frame *rt.Frame) {
	data, err := frame.ToJSON()
	if err != nil {
		c.logger.Error("failed to marshal frame", zap.Error(err))
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	select {
	case c.send <- data:
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		c.logger.Warn("send queue full, evicting client", zap.Int64("user_id", c.userID))
		c.Close(websocket.CloseGoingAway, "send queue overflow")
	}
}

// Close sends a close frame with the given status code and reason, then
// tears down the connection. Idempotent.
func (c *Client) Close(code int, reason string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))

	c.cancel()
	c.conn.Close()
}

// ReadPump drains the socket until it errors or closes. Clients do not speak
// upstream on this channel; reading only services pong frames and close
// detection. Exit unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Unregister(c.userID, c)
		c.Close(closeGoingAway, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", zap.Int64("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}

// WritePump serializes all socket writes: queued frames plus keepalive pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
