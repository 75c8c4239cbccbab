package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Buffer size for outgoing messages. A connection that cannot
	// drain this many pending messages is closed; the overflow
	// policy is drop-connection, not silent unbounded buffering.
	sendBufferSize = 256
)

// Client is one live websocket connection. It implements
// registry.Conn: Send queues without blocking and reports overflow.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	closed sync.Once
	done   chan struct{}
	logger *slog.Logger
}

// NewClient wraps an upgraded websocket connection
func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Send queues an encoded message for delivery. A full buffer means the
// peer is not draining; the connection is closed and false returned.
func (c *Client) Send(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn("outbound buffer overflow, dropping connection",
			slog.String("remote", c.conn.RemoteAddr().String()))
		_ = c.Close()
		return false
	}
}

// Close tears down the connection. Safe to call more than once; the
// read pump unwinds and drives dispatcher teardown.
func (c *Client) Close() error {
	c.closed.Do(func() {
		close(c.done)
	})
	return c.conn.Close()
}

// writePump drains the send buffer onto the wire and keeps the
// connection alive with periodic pings. One writer per connection;
// gorilla/websocket allows at most one concurrent writer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// readPump feeds inbound frames to the handler until the connection
// drops. It runs on the request goroutine; returning means the client
// is gone.
func (c *Client) readPump(handle func([]byte)) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", slog.Any("error", err))
			}
			return
		}
		handle(data)
	}
}
