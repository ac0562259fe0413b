package signal

import (
	"encoding/json"
	"sync"
	"time"

	"proctorlink/internal/core/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client is one live authenticated connection. Outbound traffic goes
// through a buffered send channel drained by writePump; a full buffer means
// the transport is not keeping up and the delivery is dropped, never
// blocked on.
type Client struct {
	ID       string
	Identity domain.Identity

	// Token is the raw bearer credential the connection authenticated
	// with. Queued log records carry it so the worker can persist under
	// the original identity.
	Token string

	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	closeOnce sync.Once
	done      chan struct{}

	logger *zap.SugaredLogger
}

func newClient(id string, identity domain.Identity, token string, conn *websocket.Conn, sendBuffer int, limiter *rate.Limiter, logger *zap.SugaredLogger) *Client {
	return &Client{
		ID:       id,
		Identity: identity,
		Token:    token,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		limiter:  limiter,
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Send marshals env and enqueues it. Delivery is best-effort: a full
// buffer or a closed connection drops the message and returns false.
func (c *Client) Send(env Envelope) bool {
	data, err := json.Marshal(env)
	if err != nil {
		c.logger.Errorw("failed to marshal outbound message", "type", env.Type, "error", err)
		return false
	}
	return c.enqueue(data)
}

func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// allowMessage applies the per-connection inbound rate limit. A nil
// limiter disables limiting.
func (c *Client) allowMessage() bool {
	return c.limiter == nil || c.limiter.Allow()
}

// writePump drains the send channel onto the transport and keeps the
// connection alive with pings. It owns all writes to conn.
func (c *Client) writePump(pingInterval, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debugw("failed to write message", "client_id", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// close marks the client dead and closes the transport. Safe to call more
// than once.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
