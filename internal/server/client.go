package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nenadlazic8/zinga/internal/game/room"
	"github.com/nenadlazic8/zinga/internal/protocol"
)

const (
	// Write timeout per outgoing frame.
	writeWait = 10 * time.Second

	// Pong wait; a silent connection is dead after this.
	pongWait = 60 * time.Second

	// Ping interval, must be below pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Incoming frame size cap.
	maxMessageSize = 4096
)

// Client is one websocket connection. It implements room.Sender: the room
// pushes snapshots into the buffered send channel and never blocks on a
// slow consumer.
type Client struct {
	server *Server
	conn   *websocket.Conn

	send   chan []byte
	mu     sync.Mutex
	closed bool

	// Set once a join succeeds. Only the read pump goroutine touches
	// these, so they need no locking.
	room     *room.Room
	playerID string
}

func newClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// Send queues a message for the client. A full buffer means the consumer
// is gone or hopeless; the connection is closed rather than stalling the
// room. The channel send happens under the mutex that guards the closed
// flag, so a Send racing a close can never hit a closed channel.
func (c *Client) Send(msg protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		c.server.log.Errorw("encode message", "type", msg.Type, "err", err)
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
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		c.server.log.Warnw("client send buffer full, closing connection")
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump reads frames until the connection dies, dispatching each
// decoded message. It owns the disconnect cleanup.
func (c *Client) readPump() {
	defer func() {
		c.handleDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.Debugw("read error", "err", err)
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			c.server.log.Debugw("bad message", "err", err)
			c.Send(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.dispatch(c, msg)
	}
}

// writePump drains the send channel into the socket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

func (c *Client) handleDisconnect() {
	if c.room != nil {
		c.server.rooms.Disconnect(c.room, c.playerID)
		c.room = nil
		c.playerID = ""
	}
	c.close()
}
