/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import (
	"time"

	"github.com/google/uuid"
)

// Conn is the transport a participant is connected over. Implementations
// must allow Close to be called more than once.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Ping() error
	Close() error
}

// Client is one open connection. Apart from send, its fields belong to
// the hub's event loop.
type Client struct {
	id   string
	conn Conn
	send chan Event

	sessionID string
	answered  int
	lagging   bool
}

func newClient(conn Conn, buffer int) *Client {
	return &Client{
		id:       uuid.NewString(),
		conn:     conn,
		send:     make(chan Event, buffer),
		answered: -1,
	}
}

func (c *Client) writePump(pingPeriod time.Duration) {
	defer c.conn.Close()

	var ping <-chan time.Time
	if pingPeriod > 0 {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping:
			if err := c.conn.Ping(); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(c *Client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		cmd, err := decode(msg)
		if err != nil {
			h.logf("SESSIONS: Ignoring message from %s: %v", c.id, err)
			continue
		}
		cmd.client = c

		select {
		case h.commands <- cmd:
		case <-h.done:
			return
		}
	}
}
