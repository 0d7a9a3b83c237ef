/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// socket adapts a websocket connection to cloud.Conn, adding deadlines
// and keepalives.
type socket struct {
	*websocket.Conn
}

func newSocket(conn *websocket.Conn) *socket {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &socket{Conn: conn}
}

// ReadJSON skips frames that are not valid JSON rather than failing the
// connection.
func (s *socket) ReadJSON(v any) error {
	for {
		_, data, err := s.Conn.ReadMessage()
		if err != nil {
			return err
		}

		if err := s.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return err
		}

		if json.Unmarshal(data, v) == nil {
			return nil
		}
	}
}

func (s *socket) WriteJSON(v any) error {
	if err := s.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return s.Conn.WriteJSON(v)
}

func (s *socket) Ping() error {
	return s.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}
