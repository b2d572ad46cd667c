// Package transport owns observer connection lifecycle. The relay decides
// what to send; this package decides how, and makes sure a dead or slow
// socket never blocks anyone but itself.
package transport

import (
	"fmt"
	"sync"
	"time"

	"botops-svc/app/domains"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// WSSubscriber adapts one WebSocket connection to relay.Subscriber. Push
// enqueues onto a buffered channel and fails fast when the buffer is full;
// a dedicated write pump is the only goroutine touching the connection.
type WSSubscriber struct {
	id        string
	conn      *websocket.Conn
	send      chan domains.Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewWSSubscriber wraps an upgraded connection and starts its write pump.
// onClose runs once when the connection dies, so the caller can unsubscribe.
func NewWSSubscriber(id string, conn *websocket.Conn, sendBuffer int, onClose func()) *WSSubscriber {
	s := &WSSubscriber{
		id:   id,
		conn: conn,
		send: make(chan domains.Event, sendBuffer),
		done: make(chan struct{}),
	}
	go s.writePump(onClose)
	return s
}

// ID returns the subscriber's connection ID.
func (s *WSSubscriber) ID() string { return s.id }

// Push queues an event for delivery. It never blocks: events for a full or
// closed connection are shed and reported as an error the relay ignores.
func (s *WSSubscriber) Push(ev domains.Event) error {
	select {
	case <-s.done:
		return fmt.Errorf("subscriber %s closed", s.id)
	default:
	}

	select {
	case s.send <- ev:
		return nil
	default:
		return fmt.Errorf("subscriber %s send buffer full, event dropped", s.id)
	}
}

// ReadLoop consumes inbound frames until the peer disconnects, handing each
// data frame to onFrame. A nil onFrame discards inbound traffic. It blocks,
// so callers run it on the request goroutine.
func (s *WSSubscriber) ReadLoop(onFrame func(raw []byte)) {
	defer s.close()
	s.conn.SetReadLimit(1 << 16)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if onFrame != nil {
			onFrame(raw)
		}
	}
}

func (s *WSSubscriber) writePump(onClose func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
		_ = s.conn.Close()
		if onClose != nil {
			onClose()
		}
	}()

	for {
		select {
		case ev := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WSSubscriber) close() {
	s.closeOnce.Do(func() { close(s.done) })
}
