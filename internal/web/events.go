// SPDX-License-Identifier: MIT
package web

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"vsthost/internal/log"
)

// Broadcaster pushes host events (job completion, cancellation) to every
// connected web UI page over websockets. Slow pages drop messages rather
// than stalling the host.
type Broadcaster struct {
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan interface{}
	closed    bool
}

// NewBroadcaster creates a broadcaster and starts its fan-out goroutine.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The server binds to loopback; the page is ours.
				return true
			},
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan interface{}, 64),
	}
	go b.run()
	return b
}

// Handle upgrades an HTTP request to a websocket client connection.
func (b *Broadcaster) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %v", err)
		return
	}

	b.clientsMu.Lock()
	b.clients[conn] = true
	total := len(b.clients)
	b.clientsMu.Unlock()
	log.Debugf("event client connected, total: %d", total)

	go func() {
		// The page never sends; the read unblocks on close.
		_, _, err := conn.ReadMessage()
		if err != nil {
			b.clientsMu.Lock()
			delete(b.clients, conn)
			b.clientsMu.Unlock()
			conn.Close()
		}
	}()
}

func (b *Broadcaster) run() {
	for data := range b.broadcast {
		b.clientsMu.Lock()
		for client := range b.clients {
			if err := client.WriteJSON(data); err != nil {
				client.Close()
				delete(b.clients, client)
			}
		}
		b.clientsMu.Unlock()
	}
}

// Publish queues data for broadcast. Never blocks; drops when the queue
// is full or the broadcaster has been closed.
func (b *Broadcaster) Publish(data interface{}) {
	b.clientsMu.Lock()
	defer b.clientsMu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.broadcast <- data:
	default:
	}
}

// Close disconnects all clients and stops the fan-out goroutine. Safe to
// call more than once; Publish after Close is a no-op.
func (b *Broadcaster) Close() {
	b.clientsMu.Lock()
	if b.closed {
		b.clientsMu.Unlock()
		return
	}
	b.closed = true
	for client := range b.clients {
		client.Close()
	}
	b.clients = make(map[*websocket.Conn]bool)
	b.clientsMu.Unlock()
	close(b.broadcast)
}
