/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Seednode/impostor/games/impostor"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client is one websocket watching a room.
type Client struct {
	conn *websocket.Conn
	send chan impostor.Snapshot
}

// Hub fans room snapshots out to every websocket watching that room. It
// only relays state; the rooms themselves live in the directory.
//
// Snapshots are taken outside the room lock, so two actions can reach the
// hub out of order. latest holds the newest snapshot sent to each watched
// room and anything older is dropped.
type Hub struct {
	mu     sync.Mutex
	rooms  map[impostor.Code]map[*Client]bool
	latest map[impostor.Code]impostor.Snapshot
}

func newHub() *Hub {
	return &Hub{
		rooms:  make(map[impostor.Code]map[*Client]bool),
		latest: make(map[impostor.Code]impostor.Snapshot),
	}
}

// register adds c to the room and queues the newer of initial and the last
// snapshot already sent to the room.
func (h *Hub) register(code impostor.Code, c *Client, initial impostor.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if latest, ok := h.latest[code]; ok && latest.Version > initial.Version {
		initial = latest
	}
	h.latest[code] = initial

	clients, ok := h.rooms[code]
	if !ok {
		clients = make(map[*Client]bool)
		h.rooms[code] = clients
	}

	clients[c] = true
	c.send <- initial
}

func (h *Hub) unregister(code impostor.Code, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(code, c)
}

// dropLocked assumes h.mu is already held.
func (h *Hub) dropLocked(code impostor.Code, c *Client) {
	clients, ok := h.rooms[code]
	if !ok {
		return
	}

	if _, ok := clients[c]; ok {
		delete(clients, c)
		close(c.send)
	}

	if len(clients) == 0 {
		delete(h.rooms, code)
		delete(h.latest, code)
	}
}

// broadcast queues s for every client of the room, unless the room has
// already been sent a snapshot at least as new. Clients whose queue is full
// are dropped rather than allowed to stall the caller.
func (h *Hub) broadcast(code impostor.Code, s impostor.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[code]
	if !ok {
		return
	}

	if latest, ok := h.latest[code]; ok && latest.Version >= s.Version {
		return
	}
	h.latest[code] = s

	for client := range clients {
		select {
		case client.send <- s:
		default:
			h.dropLocked(code, client)
		}
	}
}

// watchers returns the number of clients watching the room.
func (h *Hub) watchers(code impostor.Code) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.rooms[code])
}

// serve upgrades the request and streams the room to it until the socket
// closes. initial, or a newer snapshot, is sent before any broadcast.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, code impostor.Code, initial impostor.Snapshot) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		conn: conn,
		send: make(chan impostor.Snapshot, 8),
	}

	h.register(code, client, initial)

	go client.writePump()
	client.readPump(h, code)

	return nil
}

// readPump discards anything the browser sends; it exists to notice the
// socket closing and to answer pings.
func (c *Client) readPump(h *Hub, code impostor.Code) {
	defer func() {
		h.unregister(code, c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
