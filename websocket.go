package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

// ScanEvent is pushed to every connected dashboard after each processed
// barcode, so displays update without waiting for the statistics poll.
type ScanEvent struct {
	Type        string `json:"type"`
	Barcode     string `json:"barcode"`
	Kind        string `json:"kind"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	OrderNumber string `json:"order_number,omitempty"`
}

// sendBuffer bounds how far a dashboard may lag before it is dropped.
const sendBuffer = 16

// wsClient is one connected dashboard. Events are queued on send and
// written by the client's own pump, so a stalled socket never blocks the
// scan path.
type wsClient struct {
	conn *ws.Conn
	send chan []byte
}

func (c *wsClient) writePump() {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
			wsHub.unregister(c)
			return
		}
	}
}

// scanHub maintains connected dashboard clients.
type scanHub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

var wsHub = &scanHub{clients: make(map[*wsClient]struct{})}

func (h *scanHub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *scanHub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// broadcast queues the event for every client. Clients whose queue is
// full are not draining; they get dropped instead of slowing the caller.
// Queue sends happen under the read lock and close under the write lock,
// so a send can never race a close.
func (h *scanHub) broadcast(evt ScanEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	var stalled []*wsClient
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		log.Printf("ws: dropping stalled client")
		h.unregister(c)
	}
}

// broadcastScan publishes a scan outcome to all dashboards.
func broadcastScan(barcode, kind string, resp ScanResponse) {
	evt := ScanEvent{
		Type:    "scan",
		Barcode: barcode,
		Kind:    kind,
		Success: resp.Success,
		Message: resp.Message,
	}
	if resp.ProductInfo != nil {
		evt.OrderNumber = resp.ProductInfo.OrderNumber
	}
	wsHub.broadcast(evt)
}

var wsUpgrader = ws.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and keeps it alive with pings.
func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	wsHub.register(c)
	go c.writePump()
	log.Printf("ws: client connected")

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// WriteControl is safe alongside the pump's writes.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(ws.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	wsHub.unregister(c)
	log.Printf("ws: client disconnected")
}
