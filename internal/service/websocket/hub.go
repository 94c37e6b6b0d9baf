// Package websocket maintains the set of dashboard viewers and broadcasts
// processed frames to them.
package websocket

import (
	"sync"

	"edumood/internal/logger"

	"github.com/gorilla/websocket"
)

// HubService tracks connected viewers and fans broadcast messages out to
// all of them.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	logger     *logger.Logger
}

// NewHubService creates an empty viewer hub.
func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
}

// Run processes register/unregister/broadcast events until the process exits.
func (h *HubService) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer connected. Total: %d", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer disconnected. Total: %d", total)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending message to viewer: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a viewer connection to the hub.
func (h *HubService) Register(client *websocket.Conn) {
	h.register <- client
}

// Unregister removes a viewer connection from the hub.
func (h *HubService) Unregister(client *websocket.Conn) {
	h.unregister <- client
}

// Broadcast sends a message to every connected viewer.
func (h *HubService) Broadcast(message []byte) {
	h.broadcast <- message
}

// ClientCount returns the number of connected viewers.
func (h *HubService) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
