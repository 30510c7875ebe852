package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/elijahnyp/dancing_birds/birds"
	"github.com/elijahnyp/dancing_birds/state"
	. "github.com/elijahnyp/dancing_birds/util"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // exhibit LAN only
	},
}

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Data interface{} `json:"data"`
	Type string      `json:"type"`
}

// WSClient represents a connected WebSocket client
type WSClient struct {
	conn *websocket.Conn
	send chan WebSocketMessage
	hub  *WSHub
}

// WSHub maintains the set of active clients and broadcasts messages
type WSHub struct {
	clients    map[*WSClient]bool
	broadcast  chan WebSocketMessage
	register   chan *WSClient
	unregister chan *WSClient
	// done is closed when Run returns.
	done       chan struct{}
}

// StatusDocument is the JSON form of a status snapshot served over HTTP,
// websocket and the MQTT status topic.
type StatusDocument struct {
	state.Status
	DancePhase string `json:"dance_phase"`
	Timestamp  int64  `json:"timestamp"`
}

func NewStatusDocument(s state.Status, phase birds.DancePhase) StatusDocument {
	return StatusDocument{
		Status:     s,
		DancePhase: phase.String(),
		Timestamp:  time.Now().Unix(),
	}
}

// CommandResponse is returned by the command endpoint.
type CommandResponse struct {
	Command string         `json:"command,omitempty"`
	Error   string         `json:"error,omitempty"`
	Status  StatusDocument `json:"status"`
}

// NewHub creates a new WebSocket hub
func NewHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WebSocketMessage, 16),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done.
func (h *WSHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			Logger.Info().Msg("Client connected to WebSocket")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				Logger.Info().Msg("Client disconnected from WebSocket")
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Done is closed once the hub has stopped.
func (h *WSHub) Done() <-chan struct{} {
	return h.done
}

// Register adds a client. It reports false if the hub has stopped.
func (h *WSHub) Register(c *WSClient) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client; a stopped hub has already dropped it.
func (h *WSHub) Unregister(c *WSClient) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// BroadcastUpdate sends an update to all connected clients
func (h *WSHub) BroadcastUpdate(messageType string, data interface{}) {
	select {
	case h.broadcast <- WebSocketMessage{Type: messageType, Data: data}:
	default:
		Logger.Debug().Msg("websocket broadcast queue full, skipping update")
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *WSClient) readPump() {
	defer func() {
		c.hub.Unregister(c)
		if err := c.conn.Close(); err != nil {
			Logger.Debug().Err(err).Msg("Error closing WebSocket connection")
		}
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *WSClient) writePump() {
	defer func() {
		if err := c.conn.Close(); err != nil {
			Logger.Debug().Err(err).Msg("Error closing WebSocket connection")
		}
	}()

	for message := range c.send {
		if err := c.conn.WriteJSON(message); err != nil {
			return
		}
	}
	if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
		Logger.Debug().Err(err).Msg("Error writing close message")
	}
}

// API serves the exhibit over HTTP.
type API struct {
	exhibit *birds.Exhibit
	hub     *WSHub
}

func NewAPI(exhibit *birds.Exhibit, hub *WSHub) *API {
	return &API{exhibit: exhibit, hub: hub}
}

// Register adds the API routes to the monitor server.
func (a *API) Register(monitor *MonitorServer) {
	monitor.AddHandler("/api/status", a.APIStatus)
	monitor.AddHandler("/api/command", a.APICommand)
	monitor.AddHandler("/ws", a.ServeWebSocket)
}

// Broadcast pushes a status snapshot to every websocket client. It is
// registered as an exhibit watcher.
func (a *API) Broadcast(s state.Status) {
	a.hub.BroadcastUpdate("status", NewStatusDocument(s, a.exhibit.DancePhase()))
}

func (a *API) document() StatusDocument {
	return NewStatusDocument(a.exhibit.Snapshot(), a.exhibit.DancePhase())
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.Error().Err(err).Msg("Error encoding response")
	}
}

// APIStatus returns the current status as JSON
func (a *API) APIStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, a.document())
}

// APICommand injects a command. The code parameter takes a name, a decimal or
// hex code.
func (a *API) APICommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "code required", http.StatusBadRequest)
		return
	}

	cmd, err := birds.ParseCommand(code)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, CommandResponse{Error: err.Error(), Status: a.document()})
		return
	}

	err = a.exhibit.Dispatch(r.Context(), cmd)
	resp := CommandResponse{Command: cmd.String(), Status: a.document()}
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, resp)
	case errors.Is(err, birds.ErrBusy), errors.Is(err, birds.ErrStopped):
		resp.Error = err.Error()
		writeJSON(w, http.StatusConflict, resp)
	default:
		resp.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

// ServeWebSocket streams status snapshots, starting with the current one
func (a *API) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSClient{
		conn: conn,
		send: make(chan WebSocketMessage, 256),
		hub:  a.hub,
	}
	client.send <- WebSocketMessage{Type: "status", Data: a.document()}

	if !client.hub.Register(client) {
		Logger.Debug().Msg("WebSocket hub stopped, closing connection")
		if err := conn.Close(); err != nil {
			Logger.Debug().Err(err).Msg("Error closing WebSocket connection")
		}
		return
	}

	go client.writePump()
	go client.readPump()
}
