package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/heartsketch/internal/interaction"
)

const (
	clientBuffer = 64
	writeTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event types sent over the websocket.
const (
	EventScale    = "scale"
	EventRotation = "rotation"
	EventHeart    = "heart"
	EventMode     = "mode"
	EventTrail    = "trail_reset"
)

type scaleEvent struct {
	Type  string  `json:"type"`
	Scale float64 `json:"scale"`
}

type rotationEvent struct {
	Type      string  `json:"type"`
	RotationX float64 `json:"rotation_x"`
	RotationY float64 `json:"rotation_y"`
}

type heartEvent struct {
	Type      string                `json:"type"`
	Detection interaction.Detection `json:"detection"`
}

type modeEvent struct {
	Type string           `json:"type"`
	From interaction.Mode `json:"from"`
	To   interaction.Mode `json:"to"`
}

type trailResetEvent struct {
	Type   string                       `json:"type"`
	Reason interaction.TrailResetReason `json:"reason"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// EventHub streams interaction events to websocket clients. It implements
// interaction.Listener; a slow client loses messages rather than blocking
// the pipeline.
type EventHub struct {
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

// NewEventHub creates an empty hub.
func NewEventHub(logger *zap.Logger) *EventHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHub{
		logger:  logger.Named("events"),
		clients: make(map[string]*client),
	}
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}
	if !h.register(c) {
		conn.Close()
		return
	}
	h.logger.Debug("client connected", zap.String("client", c.id), zap.String("remote", r.RemoteAddr))

	go h.writePump(c)

	// Clients never send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
	conn.Close()
	h.logger.Debug("client disconnected", zap.String("client", c.id))
}

func (h *EventHub) writePump(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("write failed", zap.String("client", c.id), zap.Error(err))
			c.conn.Close()
			return
		}
	}
}

func (h *EventHub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	return true
}

func (h *EventHub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func (h *EventHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
		c.conn.Close()
	}
}

func (h *EventHub) publish(event any) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encode event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Debug("client too slow, event dropped", zap.String("client", c.id))
		}
	}
}

// OnScaleChange implements interaction.Listener.
func (h *EventHub) OnScaleChange(scale float64) {
	h.publish(scaleEvent{Type: EventScale, Scale: scale})
}

// OnRotationChange implements interaction.Listener.
func (h *EventHub) OnRotationChange(rotX, rotY float64) {
	h.publish(rotationEvent{Type: EventRotation, RotationX: rotX, RotationY: rotY})
}

// OnHeartDetected implements interaction.Listener.
func (h *EventHub) OnHeartDetected(d interaction.Detection) {
	h.publish(heartEvent{Type: EventHeart, Detection: d})
}

// OnModeChange implements interaction.Listener.
func (h *EventHub) OnModeChange(from, to interaction.Mode) {
	h.publish(modeEvent{Type: EventMode, From: from, To: to})
}

// OnTrailReset implements interaction.Listener.
func (h *EventHub) OnTrailReset(reason interaction.TrailResetReason) {
	h.publish(trailResetEvent{Type: EventTrail, Reason: reason})
}
