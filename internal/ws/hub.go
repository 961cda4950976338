package ws

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/events"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/metrics"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

type PresenceReporter interface {
	Heartbeat(ctx context.Context, userID string, status models.PresenceStatus) error
}

// Conn is the slice of a websocket connection the hub needs.
// *websocket.Conn satisfies it.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Hub tracks live connections per user and routes events to them. A user may
// hold several connections (tabs, devices); all of them receive the event.
type Hub struct {
	clients  map[string]map[string]Conn
	mu       sync.RWMutex
	presence PresenceReporter
	log      *zap.SugaredLogger
}

func NewHub(presence PresenceReporter, log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:  make(map[string]map[string]Conn),
		presence: presence,
		log:      log,
	}
}

// HandleConnection owns the connection until it closes. Inbound frames are
// heartbeats only; all state changes go through the REST API.
func (h *Hub) HandleConnection(userID string, conn Conn) {
	defer conn.Close()
	connID := uuid.NewString()

	h.mu.Lock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[string]Conn)
	}
	h.clients[userID][connID] = conn
	h.mu.Unlock()
	metrics.WSConnections.Inc()

	if err := h.presence.Heartbeat(context.Background(), userID, models.PresenceOnline); err != nil {
		h.log.Warnw("presence heartbeat", "user", userID, "err", err)
	}
	h.log.Infow("ws connected", "user", userID, "conn", connID)

	for {
		var frame map[string]any
		if err := conn.ReadJSON(&frame); err != nil {
			break
		}
		if t, ok := frame["type"].(string); ok && t == "heartbeat" {
			status := models.PresenceOnline
			if s, ok := frame["status"].(string); ok && s == string(models.PresenceAway) {
				status = models.PresenceAway
			}
			if err := h.presence.Heartbeat(context.Background(), userID, status); err != nil {
				h.log.Warnw("presence heartbeat", "user", userID, "err", err)
			}
		}
	}

	h.mu.Lock()
	delete(h.clients[userID], connID)
	last := len(h.clients[userID]) == 0
	if last {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	metrics.WSConnections.Dec()

	if last {
		// best effort; the staleness rule covers connections that die without
		// reaching this point
		_ = h.presence.Heartbeat(context.Background(), userID, models.PresenceOffline)
	}
	h.log.Infow("ws disconnected", "user", userID, "conn", connID)
}

// Dispatch routes an event envelope to the target user's live connections.
// The set is snapshotted under the lock: WriteJSON can block, and
// HandleConnection mutates the inner map as clients come and go.
func (h *Hub) Dispatch(env *events.Envelope) {
	h.mu.RLock()
	conns := make([]Conn, 0, len(h.clients[env.UserID]))
	for _, c := range h.clients[env.UserID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		if err := c.WriteJSON(env); err != nil {
			h.log.Debugw("ws write failed", "user", env.UserID, "err", err)
		}
	}
}

func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}
