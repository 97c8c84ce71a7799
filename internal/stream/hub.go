// Package stream broadcasts navigation + combat-AI frame events to
// subscribed external observers over gorilla/websocket, grounded on the
// host simulation's own hub/subscriber broadcast pattern. It is a pure
// observer: nothing it receives ever feeds back into the simulation.
package stream

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"navcore/internal/telemetry"
)

// Frame is one JSON message broadcast to every subscriber: a snapshot or a
// batch of one-shot events observed during a tick.
type Frame struct {
	Type   string `json:"type"`
	Tick   uint64 `json:"tick"`
	Events []Event `json:"events,omitempty"`
}

// Event is one observable occurrence from the Late-cleanup stage's one-shot
// tag set (spec §6 "Events observable by collaborators").
type Event struct {
	Kind     string  `json:"kind"`
	EntityID string  `json:"entityId"`
	TargetID string  `json:"targetId,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
}

const (
	EventStartedMoving  = "started_moving"
	EventStoppedMoving  = "stopped_moving"
	EventAttackHit      = "attack_hit"
	EventDamageReceived = "damage_received"
	EventDead           = "dead"
)

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub owns the set of subscribed observer connections and fans out Frames
// broadcast by the frame loop.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	metrics     telemetry.Metrics
	logger      telemetry.Logger
}

// NewHub constructs an empty Hub.
func NewHub(logger telemetry.Logger, metrics telemetry.Metrics) *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
		logger:      logger,
		metrics:     metrics,
	}
}

// Subscribe registers conn under id, closing and replacing any prior
// connection registered under the same id.
func (h *Hub) Subscribe(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.subscribers[id]; ok {
		existing.conn.Close()
	}
	h.subscribers[id] = &subscriber{conn: conn}
}

// Unsubscribe removes and closes the connection registered under id.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub, ok := h.subscribers[id]
	if !ok {
		return
	}
	delete(h.subscribers, id)
	sub.conn.Close()
}

// Broadcast fans frame out to every live subscriber, dropping any
// connection that errors on write.
func (h *Hub) Broadcast(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("stream: failed to marshal frame: %v", err)
		}
		return
	}

	h.mu.Lock()
	targets := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		targets[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range targets {
		if err := sub.write(data); err != nil {
			h.Unsubscribe(id)
			if h.metrics != nil {
				h.metrics.Add("stream_broadcast_drop_total", 1)
			}
		}
	}
}

// Count reports the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
