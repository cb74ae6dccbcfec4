/*
Package chat contains the core room/session state machine.

This file defines the Hub, the transport-side session table. It implements
the Emitter interface over websocket clients: single-session delivery by
session id, and circle-wide fanout resolved through the Registry's current
membership.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"circlechat/internal/pkg/logx"
)

// Hub tracks every connected websocket client and delivers outbound events
// to them. It is the production Emitter implementation.
type Hub struct {
	// mu protects concurrent access to the sessions map.
	mu sync.RWMutex

	registry *Registry
	sessions map[string]*Client

	logger zerolog.Logger
}

// NewHub returns a Hub resolving circle audiences through registry.
func NewHub(registry *Registry) *Hub {
	return &Hub{
		registry: registry,
		sessions: make(map[string]*Client),
		logger:   logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Register adds a connected client to the session table.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[c.session.ID] = c

	h.logger.Info().
		Str("session_id", c.session.ID).
		Int("total_sessions", len(h.sessions)).
		Msg("Session registered.")
}

// Unregister removes a client from the session table.
func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[sessionID]; ok {
		delete(h.sessions, sessionID)

		h.logger.Info().
			Str("session_id", sessionID).
			Int("total_sessions", len(h.sessions)).
			Msg("Session unregistered.")
	}
}

// ToSession delivers an event to a single session. Events for sessions that
// already disconnected are dropped.
func (h *Hub) ToSession(sessionID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Error marshaling event.")
		return
	}

	h.mu.RLock()
	c := h.sessions[sessionID]
	h.mu.RUnlock()

	if c == nil {
		h.logger.Warn().
			Str("session_id", sessionID).
			Str("event_type", string(event.Type)).
			Msg("Dropping event for unknown session.")
		return
	}

	c.enqueue(payload)
}

// ToCircle delivers an event to every current member of a circle. The event
// is marshaled once and fanned out over each member's send queue.
func (h *Hub) ToCircle(circleID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Error marshaling event.")
		return
	}

	memberSessions := h.registry.MemberSessions(circleID)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sessionID := range memberSessions {
		if c := h.sessions[sessionID]; c != nil {
			c.enqueue(payload)
		}
	}
}

// Shutdown closes every connected client's send queue, which terminates their
// write pumps and closes the underlying connections.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logger.Info().Int("total_sessions", len(h.sessions)).Msg("Shutting down Hub...")

	for _, c := range h.sessions {
		c.closeSend()
	}
	h.sessions = make(map[string]*Client)

	h.logger.Info().Msg("Hub shutdown complete.")
}
