/*
Package chat contains the core room/session state machine.

This file defines the Presence broadcaster, which derives membership-change
notifications from the Registry and emits them to a whole circle: a join or
leave system message followed by the updated user list.
*/
package chat

import (
	"fmt"

	"github.com/rs/zerolog"

	"circlechat/internal/pkg/logx"
)

// Presence emits join/leave announcements and user-list updates. It is driven
// by the Gateway after every membership change.
type Presence struct {
	registry *Registry
	emitter  Emitter
	logger   zerolog.Logger
}

// NewPresence returns a Presence broadcaster over the given registry and
// emitter.
func NewPresence(registry *Registry, emitter Emitter) *Presence {
	return &Presence{
		registry: registry,
		emitter:  emitter,
		logger:   logx.Logger().With().Str("component", "Presence").Logger(),
	}
}

// Joined announces a new member to the whole circle, then broadcasts the
// updated user list.
func (p *Presence) Joined(circleID, nickname string) {
	p.emitter.ToCircle(circleID, Event{
		Type: EventSystemMessage,
		Payload: SystemMessagePayload{
			Text: fmt.Sprintf("%s has joined the circle.", nickname),
			Type: SystemJoin,
		},
	})

	p.broadcastUserList(circleID)
}

// Left announces a departure to the remaining members, then broadcasts the
// updated user list. Callers only invoke it when members remain.
func (p *Presence) Left(circleID, nickname string) {
	p.emitter.ToCircle(circleID, Event{
		Type: EventSystemMessage,
		Payload: SystemMessagePayload{
			Text: fmt.Sprintf("%s has left the circle.", nickname),
			Type: SystemLeave,
		},
	})

	p.broadcastUserList(circleID)
}

func (p *Presence) broadcastUserList(circleID string) {
	p.emitter.ToCircle(circleID, Event{
		Type:    EventUserList,
		Payload: p.registry.Users(circleID),
	})
}
