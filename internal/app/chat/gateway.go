/*
Package chat contains the core room/session state machine.

This file defines the Gateway, the per-connection event handler. Each
transport session owns a Session record that moves unjoined -> joined ->
closed; the Gateway applies the moderation policy to every untrusted field,
drives the Registry, and emits outbound events to the originating session or
to the whole circle through the Emitter.

The Gateway's mutex is the single serialization point required by the room
state: at most one event is processed against any circle's state at a time,
which makes the uniqueness check followed by insertion in Registry.Join
atomic without the Registry locking internally.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"circlechat/internal/app/moderation"
	"circlechat/internal/app/user"
	"circlechat/internal/pkg/errs"
	"circlechat/internal/pkg/logx"
)

// Field length caps applied after sanitation.
const (
	NicknameMaxLen = 30
	FlairMaxLen    = 50
	TextMaxLen     = 500
)

// Emitter delivers outbound events. The websocket Hub is the production
// implementation; tests substitute a recording fake.
type Emitter interface {
	// ToSession delivers an event to a single session.
	ToSession(sessionID string, event Event)

	// ToCircle delivers an event to every current member of a circle.
	ToCircle(circleID string, event Event)
}

type sessionState int

const (
	stateUnjoined sessionState = iota
	stateJoined
	stateClosed
)

// Session is the per-connection state the Gateway drives. It is mutated only
// under the Gateway's lock.
type Session struct {
	ID string

	state    sessionState
	circleID string
	user     user.User
}

// NewSession returns an unjoined Session for a freshly connected transport
// session.
func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Gateway validates inbound events, applies moderation, and mutates the
// Registry. One Gateway serves all sessions.
type Gateway struct {
	// mu serializes all event processing across all circles.
	mu sync.Mutex

	registry *Registry
	pipeline *moderation.Pipeline
	emitter  Emitter
	presence *Presence
	logger   zerolog.Logger
}

// NewGateway wires a Gateway over the given registry, moderation pipeline,
// and emitter.
func NewGateway(registry *Registry, pipeline *moderation.Pipeline, emitter Emitter) *Gateway {
	return &Gateway{
		registry: registry,
		pipeline: pipeline,
		emitter:  emitter,
		presence: NewPresence(registry, emitter),
		logger:   logx.Logger().With().Str("component", "Gateway").Logger(),
	}
}

// NewUser handles a join request from an unjoined session. Failures (empty
// nickname, nickname collision) are reported to the originating session only
// and leave the session unjoined; they never terminate the connection.
func (g *Gateway) NewUser(s *Session, p NewUserPayload) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s.state != stateUnjoined {
		g.logger.Warn().
			Str("session_id", s.ID).
			Str("circle_id", p.Circle).
			Msg("Ignoring newUser from session that is not unjoined.")
		return
	}

	nickname := g.pipeline.Sanitize(p.Nickname, NicknameMaxLen)
	if nickname == "" {
		g.emitter.ToSession(s.ID, Event{
			Type:    EventNicknameError,
			Payload: NicknameErrorPayload{Message: errs.NewError(errs.ErrNicknameEmpty).Message},
		})
		return
	}
	if g.pipeline.IsProfane(nickname) {
		nickname = g.pipeline.Clean(nickname)
	}

	flair := g.pipeline.Sanitize(p.Flair, FlairMaxLen)
	if flair != "" && g.pipeline.IsProfane(flair) {
		flair = g.pipeline.Clean(flair)
	}

	u := user.User{
		SessionID:   s.ID,
		Nickname:    nickname,
		Flair:       flair,
		Avatar:      user.DefaultAvatar,
		ClientToken: p.ClientToken,
	}

	snapshot, joinErr := g.registry.Join(p.Circle, u)
	if joinErr != nil {
		g.emitter.ToSession(s.ID, Event{
			Type:    EventNicknameError,
			Payload: NicknameErrorPayload{Message: joinErr.Message},
		})
		return
	}

	s.state = stateJoined
	s.circleID = p.Circle
	s.user = u

	// history replay goes to the new member only, then the membership change
	// is announced to the whole circle (new member included)
	g.emitter.ToSession(s.ID, Event{Type: EventMessageHistory, Payload: snapshot})
	g.presence.Joined(p.Circle, nickname)
}

// ChatMessage handles one utterance from a joined session. A message whose
// text sanitizes to empty is dropped silently: no error, no history entry,
// no broadcast. Text always passes through the profanity filter; nickname and
// flair were conditionally cleaned at join time. That asymmetry is the
// intended policy.
func (g *Gateway) ChatMessage(s *Session, p ChatMessagePayload) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s.state != stateJoined {
		g.logger.Warn().Str("session_id", s.ID).Msg("Ignoring chatMessage from session that is not joined.")
		return
	}

	// resolved before any mutation; an unknown or evicted target degrades to
	// a nil reference rather than an error
	var replyRef *ReplyRef
	if p.ReplyTo != "" {
		replyRef = g.registry.ResolveReply(s.circleID, p.ReplyTo)
	}

	text := g.pipeline.Sanitize(p.Text, TextMaxLen)
	if text == "" {
		return
	}
	text = g.pipeline.Clean(text)

	msg := NewMessage(s.user, text, p.Style, replyRef)

	g.registry.RecordMessage(s.circleID, msg)
	g.emitter.ToCircle(s.circleID, Event{Type: EventMessage, Payload: msg})
}

// Disconnect handles the transport-originated end of a session. A disconnect
// while unjoined is a no-op transition to closed. When the circle retains
// members after the leave, they are told about it; a destroyed circle has
// nobody left to notify.
func (g *Gateway) Disconnect(s *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s.state == stateClosed {
		return
	}

	if s.state == stateUnjoined {
		s.state = stateClosed
		return
	}

	left := g.registry.Leave(s.ID)
	s.state = stateClosed

	if left != nil && len(left.Remaining) > 0 {
		g.presence.Left(left.CircleID, left.Nickname)
	}
}
