/*
Package chat contains the core room/session state machine.

This file defines the Registry, which owns the set of circles: lazy creation
on first join, immediate destruction when the last member leaves, membership
tracking, and the nickname-uniqueness rule. The Registry deliberately carries
no lock of its own; the Gateway serializes every event that touches it, which
is what makes the check-then-insert in Join atomic (see gateway.go).
*/
package chat

import (
	"github.com/rs/zerolog"

	"circlechat/internal/app/user"
	"circlechat/internal/pkg/errs"
	"circlechat/internal/pkg/logx"
)

// Circle is a chat room: its current members keyed by session id, and its
// bounded message history.
type Circle struct {
	ID      string
	users   map[string]user.User
	history *History
}

// LeftInfo describes a completed leave: who left which circle, and the
// members that remain (empty when the circle was destroyed).
type LeftInfo struct {
	CircleID  string
	Nickname  string
	Remaining []user.User
}

// Registry owns all circles and the session-to-circle index. A circle exists
// if and only if it has at least one member.
type Registry struct {
	historyCapacity int
	circles         map[string]*Circle

	// sessions maps a session id to the circle it joined.
	sessions map[string]string

	logger zerolog.Logger
}

// NewRegistry returns an empty Registry whose circles retain at most
// historyCapacity messages each.
func NewRegistry(historyCapacity int) *Registry {
	return &Registry{
		historyCapacity: historyCapacity,
		circles:         make(map[string]*Circle),
		sessions:        make(map[string]string),
		logger:          logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Join inserts u into the circle named circleID, creating the circle if this
// is the first reference to it. The nickname must be unique among current
// members unless the existing holder shares u's client token (the same
// logical user reconnecting). On success it returns the circle's history
// snapshot for replay; on collision it returns ErrNicknameTaken and leaves
// all state untouched, including not creating an unknown circle.
func (reg *Registry) Join(circleID string, u user.User) ([]Message, *errs.CustomError) {
	c := reg.circles[circleID]

	if c != nil {
		for _, existing := range c.users {
			if existing.Nickname == u.Nickname && existing.ClientToken != u.ClientToken {
				reg.logger.Info().
					Str("circle_id", circleID).
					Str("nickname", u.Nickname).
					Msg("Join rejected: nickname already in use.")
				return nil, errs.NewError(errs.ErrNicknameTaken, u.Nickname)
			}
		}
	}

	if c == nil {
		c = &Circle{
			ID:      circleID,
			users:   make(map[string]user.User),
			history: NewHistory(reg.historyCapacity),
		}
		reg.circles[circleID] = c

		reg.logger.Info().Str("circle_id", circleID).Msg("Circle created.")
	}

	c.users[u.SessionID] = u
	reg.sessions[u.SessionID] = circleID

	reg.logger.Info().
		Str("circle_id", circleID).
		Str("session_id", u.SessionID).
		Str("nickname", u.Nickname).
		Int("total_users", len(c.users)).
		Msg("User joined circle.")

	return c.history.Snapshot(), nil
}

// Leave removes the session's user from its circle. If the circle becomes
// empty it is destroyed immediately. Returns nil when the session was not a
// member of any circle.
func (reg *Registry) Leave(sessionID string) *LeftInfo {
	circleID, ok := reg.sessions[sessionID]
	if !ok {
		return nil
	}
	delete(reg.sessions, sessionID)

	c := reg.circles[circleID]
	if c == nil {
		return nil
	}

	u, ok := c.users[sessionID]
	if !ok {
		return nil
	}
	delete(c.users, sessionID)

	reg.logger.Info().
		Str("circle_id", circleID).
		Str("nickname", u.Nickname).
		Int("total_users", len(c.users)).
		Msg("User left circle.")

	if len(c.users) == 0 {
		delete(reg.circles, circleID)
		reg.logger.Info().Str("circle_id", circleID).Msg("Circle is empty and has been removed.")

		return &LeftInfo{CircleID: circleID, Nickname: u.Nickname, Remaining: []user.User{}}
	}

	return &LeftInfo{CircleID: circleID, Nickname: u.Nickname, Remaining: reg.Users(circleID)}
}

// RecordMessage appends msg to the circle's history. A message for an
// unknown circle is dropped; the sender must have already left.
func (reg *Registry) RecordMessage(circleID string, msg Message) {
	c := reg.circles[circleID]
	if c == nil {
		reg.logger.Warn().Str("circle_id", circleID).Msg("Dropping message for unknown circle.")
		return
	}

	if evictedID, evicted := c.history.Append(msg); evicted {
		reg.logger.Debug().
			Str("circle_id", circleID).
			Str("evicted_id", evictedID).
			Msg("History capacity reached, oldest message evicted.")
	}
}

// ResolveReply returns a snapshot of the referenced message's author and
// text, or nil if the id is absent (unknown, or already evicted).
func (reg *Registry) ResolveReply(circleID, messageID string) *ReplyRef {
	c := reg.circles[circleID]
	if c == nil {
		return nil
	}

	target, ok := c.history.Get(messageID)
	if !ok {
		return nil
	}

	return &ReplyRef{AuthorNickname: target.AuthorNickname, Text: target.Text}
}

// Users returns the circle's current members. The result is always non-nil
// so it serializes as a JSON array.
func (reg *Registry) Users(circleID string) []user.User {
	members := make([]user.User, 0)

	if c := reg.circles[circleID]; c != nil {
		for _, u := range c.users {
			members = append(members, u)
		}
	}

	return members
}

// MemberSessions returns the session ids of the circle's current members.
func (reg *Registry) MemberSessions(circleID string) []string {
	c := reg.circles[circleID]
	if c == nil {
		return nil
	}

	ids := make([]string, 0, len(c.users))
	for sessionID := range c.users {
		ids = append(ids, sessionID)
	}
	return ids
}

// Exists reports whether the circle currently exists.
func (reg *Registry) Exists(circleID string) bool {
	_, ok := reg.circles[circleID]
	return ok
}
