/*
Package chat contains the core room/session state machine.

This file defines the wire-level event envelope, the per-event payload
schemas, and the Message type recorded in circle history. Every payload field
coming from a client is validated or sanitized before it reaches the state
machine; opaque fields (style) are carried as json.RawMessage and passed
through unmodified.
*/
package chat

import (
	"encoding/json"
	"time"

	"circlechat/internal/app/user"
	"circlechat/internal/pkg/randx"
)

// EventType identifies the kind of envelope exchanged with clients.
type EventType string

// Inbound event types (session -> server).
const (
	EventNewUser     EventType = "newUser"
	EventChatMessage EventType = "chatMessage"
)

// Outbound event types (server -> session or server -> circle).
const (
	EventNicknameError  EventType = "nicknameError"
	EventMessageHistory EventType = "messageHistory"
	EventSystemMessage  EventType = "systemMessage"
	EventUserList       EventType = "userList"
	EventMessage        EventType = "message"
)

// System message subtypes carried in SystemMessagePayload.Type.
const (
	SystemJoin  = "join"
	SystemLeave = "leave"
)

// Event is the outbound envelope serialized to clients.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// InboundEvent is the raw envelope received from clients. The payload is
// decoded per type after the envelope itself parses.
type InboundEvent struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewUserPayload is the join request: nickname, optional flair, the opaque
// reconnection token, and the target circle id.
type NewUserPayload struct {
	Nickname    string `json:"nickname"`
	Flair       string `json:"flair"`
	ClientToken string `json:"clientToken"`
	Circle      string `json:"circle"`
}

// ChatMessagePayload is one chat utterance from a joined session. Style is
// opaque client-chosen metadata; ReplyTo optionally names a history message
// id this message replies to.
type ChatMessagePayload struct {
	Text    string          `json:"text"`
	Style   json.RawMessage `json:"style,omitempty"`
	ReplyTo string          `json:"replyTo,omitempty"`
}

// NicknameErrorPayload reports a join failure to the originating session.
type NicknameErrorPayload struct {
	Message string `json:"message"`
}

// SystemMessagePayload announces a membership change to a whole circle.
type SystemMessagePayload struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// ReplyRef is a snapshot of the replied-to message taken at send time. It is
// a copy, never a live reference, so later history eviction cannot mutate it.
type ReplyRef struct {
	AuthorNickname string `json:"authorNickname"`
	Text           string `json:"text"`
}

// Message is one accepted chat utterance. Author fields are snapshots of the
// sender's user record at send time.
type Message struct {
	ID             string          `json:"id"`
	AuthorNickname string          `json:"authorNickname"`
	Flair          string          `json:"flair"`
	Avatar         string          `json:"avatar"`
	Text           string          `json:"text"`
	Style          json.RawMessage `json:"style,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	ReplyRef       *ReplyRef       `json:"replyRef"`
}

// NewMessage builds a Message from already-sanitized text, snapshotting the
// author's identity fields. The id is time-prefixed with a random suffix so
// ids stay unique under same-millisecond sends while sorting roughly by time.
func NewMessage(author user.User, text string, style json.RawMessage, replyRef *ReplyRef) Message {
	return Message{
		ID:             randx.MessageID(),
		AuthorNickname: author.Nickname,
		Flair:          author.Flair,
		Avatar:         author.Avatar,
		Text:           text,
		Style:          style,
		Timestamp:      time.Now(),
		ReplyRef:       replyRef,
	}
}
