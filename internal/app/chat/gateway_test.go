package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circlechat/internal/app/moderation"
	"circlechat/internal/app/user"
)

// recordedEvent captures one emission with its audience: either a single
// session or a whole circle.
type recordedEvent struct {
	SessionID string
	CircleID  string
	Event     Event
}

type fakeEmitter struct {
	events []recordedEvent
}

func (f *fakeEmitter) ToSession(sessionID string, event Event) {
	f.events = append(f.events, recordedEvent{SessionID: sessionID, Event: event})
}

func (f *fakeEmitter) ToCircle(circleID string, event Event) {
	f.events = append(f.events, recordedEvent{CircleID: circleID, Event: event})
}

func (f *fakeEmitter) ofType(t EventType) []recordedEvent {
	var out []recordedEvent
	for _, e := range f.events {
		if e.Event.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeEmitter) reset() {
	f.events = nil
}

func newTestGateway(t *testing.T) (*Gateway, *Registry, *fakeEmitter) {
	t.Helper()

	registry := NewRegistry(DefaultHistoryCapacity)
	emitter := &fakeEmitter{}
	pipeline := moderation.NewPipeline([]string{"kill"}, []string{"hell"})

	return NewGateway(registry, pipeline, emitter), registry, emitter
}

func join(g *Gateway, s *Session, nickname, token, circle string) {
	g.NewUser(s, NewUserPayload{Nickname: nickname, ClientToken: token, Circle: circle})
}

func TestGatewayLobbyScenario(t *testing.T) {
	g, registry, emitter := newTestGateway(t)

	// Alice joins the empty lobby
	alice := NewSession("s1")
	join(g, alice, "Alice", "tok-a", "lobby")

	histories := emitter.ofType(EventMessageHistory)
	require.Len(t, histories, 1)
	assert.Equal(t, "s1", histories[0].SessionID)
	assert.Empty(t, histories[0].Event.Payload.([]Message))

	systems := emitter.ofType(EventSystemMessage)
	require.Len(t, systems, 1)
	assert.Equal(t, "lobby", systems[0].CircleID)
	assert.Equal(t, SystemMessagePayload{Text: "Alice has joined the circle.", Type: SystemJoin}, systems[0].Event.Payload)

	lists := emitter.ofType(EventUserList)
	require.Len(t, lists, 1)
	assert.Len(t, lists[0].Event.Payload.([]user.User), 1)

	// Alice says hello
	emitter.reset()
	g.ChatMessage(alice, ChatMessagePayload{Text: "hello"})

	messages := emitter.ofType(EventMessage)
	require.Len(t, messages, 1)
	assert.Equal(t, "lobby", messages[0].CircleID)

	sent := messages[0].Event.Payload.(Message)
	assert.Equal(t, "Alice", sent.AuthorNickname)
	assert.Equal(t, "hello", sent.Text)
	assert.Nil(t, sent.ReplyRef)

	// a second Alice with a different token is rejected
	emitter.reset()
	intruder := NewSession("s2")
	join(g, intruder, "Alice", "tok-b", "lobby")

	nickErrs := emitter.ofType(EventNicknameError)
	require.Len(t, nickErrs, 1)
	assert.Equal(t, "s2", nickErrs[0].SessionID)
	assert.Len(t, registry.Users("lobby"), 1)
	assert.Empty(t, emitter.ofType(EventMessageHistory))

	// the rejected session stays unjoined and can retry
	emitter.reset()
	join(g, intruder, "Bob", "tok-b", "lobby")
	require.Len(t, emitter.ofType(EventMessageHistory), 1)
	assert.Len(t, registry.Users("lobby"), 2)

	// Bob leaves, the remaining members hear about it
	emitter.reset()
	g.Disconnect(intruder)

	systems = emitter.ofType(EventSystemMessage)
	require.Len(t, systems, 1)
	assert.Equal(t, SystemMessagePayload{Text: "Bob has left the circle.", Type: SystemLeave}, systems[0].Event.Payload)
	require.Len(t, emitter.ofType(EventUserList), 1)

	// Alice leaves last: the circle is destroyed and nothing is broadcast
	emitter.reset()
	g.Disconnect(alice)

	assert.False(t, registry.Exists("lobby"))
	assert.Empty(t, emitter.events)
}

func TestGatewayEmptyNicknameRejected(t *testing.T) {
	g, registry, emitter := newTestGateway(t)

	s := NewSession("s1")
	join(g, s, "   <>'\"&  ", "tok-a", "lobby")

	nickErrs := emitter.ofType(EventNicknameError)
	require.Len(t, nickErrs, 1)
	assert.Equal(t, NicknameErrorPayload{Message: "Nickname cannot be empty."}, nickErrs[0].Event.Payload)
	assert.False(t, registry.Exists("lobby"), "a rejected join must not create the circle")
}

func TestGatewayModerationPolicy(t *testing.T) {
	g, _, emitter := newTestGateway(t)

	t.Run("profane nickname is cleaned, never rejected", func(t *testing.T) {
		emitter.reset()
		s := NewSession("s1")
		g.NewUser(s, NewUserPayload{Nickname: "kill bot", Flair: "born to kill", ClientToken: "tok", Circle: "lobby"})

		lists := emitter.ofType(EventUserList)
		require.Len(t, lists, 1)

		members := lists[0].Event.Payload.([]user.User)
		require.Len(t, members, 1)
		assert.Equal(t, "**** bot", members[0].Nickname)
		assert.Equal(t, "born to ****", members[0].Flair)
	})

	t.Run("removed vocabulary word passes through", func(t *testing.T) {
		emitter.reset()
		s := NewSession("s2")
		g.NewUser(s, NewUserPayload{Nickname: "hellraiser", ClientToken: "tok2", Circle: "lobby"})
		g.ChatMessage(s, ChatMessagePayload{Text: "what the hell"})

		messages := emitter.ofType(EventMessage)
		require.Len(t, messages, 1)
		assert.Equal(t, "what the hell", messages[0].Event.Payload.(Message).Text)
	})

	t.Run("message text is always filtered", func(t *testing.T) {
		emitter.reset()
		s := NewSession("s3")
		g.NewUser(s, NewUserPayload{Nickname: "Carol", ClientToken: "tok3", Circle: "lobby"})
		g.ChatMessage(s, ChatMessagePayload{Text: "i will kill it"})

		messages := emitter.ofType(EventMessage)
		require.Len(t, messages, 1)
		assert.Equal(t, "i will **** it", messages[0].Event.Payload.(Message).Text)
	})
}

func TestGatewayEmptyMessageDroppedSilently(t *testing.T) {
	g, registry, emitter := newTestGateway(t)

	s := NewSession("s1")
	join(g, s, "Alice", "tok-a", "lobby")
	emitter.reset()

	// markup-only and whitespace-only inputs both sanitize to empty
	g.ChatMessage(s, ChatMessagePayload{Text: `  <>"'&  `})
	g.ChatMessage(s, ChatMessagePayload{Text: "   \t  "})

	assert.Empty(t, emitter.events, "no error and no broadcast for an empty message")
	assert.Len(t, registry.circles["lobby"].history.Snapshot(), 0)
}

func TestGatewayReplyResolution(t *testing.T) {
	g, _, emitter := newTestGateway(t)

	alice := NewSession("s1")
	bob := NewSession("s2")
	join(g, alice, "Alice", "tok-a", "lobby")
	join(g, bob, "Bob", "tok-b", "lobby")

	emitter.reset()
	g.ChatMessage(alice, ChatMessagePayload{Text: "first"})

	messages := emitter.ofType(EventMessage)
	require.Len(t, messages, 1)
	m1 := messages[0].Event.Payload.(Message)

	emitter.reset()
	g.ChatMessage(bob, ChatMessagePayload{Text: "reply", ReplyTo: m1.ID})

	messages = emitter.ofType(EventMessage)
	require.Len(t, messages, 1)
	m2 := messages[0].Event.Payload.(Message)

	require.NotNil(t, m2.ReplyRef)
	assert.Equal(t, ReplyRef{AuthorNickname: "Alice", Text: "first"}, *m2.ReplyRef)

	// an unknown reply target degrades to a nil reference, not an error
	emitter.reset()
	g.ChatMessage(bob, ChatMessagePayload{Text: "stale reply", ReplyTo: "gone"})

	messages = emitter.ofType(EventMessage)
	require.Len(t, messages, 1)
	assert.Nil(t, messages[0].Event.Payload.(Message).ReplyRef)
}

func TestGatewayStateTransitions(t *testing.T) {
	t.Run("disconnect while unjoined is a no-op", func(t *testing.T) {
		g, _, emitter := newTestGateway(t)

		s := NewSession("s1")
		g.Disconnect(s)

		assert.Empty(t, emitter.events)
		assert.Equal(t, stateClosed, s.state)
	})

	t.Run("chat before join is dropped", func(t *testing.T) {
		g, _, emitter := newTestGateway(t)

		s := NewSession("s1")
		g.ChatMessage(s, ChatMessagePayload{Text: "hello"})

		assert.Empty(t, emitter.events)
	})

	t.Run("second join on a joined session is ignored", func(t *testing.T) {
		g, registry, emitter := newTestGateway(t)

		s := NewSession("s1")
		join(g, s, "Alice", "tok-a", "lobby")
		emitter.reset()

		join(g, s, "Alice2", "tok-a", "den")

		assert.Empty(t, emitter.events)
		assert.False(t, registry.Exists("den"))
	})

	t.Run("events after close are ignored", func(t *testing.T) {
		g, _, emitter := newTestGateway(t)

		s := NewSession("s1")
		join(g, s, "Alice", "tok-a", "lobby")
		g.Disconnect(s)
		emitter.reset()

		g.ChatMessage(s, ChatMessagePayload{Text: "ghost"})
		g.Disconnect(s)

		assert.Empty(t, emitter.events)
	})
}

func TestGatewayMessageIDsUnique(t *testing.T) {
	g, _, emitter := newTestGateway(t)

	s := NewSession("s1")
	join(g, s, "Alice", "tok-a", "lobby")
	emitter.reset()

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		g.ChatMessage(s, ChatMessagePayload{Text: "burst"})
	}

	messages := emitter.ofType(EventMessage)
	require.Len(t, messages, 20)
	for _, m := range messages {
		id := m.Event.Payload.(Message).ID
		_, dup := seen[id]
		assert.False(t, dup, "duplicate message id %s", id)
		seen[id] = struct{}{}
	}
}
