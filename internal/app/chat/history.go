/*
Package chat contains the core room/session state machine: circle lifecycle,
membership, moderation policy, bounded message history, and the event fanout
that ties a transport session to a circle.

This file defines History, the per-circle bounded message log. It keeps an
id-indexed map for O(1) reply lookup alongside an ordered id slice for
oldest-first replay, evicting strictly FIFO once capacity is exceeded.
*/
package chat

// DefaultHistoryCapacity is the number of messages a circle retains unless
// configured otherwise.
const DefaultHistoryCapacity = 50

// History is a bounded, ordered, id-addressable message log. It is not safe
// for concurrent use; its owning circle's event stream is the only mutator.
type History struct {
	capacity int
	byID     map[string]Message
	order    []string
}

// NewHistory returns an empty History retaining at most capacity messages.
// A non-positive capacity falls back to DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	return &History{
		capacity: capacity,
		byID:     make(map[string]Message, capacity),
		order:    make([]string, 0, capacity),
	}
}

// Append inserts msg at the end of the log. If the insertion pushed the log
// over capacity, the single oldest message is evicted and its id returned.
// Capacity is enforced on every append, so the log is only ever over by
// exactly one entry.
func (h *History) Append(msg Message) (evictedID string, evicted bool) {
	h.byID[msg.ID] = msg
	h.order = append(h.order, msg.ID)

	if len(h.order) > h.capacity {
		evictedID = h.order[0]
		h.order = h.order[1:]
		delete(h.byID, evictedID)
		return evictedID, true
	}

	return "", false
}

// Get returns the retained message with the given id.
func (h *History) Get(id string) (Message, bool) {
	msg, ok := h.byID[id]
	return msg, ok
}

// Snapshot returns the retained messages in insertion order, oldest first.
// The result is always non-nil so it serializes as a JSON array.
func (h *History) Snapshot() []Message {
	snapshot := make([]Message, 0, len(h.order))
	for _, id := range h.order {
		snapshot = append(snapshot, h.byID[id])
	}
	return snapshot
}

// Len returns the number of retained messages.
func (h *History) Len() int {
	return len(h.order)
}
