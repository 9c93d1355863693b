package chat

import (
	"sync"

	domain "github.com/example/chat-relay/domain/chat"
)

// maxHistorySize is the maximum number of messages retained in the log.
const maxHistorySize = 100

// History is the process-wide capped message log. It is shared across rooms:
// eviction is strict FIFO over all accepted messages regardless of origin.
type History struct {
	mu      sync.Mutex
	entries []domain.Message
	max     int
}

// NewHistory creates a message log capped at max entries.
func NewHistory(max int) *History {
	if max <= 0 {
		max = maxHistorySize
	}
	return &History{
		entries: make([]domain.Message, 0, max),
		max:     max,
	}
}

// Append adds a message, evicting the oldest entry once the cap is reached.
func (h *History) Append(msg domain.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, msg)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Snapshot returns a copy of the current log in arrival order.
func (h *History) Snapshot() []domain.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]domain.Message, len(h.entries))
	copy(result, h.entries)
	return result
}

// Len returns the number of retained messages.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
