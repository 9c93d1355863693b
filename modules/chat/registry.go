package chat

import (
	"sync"

	"github.com/google/uuid"

	domain "github.com/example/chat-relay/domain/chat"
)

// Registry provides thread-safe storage for participants, keyed by the
// transport-assigned connection id. Rooms are not stored; they are derived
// groupings over the participants' Room field.
type Registry struct {
	mu           sync.RWMutex
	participants map[string]*domain.Participant
}

// NewRegistry creates an empty participant registry.
func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]*domain.Participant),
	}
}

// Join records a participant for connID, generating a fresh short user id.
// A prior record under the same connection id is overwritten.
func (r *Registry) Join(connID, username, room string) *domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &domain.Participant{
		ConnectionID: connID,
		Username:     username,
		UserID:       uuid.New().String()[:8],
		Room:         room,
	}
	r.participants[connID] = p

	copy := *p
	return &copy
}

// Leave removes and returns the record for connID. A connection with no
// record is a normal outcome, reported through the bool.
func (r *Registry) Leave(connID string) (*domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.participants[connID]
	if !exists {
		return nil, false
	}
	delete(r.participants, connID)

	copy := *p
	return &copy, true
}

// Get returns the record for connID.
func (r *Registry) Get(connID string) (*domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.participants[connID]
	if !exists {
		return nil, false
	}
	copy := *p
	return &copy, true
}

// ListByRoom returns the current members of a room. Order is not significant.
func (r *Registry) ListByRoom(room string) []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Participant, 0)
	for _, p := range r.participants {
		if p.Room == room {
			result = append(result, *p)
		}
	}
	return result
}

// Count returns the number of current members of a room.
func (r *Registry) Count(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, p := range r.participants {
		if p.Room == room {
			count++
		}
	}
	return count
}

// Len returns the total number of registered participants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}
