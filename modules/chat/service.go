package chat

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-monolith/mono"

	domain "github.com/example/chat-relay/domain/chat"
	"github.com/example/chat-relay/events"
)

// timeFormat is the coarse wall-clock resolution stamped on notices and
// messages.
const timeFormat = "15:04:05"

// Broadcaster is the transport delivery port the service fans out through.
// The broadcast module's hub implements it.
type Broadcaster interface {
	// BroadcastToRoom delivers payload tagged with event to every connection
	// tagged with room. When excludeID is non-empty that connection is
	// skipped.
	BroadcastToRoom(room, event string, payload any, excludeID string)
	// SendTo delivers payload tagged with event to a single connection.
	SendTo(connID, event string, payload any)
}

// Service implements the relay core: participant registry, global message
// log, payload validation, and the connect/join/message/typing/disconnect
// lifecycle. All handling is synchronous; an accepted event is validated,
// stored, and broadcast before the call returns.
type Service struct {
	registry    *Registry
	history     *History
	broadcaster Broadcaster
	bus         mono.EventBus
	logger      *slog.Logger
}

// NewService creates a relay service delivering through b.
func NewService(b Broadcaster) *Service {
	return &Service{
		registry:    NewRegistry(),
		history:     NewHistory(maxHistorySize),
		broadcaster: b,
		logger:      slog.Default(),
	}
}

// SetEventBus wires the bus used for fire-and-forget domain events.
func (s *Service) SetEventBus(bus mono.EventBus) {
	s.bus = bus
}

// Registry exposes the participant registry for read-only callers.
func (s *Service) Registry() *Registry {
	return s.registry
}

// History exposes the message log for read-only callers.
func (s *Service) History() *History {
	return s.history
}

// Join registers the connection in a room (DefaultRoom when empty),
// announces the join to the whole room including the new entrant, and
// follows with a fresh roster snapshot.
func (s *Service) Join(connID, username, room string) *domain.Participant {
	if room == "" {
		room = DefaultRoom
	}

	p := s.registry.Join(connID, username, room)

	s.broadcaster.BroadcastToRoom(room, EventUserJoined, UserNotice{
		Username: username,
		Message:  fmt.Sprintf("%s joined the room", username),
		Time:     time.Now().Format(timeFormat),
	}, "")
	s.broadcastRoster(room)

	s.publishUserJoined(p)

	s.logger.Info("User joined room", "username", username, "room", room)
	return p
}

// Disconnect removes the connection's record. If one existed the departure
// is announced to the participant's last known room, followed by a fresh
// roster snapshot; otherwise it is a silent no-op.
func (s *Service) Disconnect(connID string) (*domain.Participant, bool) {
	p, existed := s.registry.Leave(connID)
	if !existed {
		s.logger.Debug("Disconnect for unknown connection", "connID", connID)
		return nil, false
	}

	s.broadcaster.BroadcastToRoom(p.Room, EventUserLeft, UserNotice{
		Username: p.Username,
		Message:  fmt.Sprintf("%s left the room", p.Username),
		Time:     time.Now().Format(timeFormat),
	}, "")
	s.broadcastRoster(p.Room)

	s.publishUserLeft(p)

	s.logger.Info("User left room", "username", p.Username, "room", p.Room)
	return p, true
}

// SendMessage handles one chat message from connID. Senders without a
// registry record are silently discarded. Image payloads are validated
// before they reach the log or the room; a rejected image produces a single
// sender-only error notice and nothing else.
func (s *Service) SendMessage(connID, body, kind string) *domain.Message {
	sender, exists := s.registry.Get(connID)
	if !exists {
		s.logger.Debug("Message from unknown connection", "connID", connID)
		return nil
	}

	if kind == "" {
		kind = TypeText
	}

	if kind == TypeImage && !ValidateImageData(body) {
		s.broadcaster.SendTo(connID, EventError, ErrorNotice{Message: rejectionMessage})
		s.logger.Info("Rejected image payload", "username", sender.Username, "room", sender.Room)
		return nil
	}

	msg := domain.Message{
		Username: sender.Username,
		Content:  body,
		Type:     kind,
		Time:     time.Now().Format(timeFormat),
		UserID:   sender.UserID,
	}

	s.history.Append(msg)
	s.broadcaster.BroadcastToRoom(sender.Room, EventReceiveMessage, msg, "")

	s.publishMessageSent(sender, kind)

	s.logger.Debug("Message relayed", "username", sender.Username, "room", sender.Room, "type", kind)
	return &msg
}

// SetTyping relays a typing indicator to the sender's room, excluding the
// sender. Senders without a registry record are silently discarded.
func (s *Service) SetTyping(connID string, isTyping bool) bool {
	sender, exists := s.registry.Get(connID)
	if !exists {
		return false
	}

	s.broadcaster.BroadcastToRoom(sender.Room, EventUserTyping, TypingNotice{
		Username: sender.Username,
		IsTyping: isTyping,
	}, connID)
	return true
}

// broadcastRoster sends an online_users_update computed fresh from the
// registry at broadcast time.
func (s *Service) broadcastRoster(room string) {
	members := s.registry.ListByRoom(room)
	roster := RoomRoster{
		Users: make([]Member, 0, len(members)),
		Count: len(members),
	}
	for _, m := range members {
		roster.Users = append(roster.Users, Member{
			Username: m.Username,
			UserID:   m.UserID,
		})
	}
	s.broadcaster.BroadcastToRoom(room, EventOnlineUsers, roster, "")
}

func (s *Service) publishUserJoined(p *domain.Participant) {
	if s.bus == nil {
		return
	}
	err := events.UserJoinedV1.Publish(s.bus, events.UserJoinedEvent{
		Room:      p.Room,
		UserID:    p.UserID,
		Username:  p.Username,
		Timestamp: time.Now(),
	}, nil)
	if err != nil {
		slog.Warn("Failed to publish UserJoined event", "error", err)
	}
}

func (s *Service) publishUserLeft(p *domain.Participant) {
	if s.bus == nil {
		return
	}
	err := events.UserLeftV1.Publish(s.bus, events.UserLeftEvent{
		Room:      p.Room,
		UserID:    p.UserID,
		Username:  p.Username,
		Timestamp: time.Now(),
	}, nil)
	if err != nil {
		slog.Warn("Failed to publish UserLeft event", "error", err)
	}
}

func (s *Service) publishMessageSent(p *domain.Participant, kind string) {
	if s.bus == nil {
		return
	}
	err := events.MessageSentV1.Publish(s.bus, events.MessageSentEvent{
		Room:      p.Room,
		UserID:    p.UserID,
		Username:  p.Username,
		Type:      kind,
		Timestamp: time.Now(),
	}, nil)
	if err != nil {
		slog.Warn("Failed to publish MessageSent event", "error", err)
	}
}
