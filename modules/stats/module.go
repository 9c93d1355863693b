package stats

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/chat-relay/events"
)

var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// Module keeps running counters of chat activity. It consumes the chat
// module's domain events without touching the delivery path.
type Module struct {
	messagesSent atomic.Int64
	usersJoined  atomic.Int64
	usersLeft    atomic.Int64
}

// NewModule creates a new stats module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "stats"
}

// Start initializes the stats module.
func (m *Module) Start(ctx context.Context) error {
	log.Println("[stats] Module started")
	return nil
}

// Stop logs the final counters.
func (m *Module) Stop(ctx context.Context) error {
	log.Printf("[stats] Module stopped (messages=%d joins=%d leaves=%d)",
		m.messagesSent.Load(), m.usersJoined.Load(), m.usersLeft.Load())
	return nil
}

// RegisterEventConsumers subscribes to the chat module's events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MessageSentV1, m.handleMessageSent, m,
	); err != nil {
		return fmt.Errorf("failed to register MessageSent consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserJoinedV1, m.handleUserJoined, m,
	); err != nil {
		return fmt.Errorf("failed to register UserJoined consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserLeftV1, m.handleUserLeft, m,
	); err != nil {
		return fmt.Errorf("failed to register UserLeft consumer: %w", err)
	}

	log.Println("[stats] Registered event consumers: MessageSent, UserJoined, UserLeft")
	return nil
}

// Health reports the accumulated counters.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "stats module is running",
		Details: map[string]any{
			"messages_sent": m.messagesSent.Load(),
			"users_joined":  m.usersJoined.Load(),
			"users_left":    m.usersLeft.Load(),
		},
	}
}

func (m *Module) handleMessageSent(_ context.Context, event events.MessageSentEvent, _ *mono.Msg) error {
	m.messagesSent.Add(1)
	log.Printf("[stats] Message in room %s from %s (type=%s)", event.Room, event.Username, event.Type)
	return nil
}

func (m *Module) handleUserJoined(_ context.Context, event events.UserJoinedEvent, _ *mono.Msg) error {
	m.usersJoined.Add(1)
	log.Printf("[stats] %s joined room %s", event.Username, event.Room)
	return nil
}

func (m *Module) handleUserLeft(_ context.Context, event events.UserLeftEvent, _ *mono.Msg) error {
	m.usersLeft.Add(1)
	log.Printf("[stats] %s left room %s", event.Username, event.Room)
	return nil
}
