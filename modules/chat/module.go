package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	"github.com/example/chat-relay/events"
)

// Module wraps the relay service as a mono module. It provides request/reply
// services for the transport layer and emits chat domain events.
type Module struct {
	service *Service
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the chat module. The broadcaster is injected from
// main.go before the application starts.
func NewModule(b Broadcaster) *Module {
	return &Module{
		service: NewService(b),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// Service returns the underlying relay service.
func (m *Module) Service() *Service {
	return m.service
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	log.Println("[chat] Module started - relay core ready")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Printf("[chat] Module stopped - %d participants were registered", m.service.Registry().Len())
	return nil
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.service.SetEventBus(bus)
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.MessageSentV1.ToBase(),
		events.UserJoinedV1.ToBase(),
		events.UserLeftV1.ToBase(),
	}
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"participants":     m.service.Registry().Len(),
			"history_messages": m.service.History().Len(),
		},
	}
}

// RegisterServices registers the request/reply services consumed by the
// transport layer through the ChatPort adapter.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(context.Context, *mono.Msg) ([]byte, error){
		ServiceJoin:        m.handleJoin,
		ServiceLeave:       m.handleLeave,
		ServiceSendMessage: m.handleSendMessage,
		ServiceSetTyping:   m.handleSetTyping,
		ServiceHistory:     m.handleHistory,
		ServiceRoomMembers: m.handleRoomMembers,
	}
	for name, handler := range services {
		if err := container.RegisterRequestReplyService(name, handler); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}
	return nil
}

func (m *Module) handleJoin(_ context.Context, msg *mono.Msg) ([]byte, error) {
	var req JoinRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return nil, fmt.Errorf("invalid join request: %w", err)
	}
	if req.ConnectionID == "" || req.Username == "" {
		return nil, fmt.Errorf("connection_id and username are required")
	}

	p := m.service.Join(req.ConnectionID, req.Username, req.Room)
	return json.Marshal(JoinResponse{Participant: p})
}

func (m *Module) handleLeave(_ context.Context, msg *mono.Msg) ([]byte, error) {
	var req LeaveRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return nil, fmt.Errorf("invalid leave request: %w", err)
	}

	p, left := m.service.Disconnect(req.ConnectionID)
	return json.Marshal(LeaveResponse{Left: left, Participant: p})
}

func (m *Module) handleSendMessage(_ context.Context, msg *mono.Msg) ([]byte, error) {
	var req SendMessageRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return nil, fmt.Errorf("invalid send-message request: %w", err)
	}

	relayed := m.service.SendMessage(req.ConnectionID, req.Message, req.Type)
	return json.Marshal(SendMessageResponse{
		Delivered: relayed != nil,
		Message:   relayed,
	})
}

func (m *Module) handleSetTyping(_ context.Context, msg *mono.Msg) ([]byte, error) {
	var req SetTypingRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return nil, fmt.Errorf("invalid set-typing request: %w", err)
	}

	delivered := m.service.SetTyping(req.ConnectionID, req.IsTyping)
	return json.Marshal(SetTypingResponse{Delivered: delivered})
}

func (m *Module) handleHistory(_ context.Context, msg *mono.Msg) ([]byte, error) {
	var req HistoryRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return nil, fmt.Errorf("invalid history request: %w", err)
		}
	}

	return json.Marshal(HistoryResponse{Messages: m.service.History().Snapshot()})
}

func (m *Module) handleRoomMembers(_ context.Context, msg *mono.Msg) ([]byte, error) {
	var req RoomMembersRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return nil, fmt.Errorf("invalid room-members request: %w", err)
	}
	if req.Room == "" {
		req.Room = DefaultRoom
	}

	members := m.service.Registry().ListByRoom(req.Room)
	resp := RoomMembersResponse{
		Users: make([]Member, 0, len(members)),
		Count: len(members),
	}
	for _, p := range members {
		resp.Users = append(resp.Users, Member{Username: p.Username, UserID: p.UserID})
	}
	return json.Marshal(resp)
}
