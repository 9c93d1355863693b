package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/chat-relay/domain/chat"
)

// ChatPort defines the relay operations available to the transport layer.
type ChatPort interface {
	Join(ctx context.Context, connID, username, room string) (*domain.Participant, error)
	Leave(ctx context.Context, connID string) (*domain.Participant, bool, error)
	SendMessage(ctx context.Context, connID, message, kind string) (bool, error)
	SetTyping(ctx context.Context, connID string, isTyping bool) error
	History(ctx context.Context) ([]domain.Message, error)
	RoomMembers(ctx context.Context, room string) ([]Member, int, error)
}

// ChatAdapter implements ChatPort over the chat module's service container.
type ChatAdapter struct {
	container mono.ServiceContainer
}

// NewChatAdapter creates a new ChatAdapter.
func NewChatAdapter(container mono.ServiceContainer) ChatPort {
	if container == nil {
		panic("chat: ServiceContainer is nil")
	}
	return &ChatAdapter{container: container}
}

// Join registers a connection in a room and returns the new participant.
func (a *ChatAdapter) Join(ctx context.Context, connID, username, room string) (*domain.Participant, error) {
	req := JoinRequest{ConnectionID: connID, Username: username, Room: room}
	var resp JoinResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceJoin,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to join: %w", err)
	}
	return resp.Participant, nil
}

// Leave removes a connection's record. The bool reports whether a record
// existed; absence is a normal outcome, not an error.
func (a *ChatAdapter) Leave(ctx context.Context, connID string) (*domain.Participant, bool, error) {
	req := LeaveRequest{ConnectionID: connID}
	var resp LeaveResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceLeave,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, false, fmt.Errorf("failed to leave: %w", err)
	}
	return resp.Participant, resp.Left, nil
}

// SendMessage relays a chat message. The bool reports whether the message
// was accepted and broadcast.
func (a *ChatAdapter) SendMessage(ctx context.Context, connID, message, kind string) (bool, error) {
	req := SendMessageRequest{ConnectionID: connID, Message: message, Type: kind}
	var resp SendMessageResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceSendMessage,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return false, fmt.Errorf("failed to send message: %w", err)
	}
	return resp.Delivered, nil
}

// SetTyping relays a typing indicator.
func (a *ChatAdapter) SetTyping(ctx context.Context, connID string, isTyping bool) error {
	req := SetTypingRequest{ConnectionID: connID, IsTyping: isTyping}
	var resp SetTypingResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceSetTyping,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("failed to set typing: %w", err)
	}
	return nil
}

// History returns the global message log snapshot.
func (a *ChatAdapter) History(ctx context.Context) ([]domain.Message, error) {
	req := HistoryRequest{}
	var resp HistoryResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceHistory,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return resp.Messages, nil
}

// RoomMembers returns the live roster of a room.
func (a *ChatAdapter) RoomMembers(ctx context.Context, room string) ([]Member, int, error) {
	req := RoomMembersRequest{Room: room}
	var resp RoomMembersResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceRoomMembers,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, 0, fmt.Errorf("failed to get room members: %w", err)
	}
	return resp.Users, resp.Count, nil
}
