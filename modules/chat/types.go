package chat

import (
	domain "github.com/example/chat-relay/domain/chat"
)

// DefaultRoom is the room assigned when a join omits one.
const DefaultRoom = "general"

// Message kinds.
const (
	TypeText  = "text"
	TypeImage = "image"
)

// Outbound event names delivered over the websocket transport.
const (
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventOnlineUsers    = "online_users_update"
	EventReceiveMessage = "receive_message"
	EventUserTyping     = "user_typing"
	EventError          = "error"
)

// rejectionMessage is the single user-visible notice for every image
// rejection sub-reason, matching the wire behavior existing clients expect.
const rejectionMessage = "too large"

// Member is one roster entry in an online_users_update payload.
type Member struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

// UserNotice is the payload for user_joined and user_left.
type UserNotice struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	Time     string `json:"time"`
}

// RoomRoster is the payload for online_users_update, always recomputed from
// the registry at broadcast time.
type RoomRoster struct {
	Users []Member `json:"users"`
	Count int      `json:"count"`
}

// TypingNotice is the payload for user_typing.
type TypingNotice struct {
	Username string `json:"username"`
	IsTyping bool   `json:"is_typing"`
}

// ErrorNotice is the payload for sender-only error events.
type ErrorNotice struct {
	Message string `json:"message"`
}

// Request/reply service names registered by the chat module.
const (
	ServiceJoin        = "join"
	ServiceLeave       = "leave"
	ServiceSendMessage = "send-message"
	ServiceSetTyping   = "set-typing"
	ServiceHistory     = "history"
	ServiceRoomMembers = "room-members"
)

// JoinRequest is the request for the join service.
type JoinRequest struct {
	ConnectionID string `json:"connection_id"`
	Username     string `json:"username"`
	Room         string `json:"room"`
}

// JoinResponse is the reply for the join service.
type JoinResponse struct {
	Participant *domain.Participant `json:"participant"`
}

// LeaveRequest is the request for the leave service.
type LeaveRequest struct {
	ConnectionID string `json:"connection_id"`
}

// LeaveResponse is the reply for the leave service. Left is false when the
// connection had no registry record, which is a normal outcome.
type LeaveResponse struct {
	Left        bool                `json:"left"`
	Participant *domain.Participant `json:"participant,omitempty"`
}

// SendMessageRequest is the request for the send-message service.
type SendMessageRequest struct {
	ConnectionID string `json:"connection_id"`
	Message      string `json:"message"`
	Type         string `json:"type"`
}

// SendMessageResponse is the reply for the send-message service. Delivered
// is false when the sender was absent or the payload was rejected.
type SendMessageResponse struct {
	Delivered bool            `json:"delivered"`
	Message   *domain.Message `json:"message,omitempty"`
}

// SetTypingRequest is the request for the set-typing service.
type SetTypingRequest struct {
	ConnectionID string `json:"connection_id"`
	IsTyping     bool   `json:"is_typing"`
}

// SetTypingResponse is the reply for the set-typing service.
type SetTypingResponse struct {
	Delivered bool `json:"delivered"`
}

// HistoryRequest is the request for the history service.
type HistoryRequest struct{}

// HistoryResponse is the reply for the history service.
type HistoryResponse struct {
	Messages []domain.Message `json:"messages"`
}

// RoomMembersRequest is the request for the room-members service.
type RoomMembersRequest struct {
	Room string `json:"room"`
}

// RoomMembersResponse is the reply for the room-members service.
type RoomMembersResponse struct {
	Users []Member `json:"users"`
	Count int      `json:"count"`
}
