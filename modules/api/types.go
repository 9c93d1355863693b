package api

import "encoding/json"

// WSMessage is the inbound websocket frame: a command name tagging a payload.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound websocket command types.
const (
	WSTypeJoin    = "join"
	WSTypeMessage = "send_message"
	WSTypeTyping  = "typing"
)

// JoinPayload is the payload for joining a room.
type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// MessagePayload is the payload for sending a chat message.
type MessagePayload struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// TypingPayload is the payload for typing notifications.
type TypingPayload struct {
	IsTyping bool `json:"is_typing"`
}

// ConnectedResponse confirms a websocket connection and carries its id.
type ConnectedResponse struct {
	ConnectionID string `json:"connection_id"`
}

// MessageResponse is the API representation of a chat message.
type MessageResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	Type     string `json:"type"`
	Time     string `json:"time"`
	UserID   string `json:"user_id"`
}

// HistoryResponse is the API response for message history.
type HistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int               `json:"total"`
}

// MemberResponse is the API representation of a room member.
type MemberResponse struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

// RoomMembersResponse is the API response for a room's member list.
type RoomMembersResponse struct {
	Room  string           `json:"room"`
	Users []MemberResponse `json:"users"`
	Count int              `json:"count"`
}

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the API health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
