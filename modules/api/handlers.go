package api

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/chat-relay/modules/broadcast"
	"github.com/example/chat-relay/modules/chat"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// Health check
	m.app.Get("/health", m.healthHandler)

	// WebSocket endpoint
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	// REST API v1
	api := m.app.Group("/api/v1")
	api.Get("/history", m.getHistory)
	api.Get("/rooms/:room/members", m.getRoomMembers)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
		},
	})
}

// getHistory handles GET /api/v1/history.
func (m *APIModule) getHistory(c *fiber.Ctx) error {
	messages, err := m.chatAdapter.History(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "history_failed",
			Message: "Failed to get history",
		})
	}

	response := HistoryResponse{
		Messages: make([]MessageResponse, 0, len(messages)),
		Total:    len(messages),
	}
	for _, msg := range messages {
		response.Messages = append(response.Messages, MessageResponse{
			Username: msg.Username,
			Message:  msg.Content,
			Type:     msg.Type,
			Time:     msg.Time,
			UserID:   msg.UserID,
		})
	}

	return c.JSON(response)
}

// getRoomMembers handles GET /api/v1/rooms/:room/members.
func (m *APIModule) getRoomMembers(c *fiber.Ctx) error {
	room := c.Params("room")

	users, count, err := m.chatAdapter.RoomMembers(c.UserContext(), room)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "members_failed",
			Message: "Failed to get room members",
		})
	}

	response := RoomMembersResponse{
		Room:  room,
		Users: make([]MemberResponse, 0, len(users)),
		Count: count,
	}
	for _, user := range users {
		response.Users = append(response.Users, MemberResponse{
			Username: user.Username,
			UserID:   user.UserID,
		})
	}

	return c.JSON(response)
}

// handleWebSocket handles WebSocket connections at /ws.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	clientID := uuid.New().String()

	client := &broadcast.Client{
		ID:   clientID,
		Conn: c,
	}
	m.hub.Register(client)

	defer func() {
		// Detach from the hub first so the leave notice fans out to the
		// remaining members only.
		m.hub.Unregister(clientID)
		if _, _, err := m.chatAdapter.Leave(context.Background(), clientID); err != nil {
			log.Printf("[api] Leave failed for %s: %v", clientID, err)
		}
		log.Printf("[api] WebSocket client disconnected: %s", clientID)
	}()

	log.Printf("[api] WebSocket client connected: %s", clientID)

	m.hub.SendTo(clientID, "connected", ConnectedResponse{ConnectionID: clientID})

	// Message loop
	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[api] Client %s closed connection", clientID)
			} else {
				log.Printf("[api] Read error from %s: %v", clientID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			m.sendError(clientID, "Invalid message format")
			continue
		}

		switch msg.Type {
		case WSTypeJoin:
			m.handleJoin(clientID, msg.Payload)
		case WSTypeMessage:
			m.handleChatMessage(clientID, msg.Payload)
		case WSTypeTyping:
			m.handleTyping(clientID, msg.Payload)
		default:
			m.sendError(clientID, "Unknown message type: "+msg.Type)
		}
	}
}

func (m *APIModule) handleJoin(clientID string, payload json.RawMessage) {
	var req JoinPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		m.sendError(clientID, "Invalid join payload")
		return
	}

	if req.Username == "" {
		m.sendError(clientID, "Username is required")
		return
	}

	room := req.Room
	if room == "" {
		room = chat.DefaultRoom
	}

	// Tag the connection before the join executes so the new member
	// receives its own join notice and roster update.
	m.hub.JoinRoom(clientID, room)

	if _, err := m.chatAdapter.Join(context.Background(), clientID, req.Username, room); err != nil {
		m.hub.LeaveRoom(clientID)
		m.sendError(clientID, "Failed to join room")
		log.Printf("[api] Join failed for %s: %v", clientID, err)
	}
}

func (m *APIModule) handleChatMessage(clientID string, payload json.RawMessage) {
	var req MessagePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		m.sendError(clientID, "Invalid message payload")
		return
	}

	if _, err := m.chatAdapter.SendMessage(context.Background(), clientID, req.Message, req.Type); err != nil {
		log.Printf("[api] SendMessage failed for %s: %v", clientID, err)
	}
}

func (m *APIModule) handleTyping(clientID string, payload json.RawMessage) {
	var req TypingPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		m.sendError(clientID, "Invalid typing payload")
		return
	}

	if err := m.chatAdapter.SetTyping(context.Background(), clientID, req.IsTyping); err != nil {
		log.Printf("[api] SetTyping failed for %s: %v", clientID, err)
	}
}

// sendError delivers an error notice to a single client.
func (m *APIModule) sendError(clientID, message string) {
	m.hub.SendTo(clientID, chat.EventError, chat.ErrorNotice{Message: message})
}
