package chat

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-monolith/mono"
)

func newTestModule() (*Module, *fakeBroadcaster) {
	fb := &fakeBroadcaster{}
	return NewModule(fb), fb
}

func requestMsg(t *testing.T, req any) *mono.Msg {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return &mono.Msg{Data: data}
}

func TestModule_HandleJoin(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule()

	tests := []struct {
		name        string
		req         JoinRequest
		expectError bool
		wantRoom    string
	}{
		{
			name:     "join with explicit room",
			req:      JoinRequest{ConnectionID: "conn-1", Username: "alice", Room: "random"},
			wantRoom: "random",
		},
		{
			name:     "join defaults the room",
			req:      JoinRequest{ConnectionID: "conn-2", Username: "bob"},
			wantRoom: DefaultRoom,
		},
		{
			name:        "missing username",
			req:         JoinRequest{ConnectionID: "conn-3"},
			expectError: true,
		},
		{
			name:        "missing connection id",
			req:         JoinRequest{Username: "carol"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := m.handleJoin(ctx, requestMsg(t, tt.req))

			if tt.expectError {
				if err == nil {
					t.Error("handleJoin() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("handleJoin() unexpected error: %v", err)
			}

			var resp JoinResponse
			if err := json.Unmarshal(data, &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Participant == nil {
				t.Fatal("handleJoin() returned nil participant")
			}
			if resp.Participant.Room != tt.wantRoom {
				t.Errorf("Room = %q, want %q", resp.Participant.Room, tt.wantRoom)
			}
		})
	}
}

func TestModule_HandleSendMessage(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule()

	if _, err := m.handleJoin(ctx, requestMsg(t, JoinRequest{ConnectionID: "conn-1", Username: "alice"})); err != nil {
		t.Fatalf("join: %v", err)
	}

	data, err := m.handleSendMessage(ctx, requestMsg(t, SendMessageRequest{
		ConnectionID: "conn-1",
		Message:      "hello",
	}))
	if err != nil {
		t.Fatalf("handleSendMessage() error: %v", err)
	}

	var resp SendMessageResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Delivered {
		t.Error("Delivered = false for a registered sender")
	}
	if resp.Message == nil || resp.Message.Content != "hello" {
		t.Errorf("Message = %+v", resp.Message)
	}
}

func TestModule_HandleSendMessageUnknownSender(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule()

	data, err := m.handleSendMessage(ctx, requestMsg(t, SendMessageRequest{
		ConnectionID: "ghost",
		Message:      "hello",
	}))
	if err != nil {
		t.Fatalf("handleSendMessage() error: %v", err)
	}

	var resp SendMessageResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Delivered {
		t.Error("Delivered = true for an unknown sender, want silent drop")
	}
}

func TestModule_HandleLeave(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule()

	if _, err := m.handleJoin(ctx, requestMsg(t, JoinRequest{ConnectionID: "conn-1", Username: "alice"})); err != nil {
		t.Fatalf("join: %v", err)
	}

	data, err := m.handleLeave(ctx, requestMsg(t, LeaveRequest{ConnectionID: "conn-1"}))
	if err != nil {
		t.Fatalf("handleLeave() error: %v", err)
	}
	var resp LeaveResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Left || resp.Participant == nil {
		t.Errorf("LeaveResponse = %+v, want departed alice", resp)
	}

	// Leaving again is a normal outcome, not an error.
	data, err = m.handleLeave(ctx, requestMsg(t, LeaveRequest{ConnectionID: "conn-1"}))
	if err != nil {
		t.Fatalf("second handleLeave() error: %v", err)
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Left {
		t.Error("Left = true for an already departed connection")
	}
}

func TestModule_HandleHistory(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule()

	if _, err := m.handleJoin(ctx, requestMsg(t, JoinRequest{ConnectionID: "conn-1", Username: "alice"})); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.handleSendMessage(ctx, requestMsg(t, SendMessageRequest{ConnectionID: "conn-1", Message: "one"})); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := m.handleSendMessage(ctx, requestMsg(t, SendMessageRequest{ConnectionID: "conn-1", Message: "two"})); err != nil {
		t.Fatalf("send: %v", err)
	}

	data, err := m.handleHistory(ctx, &mono.Msg{})
	if err != nil {
		t.Fatalf("handleHistory() error: %v", err)
	}
	var resp HistoryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("history has %d messages, want 2", len(resp.Messages))
	}
	if resp.Messages[0].Content != "one" || resp.Messages[1].Content != "two" {
		t.Errorf("history order = [%q, %q]", resp.Messages[0].Content, resp.Messages[1].Content)
	}
}

func TestModule_HandleRoomMembers(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule()

	joins := []JoinRequest{
		{ConnectionID: "conn-1", Username: "alice", Room: "general"},
		{ConnectionID: "conn-2", Username: "bob", Room: "general"},
		{ConnectionID: "conn-3", Username: "carol", Room: "random"},
	}
	for _, j := range joins {
		if _, err := m.handleJoin(ctx, requestMsg(t, j)); err != nil {
			t.Fatalf("join %s: %v", j.Username, err)
		}
	}

	data, err := m.handleRoomMembers(ctx, requestMsg(t, RoomMembersRequest{Room: "general"}))
	if err != nil {
		t.Fatalf("handleRoomMembers() error: %v", err)
	}
	var resp RoomMembersResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 || len(resp.Users) != 2 {
		t.Errorf("general roster = %+v, want 2 members", resp)
	}

	// Empty room name falls back to the default room, where alice and bob
	// live.
	data, err = m.handleRoomMembers(ctx, requestMsg(t, RoomMembersRequest{}))
	if err != nil {
		t.Fatalf("handleRoomMembers() error: %v", err)
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("default room roster count = %d, want 2", resp.Count)
	}

	// A room nobody joined yields an empty roster.
	data, err = m.handleRoomMembers(ctx, requestMsg(t, RoomMembersRequest{Room: "deserted"}))
	if err != nil {
		t.Fatalf("handleRoomMembers() error: %v", err)
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 0 || len(resp.Users) != 0 {
		t.Errorf("empty room roster = %+v, want no members", resp)
	}
}

func TestModule_HandleSetTyping(t *testing.T) {
	ctx := context.Background()
	m, fb := newTestModule()

	if _, err := m.handleJoin(ctx, requestMsg(t, JoinRequest{ConnectionID: "conn-1", Username: "alice"})); err != nil {
		t.Fatalf("join: %v", err)
	}
	fb.reset()

	data, err := m.handleSetTyping(ctx, requestMsg(t, SetTypingRequest{ConnectionID: "conn-1", IsTyping: true}))
	if err != nil {
		t.Fatalf("handleSetTyping() error: %v", err)
	}
	var resp SetTypingResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Delivered {
		t.Error("Delivered = false for a registered sender")
	}
	if len(fb.broadcasts) != 1 || fb.broadcasts[0].excludeID != "conn-1" {
		t.Error("typing indicator did not exclude the sender")
	}
}
