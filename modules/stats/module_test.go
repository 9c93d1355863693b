package stats

import (
	"context"
	"testing"

	"github.com/example/chat-relay/events"
)

func TestModule_Counters(t *testing.T) {
	ctx := context.Background()
	m := NewModule()

	for i := 0; i < 3; i++ {
		if err := m.handleMessageSent(ctx, events.MessageSentEvent{Room: "general", Username: "alice", Type: "text"}, nil); err != nil {
			t.Fatalf("handleMessageSent() error: %v", err)
		}
	}
	if err := m.handleUserJoined(ctx, events.UserJoinedEvent{Room: "general", Username: "alice"}, nil); err != nil {
		t.Fatalf("handleUserJoined() error: %v", err)
	}
	if err := m.handleUserJoined(ctx, events.UserJoinedEvent{Room: "general", Username: "bob"}, nil); err != nil {
		t.Fatalf("handleUserJoined() error: %v", err)
	}
	if err := m.handleUserLeft(ctx, events.UserLeftEvent{Room: "general", Username: "alice"}, nil); err != nil {
		t.Fatalf("handleUserLeft() error: %v", err)
	}

	health := m.Health(ctx)
	if !health.Healthy {
		t.Error("Health() reported unhealthy")
	}
	if got := health.Details["messages_sent"]; got != int64(3) {
		t.Errorf("messages_sent = %v, want 3", got)
	}
	if got := health.Details["users_joined"]; got != int64(2) {
		t.Errorf("users_joined = %v, want 2", got)
	}
	if got := health.Details["users_left"]; got != int64(1) {
		t.Errorf("users_left = %v, want 1", got)
	}
}
