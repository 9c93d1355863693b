package broadcast

import (
	"context"
	"log"

	"github.com/go-monolith/mono"
)

var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// Module owns the websocket hub and exposes it to the modules that fan out
// through it.
type Module struct {
	hub *Hub
}

// NewModule creates a new broadcast module.
func NewModule() *Module {
	return &Module{hub: NewHub()}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "broadcast"
}

// GetHub returns the websocket hub.
func (m *Module) GetHub() *Hub {
	return m.hub
}

// Start initializes the broadcast module.
func (m *Module) Start(ctx context.Context) error {
	log.Println("[broadcast] Module started")
	return nil
}

// Stop closes every live connection.
func (m *Module) Stop(ctx context.Context) error {
	m.hub.CloseAll()
	log.Println("[broadcast] Module stopped")
	return nil
}

// Health reports the live connection count.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "broadcast hub is running",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}
