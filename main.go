package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/chat-relay/modules/api"
	"github.com/example/chat-relay/modules/broadcast"
	"github.com/example/chat-relay/modules/chat"
	"github.com/example/chat-relay/modules/stats"
)

const shutdownTimeout = 30 * time.Second

// The hub is the fan-out port of the chat module.
var _ chat.Broadcaster = (*broadcast.Hub)(nil)

func main() {
	log.Println("=== Chat Relay - Fiber + EventBus Pubsub ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	broadcastModule := broadcast.NewModule()
	chatModule := chat.NewModule(broadcastModule.GetHub())
	statsModule := stats.NewModule()
	apiModule := api.NewModule()

	// Inject broadcast hub into API module
	// (This is done manually because the hub is not exposed via ServiceContainer)
	apiModule.SetHub(broadcastModule.GetHub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - broadcast: WebSocket hub (fan-out for the chat module)
	// - chat: Core domain (ServiceProviderModule + EventEmitterModule)
	// - stats: Event consumer (activity counters)
	// - api: Driving adapter (Fiber HTTP/WebSocket server, depends on chat)
	app.Register(broadcastModule)
	app.Register(chatModule)
	app.Register(statsModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET    /health                    - Health check")
	log.Println("  GET    /api/v1/history            - Message history")
	log.Println("  GET    /api/v1/rooms/:room/members - Room roster")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws):", port)
	log.Println("  Message types: join, send_message, typing")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
