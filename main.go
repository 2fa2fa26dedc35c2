package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/vinayytyagi/lineup/modules/api"
	"github.com/vinayytyagi/lineup/modules/auth"
	"github.com/vinayytyagi/lineup/modules/cache"
	"github.com/vinayytyagi/lineup/modules/metadata"
	"github.com/vinayytyagi/lineup/modules/task"
	"github.com/vinayytyagi/lineup/modules/timeline"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Lineup ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	metadataModule := metadata.NewModule()

	// Redis-backed metadata cache is optional; without it every resolution
	// goes to the providers.
	if redisAddr := os.Getenv("LINEUP_REDIS_ADDR"); redisAddr != "" {
		cacheModule := cache.NewModule(redisAddr, "ytmeta:", 24*time.Hour)
		metadataModule.SetCache(cacheModule)
		app.Register(cacheModule)
	}

	timelineModule := timeline.NewModule()
	apiModule := api.NewModule()
	// Timeline sessions are built per websocket connection, outside the
	// container's request-reply services, so the api module gets the
	// timeline module directly.
	apiModule.SetTimeline(timelineModule)

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())
	app.Register(metadataModule)
	app.Register(task.NewModule())
	app.Register(timelineModule)
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
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/auth/signup            - Create an account")
	log.Println("  POST   /api/auth/login             - Login")
	log.Println("  POST   /api/auth/logout            - Logout")
	log.Println("  GET    /api/youtube/metadata       - Resolve video metadata")
	log.Println("  POST   /api/admin/login            - Admin panel login")
	log.Println("  GET    /health                     - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (session cookie):")
	log.Println("  GET    /api/auth/me                - Current user")
	log.Println("  GET    /api/profile                - Get profile")
	log.Println("  PATCH  /api/profile                - Update profile")
	log.Println("  GET    /api/tasks                  - List tasks in a range")
	log.Println("  POST   /api/tasks                  - Create a task")
	log.Println("  PATCH  /api/tasks/:id              - Update a task")
	log.Println("  DELETE /api/tasks/:id              - Delete a task")
	log.Println("  POST   /api/tasks/reorder          - Bulk reorder")
	log.Println("  GET    /api/tasks/count            - Total task count")
	log.Println("")
	log.Println("  Admin Endpoints (admin cookie):")
	log.Println("  GET    /api/admin/users            - List accounts")
	log.Println("  GET    /api/admin/users/:id        - One account")
	log.Println("  GET    /api/admin/users/:id/tasks  - A user's tasks")
	log.Println("")
	log.Println("  WebSocket:")
	log.Println("  GET    /ws/timeline                - Timeline session")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
