package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vinayytyagi/lineup/modules/auth"
	"github.com/vinayytyagi/lineup/modules/metadata"
	taskmod "github.com/vinayytyagi/lineup/modules/task"
	"github.com/vinayytyagi/lineup/modules/timeline"
)

// timelineModeKey stores the resolved session mode in the Fiber context
// across the websocket upgrade.
const timelineModeKey = "timelineMode"

// APIModule is the HTTP and websocket API module.
type APIModule struct {
	app           *fiber.App
	port          string
	authContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
	taskAdapter   taskmod.TaskPort
	metaAdapter   metadata.MetadataPort
	timeline      *timeline.TimelineModule
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on the PORT env var, default
// 3000.
func NewModule() *APIModule {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return &APIModule{port: port}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task", "metadata"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	case "task":
		m.taskAdapter = taskmod.NewTaskAdapter(container)
	case "metadata":
		m.metaAdapter = metadata.NewMetadataAdapter(container)
	}
}

// SetTimeline injects the timeline module. Session controllers are built per
// websocket connection, which the container's request-reply services cannot
// express, so this dependency is wired directly in main.
func (m *APIModule) SetTimeline(tm *timeline.TimelineModule) {
	m.timeline = tm
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authContainer == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.taskAdapter == nil {
		return fmt.Errorf("task dependency not set")
	}
	if m.metaAdapter == nil {
		return fmt.Errorf("metadata dependency not set")
	}
	if m.timeline == nil {
		return fmt.Errorf("timeline module not injected")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	// Add middleware
	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowOriginsFunc: func(string) bool { return true },
	}))

	// Setup routes
	m.setupRoutes()

	// Start server in goroutine
	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.authAdapter, m.taskAdapter, m.metaAdapter)

	// Health check endpoint
	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	api := m.app.Group("/api")

	// Public auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", handlers.Signup)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/logout", handlers.Logout)
	authRoutes.Get("/me", AuthMiddleware(m.authAdapter), handlers.Me)

	// Metadata resolution is public: guests resolve videos too.
	api.Get("/youtube/metadata", handlers.VideoMetadata)

	// Profile routes (require authentication)
	profile := api.Group("/profile")
	profile.Use(AuthMiddleware(m.authAdapter))
	profile.Get("/", handlers.Me)
	profile.Patch("/", handlers.UpdateProfile)

	// Task routes (require authentication)
	tasks := api.Group("/tasks")
	tasks.Use(AuthMiddleware(m.authAdapter))
	tasks.Get("/", handlers.ListTasks)
	tasks.Post("/", handlers.CreateTask)
	tasks.Get("/count", handlers.CountTasks)
	tasks.Post("/reorder", handlers.ReorderTasks)
	tasks.Patch("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)

	// Admin routes
	admin := api.Group("/admin")
	admin.Post("/login", handlers.AdminLogin)
	admin.Post("/logout", handlers.AdminLogout)
	adminProtected := admin.Group("", AdminMiddleware(m.authAdapter))
	adminProtected.Get("/users", handlers.AdminListUsers)
	adminProtected.Get("/users/:id", handlers.AdminGetUser)
	adminProtected.Get("/users/:id/tasks", handlers.AdminListUserTasks)
	adminProtected.Get("/users/:id/tasks/count", handlers.AdminCountUserTasks)

	// WebSocket upgrade middleware: resolve the session mode from cookies
	// while the HTTP context is still available.
	m.app.Use("/ws/timeline", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals(timelineModeKey, m.resolveTimelineMode(c))
		return c.Next()
	})

	// WebSocket endpoint
	m.app.Get("/ws/timeline", websocket.New(m.HandleTimeline))
}

// resolveTimelineMode maps the request's cookies to a session mode. An admin
// cookie plus a viewUser query parameter opens a read-only view of that user;
// a valid user cookie opens the user's own timeline; anything else is a guest
// session. Invalid cookies fall back to guest rather than failing the
// upgrade.
func (m *APIModule) resolveTimelineMode(c *fiber.Ctx) timeline.Mode {
	if target := c.Query("viewUser"); target != "" {
		if token := c.Cookies(AdminCookieName); token != "" {
			if err := m.authAdapter.ValidateAdminSession(c.UserContext(), token); err == nil {
				return timeline.AdminMode(target)
			}
		}
		return timeline.GuestMode()
	}

	if token := c.Cookies(UserCookieName); token != "" {
		if claims, err := m.authAdapter.ValidateSession(c.UserContext(), token); err == nil {
			return timeline.UserMode(claims.UserID, claims.Email)
		}
	}
	return timeline.GuestMode()
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
