package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/vinayytyagi/lineup/domain/task"
	"github.com/vinayytyagi/lineup/modules/metadata"
)

// TaskModule provides task storage and mutation services.
type TaskModule struct {
	db      *gorm.DB
	service *TaskService
	dbPath  string

	metadataAdapter metadata.MetadataPort
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.DependentModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule.
func NewModule() *TaskModule {
	dbPath := os.Getenv("LINEUP_DB_PATH")
	if dbPath == "" {
		dbPath = "lineup.db"
	}
	return &TaskModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Dependencies returns the list of module dependencies.
func (m *TaskModule) Dependencies() []string {
	return []string{"metadata"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *TaskModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "metadata":
		m.metadataAdapter = metadata.NewMetadataAdapter(container)
	}
}

// Start initializes the task module.
func (m *TaskModule) Start(_ context.Context) error {
	if m.metadataAdapter == nil {
		return fmt.Errorf("metadata dependency not set")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewTaskRepository(db)
	m.service = NewTaskService(repo, m.metadataAdapter)

	log.Printf("[task] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{"list-tasks", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-tasks", json.Unmarshal, json.Marshal, m.handleList)
		}},
		{"create-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-task", json.Unmarshal, json.Marshal, m.handleCreate)
		}},
		{"update-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-task", json.Unmarshal, json.Marshal, m.handleUpdate)
		}},
		{"delete-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-task", json.Unmarshal, json.Marshal, m.handleDelete)
		}},
		{"reorder-tasks", func() error {
			return helper.RegisterTypedRequestReplyService(container, "reorder-tasks", json.Unmarshal, json.Marshal, m.handleReorder)
		}},
		{"count-tasks", func() error {
			return helper.RegisterTypedRequestReplyService(container, "count-tasks", json.Unmarshal, json.Marshal, m.handleCount)
		}},
	}

	for _, svc := range services {
		if err := svc.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
	}

	log.Printf("[task] Registered services: list-tasks, create-task, update-task, delete-task, reorder-tasks, count-tasks")
	return nil
}

// handleList handles range listing requests.
func (m *TaskModule) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.OwnerID, req.Start, req.End)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return ListTasksResponse{Tasks: tasks}, nil
}

// handleCreate handles task creation requests.
func (m *TaskModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (CreateTaskResponse, error) {
	t, err := m.service.Create(ctx, req)
	if err != nil {
		return CreateTaskResponse{}, err
	}
	return CreateTaskResponse{Task: *t}, nil
}

// handleUpdate handles task update requests.
func (m *TaskModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (UpdateTaskResponse, error) {
	t, err := m.service.Update(ctx, req)
	if err != nil {
		return UpdateTaskResponse{}, err
	}
	return UpdateTaskResponse{Task: *t}, nil
}

// handleDelete handles task deletion requests.
func (m *TaskModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.OwnerID, req.ID); err != nil {
		return DeleteTaskResponse{}, err
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

// handleReorder handles bulk reorder requests.
func (m *TaskModule) handleReorder(ctx context.Context, req ReorderTasksRequest, _ *mono.Msg) (ReorderTasksResponse, error) {
	modified, err := m.service.BulkReorder(ctx, req.OwnerID, req.Updates)
	if err != nil {
		return ReorderTasksResponse{}, err
	}
	return ReorderTasksResponse{OK: true, ModifiedCount: modified}, nil
}

// handleCount handles task count requests.
func (m *TaskModule) handleCount(ctx context.Context, req CountTasksRequest, _ *mono.Msg) (CountTasksResponse, error) {
	count, err := m.service.Count(ctx, req.OwnerID)
	if err != nil {
		return CountTasksResponse{}, err
	}
	return CountTasksResponse{Count: count}, nil
}
