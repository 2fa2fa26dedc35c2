package task

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/vinayytyagi/lineup/domain/task"
)

// TaskPort defines the interface other modules use for task operations.
type TaskPort interface {
	ListRange(ctx context.Context, ownerID, startISO, endISOExclusive string) ([]domain.Task, error)
	Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)
	Update(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	BulkReorder(ctx context.Context, ownerID string, updates []ReorderUpdate) (int, error)
	Count(ctx context.Context, ownerID string) (int64, error)
}

// TaskAdapter implements TaskPort using the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{
		container: container,
	}
}

// ListRange lists an owner's tasks in a half-open date range.
func (a *TaskAdapter) ListRange(ctx context.Context, ownerID, startISO, endISOExclusive string) ([]domain.Task, error) {
	req := ListTasksRequest{OwnerID: ownerID, Start: startISO, End: endISOExclusive}
	var resp ListTasksResponse

	if err := call(a, ctx, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// Create creates a task.
func (a *TaskAdapter) Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	var resp CreateTaskResponse
	if err := call(a, ctx, "create-task", &req, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// Update updates a task.
func (a *TaskAdapter) Update(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error) {
	var resp UpdateTaskResponse
	if err := call(a, ctx, "update-task", &req, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// Delete deletes a task.
func (a *TaskAdapter) Delete(ctx context.Context, ownerID, id string) error {
	req := DeleteTaskRequest{OwnerID: ownerID, ID: id}
	var resp DeleteTaskResponse
	return call(a, ctx, "delete-task", &req, &resp)
}

// BulkReorder applies a batch of reorder updates.
func (a *TaskAdapter) BulkReorder(ctx context.Context, ownerID string, updates []ReorderUpdate) (int, error) {
	req := ReorderTasksRequest{OwnerID: ownerID, Updates: updates}
	var resp ReorderTasksResponse
	if err := call(a, ctx, "reorder-tasks", &req, &resp); err != nil {
		return 0, err
	}
	return resp.ModifiedCount, nil
}

// Count returns an owner's total task count.
func (a *TaskAdapter) Count(ctx context.Context, ownerID string) (int64, error) {
	req := CountTasksRequest{OwnerID: ownerID}
	var resp CountTasksResponse
	if err := call(a, ctx, "count-tasks", &req, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func call[Req any, Resp any](a *TaskAdapter, ctx context.Context, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		// Sentinels cross the container as messages; restore the common one.
		if strings.Contains(err.Error(), ErrTaskNotFound.Error()) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}
