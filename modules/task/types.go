package task

import (
	domain "github.com/vinayytyagi/lineup/domain/task"
)

// ListTasksRequest asks for an owner's tasks in a half-open date range.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// ListTasksResponse carries the tasks in canonical storage order.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// CreateTaskRequest creates a task on a day.
type CreateTaskRequest struct {
	OwnerID        string `json:"owner_id"`
	ScheduledDate  string `json:"scheduledDate"`
	VideoURL       string `json:"videoUrl"`
	Notes          string `json:"notes"`
	TimeToComplete int    `json:"timeToComplete"`
}

// CreateTaskResponse carries the created task.
type CreateTaskResponse struct {
	Task domain.Task `json:"task"`
}

// UpdateTaskRequest rewrites a task's content fields. Derived fields (title,
// metadata) are recomputed server-side; Order is only applied when set.
type UpdateTaskRequest struct {
	OwnerID        string `json:"owner_id"`
	ID             string `json:"id"`
	ScheduledDate  string `json:"scheduledDate"`
	VideoURL       string `json:"videoUrl"`
	Notes          string `json:"notes"`
	TimeToComplete int    `json:"timeToComplete"`
	Order          *int   `json:"order,omitempty"`
}

// UpdateTaskResponse carries the updated task.
type UpdateTaskResponse struct {
	Task domain.Task `json:"task"`
}

// DeleteTaskRequest deletes a task by id.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// DeleteTaskResponse acknowledges a deletion.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// ReorderUpdate assigns one task a new date and order.
type ReorderUpdate struct {
	ID            string `json:"id"`
	ScheduledDate string `json:"scheduledDate"`
	Order         int    `json:"order"`
}

// ReorderTasksRequest applies a batch of reorder updates.
type ReorderTasksRequest struct {
	OwnerID string          `json:"owner_id"`
	Updates []ReorderUpdate `json:"updates"`
}

// ReorderTasksResponse reports how many tasks changed.
type ReorderTasksResponse struct {
	OK            bool `json:"ok"`
	ModifiedCount int  `json:"modifiedCount"`
}

// CountTasksRequest asks for an owner's total task count.
type CountTasksRequest struct {
	OwnerID string `json:"owner_id"`
}

// CountTasksResponse carries the count.
type CountTasksResponse struct {
	Count int64 `json:"count"`
}
