package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	domain "github.com/vinayytyagi/lineup/domain/user"
	"github.com/vinayytyagi/lineup/modules/metadata"
	taskmod "github.com/vinayytyagi/lineup/modules/task"
)

// ListTasks returns the current user's tasks in a half-open ISO date range.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		return badRequest(c, "start and end query parameters are required")
	}

	tasks, err := h.taskAdapter.ListRange(c.UserContext(), claims.UserID, start, end)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(TaskListResponse{Tasks: tasks})
}

// CreateTask creates a task for the current user.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	created, err := h.taskAdapter.Create(c.UserContext(), taskmod.CreateTaskRequest{
		OwnerID:        claims.UserID,
		ScheduledDate:  req.ScheduledDate,
		VideoURL:       req.VideoURL,
		Notes:          req.Notes,
		TimeToComplete: req.TimeToComplete,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateTask rewrites a task's content fields.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	taskID := c.Params("id")
	if taskID == "" {
		return badRequest(c, "Task ID is required")
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.taskAdapter.Update(c.UserContext(), taskmod.UpdateTaskRequest{
		OwnerID:        claims.UserID,
		ID:             taskID,
		ScheduledDate:  req.ScheduledDate,
		VideoURL:       req.VideoURL,
		Notes:          req.Notes,
		TimeToComplete: req.TimeToComplete,
		Order:          req.Order,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(updated)
}

// DeleteTask removes a task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	taskID := c.Params("id")
	if taskID == "" {
		return badRequest(c, "Task ID is required")
	}

	if err := h.taskAdapter.Delete(c.UserContext(), claims.UserID, taskID); err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(OKResponse{OK: true})
}

// ReorderTasks applies a batch of order and date changes in one call.
func (h *Handlers) ReorderTasks(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := make([]taskmod.ReorderUpdate, len(req.Updates))
	for i, u := range req.Updates {
		updates[i] = taskmod.ReorderUpdate{
			ID:            u.ID,
			ScheduledDate: u.ScheduledDate,
			Order:         u.Order,
		}
	}

	modified, err := h.taskAdapter.BulkReorder(c.UserContext(), claims.UserID, updates)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(ReorderResponse{OK: true, ModifiedCount: modified})
}

// CountTasks returns the current user's total task count.
func (h *Handlers) CountTasks(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	count, err := h.taskAdapter.Count(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.JSON(TaskCountResponse{Count: count})
}

// handleTaskError maps task service errors to HTTP responses.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	if errors.Is(err, taskmod.ErrTaskNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	}

	errStr := err.Error()
	switch {
	case strings.Contains(errStr, taskmod.ErrEmptyTask.Error()):
		return badRequest(c, "A video URL or notes is required")
	case strings.Contains(errStr, taskmod.ErrInvalidTimeToComplete.Error()):
		return badRequest(c, "timeToComplete must be a positive number of minutes, at most one week")
	case strings.Contains(errStr, taskmod.ErrInvalidScheduledDate.Error()):
		return badRequest(c, "scheduledDate must be a date at UTC midnight")
	case strings.Contains(errStr, taskmod.ErrInvalidRange.Error()):
		return badRequest(c, "Invalid date range")
	case strings.Contains(errStr, taskmod.ErrTooManyUpdates.Error()):
		return badRequest(c, "Too many reorder updates in one batch")
	case strings.Contains(errStr, taskmod.ErrInvalidReorderEntry.Error()):
		return badRequest(c, "Invalid reorder entry")
	case strings.Contains(errStr, metadata.ErrInvalidVideoURL.Error()):
		return badRequest(c, "Not a recognizable video URL")
	default:
		return internalError(c, "An internal error occurred", err)
	}
}
