package timeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vinayytyagi/lineup/domain/datekey"
	domain "github.com/vinayytyagi/lineup/domain/task"
	"github.com/vinayytyagi/lineup/modules/metadata"
	taskmod "github.com/vinayytyagi/lineup/modules/task"
)

var (
	// ErrEmptyTask mirrors the shared save rule for local validation.
	ErrEmptyTask = errors.New("a video url or notes is required")
	// ErrInvalidTimeToComplete mirrors the shared estimate rule.
	ErrInvalidTimeToComplete = errors.New("timeToComplete must be a positive number of minutes, at most one week")
)

// SaveRequest creates or edits a task on a day. An empty TaskID creates.
type SaveRequest struct {
	DayKey         string `json:"dayKey"`
	TaskID         string `json:"taskId,omitempty"`
	VideoURL       string `json:"videoUrl"`
	Notes          string `json:"notes"`
	TimeToComplete int    `json:"timeToComplete"`
}

// SaveTask validates and applies a save. User sessions go through storage;
// guest sessions build the task locally, still resolving video metadata so
// the two experiences match. Admin sessions are rejected.
func (c *Controller) SaveTask(ctx context.Context, req SaveRequest) (*domain.Task, error) {
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	req.Notes = strings.TrimSpace(req.Notes)

	if req.TimeToComplete <= 0 || req.TimeToComplete > domain.MaxTimeToComplete {
		return nil, ErrInvalidTimeToComplete
	}
	if req.VideoURL == "" && req.Notes == "" {
		return nil, ErrEmptyTask
	}

	switch c.mode.Kind() {
	case KindLoading:
		return nil, ErrNotReady
	case KindAdmin:
		return nil, ErrReadOnly
	case KindUser:
		return c.saveViaSource(ctx, req)
	default:
		return c.saveLocally(ctx, req)
	}
}

// DeleteTask removes a task. User sessions delete through storage first; a
// task already gone upstream still disappears locally. Any drag referencing
// the task is cancelled.
func (c *Controller) DeleteTask(ctx context.Context, taskID string) error {
	switch c.mode.Kind() {
	case KindLoading:
		return ErrNotReady
	case KindAdmin:
		return ErrReadOnly
	case KindUser:
		if err := c.source.Delete(ctx, taskID); err != nil && !errors.Is(err, taskmod.ErrTaskNotFound) {
			return fmt.Errorf("failed to delete task: %w", err)
		}
	}

	c.mu.Lock()
	var changedDay string
	for day, list := range c.tasksByDay {
		if removed, ok := removeByID(list, taskID); ok {
			c.tasksByDay[day] = removed
			changedDay = day
			break
		}
	}
	if c.drag != nil && c.drag.taskID == taskID {
		c.drag = nil
	}
	c.refreshSearchLocked()
	c.mu.Unlock()

	if changedDay != "" {
		c.sinkDayChanged(changedDay)
	}
	c.emitSearchIfActive()
	return nil
}

// saveViaSource persists through the task module and merges the result.
func (c *Controller) saveViaSource(ctx context.Context, req SaveRequest) (*domain.Task, error) {
	scheduled := datekey.ScheduledISO(req.DayKey)

	var saved *domain.Task
	var err error
	if req.TaskID == "" {
		saved, err = c.source.Create(ctx, taskmod.CreateTaskRequest{
			ScheduledDate:  scheduled,
			VideoURL:       req.VideoURL,
			Notes:          req.Notes,
			TimeToComplete: req.TimeToComplete,
		})
	} else {
		saved, err = c.source.Update(ctx, taskmod.UpdateTaskRequest{
			ID:             req.TaskID,
			ScheduledDate:  scheduled,
			VideoURL:       req.VideoURL,
			Notes:          req.Notes,
			TimeToComplete: req.TimeToComplete,
		})
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	changed := c.mergeLocked([]domain.Task{*saved})
	c.refreshSearchLocked()
	c.mu.Unlock()

	for day := range changed {
		c.sinkDayChanged(day)
	}
	c.emitSearchIfActive()
	return saved, nil
}

// saveLocally builds or edits a guest task in memory.
func (c *Controller) saveLocally(ctx context.Context, req SaveRequest) (*domain.Task, error) {
	t := domain.Task{
		ID:             req.TaskID,
		Notes:          req.Notes,
		ScheduledDate:  datekey.ScheduledISO(req.DayKey),
		TimeToComplete: req.TimeToComplete,
		UpdatedAt:      time.Now(),
	}

	if req.VideoURL != "" {
		t.Type = domain.TypeVideo
		t.VideoURL = req.VideoURL
		if err := c.resolveGuestMetadata(ctx, &t); err != nil {
			return nil, err
		}
	} else {
		t.Type = domain.TypeNote
		t.Title = domain.DeriveNoteTitle(req.Notes)
	}

	c.mu.Lock()
	if req.TaskID == "" {
		t.ID = guestTaskID()
		t.CreatedAt = time.Now()
		order := domain.NextOrder(len(c.tasksByDay[req.DayKey]) * domain.OrderGap)
		t.Order = &order
	} else {
		existing, ok := c.findLocked(req.TaskID)
		if !ok {
			c.mu.Unlock()
			return nil, ErrUnknownTask
		}
		// Edits keep the task's place in its day and its age.
		t.Order = existing.Order
		t.CreatedAt = existing.CreatedAt
	}

	changed := c.mergeLocked([]domain.Task{t})
	c.refreshSearchLocked()
	saved := t.WithDayKey()
	c.mu.Unlock()

	for day := range changed {
		c.sinkDayChanged(day)
	}
	c.emitSearchIfActive()
	return &saved, nil
}

// resolveGuestMetadata fills video fields for a guest save. Transport
// problems degrade to the deterministic placeholder; only an invalid URL is
// an error.
func (c *Controller) resolveGuestMetadata(ctx context.Context, t *domain.Task) error {
	videoID, ok := metadata.ExtractVideoID(t.VideoURL)
	if !ok {
		return metadata.ErrInvalidVideoURL
	}

	if c.metadata != nil {
		if meta, err := c.metadata.Fetch(ctx, t.VideoURL); err == nil {
			t.Title = meta.Title
			t.ThumbnailURL = meta.ThumbnailURL
			t.VideoDuration = meta.Duration
			return nil
		} else if errors.Is(err, metadata.ErrInvalidVideoURL) {
			return err
		}
	}

	t.Title = domain.PlaceholderTitle
	t.ThumbnailURL = metadata.DefaultThumbnailURL(videoID)
	return nil
}

func (c *Controller) findLocked(taskID string) (domain.Task, bool) {
	for _, list := range c.tasksByDay {
		for _, t := range list {
			if t.ID == taskID {
				return t, true
			}
		}
	}
	return domain.Task{}, false
}

// guestTaskID generates a local task id, with a timestamped fallback when
// the system randomness source is unavailable.
func guestTaskID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("guest_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
