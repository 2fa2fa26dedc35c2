package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vinayytyagi/lineup/domain/datekey"
	domain "github.com/vinayytyagi/lineup/domain/task"
	"github.com/vinayytyagi/lineup/modules/metadata"
)

var (
	// ErrInvalidRange is returned for malformed or inverted date ranges.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrInvalidScheduledDate is returned when a scheduled date is not canonical.
	ErrInvalidScheduledDate = errors.New("invalid scheduled date")
	// ErrInvalidTimeToComplete is returned for out-of-range estimates.
	ErrInvalidTimeToComplete = errors.New("timeToComplete must be a positive number of minutes, at most one week")
	// ErrEmptyTask is returned when neither a video URL nor notes are given.
	ErrEmptyTask = errors.New("a video url or notes is required")
	// ErrTooManyUpdates is returned when a reorder batch exceeds the cap.
	ErrTooManyUpdates = errors.New("too many reorder updates")
	// ErrInvalidReorderEntry is returned when a reorder entry is malformed.
	ErrInvalidReorderEntry = errors.New("invalid reorder entry")
)

// TaskService owns task business logic: validation, title and metadata
// derivation, order assignment and bulk reordering.
type TaskService struct {
	repo     Repository
	metadata metadata.MetadataPort
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo Repository, meta metadata.MetadataPort) *TaskService {
	return &TaskService{
		repo:     repo,
		metadata: meta,
	}
}

// List returns the owner's tasks in [start, end), each with a derived day key.
func (s *TaskService) List(_ context.Context, ownerID, start, end string) ([]domain.Task, error) {
	if !datekey.ValidScheduledISO(start) || !datekey.ValidScheduledISO(end) || start >= end {
		return nil, ErrInvalidRange
	}

	tasks, err := s.repo.ListRange(ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	for i := range tasks {
		tasks[i] = tasks[i].WithDayKey()
	}
	return tasks, nil
}

// Create validates and creates a task, deriving its title and, for videos,
// its metadata. The new task is appended to the end of its day.
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	videoURL := strings.TrimSpace(req.VideoURL)
	notes := strings.TrimSpace(req.Notes)

	if err := validateContent(videoURL, notes, req.TimeToComplete, req.ScheduledDate); err != nil {
		return nil, err
	}

	t := &domain.Task{
		ID:             uuid.New().String(),
		OwnerID:        req.OwnerID,
		Notes:          notes,
		ScheduledDate:  req.ScheduledDate,
		TimeToComplete: req.TimeToComplete,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.deriveContent(ctx, t, videoURL, notes); err != nil {
		return nil, err
	}

	maxOrder, err := s.repo.MaxOrder(req.OwnerID, req.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute order: %w", err)
	}
	order := domain.NextOrder(maxOrder)
	t.Order = &order

	if err := s.repo.Create(t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created := t.WithDayKey()
	return &created, nil
}

// Update rewrites a task's content, re-running the same derivation as Create.
// Moving to a new day without an explicit order appends to that day.
func (s *TaskService) Update(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error) {
	videoURL := strings.TrimSpace(req.VideoURL)
	notes := strings.TrimSpace(req.Notes)

	if err := validateContent(videoURL, notes, req.TimeToComplete, req.ScheduledDate); err != nil {
		return nil, err
	}

	t, err := s.repo.FindByID(req.OwnerID, req.ID)
	if err != nil {
		return nil, err
	}

	dateChanged := t.ScheduledDate != req.ScheduledDate

	t.Notes = notes
	t.ScheduledDate = req.ScheduledDate
	t.TimeToComplete = req.TimeToComplete
	t.UpdatedAt = time.Now()

	if err := s.deriveContent(ctx, t, videoURL, notes); err != nil {
		return nil, err
	}

	switch {
	case req.Order != nil:
		t.Order = req.Order
	case dateChanged:
		// No explicit position on the new day: append.
		maxOrder, err := s.repo.MaxOrder(req.OwnerID, req.ScheduledDate)
		if err != nil {
			return nil, fmt.Errorf("failed to compute order: %w", err)
		}
		order := domain.NextOrder(maxOrder)
		t.Order = &order
	}

	if err := s.repo.Update(t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated := t.WithDayKey()
	return &updated, nil
}

// Delete removes a task by id, scoped to its owner.
func (s *TaskService) Delete(_ context.Context, ownerID, id string) error {
	return s.repo.Delete(ownerID, id)
}

// BulkReorder applies a validated batch of date/order assignments and returns
// how many tasks changed.
func (s *TaskService) BulkReorder(_ context.Context, ownerID string, updates []ReorderUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, ErrInvalidReorderEntry
	}
	if len(updates) > domain.MaxReorderBatch {
		return 0, ErrTooManyUpdates
	}
	for _, u := range updates {
		if u.ID == "" || u.Order < 0 || !datekey.ValidScheduledISO(u.ScheduledDate) {
			return 0, ErrInvalidReorderEntry
		}
	}

	modified, err := s.repo.BulkSetOrder(ownerID, updates)
	if err != nil {
		return 0, fmt.Errorf("failed to reorder tasks: %w", err)
	}
	return modified, nil
}

// Count returns the owner's total task count.
func (s *TaskService) Count(_ context.Context, ownerID string) (int64, error) {
	return s.repo.CountByOwner(ownerID)
}

// deriveContent fills type, title and video metadata from the raw inputs.
func (s *TaskService) deriveContent(ctx context.Context, t *domain.Task, videoURL, notes string) error {
	if videoURL == "" {
		t.Type = domain.TypeNote
		t.Title = domain.DeriveNoteTitle(notes)
		t.VideoURL = ""
		t.ThumbnailURL = ""
		t.VideoDuration = ""
		return nil
	}

	meta, err := s.metadata.Fetch(ctx, videoURL)
	if err != nil {
		if errors.Is(err, metadata.ErrInvalidVideoURL) {
			return metadata.ErrInvalidVideoURL
		}
		return fmt.Errorf("failed to resolve video metadata: %w", err)
	}

	t.Type = domain.TypeVideo
	t.VideoURL = videoURL
	t.Title = meta.Title
	t.ThumbnailURL = meta.ThumbnailURL
	t.VideoDuration = meta.Duration
	return nil
}

// validateContent enforces the shared save rules: a usable estimate, a
// canonical date, and at least one of video URL or notes.
func validateContent(videoURL, notes string, timeToComplete int, scheduledDate string) error {
	if timeToComplete <= 0 || timeToComplete > domain.MaxTimeToComplete {
		return ErrInvalidTimeToComplete
	}
	if videoURL == "" && notes == "" {
		return ErrEmptyTask
	}
	if !datekey.ValidScheduledISO(scheduledDate) {
		return ErrInvalidScheduledDate
	}
	return nil
}
