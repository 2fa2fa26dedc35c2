package timeline

import (
	"context"
	"log"

	"github.com/vinayytyagi/lineup/domain/datekey"
	domain "github.com/vinayytyagi/lineup/domain/task"
	taskmod "github.com/vinayytyagi/lineup/modules/task"
)

// StartDrag records the dragged task. Read-only and unresolved sessions
// never start a drag.
func (c *Controller) StartDrag(taskID string) error {
	if c.mode.Kind() == KindLoading {
		return ErrNotReady
	}
	if c.mode.Kind() == KindAdmin {
		return ErrReadOnly
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.findLocked(taskID)
	if !ok {
		return ErrUnknownTask
	}
	c.drag = &dragState{taskID: taskID, fromDayKey: t.DayKey}
	return nil
}

// CancelDrag clears any drag in progress.
func (c *Controller) CancelDrag() {
	c.mu.Lock()
	c.drag = nil
	c.mu.Unlock()
}

// HandleDrop completes a drag onto toDayKey at insertion index toIndex. The
// result is applied optimistically; user sessions then persist every touched
// task in one bulk call, reconciling from storage in the background if that
// fails.
func (c *Controller) HandleDrop(ctx context.Context, toDayKey string, toIndex int) error {
	if c.mode.Kind() == KindAdmin {
		return ErrReadOnly
	}

	c.mu.Lock()
	if c.drag == nil {
		c.mu.Unlock()
		return ErrNoDrag
	}
	drag := *c.drag
	c.drag = nil

	fromDay := drag.fromDayKey
	source := append([]domain.Task(nil), c.tasksByDay[fromDay]...)
	fromIndex := indexByID(source, drag.taskID)
	if fromIndex < 0 {
		c.mu.Unlock()
		return ErrUnknownTask
	}

	var updates []domain.Task
	changedDays := []string{fromDay}

	if toDayKey == fromDay {
		insertAt := clampInt(toIndex, 0, len(source))
		without := append(append([]domain.Task(nil), source[:fromIndex]...), source[fromIndex+1:]...)
		// The dragged card's own slot is gone; indexes after it shift.
		if insertAt > fromIndex {
			insertAt--
		}
		insertAt = clampInt(insertAt, 0, len(without))

		arranged := insertTask(without, source[fromIndex], insertAt)
		reindexed := domain.Reindex(fromDay, arranged)
		c.setDayLocked(fromDay, reindexed)
		updates = reindexed
	} else {
		moved := source[fromIndex]
		without := append(append([]domain.Task(nil), source[:fromIndex]...), source[fromIndex+1:]...)
		sourceReindexed := domain.Reindex(fromDay, without)
		c.setDayLocked(fromDay, sourceReindexed)

		dest := append([]domain.Task(nil), c.tasksByDay[toDayKey]...)
		insertAt := clampInt(toIndex, 0, len(dest))
		arranged := insertTask(dest, moved, insertAt)
		destReindexed := domain.Reindex(toDayKey, arranged)
		c.setDayLocked(toDayKey, destReindexed)

		updates = append(sourceReindexed, destReindexed...)
		changedDays = append(changedDays, toDayKey)
	}

	c.refreshSearchLocked()
	c.mu.Unlock()

	for _, day := range changedDays {
		c.sinkDayChanged(day)
	}
	c.emitSearchIfActive()

	if c.mode.Kind() == KindUser {
		c.persistReorder(ctx, updates, changedDays)
	}
	return nil
}

// persistReorder bulk-writes the new ordering. On failure the optimistic
// state stays in place for responsiveness while the affected days are
// re-fetched and merged in the background to reconcile with storage.
func (c *Controller) persistReorder(ctx context.Context, updates []domain.Task, changedDays []string) {
	batch := make([]taskmod.ReorderUpdate, 0, len(updates))
	for _, t := range updates {
		if t.Order == nil {
			continue
		}
		batch = append(batch, taskmod.ReorderUpdate{
			ID:            t.ID,
			ScheduledDate: t.ScheduledDate,
			Order:         *t.Order,
		})
	}
	if len(batch) == 0 {
		return
	}

	if _, err := c.source.BulkReorder(ctx, batch); err != nil {
		log.Printf("[timeline] Bulk reorder failed: %v", err)
		c.sink.Banner("Could not save the new order. Restoring from the server.")
		c.reconcileDays(ctx, changedDays)
	}
}

// reconcileDays re-fetches the given days from storage and replaces the
// local lists with the authoritative state.
func (c *Controller) reconcileDays(ctx context.Context, days []string) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()

		for _, day := range days {
			start, end := dayRangeISO(day)
			tasks, err := c.source.ListRange(ctx, start, end)
			if err != nil {
				log.Printf("[timeline] Reconcile fetch for %s failed: %v", day, err)
				continue
			}

			for i := range tasks {
				tasks[i] = tasks[i].WithDayKey()
			}
			domain.SortCanonical(tasks)

			c.mu.Lock()
			c.setDayLocked(day, tasks)
			c.refreshSearchLocked()
			c.mu.Unlock()

			c.sinkDayChanged(day)
		}
		c.emitSearchIfActive()
	}()
}

// dayRangeISO is the canonical one-day half-open range for a day key.
func dayRangeISO(dayKey string) (string, string) {
	return datekey.ScheduledISO(dayKey), datekey.ScheduledISO(datekey.AddDays(dayKey, 1))
}

func indexByID(list []domain.Task, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func insertTask(list []domain.Task, t domain.Task, at int) []domain.Task {
	out := make([]domain.Task, 0, len(list)+1)
	out = append(out, list[:at]...)
	out = append(out, t)
	out = append(out, list[at:]...)
	return out
}
