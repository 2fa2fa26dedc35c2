package timeline

import (
	"context"
	"log"
	"sync"

	"github.com/vinayytyagi/lineup/domain/datekey"
	domain "github.com/vinayytyagi/lineup/domain/task"
	"github.com/vinayytyagi/lineup/modules/metadata"
	taskmod "github.com/vinayytyagi/lineup/modules/task"
)

const (
	// InitialPastDays and InitialFutureDays size the window around today
	// when a session starts.
	InitialPastDays   = 5
	InitialFutureDays = 5

	// PageSizeDays is how much the window grows per edge approach.
	PageSizeDays = 10

	// JumpBufferDays is the context materialized around an out-of-window
	// jump target.
	JumpBufferDays = 5
)

// Config assembles a Controller. Source may be nil for guest and loading
// modes; Metadata may be nil when guest saves are not needed.
type Config struct {
	Mode     Mode
	Source   Source
	Metadata metadata.MetadataPort
	Sink     Sink

	// Today overrides the session's center day. Empty means the current
	// local date.
	Today string
}

// Controller owns all timeline state for one session: the day window, tasks
// by day, segment bookkeeping, drag state and search state. A mode change is
// not an operation on a Controller; the session builds a fresh one, which
// resets every piece of bookkeeping by construction.
type Controller struct {
	mu       sync.Mutex
	mode     Mode
	source   Source
	metadata metadata.MetadataPort
	sink     Sink
	today    string

	window         []string
	tasksByDay     map[string][]domain.Task
	loadedSegments map[string]bool
	fetching       bool
	repairedIDs    map[string]bool
	centeredOnce   bool

	drag   *dragState
	search searchState

	bg sync.WaitGroup
}

type dragState struct {
	taskID     string
	fromDayKey string
}

// NewController creates a session controller with the initial window around
// today. The initial segment is not loaded; call Init for that.
func NewController(cfg Config) *Controller {
	today := cfg.Today
	if today == "" {
		today = datekey.Today()
	}

	c := &Controller{
		mode:           cfg.Mode,
		source:         cfg.Source,
		metadata:       cfg.Metadata,
		sink:           cfg.Sink,
		today:          today,
		tasksByDay:     make(map[string][]domain.Task),
		loadedSegments: make(map[string]bool),
		repairedIDs:    make(map[string]bool),
	}
	c.window = datekey.RangeAround(today, InitialPastDays, InitialFutureDays)
	return c
}

// Init announces the initial window and loads its segment.
func (c *Controller) Init(ctx context.Context) {
	c.mu.Lock()
	window := c.windowCopy()
	c.mu.Unlock()

	c.sinkWindowChanged(window)
	c.LoadSegment(ctx, window[0], datekey.AddDays(window[len(window)-1], 1))
	c.CenterOnToday()
}

// Mode returns the session mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Window returns a copy of the current day-key window.
func (c *Controller) Window() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.windowCopy()
}

// TasksForDay returns a copy of a day's tasks in canonical order.
func (c *Controller) TasksForDay(dayKey string) []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Task(nil), c.tasksByDay[dayKey]...)
}

// Wait blocks until background work (metadata repair, reorder reconciliation)
// has drained. Used on session teardown and by tests.
func (c *Controller) Wait() {
	c.bg.Wait()
}

// LoadSegment ensures the half-open day range [startKey, endKeyExclusive) is
// loaded. Already-loaded segments are skipped; a segment requested while
// another fetch is in flight is dropped, not queued, because edge sentinels
// re-fire while the viewport stays near the edge.
func (c *Controller) LoadSegment(ctx context.Context, startKey, endKeyExclusive string) {
	segKey := startKey + ".." + endKeyExclusive

	c.mu.Lock()
	if c.loadedSegments[segKey] {
		c.mu.Unlock()
		return
	}

	switch c.mode.Kind() {
	case KindLoading:
		// Mode unknown: do not fetch, and do not mark loaded so the
		// segment is retried once the mode resolves.
		c.mu.Unlock()
		return
	case KindGuest:
		// Local-only data; the segment is trivially complete.
		c.loadedSegments[segKey] = true
		c.mu.Unlock()
		return
	}

	if c.fetching {
		c.mu.Unlock()
		return
	}
	c.fetching = true
	c.mu.Unlock()

	tasks, err := c.source.ListRange(ctx, datekey.ScheduledISO(startKey), datekey.ScheduledISO(endKeyExclusive))

	c.mu.Lock()
	c.fetching = false
	if err != nil {
		c.mu.Unlock()
		log.Printf("[timeline] Segment fetch %s failed: %v", segKey, err)
		c.sink.Banner("Could not load part of your timeline. Scroll to retry.")
		return
	}

	c.loadedSegments[segKey] = true
	changed := c.mergeLocked(tasks)
	c.refreshSearchLocked()
	days, toRepair := c.collectAfterLoadLocked(changed, tasks)
	c.mu.Unlock()

	for _, day := range days {
		c.sinkDayChanged(day)
	}
	c.emitSearchIfActive()

	for _, t := range toRepair {
		c.repairInBackground(ctx, t)
	}
}

// collectAfterLoadLocked gathers the changed days to announce and, in user
// mode, the placeholder tasks to repair.
func (c *Controller) collectAfterLoadLocked(changedDays map[string]bool, fetched []domain.Task) ([]string, []domain.Task) {
	days := make([]string, 0, len(changedDays))
	for day := range changedDays {
		days = append(days, day)
	}

	if c.mode.Kind() != KindUser {
		return days, nil
	}

	var toRepair []domain.Task
	for _, t := range fetched {
		if !domain.NeedsMetadataRepair(t) || c.repairedIDs[t.ID] {
			continue
		}
		// One repair attempt per task per session; a failed attempt
		// re-arms below so a later segment load can retry.
		c.repairedIDs[t.ID] = true
		toRepair = append(toRepair, t)
	}
	return days, toRepair
}

// repairInBackground re-saves a placeholder video task with identical content
// so the server re-runs metadata resolution, then merges the result.
func (c *Controller) repairInBackground(ctx context.Context, t domain.Task) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()

		updated, err := c.source.Update(ctx, taskmod.UpdateTaskRequest{
			ID:             t.ID,
			ScheduledDate:  t.ScheduledDate,
			VideoURL:       t.VideoURL,
			Notes:          t.Notes,
			TimeToComplete: t.TimeToComplete,
			Order:          t.Order,
		})
		if err != nil {
			log.Printf("[timeline] Metadata repair for %s failed: %v", t.ID, err)
			c.mu.Lock()
			delete(c.repairedIDs, t.ID)
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		changed := c.mergeLocked([]domain.Task{*updated})
		c.refreshSearchLocked()
		c.mu.Unlock()

		for day := range changed {
			c.sinkDayChanged(day)
		}
		c.emitSearchIfActive()
	}()
}

// GrowBackward prepends a page of days and loads it.
func (c *Controller) GrowBackward(ctx context.Context) {
	c.mu.Lock()
	oldFirst := c.window[0]
	newFirst := datekey.AddDays(oldFirst, -PageSizeDays)
	c.window = append(datekey.Range(newFirst, oldFirst), c.window...)
	window := c.windowCopy()
	c.mu.Unlock()

	c.sinkWindowChanged(window)
	c.LoadSegment(ctx, newFirst, oldFirst)
}

// GrowForward appends a page of days and loads it.
func (c *Controller) GrowForward(ctx context.Context) {
	c.mu.Lock()
	oldLast := c.window[len(c.window)-1]
	newLast := datekey.AddDays(oldLast, PageSizeDays)
	c.window = append(c.window, datekey.Range(datekey.AddDays(oldLast, 1), datekey.AddDays(newLast, 1))...)
	window := c.windowCopy()
	c.mu.Unlock()

	c.sinkWindowChanged(window)
	c.LoadSegment(ctx, datekey.AddDays(oldLast, 1), datekey.AddDays(newLast, 1))
}

// JumpTo brings an arbitrary day into view, growing the window toward it
// with a few days of buffer when it lies outside.
func (c *Controller) JumpTo(ctx context.Context, dayKey string) {
	c.mu.Lock()
	first := c.window[0]
	last := c.window[len(c.window)-1]

	switch {
	case dayKey >= first && dayKey <= last:
		c.mu.Unlock()
		c.sink.ScrollToDay(dayKey, true)
		return

	case dayKey < first:
		target := datekey.AddDays(dayKey, -JumpBufferDays)
		c.window = append(datekey.Range(target, first), c.window...)
		window := c.windowCopy()
		c.mu.Unlock()

		c.sinkWindowChanged(window)
		c.LoadSegment(ctx, target, first)

	default:
		target := datekey.AddDays(dayKey, JumpBufferDays)
		c.window = append(c.window, datekey.Range(datekey.AddDays(last, 1), datekey.AddDays(target, 1))...)
		window := c.windowCopy()
		c.mu.Unlock()

		c.sinkWindowChanged(window)
		c.LoadSegment(ctx, datekey.AddDays(last, 1), datekey.AddDays(target, 1))
	}

	c.sink.ScrollToDay(dayKey, true)
}

// CenterOnToday scrolls today into the middle of the viewport, once per
// session. Later window growth must not re-center.
func (c *Controller) CenterOnToday() {
	c.mu.Lock()
	if c.centeredOnce {
		c.mu.Unlock()
		return
	}
	c.centeredOnce = true
	today := c.today
	c.mu.Unlock()

	c.sink.ScrollToDay(today, true)
}

// mergeLocked merges fetched tasks into the per-day lists, replacing by id
// and appending the rest, then restores canonical order per touched day.
// Returns the set of changed days.
func (c *Controller) mergeLocked(incoming []domain.Task) map[string]bool {
	changed := make(map[string]bool)
	for _, t := range incoming {
		t = t.WithDayKey()
		day := t.DayKey

		// The task may have moved days; drop any stale copy first.
		for otherDay, list := range c.tasksByDay {
			if otherDay == day {
				continue
			}
			if removed, ok := removeByID(list, t.ID); ok {
				c.tasksByDay[otherDay] = removed
				changed[otherDay] = true
			}
		}

		list := c.tasksByDay[day]
		replaced := false
		for i := range list {
			if list[i].ID == t.ID {
				list[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, t)
		}
		domain.SortCanonical(list)
		c.tasksByDay[day] = list
		changed[day] = true
	}
	return changed
}

// setDayLocked replaces a day's list wholesale.
func (c *Controller) setDayLocked(dayKey string, tasks []domain.Task) {
	c.tasksByDay[dayKey] = tasks
}

func (c *Controller) windowCopy() []string {
	return append([]string(nil), c.window...)
}

func removeByID(list []domain.Task, id string) ([]domain.Task, bool) {
	for i := range list {
		if list[i].ID == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

func (c *Controller) sinkWindowChanged(window []string) {
	c.sink.WindowChanged(window)
}

func (c *Controller) sinkDayChanged(dayKey string) {
	c.mu.Lock()
	tasks := append([]domain.Task(nil), c.tasksByDay[dayKey]...)
	c.mu.Unlock()
	c.sink.DayChanged(dayKey, tasks)
}
