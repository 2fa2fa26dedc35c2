package timeline

import (
	"context"
	"errors"
	"testing"

	"github.com/vinayytyagi/lineup/domain/datekey"
	domain "github.com/vinayytyagi/lineup/domain/task"
)

func makeNote(id, day string, order int) domain.Task {
	o := order
	return domain.Task{
		ID:             id,
		Type:           domain.TypeNote,
		Title:          id,
		Notes:          id,
		ScheduledDate:  datekey.ScheduledISO(day),
		TimeToComplete: 10,
		Order:          &o,
	}
}

func seedDay(c *Controller, day string, tasks ...domain.Task) {
	for i := range tasks {
		tasks[i] = tasks[i].WithDayKey()
	}
	c.mu.Lock()
	c.tasksByDay[day] = tasks
	c.mu.Unlock()
}

func dayIDs(c *Controller, day string) []string {
	tasks := c.TasksForDay(day)
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func dayOrders(c *Controller, day string) []int {
	tasks := c.TasksForDay(day)
	orders := make([]int, len(tasks))
	for i, t := range tasks {
		orders[i] = t.OrderValue()
	}
	return orders
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStartDragValidation(t *testing.T) {
	t.Run("admin is read-only", func(t *testing.T) {
		c := NewController(Config{Mode: AdminMode("target"), Source: &fakeSource{}, Sink: newRecordingSink(), Today: testToday})
		if err := c.StartDrag("a"); !errors.Is(err, ErrReadOnly) {
			t.Errorf("err = %v, want ErrReadOnly", err)
		}
	})

	t.Run("loading is not ready", func(t *testing.T) {
		c := NewController(Config{Mode: LoadingMode(), Sink: newRecordingSink(), Today: testToday})
		if err := c.StartDrag("a"); !errors.Is(err, ErrNotReady) {
			t.Errorf("err = %v, want ErrNotReady", err)
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		c := newUserController(&fakeSource{}, newRecordingSink())
		if err := c.StartDrag("missing"); !errors.Is(err, ErrUnknownTask) {
			t.Errorf("err = %v, want ErrUnknownTask", err)
		}
	})

	t.Run("drop without drag", func(t *testing.T) {
		c := newUserController(&fakeSource{}, newRecordingSink())
		if err := c.HandleDrop(context.Background(), testToday, 0); !errors.Is(err, ErrNoDrag) {
			t.Errorf("err = %v, want ErrNoDrag", err)
		}
	})
}

func TestSameDayReorder(t *testing.T) {
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())
	seedDay(c, testToday,
		makeNote("a", testToday, 1000),
		makeNote("b", testToday, 2000),
		makeNote("c", testToday, 3000),
	)

	if err := c.StartDrag("a"); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	// Drop before "c": index 2 in the list that still contains "a".
	if err := c.HandleDrop(context.Background(), testToday, 2); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}

	if got := dayIDs(c, testToday); !equalStrings(got, []string{"b", "a", "c"}) {
		t.Errorf("order = %v, want [b a c]", got)
	}
	if got := dayOrders(c, testToday); !equalInts(got, []int{1000, 2000, 3000}) {
		t.Errorf("orders = %v, want dense [1000 2000 3000]", got)
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if len(src.reorderCalls) != 1 || len(src.reorderCalls[0]) != 3 {
		t.Errorf("reorder calls = %+v, want one batch of 3", src.reorderCalls)
	}
}

func TestDropAtOwnPositionIsIdempotent(t *testing.T) {
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())
	seedDay(c, testToday,
		makeNote("a", testToday, 1000),
		makeNote("b", testToday, 2000),
	)

	if err := c.StartDrag("a"); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if err := c.HandleDrop(context.Background(), testToday, 0); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}

	if got := dayIDs(c, testToday); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("order = %v, want unchanged [a b]", got)
	}
	if got := dayOrders(c, testToday); !equalInts(got, []int{1000, 2000}) {
		t.Errorf("orders = %v, want unchanged [1000 2000]", got)
	}
}

func TestCrossDayDrop(t *testing.T) {
	d1 := "2025-03-15"
	d2 := "2025-03-16"
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())
	seedDay(c, d1,
		makeNote("a", d1, 1000),
		makeNote("b", d1, 2000),
	)
	seedDay(c, d2, makeNote("c", d2, 1000))

	if err := c.StartDrag("a"); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if err := c.HandleDrop(context.Background(), d2, 0); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}

	if got := dayIDs(c, d1); !equalStrings(got, []string{"b"}) {
		t.Errorf("source day = %v, want [b]", got)
	}
	if got := dayOrders(c, d1); !equalInts(got, []int{1000}) {
		t.Errorf("source orders = %v, want [1000]", got)
	}
	if got := dayIDs(c, d2); !equalStrings(got, []string{"a", "c"}) {
		t.Errorf("dest day = %v, want [a c]", got)
	}
	if got := dayOrders(c, d2); !equalInts(got, []int{1000, 2000}) {
		t.Errorf("dest orders = %v, want [1000 2000]", got)
	}

	// The moved task carries its new day's date.
	moved := c.TasksForDay(d2)[0]
	if moved.ScheduledDate != datekey.ScheduledISO(d2) {
		t.Errorf("moved scheduledDate = %q, want %q", moved.ScheduledDate, datekey.ScheduledISO(d2))
	}

	// One batch covering both days: 1 source task + 2 dest tasks.
	src.mu.Lock()
	defer src.mu.Unlock()
	if len(src.reorderCalls) != 1 || len(src.reorderCalls[0]) != 3 {
		t.Errorf("reorder calls = %+v, want one batch of 3", src.reorderCalls)
	}
}

func TestDropIndexClamped(t *testing.T) {
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())
	seedDay(c, testToday,
		makeNote("a", testToday, 1000),
		makeNote("b", testToday, 2000),
	)

	if err := c.StartDrag("a"); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if err := c.HandleDrop(context.Background(), testToday, 99); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}

	if got := dayIDs(c, testToday); !equalStrings(got, []string{"b", "a"}) {
		t.Errorf("order = %v, want [b a]", got)
	}
}

func TestGuestReorderStaysLocal(t *testing.T) {
	src := &fakeSource{}
	c := NewController(Config{Mode: GuestMode(), Source: src, Sink: newRecordingSink(), Today: testToday})
	seedDay(c, testToday,
		makeNote("a", testToday, 1000),
		makeNote("b", testToday, 2000),
	)

	if err := c.StartDrag("b"); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if err := c.HandleDrop(context.Background(), testToday, 0); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}

	if got := dayIDs(c, testToday); !equalStrings(got, []string{"b", "a"}) {
		t.Errorf("order = %v, want [b a]", got)
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if len(src.reorderCalls) != 0 {
		t.Errorf("guest session persisted %d reorder batches, want 0", len(src.reorderCalls))
	}
}

func TestReorderFailureReconcilesFromStorage(t *testing.T) {
	// Server's authoritative state for the day, returned by the reconcile
	// fetch after the bulk write fails.
	serverState := []domain.Task{
		makeNote("a", testToday, 1000),
		makeNote("b", testToday, 2000),
	}
	src := &fakeSource{
		listResult: serverState,
		reorderErr: errors.New("write failed"),
	}
	sink := newRecordingSink()
	c := newUserController(src, sink)
	seedDay(c, testToday,
		makeNote("a", testToday, 1000),
		makeNote("b", testToday, 2000),
	)

	if err := c.StartDrag("a"); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if err := c.HandleDrop(context.Background(), testToday, 2); err != nil {
		t.Fatalf("HandleDrop: %v", err)
	}
	c.Wait()

	if sink.bannerCount() != 1 {
		t.Errorf("banners = %d, want 1", sink.bannerCount())
	}
	if got := dayIDs(c, testToday); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("day after reconcile = %v, want server order [a b]", got)
	}
}

func TestDeleteCancelsDragOnSameTask(t *testing.T) {
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())
	seedDay(c, testToday, makeNote("a", testToday, 1000))

	if err := c.StartDrag("a"); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if err := c.DeleteTask(context.Background(), "a"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	if err := c.HandleDrop(context.Background(), testToday, 0); !errors.Is(err, ErrNoDrag) {
		t.Errorf("drop after delete: err = %v, want ErrNoDrag", err)
	}
}
