package timeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/vinayytyagi/lineup/domain/task"
	taskmod "github.com/vinayytyagi/lineup/modules/task"
)

const testToday = "2025-03-15"

// fakeSource is a canned, counting Source.
type fakeSource struct {
	mu           sync.Mutex
	listResult   []domain.Task
	listErr      error
	listCalls    int
	listBlock    chan struct{}
	updateResult func(req taskmod.UpdateTaskRequest) (*domain.Task, error)
	updateCalls  []taskmod.UpdateTaskRequest
	createCalls  []taskmod.CreateTaskRequest
	deleteCalls  []string
	reorderCalls [][]taskmod.ReorderUpdate
	reorderErr   error
}

func (s *fakeSource) ListRange(_ context.Context, _, _ string) ([]domain.Task, error) {
	s.mu.Lock()
	s.listCalls++
	block := s.listBlock
	result := append([]domain.Task(nil), s.listResult...)
	err := s.listErr
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *fakeSource) Create(_ context.Context, req taskmod.CreateTaskRequest) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls = append(s.createCalls, req)
	order := domain.OrderGap
	return &domain.Task{
		ID:             "created-1",
		Type:           domain.TypeNote,
		Title:          domain.DeriveNoteTitle(req.Notes),
		Notes:          req.Notes,
		ScheduledDate:  req.ScheduledDate,
		TimeToComplete: req.TimeToComplete,
		Order:          &order,
		CreatedAt:      time.Now(),
	}, nil
}

func (s *fakeSource) Update(_ context.Context, req taskmod.UpdateTaskRequest) (*domain.Task, error) {
	s.mu.Lock()
	s.updateCalls = append(s.updateCalls, req)
	fn := s.updateResult
	s.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	order := 1000
	if req.Order != nil {
		order = *req.Order
	}
	return &domain.Task{
		ID:             req.ID,
		Type:           domain.TypeVideo,
		Title:          "Repaired title",
		VideoURL:       req.VideoURL,
		ThumbnailURL:   "https://thumbs/fixed.jpg",
		VideoDuration:  "4:20",
		ScheduledDate:  req.ScheduledDate,
		TimeToComplete: req.TimeToComplete,
		Order:          &order,
	}, nil
}

func (s *fakeSource) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls = append(s.deleteCalls, id)
	return nil
}

func (s *fakeSource) BulkReorder(_ context.Context, updates []taskmod.ReorderUpdate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reorderCalls = append(s.reorderCalls, updates)
	if s.reorderErr != nil {
		return 0, s.reorderErr
	}
	return len(updates), nil
}

func (s *fakeSource) listCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// recordingSink records engine output.
type recordingSink struct {
	mu       sync.Mutex
	windows  [][]string
	days     map[string][]domain.Task
	banners  []string
	scrolls  []string
	searches []searchEvent
}

type searchEvent struct {
	matches []Match
	active  int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{days: make(map[string][]domain.Task)}
}

func (s *recordingSink) WindowChanged(days []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = append(s.windows, days)
}

func (s *recordingSink) DayChanged(dayKey string, tasks []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[dayKey] = tasks
}

func (s *recordingSink) Banner(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banners = append(s.banners, message)
}

func (s *recordingSink) ScrollToDay(dayKey string, _ bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrolls = append(s.scrolls, "day:"+dayKey)
}

func (s *recordingSink) ScrollToTask(_, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrolls = append(s.scrolls, "task:"+taskID)
}

func (s *recordingSink) SearchChanged(matches []Match, active int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, searchEvent{matches: matches, active: active})
}

func (s *recordingSink) bannerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.banners)
}

func newUserController(src Source, sink Sink) *Controller {
	return NewController(Config{
		Mode:   UserMode("u1", "u1@example.com"),
		Source: src,
		Sink:   sink,
		Today:  testToday,
	})
}

func TestInitialWindow(t *testing.T) {
	c := newUserController(&fakeSource{}, newRecordingSink())

	window := c.Window()
	if len(window) != InitialPastDays+InitialFutureDays+1 {
		t.Fatalf("window size = %d, want %d", len(window), InitialPastDays+InitialFutureDays+1)
	}
	if window[0] != "2025-03-10" {
		t.Errorf("window start = %q, want 2025-03-10", window[0])
	}
	if window[len(window)-1] != "2025-03-20" {
		t.Errorf("window end = %q, want 2025-03-20", window[len(window)-1])
	}
	if window[InitialPastDays] != testToday {
		t.Errorf("window center = %q, want %q", window[InitialPastDays], testToday)
	}
}

func TestLoadSegmentIdempotent(t *testing.T) {
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())

	for i := 0; i < 3; i++ {
		c.LoadSegment(context.Background(), "2025-03-10", "2025-03-21")
	}

	if got := src.listCallCount(); got != 1 {
		t.Errorf("fetches for repeated segment = %d, want 1", got)
	}
}

func TestLoadSegmentDropsConcurrentRequest(t *testing.T) {
	block := make(chan struct{})
	src := &fakeSource{listBlock: block}
	c := newUserController(src, newRecordingSink())

	done := make(chan struct{})
	go func() {
		c.LoadSegment(context.Background(), "2025-03-10", "2025-03-21")
		close(done)
	}()

	// Wait until the first fetch is in flight.
	for src.listCallCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	// A different segment requested mid-flight is dropped, not queued.
	c.LoadSegment(context.Background(), "2025-02-28", "2025-03-10")

	close(block)
	<-done

	if got := src.listCallCount(); got != 1 {
		t.Errorf("fetches = %d, want 1 (second request dropped)", got)
	}

	// The dropped segment was never marked loaded, so it can load later.
	c.LoadSegment(context.Background(), "2025-02-28", "2025-03-10")
	if got := src.listCallCount(); got != 2 {
		t.Errorf("fetches after retry = %d, want 2", got)
	}
}

func TestLoadSegmentGuestMarksWithoutFetching(t *testing.T) {
	src := &fakeSource{}
	c := NewController(Config{Mode: GuestMode(), Source: src, Sink: newRecordingSink(), Today: testToday})

	c.LoadSegment(context.Background(), "2025-03-10", "2025-03-21")

	if got := src.listCallCount(); got != 0 {
		t.Errorf("guest mode fetched %d times, want 0", got)
	}
	if !c.loadedSegments["2025-03-10..2025-03-21"] {
		t.Error("guest segment not marked loaded")
	}
}

func TestLoadSegmentLoadingModeNotMarked(t *testing.T) {
	src := &fakeSource{}
	c := NewController(Config{Mode: LoadingMode(), Source: src, Sink: newRecordingSink(), Today: testToday})

	c.LoadSegment(context.Background(), "2025-03-10", "2025-03-21")

	if got := src.listCallCount(); got != 0 {
		t.Errorf("loading mode fetched %d times, want 0", got)
	}
	if len(c.loadedSegments) != 0 {
		t.Error("loading mode marked a segment loaded")
	}
}

func TestLoadSegmentErrorLeavesSegmentRetryable(t *testing.T) {
	src := &fakeSource{listErr: errors.New("backend down")}
	sink := newRecordingSink()
	c := newUserController(src, sink)

	c.LoadSegment(context.Background(), "2025-03-10", "2025-03-21")

	if sink.bannerCount() != 1 {
		t.Errorf("banners = %d, want 1", sink.bannerCount())
	}
	if len(c.loadedSegments) != 0 {
		t.Error("failed segment was marked loaded")
	}

	// Backend recovers; the same segment fetches again.
	src.mu.Lock()
	src.listErr = nil
	src.mu.Unlock()
	c.LoadSegment(context.Background(), "2025-03-10", "2025-03-21")

	if got := src.listCallCount(); got != 2 {
		t.Errorf("fetches = %d, want 2", got)
	}
	if !c.loadedSegments["2025-03-10..2025-03-21"] {
		t.Error("recovered segment not marked loaded")
	}
}

func TestGrowBackwardPrependsOnePage(t *testing.T) {
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())

	c.GrowBackward(context.Background())

	window := c.Window()
	if window[0] != "2025-02-28" {
		t.Errorf("window start = %q, want 2025-02-28", window[0])
	}
	if len(window) != 11+PageSizeDays {
		t.Errorf("window size = %d, want %d", len(window), 11+PageSizeDays)
	}
	// Window must stay contiguous.
	for i := 1; i < len(window); i++ {
		if window[i] <= window[i-1] {
			t.Fatalf("window not ascending at %d: %q then %q", i, window[i-1], window[i])
		}
	}
}

func TestGrowForwardAppendsOnePage(t *testing.T) {
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())

	c.GrowForward(context.Background())

	window := c.Window()
	if window[len(window)-1] != "2025-03-30" {
		t.Errorf("window end = %q, want 2025-03-30", window[len(window)-1])
	}
}

func TestJumpToWithinWindowOnlyScrolls(t *testing.T) {
	src := &fakeSource{}
	sink := newRecordingSink()
	c := newUserController(src, sink)

	c.JumpTo(context.Background(), "2025-03-12")

	if got := len(c.Window()); got != 11 {
		t.Errorf("window size changed to %d", got)
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.scrolls) != 1 || sink.scrolls[0] != "day:2025-03-12" {
		t.Errorf("scrolls = %v", sink.scrolls)
	}
}

func TestJumpToBeforeWindowExtendsWithBuffer(t *testing.T) {
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())

	c.JumpTo(context.Background(), "2025-02-20")

	window := c.Window()
	if window[0] != "2025-02-15" {
		t.Errorf("window start = %q, want 2025-02-15 (target minus buffer)", window[0])
	}
	if window[len(window)-1] != "2025-03-20" {
		t.Errorf("window end moved: %q", window[len(window)-1])
	}
}

func TestJumpToAfterWindowExtendsWithBuffer(t *testing.T) {
	src := &fakeSource{}
	c := newUserController(src, newRecordingSink())

	c.JumpTo(context.Background(), "2025-04-10")

	window := c.Window()
	if window[len(window)-1] != "2025-04-15" {
		t.Errorf("window end = %q, want 2025-04-15 (target plus buffer)", window[len(window)-1])
	}
}

func TestCenterOnTodayOnlyOnce(t *testing.T) {
	sink := newRecordingSink()
	c := newUserController(&fakeSource{}, sink)

	c.CenterOnToday()
	c.CenterOnToday()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.scrolls) != 1 {
		t.Errorf("center scrolls = %d, want 1", len(sink.scrolls))
	}
}

func TestPlaceholderRepairOncePerSession(t *testing.T) {
	order := 1000
	placeholder := domain.Task{
		ID:             "v1",
		OwnerID:        "u1",
		Type:           domain.TypeVideo,
		Title:          domain.PlaceholderTitle,
		VideoURL:       "https://youtu.be/dQw4w9WgXcQ",
		ScheduledDate:  "2025-03-15T00:00:00.000Z",
		TimeToComplete: 30,
		Order:          &order,
	}
	src := &fakeSource{listResult: []domain.Task{placeholder}}
	c := newUserController(src, newRecordingSink())

	c.LoadSegment(context.Background(), "2025-03-10", "2025-03-21")
	c.Wait()

	src.mu.Lock()
	repairs := len(src.updateCalls)
	src.mu.Unlock()
	if repairs != 1 {
		t.Fatalf("repair updates = %d, want 1", repairs)
	}

	// The repaired task replaced the placeholder.
	tasks := c.TasksForDay("2025-03-15")
	if len(tasks) != 1 || tasks[0].Title != "Repaired title" {
		t.Errorf("day tasks after repair = %+v", tasks)
	}

	// A later load of a different segment returning the same task must
	// not trigger another repair attempt.
	c.LoadSegment(context.Background(), "2025-03-21", "2025-03-31")
	c.Wait()

	src.mu.Lock()
	repairs = len(src.updateCalls)
	src.mu.Unlock()
	if repairs != 1 {
		t.Errorf("repair updates after second load = %d, want 1", repairs)
	}
}

func TestPlaceholderRepairFailureRearms(t *testing.T) {
	order := 1000
	placeholder := domain.Task{
		ID:             "v1",
		Type:           domain.TypeVideo,
		Title:          domain.PlaceholderTitle,
		VideoURL:       "https://youtu.be/dQw4w9WgXcQ",
		ScheduledDate:  "2025-03-15T00:00:00.000Z",
		TimeToComplete: 30,
		Order:          &order,
	}
	src := &fakeSource{
		listResult: []domain.Task{placeholder},
		updateResult: func(taskmod.UpdateTaskRequest) (*domain.Task, error) {
			return nil, errors.New("still failing")
		},
	}
	c := newUserController(src, newRecordingSink())

	c.LoadSegment(context.Background(), "2025-03-10", "2025-03-21")
	c.Wait()

	// The failed attempt released the id for a later retry.
	c.LoadSegment(context.Background(), "2025-03-21", "2025-03-31")
	c.Wait()

	src.mu.Lock()
	repairs := len(src.updateCalls)
	src.mu.Unlock()
	if repairs != 2 {
		t.Errorf("repair attempts = %d, want 2 (failure re-arms)", repairs)
	}
}

func TestAdminModeNeverRepairs(t *testing.T) {
	order := 1000
	placeholder := domain.Task{
		ID:            "v1",
		Type:          domain.TypeVideo,
		Title:         domain.PlaceholderTitle,
		ScheduledDate: "2025-03-15T00:00:00.000Z",
		Order:         &order,
	}
	src := &fakeSource{listResult: []domain.Task{placeholder}}
	c := NewController(Config{Mode: AdminMode("target"), Source: src, Sink: newRecordingSink(), Today: testToday})

	c.LoadSegment(context.Background(), "2025-03-10", "2025-03-21")
	c.Wait()

	src.mu.Lock()
	defer src.mu.Unlock()
	if len(src.updateCalls) != 0 {
		t.Errorf("admin session attempted %d repairs, want 0", len(src.updateCalls))
	}
}
