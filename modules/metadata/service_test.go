package metadata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vinayytyagi/lineup/domain/task"
)

type fakeProvider struct {
	name  string
	meta  *VideoMetadata
	err   error
	calls atomic.Int64
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(_ context.Context, videoID string) (*VideoMetadata, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	meta := *p.meta
	meta.VideoID = videoID
	return &meta, nil
}

const testWatchURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func TestResolveFirstProviderWins(t *testing.T) {
	first := &fakeProvider{name: "first", meta: &VideoMetadata{Title: "Real title", ThumbnailURL: "https://thumbs/1.jpg", Duration: "3:25", DurationSeconds: 205}}
	second := &fakeProvider{name: "second", meta: &VideoMetadata{Title: "Should not be used"}}

	svc := NewMetadataService([]Provider{first, second}, nil)

	meta, err := svc.Resolve(context.Background(), testWatchURL)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.Title != "Real title" {
		t.Errorf("Title = %q, want %q", meta.Title, "Real title")
	}
	if meta.Duration != "3:25" {
		t.Errorf("Duration = %q, want %q", meta.Duration, "3:25")
	}
	if second.calls.Load() != 0 {
		t.Errorf("second provider called %d times, want 0", second.calls.Load())
	}
}

func TestResolveFallsThroughFailingProviders(t *testing.T) {
	failing := &fakeProvider{name: "failing", err: errors.New("upstream down")}
	working := &fakeProvider{name: "working", meta: &VideoMetadata{Title: "From fallback", ThumbnailURL: "https://thumbs/2.jpg"}}

	svc := NewMetadataService([]Provider{failing, working}, nil)

	meta, err := svc.Resolve(context.Background(), testWatchURL)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.Title != "From fallback" {
		t.Errorf("Title = %q, want %q", meta.Title, "From fallback")
	}
	if failing.calls.Load() != 1 {
		t.Errorf("failing provider called %d times, want 1", failing.calls.Load())
	}
}

func TestResolveExhaustedChainYieldsPlaceholder(t *testing.T) {
	failing := &fakeProvider{name: "failing", err: errors.New("upstream down")}

	svc := NewMetadataService([]Provider{failing}, nil)

	meta, err := svc.Resolve(context.Background(), testWatchURL)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.Title != task.PlaceholderTitle {
		t.Errorf("Title = %q, want %q", meta.Title, task.PlaceholderTitle)
	}
	if meta.ThumbnailURL != DefaultThumbnailURL("dQw4w9WgXcQ") {
		t.Errorf("ThumbnailURL = %q, want id-derived default", meta.ThumbnailURL)
	}
	if meta.Duration != "" {
		t.Errorf("Duration = %q, want empty", meta.Duration)
	}
}

func TestResolveEmptyTitleGetsPlaceholder(t *testing.T) {
	// A provider can answer with a thumbnail but no title; the title
	// placeholder still applies without discarding the thumbnail.
	partial := &fakeProvider{name: "partial", meta: &VideoMetadata{ThumbnailURL: "https://thumbs/3.jpg"}}

	svc := NewMetadataService([]Provider{partial}, nil)

	meta, err := svc.Resolve(context.Background(), testWatchURL)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.Title != task.PlaceholderTitle {
		t.Errorf("Title = %q, want placeholder", meta.Title)
	}
	if meta.ThumbnailURL != "https://thumbs/3.jpg" {
		t.Errorf("ThumbnailURL = %q, want provider value", meta.ThumbnailURL)
	}
}

func TestResolveInvalidURL(t *testing.T) {
	svc := NewMetadataService(nil, nil)

	_, err := svc.Resolve(context.Background(), "https://example.com/not-a-video")
	if !errors.Is(err, ErrInvalidVideoURL) {
		t.Errorf("Resolve() error = %v, want ErrInvalidVideoURL", err)
	}
}

func TestResolveConcurrentRequestsCollapse(t *testing.T) {
	block := make(chan struct{})
	provider := &blockingProvider{
		release: block,
		started: make(chan struct{}),
		meta:    &VideoMetadata{Title: "Shared"},
	}

	svc := NewMetadataService([]Provider{provider}, nil)

	const workers = 8
	var wg sync.WaitGroup
	results := make([]*VideoMetadata, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meta, err := svc.Resolve(context.Background(), testWatchURL)
			if err != nil {
				t.Errorf("Resolve() error = %v", err)
				return
			}
			results[i] = meta
		}(i)
	}

	// Let the workers pile up on the in-flight fetch, then release it.
	provider.waitForFirstCall()
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	if calls := provider.calls.Load(); calls != 1 {
		t.Errorf("provider called %d times for concurrent identical requests, want 1", calls)
	}
	for i, meta := range results {
		if meta == nil || meta.Title != "Shared" {
			t.Errorf("worker %d got %+v", i, meta)
		}
	}
}

type blockingProvider struct {
	release   chan struct{}
	meta      *VideoMetadata
	calls     atomic.Int64
	firstCall sync.Once
	started   chan struct{}
}

func (p *blockingProvider) Name() string { return "blocking" }

func (p *blockingProvider) Fetch(_ context.Context, videoID string) (*VideoMetadata, error) {
	p.calls.Add(1)
	p.firstCall.Do(func() {
		if p.started != nil {
			close(p.started)
		}
	})
	<-p.release
	meta := *p.meta
	meta.VideoID = videoID
	return &meta, nil
}

func (p *blockingProvider) waitForFirstCall() {
	if p.started != nil {
		<-p.started
	}
}
