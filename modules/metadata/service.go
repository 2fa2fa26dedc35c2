package metadata

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/vinayytyagi/lineup/domain/task"
	"github.com/vinayytyagi/lineup/modules/cache"
	"golang.org/x/sync/singleflight"
)

const (
	// aggregateTimeout bounds a full walk of the provider chain.
	aggregateTimeout = 15 * time.Second

	// cacheTTL is how long resolved metadata stays cached. Titles and
	// thumbnails rarely change, so a day is comfortable.
	cacheTTL = 24 * time.Hour
)

// ErrInvalidVideoURL is returned when no video id can be extracted.
// It is the only hard error the resolver produces.
var ErrInvalidVideoURL = errors.New("invalid video url")

// MetadataService resolves video metadata through the provider chain.
// Concurrent requests for the same video id are collapsed into a single
// chain walk, and results are cached when a cache is available.
type MetadataService struct {
	providers []Provider
	cacheFn   func() cache.CacheService
	sfGroup   singleflight.Group
}

// NewMetadataService creates a resolver over the given providers. cacheFn may
// return nil, in which case no caching happens; it is read lazily so the
// cache module can finish starting after this one.
func NewMetadataService(providers []Provider, cacheFn func() cache.CacheService) *MetadataService {
	if cacheFn == nil {
		cacheFn = func() cache.CacheService { return nil }
	}
	return &MetadataService{
		providers: providers,
		cacheFn:   cacheFn,
	}
}

// Resolve resolves metadata for a video URL. Provider failures are swallowed;
// when the whole chain comes up empty the result is the deterministic
// placeholder (generic title, id-derived thumbnail, no duration). The only
// error is ErrInvalidVideoURL for URLs without an extractable id.
func (s *MetadataService) Resolve(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	videoID, ok := ExtractVideoID(videoURL)
	if !ok {
		return nil, ErrInvalidVideoURL
	}

	result, err, _ := s.sfGroup.Do(videoID, func() (any, error) {
		return s.resolveID(ctx, videoID), nil
	})
	if err != nil {
		return nil, err
	}

	meta := result.(VideoMetadata)
	return &meta, nil
}

// resolveID walks cache then providers for a single video id and always
// produces a usable result.
func (s *MetadataService) resolveID(ctx context.Context, videoID string) VideoMetadata {
	c := s.cacheFn()

	if c != nil {
		var cached VideoMetadata
		if hit, err := c.Get(ctx, videoID, &cached); err == nil && hit {
			return cached
		}
	}

	ctx, cancel := context.WithTimeout(ctx, aggregateTimeout)
	defer cancel()

	meta := VideoMetadata{VideoID: videoID}
	resolved := false

	for _, p := range s.providers {
		got, err := p.Fetch(ctx, videoID)
		if err != nil {
			log.Printf("[metadata] Provider %s failed for %s: %v", p.Name(), videoID, err)
			continue
		}
		meta.Title = got.Title
		meta.ThumbnailURL = got.ThumbnailURL
		meta.Duration = got.Duration
		meta.DurationSeconds = got.DurationSeconds
		resolved = true
		break
	}

	if meta.Title == "" {
		meta.Title = task.PlaceholderTitle
	}
	if meta.ThumbnailURL == "" {
		meta.ThumbnailURL = DefaultThumbnailURL(videoID)
	}

	// Only cache real answers; placeholders should retry next time.
	if c != nil && resolved {
		if err := c.SetWithTTL(ctx, videoID, meta, cacheTTL); err != nil {
			log.Printf("[metadata] Cache write failed for %s: %v", videoID, err)
		}
	}

	return meta
}
