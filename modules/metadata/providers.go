package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	dataAPITimeout = 8 * time.Second
	oembedTimeout  = 6 * time.Second
)

// ErrNoResult is returned by a provider that got a well-formed but empty
// answer, e.g. an unknown video id.
var ErrNoResult = errors.New("no metadata result")

// Provider is one strategy for resolving video metadata. Providers are tried
// in order; any error moves the chain to the next one.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, videoID string) (*VideoMetadata, error)
}

// dataAPIProvider resolves metadata through the YouTube Data API v3. It is
// the richest source (title, thumbnail and duration) but needs an API key.
type dataAPIProvider struct {
	apiKey string
	client *http.Client
}

// NewDataAPIProvider creates a Data API provider with the given key.
func NewDataAPIProvider(apiKey string, client *http.Client) Provider {
	return &dataAPIProvider{apiKey: apiKey, client: client}
}

func (p *dataAPIProvider) Name() string {
	return "data-api"
}

func (p *dataAPIProvider) Fetch(ctx context.Context, videoID string) (*VideoMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, dataAPITimeout)
	defer cancel()

	endpoint := "https://www.googleapis.com/youtube/v3/videos?part=snippet,contentDetails&id=" +
		url.QueryEscape(videoID) + "&key=" + url.QueryEscape(p.apiKey)

	var body struct {
		Items []struct {
			Snippet struct {
				Title      string `json:"title"`
				Thumbnails map[string]struct {
					URL string `json:"url"`
				} `json:"thumbnails"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	if err := getJSON(ctx, p.client, endpoint, &body); err != nil {
		return nil, err
	}
	if len(body.Items) == 0 {
		return nil, ErrNoResult
	}

	item := body.Items[0]
	meta := &VideoMetadata{
		VideoID: videoID,
		Title:   item.Snippet.Title,
	}

	// Prefer the largest thumbnail available.
	for _, size := range []string{"maxres", "high", "medium"} {
		if thumb, ok := item.Snippet.Thumbnails[size]; ok && thumb.URL != "" {
			meta.ThumbnailURL = thumb.URL
			break
		}
	}

	if seconds, ok := ParseISO8601Duration(item.ContentDetails.Duration); ok {
		meta.DurationSeconds = seconds
		meta.Duration = FormatDurationSeconds(seconds)
	}

	return meta, nil
}

// oembedProvider resolves metadata through YouTube's public oEmbed endpoint.
// No API key required, but it only yields title and thumbnail.
type oembedProvider struct {
	client *http.Client
}

// NewOEmbedProvider creates an oEmbed provider.
func NewOEmbedProvider(client *http.Client) Provider {
	return &oembedProvider{client: client}
}

func (p *oembedProvider) Name() string {
	return "oembed"
}

func (p *oembedProvider) Fetch(ctx context.Context, videoID string) (*VideoMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, oembedTimeout)
	defer cancel()

	watchURL := "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
	endpoint := "https://www.youtube.com/oembed?format=json&url=" + url.QueryEscape(watchURL)

	var body struct {
		Title        string `json:"title"`
		ThumbnailURL string `json:"thumbnail_url"`
	}

	if err := getJSON(ctx, p.client, endpoint, &body); err != nil {
		return nil, err
	}
	if body.Title == "" && body.ThumbnailURL == "" {
		return nil, ErrNoResult
	}

	return &VideoMetadata{
		VideoID:      videoID,
		Title:        body.Title,
		ThumbnailURL: body.ThumbnailURL,
	}, nil
}

// getJSON performs a GET request and decodes the JSON response into dest.
func getJSON(ctx context.Context, client *http.Client, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
