package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// MetadataPort defines the interface other modules use to resolve metadata.
type MetadataPort interface {
	Fetch(ctx context.Context, videoURL string) (*VideoMetadata, error)
}

// MetadataAdapter implements MetadataPort using the service container.
type MetadataAdapter struct {
	container mono.ServiceContainer
}

// NewMetadataAdapter creates a new MetadataAdapter.
func NewMetadataAdapter(container mono.ServiceContainer) *MetadataAdapter {
	return &MetadataAdapter{
		container: container,
	}
}

// Fetch resolves metadata for a video URL.
func (a *MetadataAdapter) Fetch(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	req := FetchMetadataRequest{URL: videoURL}
	var resp FetchMetadataResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"fetch-metadata",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		// The invalid-URL sentinel crosses the container as a message.
		if strings.Contains(err.Error(), ErrInvalidVideoURL.Error()) {
			return nil, ErrInvalidVideoURL
		}
		return nil, fmt.Errorf("fetch-metadata request failed: %w", err)
	}

	return &resp.Metadata, nil
}
