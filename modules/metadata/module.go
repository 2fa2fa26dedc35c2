package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/vinayytyagi/lineup/modules/cache"
)

// MetadataModule provides video metadata resolution services.
type MetadataModule struct {
	service  *MetadataService
	cacheMod *cache.CacheModule
	hasKey   bool
}

// Compile-time interface checks.
var _ mono.Module = (*MetadataModule)(nil)
var _ mono.ServiceProviderModule = (*MetadataModule)(nil)
var _ mono.HealthCheckableModule = (*MetadataModule)(nil)

// NewModule creates a new MetadataModule.
func NewModule() *MetadataModule {
	return &MetadataModule{}
}

// SetCache injects the optional cache module. Called from main before the
// application starts; the cache service itself is read lazily per request.
func (m *MetadataModule) SetCache(cacheMod *cache.CacheModule) {
	m.cacheMod = cacheMod
}

// Name returns the module name.
func (m *MetadataModule) Name() string {
	return "metadata"
}

// Start builds the provider chain.
func (m *MetadataModule) Start(_ context.Context) error {
	client := &http.Client{}

	var providers []Provider
	if apiKey := os.Getenv("YOUTUBE_API_KEY"); apiKey != "" {
		providers = append(providers, NewDataAPIProvider(apiKey, client))
		m.hasKey = true
	}
	providers = append(providers, NewOEmbedProvider(client))

	cacheFn := func() cache.CacheService { return nil }
	if m.cacheMod != nil {
		cacheFn = m.cacheMod.Service
	}

	m.service = NewMetadataService(providers, cacheFn)

	log.Printf("[metadata] Module started (providers: %d, data API key: %v, cache: %v)",
		len(providers), m.hasKey, m.cacheMod != nil)
	return nil
}

// Stop shuts down the module.
func (m *MetadataModule) Stop(_ context.Context) error {
	log.Println("[metadata] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *MetadataModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.service != nil,
		Message: "operational",
		Details: map[string]any{
			"data_api_key": m.hasKey,
			"cached":       m.cacheMod != nil,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *MetadataModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"fetch-metadata",
		json.Unmarshal,
		json.Marshal,
		m.handleFetch,
	); err != nil {
		return fmt.Errorf("failed to register fetch-metadata service: %w", err)
	}

	log.Printf("[metadata] Registered services: fetch-metadata")
	return nil
}

// handleFetch handles metadata resolution requests.
func (m *MetadataModule) handleFetch(ctx context.Context, req FetchMetadataRequest, _ *mono.Msg) (FetchMetadataResponse, error) {
	meta, err := m.service.Resolve(ctx, req.URL)
	if err != nil {
		return FetchMetadataResponse{}, err
	}
	return FetchMetadataResponse{Metadata: *meta}, nil
}
