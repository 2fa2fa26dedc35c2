package cache

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/storage"
	"github.com/gofiber/storage/redis/v3"
)

// CacheModule provides the shared Redis cache for the application. Consumers
// receive it by direct injection in main and read Service() lazily, so
// startup ordering between modules does not matter.
type CacheModule struct {
	storage   storage.Storage
	service   CacheService
	redisAddr string
	prefix    string
	ttl       time.Duration
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*CacheModule)(nil)
	_ mono.HealthCheckableModule = (*CacheModule)(nil)
)

// NewModule creates a cache module with the given key prefix and default TTL.
func NewModule(redisAddr, prefix string, ttl time.Duration) *CacheModule {
	return &CacheModule{
		redisAddr: redisAddr,
		prefix:    prefix,
		ttl:       ttl,
	}
}

// Name returns the module name.
func (m *CacheModule) Name() string {
	return "cache"
}

// Start connects to Redis and builds the cache service.
func (m *CacheModule) Start(_ context.Context) error {
	host, port := parseRedisAddr(m.redisAddr)
	m.storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		PoolSize: 50,
	})
	m.service = NewCacheService(m.storage, m.prefix, m.ttl)
	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.redisAddr, m.prefix, m.ttl)
	return nil
}

// Stop closes the Redis connection.
func (m *CacheModule) Stop(_ context.Context) error {
	if m.service != nil {
		if err := m.service.Close(); err != nil {
			log.Printf("[cache] Error closing connection: %v", err)
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	log.Println("[cache] Module stopped")
	return nil
}

// Service returns the cache service. Nil until Start has run.
func (m *CacheModule) Service() CacheService {
	return m.service
}

// Health returns the current health status.
func (m *CacheModule) Health(_ context.Context) mono.HealthStatus {
	if m.storage == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	// Simple health check: try to get a non-existent key
	_, err := m.storage.Get("__health_check__")
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.redisAddr,
			"prefix":     m.prefix,
			"ttl":        m.ttl.String(),
		},
	}
}

// parseRedisAddr parses "host:port" into host and port.
// Returns defaults (127.0.0.1:6379) for invalid or missing values.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}

	if host == "" {
		host = defaultHost
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}

	return host, port
}
