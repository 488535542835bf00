package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/graphops-io/tenantctl/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrCacheKeyNotFound  = errors.New("cache key not found")
	ErrCacheEntryExpired = errors.New("cache entry expired")
)

// CacheEntry is a single cached API response.
type CacheEntry struct {
	// Data is the raw response body.
	Data []byte

	// ExpiresAt is the absolute expiry time of the entry.
	ExpiresAt time.Time

	// ETag is the entity tag of the cached response, if the API returned one.
	ETag string
}

// Expired reports whether the entry is past its expiry time.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Cache is the interface implemented by response cache backends.
type Cache interface {
	// Get retrieves an entry by key. Implementations return an error
	// wrapping ErrCacheKeyNotFound on a miss and ErrCacheEntryExpired
	// when the entry exists but is stale.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores an entry under key, replacing any existing entry.
	Set(ctx context.Context, key string, entry *CacheEntry) error

	// Delete removes an entry by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Has reports whether a live (non-expired) entry exists for key.
	Has(ctx context.Context, key string) bool
}

// CacheOptions are common options applied to any cache backend.
type CacheOptions struct {
	// TTL is the entry lifetime used when a caller does not pick one.
	TTL time.Duration

	// MaxSize is the maximum number of entries a bounded backend holds.
	MaxSize int

	// EnableETags stores entity tags alongside entries so conditional
	// requests can be issued.
	EnableETags bool
}

// DefaultCacheOptions returns default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:         constants.DefaultCacheTTL,
		MaxSize:     constants.DefaultCacheSize,
		EnableETags: true,
	}
}

// MemoryCache is an in-process cache with a bounded entry count.
// When full, the oldest entry is evicted to make room.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	order   []string
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Get retrieves an entry by key.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired() {
		_ = c.Delete(ctx, key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry under key, evicting the oldest entry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		if len(c.entries) >= c.maxSize {
			c.evictOldest()
		}

		c.order = append(c.order, key)
	}

	c.entries[key] = entry

	return nil
}

// evictOldest removes the oldest entry. Caller must hold c.mu.
func (c *MemoryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}

	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

// Delete removes an entry by key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return nil
	}

	delete(c.entries, key)

	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)

			break
		}
	}

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)
	c.order = c.order[:0]

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	return ok && !entry.Expired()
}

// Cleanup removes all expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if !entry.Expired() {
			continue
		}

		delete(c.entries, key)

		for i, k := range c.order {
			if k == key {
				c.order = append(c.order[:i], c.order[i+1:]...)

				break
			}
		}
	}
}

// Size returns the number of entries currently held, expired or not.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Name identifies the backend in metrics.
func (c *MemoryCache) Name() string {
	return string(CacheTypeMemory)
}

// CacheStats tracks cache effectiveness counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Sets    int64
	Deletes int64
	Errors  int64
}

// GetHitRate returns the hit ratio in [0, 1].
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CachingPolicy decides which requests are cacheable.
type CachingPolicy struct {
	// CacheGET enables caching of GET responses.
	CacheGET bool

	// CachePOST enables caching of POST responses. Off by default:
	// directory writes are not idempotent.
	CachePOST bool

	// CacheErrors enables caching of non-2xx responses.
	CacheErrors bool

	// IncludePaths restricts caching to paths containing any of these
	// substrings. Empty means all paths are eligible.
	IncludePaths []string

	// ExcludePaths disables caching for paths containing any of these
	// substrings. Takes precedence over IncludePaths.
	ExcludePaths []string

	// DefaultTTL is the entry lifetime when the caller does not pick one.
	DefaultTTL time.Duration
}

// DefaultCachingPolicy caches successful GET responses only. Batch
// calls are excluded because a batch multiplexes arbitrary inner
// requests under one URL.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET:     true,
		CachePOST:    false,
		CacheErrors:  false,
		ExcludePaths: []string{constants.BatchEndpoint},
		DefaultTTL:   constants.DefaultCacheTTL,
	}
}

// ShouldCache reports whether a response for method+path with the
// given status code is cacheable under this policy.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	switch method {
	case "GET":
		if !p.CacheGET {
			return false
		}
	case "POST":
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if !p.CacheErrors && (statusCode < 200 || statusCode >= 300) {
		return false
	}

	for _, excluded := range p.ExcludePaths {
		if strings.Contains(path, excluded) {
			return false
		}
	}

	if len(p.IncludePaths) == 0 {
		return true
	}

	for _, included := range p.IncludePaths {
		if strings.Contains(path, included) {
			return true
		}
	}

	return false
}

// namedCache is implemented by backends that identify themselves in metrics.
type namedCache interface {
	Name() string
}

// CacheManager coordinates a cache backend with a caching policy and
// tracks hit/miss statistics.
type CacheManager struct {
	cache   Cache
	policy  *CachingPolicy
	backend string

	statsMu sync.Mutex
	stats   CacheStats
}

// NewCacheManager creates a cache manager. A nil cache disables all
// operations; a nil policy uses DefaultCachingPolicy.
func NewCacheManager(cache Cache, policy *CachingPolicy) *CacheManager {
	if policy == nil {
		policy = DefaultCachingPolicy()
	}

	backend := "custom"
	if named, ok := cache.(namedCache); ok {
		backend = named.Name()
	}

	return &CacheManager{
		cache:   cache,
		policy:  policy,
		backend: backend,
	}
}

// Policy returns the manager's caching policy.
func (m *CacheManager) Policy() *CachingPolicy {
	return m.policy
}

// GetCacheKey builds a deterministic cache key scoped to a tenant.
// Query parameters are sorted so equivalent requests share a key.
func (m *CacheManager) GetCacheKey(tenantID, method, path string, params map[string]string) string {
	var builder strings.Builder

	if tenantID != "" {
		builder.WriteString(tenantID)
		builder.WriteString(":")
	}

	builder.WriteString(method)
	builder.WriteString(":")
	builder.WriteString(path)

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for key := range params {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, key+"="+params[key])
		}

		builder.WriteString(":")
		builder.WriteString(strings.Join(pairs, "&"))
	}

	return builder.String()
}

// Get retrieves cached response data by key.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	if m.cache == nil {
		return nil, ErrCacheKeyNotFound
	}

	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.recordMiss()

		return nil, err
	}

	m.recordHit()

	return entry.Data, nil
}

// GetEntry retrieves a full cached entry, including its ETag.
func (m *CacheManager) GetEntry(ctx context.Context, key string) (*CacheEntry, error) {
	if m.cache == nil {
		return nil, ErrCacheKeyNotFound
	}

	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.recordMiss()

		return nil, err
	}

	m.recordHit()

	return entry, nil
}

// Set stores response data under key with the given TTL.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores response data with an entity tag under key.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if m.cache == nil {
		return nil
	}

	if constants.MaxCacheValueSize > 0 && len(data) > constants.MaxCacheValueSize {
		return fmt.Errorf("%w: %d bytes", ErrCacheEntryTooLarge, len(data))
	}

	if ttl <= 0 {
		ttl = m.policy.DefaultTTL
	}

	entry := &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
		ETag:      etag,
	}

	err := m.cache.Set(ctx, key, entry)
	if err != nil {
		m.recordError("set")

		return fmt.Errorf("failed to cache response: %w", err)
	}

	m.statsMu.Lock()
	m.stats.Sets++
	m.statsMu.Unlock()

	return nil
}

// Delete removes cached response data by key.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	if m.cache == nil {
		return nil
	}

	err := m.cache.Delete(ctx, key)
	if err != nil {
		m.recordError("delete")

		return fmt.Errorf("failed to delete cached response: %w", err)
	}

	m.statsMu.Lock()
	m.stats.Deletes++
	m.statsMu.Unlock()

	return nil
}

// Clear removes all cached response data.
func (m *CacheManager) Clear(ctx context.Context) error {
	if m.cache == nil {
		return nil
	}

	err := m.cache.Clear(ctx)
	if err != nil {
		m.recordError("clear")

		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return nil
}

// GetStats returns a snapshot of the manager's counters.
func (m *CacheManager) GetStats() CacheStats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()

	return m.stats
}

func (m *CacheManager) recordHit() {
	m.statsMu.Lock()
	m.stats.Hits++
	m.statsMu.Unlock()

	cacheHitsTotal.WithLabelValues(m.backend).Inc()
}

func (m *CacheManager) recordMiss() {
	m.statsMu.Lock()
	m.stats.Misses++
	m.statsMu.Unlock()

	cacheMissesTotal.WithLabelValues(m.backend).Inc()
}

func (m *CacheManager) recordError(operation string) {
	m.statsMu.Lock()
	m.stats.Errors++
	m.statsMu.Unlock()

	cacheErrorsTotal.WithLabelValues(m.backend, operation).Inc()
}
