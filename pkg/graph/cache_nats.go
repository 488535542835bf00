package graph

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSKVConfig configures the NATS JetStream key-value cache backend.
type NATSKVConfig struct {
	// URLs are the NATS server URLs. Empty uses nats.DefaultURL.
	URLs []string

	// Bucket is the KV bucket name. Empty uses "graph-response-cache".
	Bucket string

	// CredsFile is an optional credentials file for authentication.
	CredsFile string

	// Username and Password are optional basic credentials.
	Username string
	Password string

	// TTL is the bucket-level entry lifetime. Zero keeps entries until
	// they expire by their own ExpiresAt.
	TTL time.Duration
}

// NATSKVCache stores cache entries in a NATS JetStream KV bucket so
// they can be shared across processes.
type NATSKVCache struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

// NewNATSKVCache connects to NATS and binds the configured KV bucket,
// creating it when missing.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	url := nats.DefaultURL
	if len(config.URLs) > 0 {
		url = strings.Join(config.URLs, ",")
	}

	opts := make([]nats.Option, 0, 2)
	if config.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(config.CredsFile))
	}

	if config.Username != "" {
		opts = append(opts, nats.UserInfo(config.Username, config.Password))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = "graph-response-cache"
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket: bucket,
			TTL:    config.TTL,
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("failed to bind KV bucket %s: %w", bucket, err)
	}

	return &NATSKVCache{
		conn: conn,
		kv:   kv,
	}, nil
}

// kvKey hashes the logical key. NATS KV keys allow only a restricted
// character set, which cache keys (colons, slashes, query strings) violate.
func kvKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

// Get retrieves an entry by key.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(kvKey(key))
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
		}

		return nil, fmt.Errorf("failed to read KV entry: %w", err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kvEntry.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	if entry.Expired() {
		_ = c.Delete(ctx, key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry under key.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	_, err = c.kv.Put(kvKey(key), data)
	if err != nil {
		return fmt.Errorf("failed to write KV entry: %w", err)
	}

	return nil
}

// Delete removes an entry by key.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Purge(kvKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("failed to purge KV entry: %w", err)
	}

	return nil
}

// Clear removes all entries from the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.kv.Keys()
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return nil
		}

		return fmt.Errorf("failed to list KV keys: %w", err)
	}

	for _, key := range keys {
		err = c.kv.Purge(key)
		if err != nil {
			return fmt.Errorf("failed to purge KV entry: %w", err)
		}
	}

	return nil
}

// Has reports whether a live entry exists for key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	entry, err := c.Get(ctx, key)

	return err == nil && entry != nil
}

// Close drains the NATS connection.
func (c *NATSKVCache) Close() error {
	if c.conn == nil {
		return nil
	}

	c.conn.Close()

	return nil
}

// Name identifies the backend in metrics.
func (c *NATSKVCache) Name() string {
	return string(CacheTypeNATS)
}
