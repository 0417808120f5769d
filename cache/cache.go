package cache

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rzhan16/neuronote-ai/core"
)

// DefaultTTL is how long entries stay valid unless overridden.
const DefaultTTL = time.Hour

// expiryHeaderLen is the size of the big-endian unix-nanosecond expiry
// prefixed to every stored value.
const expiryHeaderLen = 8

// Store is the key-value capability the cache sits on.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. The store may evict it after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// StageCache memoizes stage results. A nil store is valid and always misses.
type StageCache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a StageCache.
type Option func(*StageCache)

// WithTTL sets how long stored entries stay valid.
func WithTTL(ttl time.Duration) Option {
	return func(c *StageCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for hit/miss and failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *StageCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp and check expiry.
func WithClock(now func() time.Time) Option {
	return func(c *StageCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a StageCache over store.
func New(store Store, opts ...Option) *StageCache {
	c := &StageCache{
		store:  store,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "stage-cache")
	return c
}

// Key returns the cache key for stage over the given input parts.
func Key(stage string, parts ...[]byte) string {
	return stage + ":" + core.Fingerprint(stage, parts...)
}

// TTL returns the configured time-to-live.
func (c *StageCache) TTL() time.Duration {
	return c.ttl
}

// Lookup returns the unexpired payload stored under key.
// Store failures are logged and reported as a miss.
func (c *StageCache) Lookup(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache lookup failed, recomputing", "key", key, "err", fmt.Errorf("%w: %w", core.ErrCacheUnavailable, err))
		return nil, false
	}
	if !ok {
		c.logger.Debug("cache miss", "key", key)
		return nil, false
	}

	payload, expires, err := decodeEntry(raw)
	if err != nil {
		c.logger.Warn("discarding cache entry", "key", key, "err", err)
		return nil, false
	}
	if !c.now().Before(expires) {
		c.logger.Debug("cache entry expired", "key", key, "expired", expires)
		return nil, false
	}

	c.logger.Debug("cache hit", "key", key)
	return payload, true
}

// Store saves payload under key for the configured TTL.
// Failures are logged and swallowed.
func (c *StageCache) Store(ctx context.Context, key string, payload []byte) {
	if c == nil || c.store == nil {
		return
	}

	expires := c.now().Add(c.ttl)
	if err := c.store.Set(ctx, key, encodeEntry(payload, expires), c.ttl); err != nil {
		c.logger.Warn("cache store failed", "key", key, "err", fmt.Errorf("%w: %w", core.ErrCacheUnavailable, err))
	}
}

// LookupJSON is Lookup for JSON-encoded payloads. An entry that no longer
// decodes into T is treated as a miss.
func LookupJSON[T any](ctx context.Context, c *StageCache, key string) (T, bool) {
	var v T
	raw, ok := c.Lookup(ctx, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Warn("discarding undecodable cache entry", "key", key, "err", err)
		var zero T
		return zero, false
	}
	return v, true
}

// StoreJSON is Store for JSON-encoded payloads.
func StoreJSON[T any](ctx context.Context, c *StageCache, key string, v T) {
	if c == nil || c.store == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache payload not encodable", "key", key, "err", err)
		return
	}
	c.Store(ctx, key, raw)
}

func encodeEntry(payload []byte, expires time.Time) []byte {
	buf := make([]byte, expiryHeaderLen+len(payload))
	binary.BigEndian.PutUint64(buf, uint64(expires.UnixNano()))
	copy(buf[expiryHeaderLen:], payload)
	return buf
}

func decodeEntry(raw []byte) ([]byte, time.Time, error) {
	if len(raw) < expiryHeaderLen {
		return nil, time.Time{}, ErrCorruptEntry
	}
	expires := time.Unix(0, int64(binary.BigEndian.Uint64(raw)))
	return raw[expiryHeaderLen:], expires, nil
}
