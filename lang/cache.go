package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/bexl/log"
)

// DefaultCacheLimit is the number of sources a [Cache] holds unless
// [Cache.SetLimit] says otherwise.
const DefaultCacheLimit = 4096

// Cache memoizes syntax trees by source text. Trees are immutable, so a
// cached tree may be evaluated concurrently. A full cache is emptied
// before the next source is stored. The zero Cache is ready to use.
type Cache struct {
	entries sync.Map // xxh3 hash of source -> *state
	hash    func(string) uint64
	logger  log.Logger
	size    atomic.Int64
	limit   atomic.Int64
}

// state tracks the parse of one source text.
type state struct {
	root   Node
	err    error
	source string
	once   sync.Once
}

// NewCache returns an empty cache that traces lookups to logger.
func NewCache(logger log.Logger) *Cache {
	return &Cache{logger: logger}
}

// defaultCache is shared by evaluations that do not supply a cache.
var defaultCache Cache

// SetLimit sets the number of sources c holds. Zero or less restores
// [DefaultCacheLimit].
func (c *Cache) SetLimit(n int) { c.limit.Store(int64(n)) }

func (c *Cache) max() int64 {
	if n := c.limit.Load(); n > 0 {
		return n
	}

	return DefaultCacheLimit
}

func (c *Cache) sourceKey(source string) uint64 {
	if c.hash != nil {
		return c.hash(source)
	}

	return xxh3.HashString(source)
}

// Parse returns the syntax tree of source, parsing it on first request.
// Parse errors are cached as well. A source whose hash collides with a
// different cached source is parsed without caching.
func (c *Cache) Parse(ctx context.Context, source string) (Node, error) {
	key := c.sourceKey(source)

	if c.size.Load() >= c.max() {
		if _, ok := c.entries.Load(key); !ok {
			c.logger.DebugContext(ctx, "cache full",
				slog.Int64("entries", c.size.Load()),
			)
			c.Clear()
		}
	}

	value, hit := c.entries.LoadOrStore(key, &state{source: source})

	entry, ok := value.(*state)
	if !ok {
		return Parse(source)
	}

	if !hit {
		c.size.Add(1)
	}

	collision := hit && entry.source != source

	c.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_key", strconv.FormatUint(key, 36)),
		slog.Bool("cache_hit", hit && !collision),
	)

	if collision {
		return Parse(source)
	}

	entry.once.Do(func() {
		entry.root, entry.err = Parse(source)
	})

	return entry.root, entry.err
}

// Len returns the number of cached sources.
func (c *Cache) Len() int { return int(c.size.Load()) }

// Clear removes every cached tree.
func (c *Cache) Clear() {
	c.entries.Clear()
	c.size.Store(0)
}

// ClearCache removes every tree cached by evaluations that did not supply
// their own [Cache].
func ClearCache() { defaultCache.Clear() }
