package texcache

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/metrics"
)

// storeTimeout bounds a single persistent-store operation so a dead backend
// degrades the cache to memory-only instead of stalling the render loop.
const storeTimeout = 2 * time.Second

// Cache is the single entry point for texture lookup and synthesis. It is
// owned by the render loop and is not safe for concurrent use; external
// events (file watcher, janitor) reach it through the command queue.
type Cache struct {
	log   zerolog.Logger
	store Store // nil means memory-only
	mem   map[string]*image.NRGBA
}

func New(store Store, log zerolog.Logger) *Cache {
	return &Cache{
		log:   log.With().Str("component", "texcache").Logger(),
		store: store,
		mem:   make(map[string]*image.NRGBA),
	}
}

// GetOrCreate returns the texture for key, synthesizing it with factory on a
// miss. Hits come from the memory map first, then the persistent store;
// creations are written through. Store failures of any kind downgrade to a
// miss.
func (c *Cache) GetOrCreate(key Key, factory func() (*image.NRGBA, error)) (*image.NRGBA, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("texcache: invalid key %+v", key)
	}
	id := key.ID()

	if img, ok := c.mem[id]; ok {
		metrics.TextureCacheHits.WithLabelValues("memory").Inc()
		return img, nil
	}

	if c.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		img, err := c.store.Load(ctx, id)
		cancel()
		switch {
		case err == nil:
			metrics.TextureCacheHits.WithLabelValues("store").Inc()
			c.mem[id] = img
			return img, nil
		case err != ErrNotFound:
			metrics.TextureStoreErrors.Inc()
			c.log.Warn().Str("id", id).Err(err).Msg("texture store load failed, regenerating")
		}
	}

	metrics.TextureCacheMisses.Inc()
	img, err := factory()
	if err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", id, err)
	}
	if img == nil {
		return nil, fmt.Errorf("synthesize %s: factory returned nil", id)
	}
	c.mem[id] = img

	if c.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		err := c.store.Save(ctx, id, img)
		cancel()
		if err != nil {
			metrics.TextureStoreErrors.Inc()
			c.log.Warn().Str("id", id).Err(err).Msg("texture store save failed")
		}
	}
	return img, nil
}

// Invalidate evicts one memory entry, reporting whether it was present. The
// next GetOrCreate re-reads the store or regenerates.
func (c *Cache) Invalidate(id string) bool {
	if _, ok := c.mem[id]; !ok {
		return false
	}
	delete(c.mem, id)
	c.log.Debug().Str("id", id).Msg("texture invalidated")
	return true
}

// InvalidateAll empties the memory layer.
func (c *Cache) InvalidateAll() {
	c.mem = make(map[string]*image.NRGBA)
}

// Len counts entries in the memory layer.
func (c *Cache) Len() int {
	return len(c.mem)
}

func (c *Cache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
