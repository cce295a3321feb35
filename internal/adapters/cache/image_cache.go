package cache

import (
	"countryfx/internal/domain"
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// RistrettoImageCache keeps the bytes of the rendered summary image in memory,
// tagged with the file version they were read from.
// The cost of an entry is its size in bytes.
type RistrettoImageCache struct {
	cache *ristretto.Cache
	key   string
}

func NewImageCache(key string, maxBytes int64) (*RistrettoImageCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create image cache failed: %w", err)
	}
	return &RistrettoImageCache{cache: c, key: key}, nil
}

type imageEntry struct {
	png     []byte
	version domain.ImageVersion
}

func (c *RistrettoImageCache) Get() ([]byte, domain.ImageVersion, bool) {
	if v, ok := c.cache.Get(c.key); ok {
		if e, ok := v.(imageEntry); ok {
			return e.png, e.version, true
		}
	}
	return nil, domain.ImageVersion{}, false
}

func (c *RistrettoImageCache) Set(png []byte, version domain.ImageVersion) {
	c.cache.Set(c.key, imageEntry{png: png, version: version}, int64(len(png)))
}

func (c *RistrettoImageCache) Invalidate() { c.cache.Del(c.key) }

func (c *RistrettoImageCache) Close() { c.cache.Close() }
