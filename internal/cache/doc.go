// Package cache provides a generic least-recently-used cache.
//
// [Cache] holds at most a fixed number of entries. Adding an entry to a
// full cache evicts the least recently used one and hands it to the
// eviction callback, which is how GPU-resident values get released:
//
//	c := cache.New[uint64, *gpu.Texture](64, func(_ uint64, t *gpu.Texture) {
//		t.Release()
//	})
//	c.Set(id, tex)
//	tex, ok := c.Get(id)
//
// # Thread Safety
//
// Cache is safe for concurrent use. It must not be copied after creation
// (it contains a mutex). The eviction callback runs with the cache lock
// held and must not call back into the cache.
package cache
