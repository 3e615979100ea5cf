// Copyright 2026 The autometa Authors
// This file is part of the autometa library.
//
// The autometa library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The autometa library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the autometa library. If not, see <http://www.gnu.org/licenses/>.

package price

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// localCacheTTL is the process-local cache TTL from spec §3 ("15s
// local"). An entry whose age equals the TTL exactly is treated as
// stale, per the boundary behavior in spec §8.
const localCacheTTL = 15 * time.Second

// localCacheSize bounds the LRU so a long-running scheduler scanning
// many distinct tokens can't grow the cache without bound.
const localCacheSize = 256

// Entry is a process-local price cache entry (spec §3's PriceCacheEntry).
type Entry struct {
	Price     float64
	Timestamp time.Time // wall-clock; monotonic comparisons via time.Since
	Source    string
}

// localCache wraps an LRU cache with TTL-on-read semantics: entries are
// never proactively evicted by age, only checked for staleness at lookup
// time, matching the three-tier adapter's "local cache hit" step.
type localCache struct {
	lru *lru.Cache
}

func newLocalCache() *localCache {
	c, _ := lru.New(localCacheSize)
	return &localCache{lru: c}
}

// get returns the cached entry for key if present and younger than the
// TTL; otherwise ok is false.
func (c *localCache) get(key string) (Entry, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return Entry{}, false
	}
	entry := v.(Entry)
	if time.Since(entry.Timestamp) >= localCacheTTL {
		return Entry{}, false
	}
	return entry, true
}

func (c *localCache) set(key string, entry Entry) {
	c.lru.Add(key, entry)
}
