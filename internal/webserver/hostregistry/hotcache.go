// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hostregistry

import (
	"sync"
	"sync/atomic"
	"time"

	"webcore/pkg/arc"
)

// HotCache is a bounded, single-goroutine cache private to one I/O
// worker. It shields the authoritative Registry from contention: a miss
// here falls through to the Registry under its reader-writer lock, and
// the result is stashed locally for next time. Duplication of the same
// entry across workers is expected and harmless (spec.md §5).
type HotCache struct {
	registry *Registry

	hosts *arc.Cache[string, HostConfig]
	meta  *arc.Cache[string, FileMetadata]

	// lastAccess tracks the most recent touch per key (UnixNano), read by
	// the background reconciliation worker to prune stale entries. Keyed
	// by the same string used in hosts/meta, prefixed to disambiguate.
	lastAccess sync.Map
}

// NewHotCache constructs a per-worker hot cache bounded to size entries
// for hosts and size entries for metadata.
func NewHotCache(registry *Registry, size int) *HotCache {
	return &HotCache{
		registry: registry,
		hosts:    arc.New[string, HostConfig](size),
		meta:     arc.New[string, FileMetadata](size),
	}
}

// LookupHost serves from the hot cache, falling through to the
// authoritative registry (and populating the hot cache) on miss.
func (h *HotCache) LookupHost(hostname string, port int) (HostConfig, bool) {
	key := "host:" + CanonicalKey(hostname, port)
	if cfg, ok := h.hosts.Get(CanonicalKey(hostname, port)); ok {
		h.touch(key)
		return cfg, true
	}
	cfg, ok := h.registry.LookupHost(hostname, port)
	if !ok {
		return HostConfig{}, false
	}
	h.hosts.Put(CanonicalKey(hostname, port), cfg)
	h.touch(key)
	return cfg, true
}

// LookupMetadata serves from the hot cache, falling through on miss.
func (h *HotCache) LookupMetadata(path string) (FileMetadata, bool) {
	key := "meta:" + path
	if m, ok := h.meta.Get(path); ok {
		h.touch(key)
		return m, true
	}
	m, ok := h.registry.LookupMetadata(path)
	if !ok {
		return FileMetadata{}, false
	}
	h.meta.Put(path, m)
	h.touch(key)
	return m, true
}

// LookupRedirect is not hot-cached locally: the authoritative
// directory-redirect map is already an O(1) lock-guarded lookup and
// redirect misses are rare relative to file serves, so duplicating it
// per worker buys little.
func (h *HotCache) LookupRedirect(dirPath string) (string, bool) {
	return h.registry.LookupRedirect(dirPath)
}

func (h *HotCache) touch(key string) {
	v := new(int64)
	*v = time.Now().UnixNano()
	h.lastAccess.Store(key, v)
}

// PruneStale drops host/metadata entries that have not been touched
// within maxAge. Intended to be called periodically by a Worker
// (worker.go), mirroring the teacher's eviction-loop shape.
func (h *HotCache) PruneStale(maxAge time.Duration) (pruned int) {
	cutoff := time.Now().Add(-maxAge).UnixNano()
	h.lastAccess.Range(func(k, v any) bool {
		last := atomic.LoadInt64(v.(*int64))
		if last >= cutoff {
			return true
		}
		key := k.(string)
		switch {
		case len(key) > 5 && key[:5] == "host:":
			h.hosts.Remove(stripPrefix(key, 5))
		case len(key) > 5 && key[:5] == "meta:":
			h.meta.Remove(stripPrefix(key, 5))
		}
		h.lastAccess.Delete(k)
		pruned++
		return true
	})
	return pruned
}

func stripPrefix(s string, n int) string { return s[n:] }
