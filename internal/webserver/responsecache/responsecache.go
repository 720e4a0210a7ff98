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

// Package responsecache implements the small rendered-response cache:
// full bodies of successfully streamed static files, keyed by the hash
// of their resolved filesystem path. Recommended (spec.md §5) to be
// thread-local per worker to eliminate contention; duplication across
// workers is acceptable since entries are small and idempotent.
package responsecache

import (
	"webcore/internal/webserver/bytechain"
	"webcore/pkg/arc"
)

// Entry is a cached rendered response: its content type and immutable
// body chain.
type Entry struct {
	ContentType string
	Body        bytechain.Chain
}

// Cache wraps an ARC cache keyed by the 64-bit hash of a resolved
// filesystem path. A present entry means the underlying file was fully
// read at least once; entries can be evicted at any time.
type Cache struct {
	arc *arc.Cache[uint64, Entry]
}

// New constructs a response cache bounded to maxSize entries.
func New(maxSize int) *Cache {
	return &Cache{arc: arc.New[uint64, Entry](maxSize)}
}

// Get returns the cached entry for pathHash, if present.
func (c *Cache) Get(pathHash uint64) (Entry, bool) {
	return c.arc.Get(pathHash)
}

// Put inserts entry for pathHash. Only called after a complete,
// error-free EOF assembly of a GET response (spec.md §4.6's cache-write
// policy: partial bodies are never cached).
func (c *Cache) Put(pathHash uint64, entry Entry) {
	c.arc.Put(pathHash, entry)
}

// Len reports the number of resident cache entries.
func (c *Cache) Len() int { return c.arc.Len() }
