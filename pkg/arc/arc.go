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

// Package arc implements a bounded Adaptive Replacement Cache: two
// resident lists (T1 recency, T2 frequency) and two ghost lists (B1, B2)
// of recently evicted keys, with a target split p that adapts to the
// observed workload. The cache never fails a put/get/remove; it is
// intended to sit behind a reader-writer lock, or — preferably — as a
// per-worker instance with no locking at all.
package arc

import "container/list"

type residency int

const (
	residentT1 residency = iota
	residentT2
	ghostB1
	ghostB2
)

type entry[K comparable, V any] struct {
	key   K
	value V
	where residency
}

// Stats is a point-in-time snapshot of cache activity counters.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Promotions uint64
	Evictions  uint64
}

// Cache is a bounded ARC cache, generic over key and value.
// A zero Cache is not usable; construct with New.
type Cache[K comparable, V any] struct {
	maxSize int
	p       int // target size of T1

	t1 *list.List
	t2 *list.List
	b1 *list.List
	b2 *list.List

	index map[K]*list.Element

	stats Stats
}

// New constructs a Cache bounded to maxSize resident entries (T1+T2) and
// maxSize ghost entries per ghost list (B1, B2 each up to maxSize).
func New[K comparable, V any](maxSize int) *Cache[K, V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Cache[K, V]{
		maxSize: maxSize,
		t1:      list.New(),
		t2:      list.New(),
		b1:      list.New(),
		b2:      list.New(),
		index:   make(map[K]*list.Element, maxSize*2),
	}
}

// Len returns the number of resident entries (T1+T2).
func (c *Cache[K, V]) Len() int {
	return c.t1.Len() + c.t2.Len()
}

// P returns the current target split point between T1 and T2.
func (c *Cache[K, V]) P() int {
	return c.p
}

// Stats returns a snapshot of the cache's hit/miss/promotion counters.
func (c *Cache[K, V]) Stats() Stats {
	return c.stats
}

// Get looks up k, promoting T1 entries to T2 and refreshing T2 recency
// on hit. A hit in a ghost list counts as a miss (no value to return).
func (c *Cache[K, V]) Get(k K) (V, bool) {
	return c.get(k, true)
}

// Peek behaves like Get but never mutates list ordering, ghost state, or
// the hit/miss counters.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	return c.get(k, false)
}

func (c *Cache[K, V]) get(k K, mutate bool) (V, bool) {
	el, ok := c.index[k]
	if !ok {
		if mutate {
			c.stats.Misses++
		}
		var zero V
		return zero, false
	}
	ent := el.Value.(*entry[K, V])
	switch ent.where {
	case residentT1:
		if mutate {
			c.stats.Hits++
			c.t1.Remove(el)
			ent.where = residentT2
			c.index[k] = c.t2.PushFront(ent)
			c.stats.Promotions++
		}
		return ent.value, true
	case residentT2:
		if mutate {
			c.stats.Hits++
			c.t2.MoveToFront(el)
		}
		return ent.value, true
	default: // ghostB1, ghostB2
		if mutate {
			c.stats.Misses++
		}
		var zero V
		return zero, false
	}
}

// Put inserts or updates k with value v, following the ARC adaptation
// rules: a hit in B1 grows p (favor recency), a hit in B2 shrinks p
// (favor frequency); a miss in every list inserts fresh into T1.
func (c *Cache[K, V]) Put(k K, v V) {
	if el, ok := c.index[k]; ok {
		ent := el.Value.(*entry[K, V])
		switch ent.where {
		case residentT1:
			c.t1.Remove(el)
			ent.value = v
			ent.where = residentT2
			c.index[k] = c.t2.PushFront(ent)
			c.replace(k)
			return
		case residentT2:
			ent.value = v
			c.t2.MoveToFront(el)
			return
		case ghostB1:
			b1Len, b2Len := c.b1.Len(), c.b2.Len()
			delta := 1
			if b1Len > 0 {
				delta = max(1, b2Len/b1Len)
			}
			c.p = min(c.maxSize, c.p+delta)
			c.b1.Remove(el)
			delete(c.index, k)
			c.insertFreshT2(k, v)
			c.replace(k)
			return
		case ghostB2:
			b1Len, b2Len := c.b1.Len(), c.b2.Len()
			delta := 1
			if b2Len > 0 {
				delta = max(1, b1Len/b2Len)
			}
			c.p = max(0, c.p-delta)
			c.b2.Remove(el)
			delete(c.index, k)
			c.insertFreshT2(k, v)
			c.replace(k)
			return
		}
	}

	// Brand new key: insert at the front of T1.
	ent := &entry[K, V]{key: k, value: v, where: residentT1}
	c.index[k] = c.t1.PushFront(ent)
	c.replace(k)
}

func (c *Cache[K, V]) insertFreshT2(k K, v V) {
	ent := &entry[K, V]{key: k, value: v, where: residentT2}
	c.index[k] = c.t2.PushFront(ent)
}

// Remove erases k from whichever list currently hosts it (resident or
// ghost). A no-op if k is not present.
func (c *Cache[K, V]) Remove(k K) {
	el, ok := c.index[k]
	if !ok {
		return
	}
	ent := el.Value.(*entry[K, V])
	switch ent.where {
	case residentT1:
		c.t1.Remove(el)
	case residentT2:
		c.t2.Remove(el)
	case ghostB1:
		c.b1.Remove(el)
	case ghostB2:
		c.b2.Remove(el)
	}
	delete(c.index, k)
}

// replace rebalances the resident lists and trims ghost lists to
// maxSize, per spec.md §4.1. newKey is excluded from eviction
// consideration since it was just inserted/promoted by the caller.
func (c *Cache[K, V]) replace(newKey K) {
	if c.t1.Len()+c.t2.Len() > c.maxSize {
		fromT1 := c.t1.Len() > 0 && (c.t1.Len() > c.p || c.t2.Len() == 0)
		// If the chosen list holds only newKey, evict from the other one.
		if fromT1 && c.t1.Len() == 1 && c.t1.Back().Value.(*entry[K, V]).key == newKey {
			fromT1 = false
		} else if !fromT1 && c.t2.Len() == 1 && c.t2.Back().Value.(*entry[K, V]).key == newKey {
			fromT1 = true
		}
		if fromT1 {
			c.evictLRU(c.t1, &c.b1, newKey)
		} else {
			c.evictLRU(c.t2, &c.b2, newKey)
		}
	}

	for c.b1.Len() > c.maxSize {
		c.dropGhostLRU(c.b1)
	}
	for c.b2.Len() > c.maxSize {
		c.dropGhostLRU(c.b2)
	}
}

// evictLRU moves the LRU element of `from` into the front of the
// corresponding ghost list, skipping newKey (which must never be
// evicted in the same step it was inserted).
func (c *Cache[K, V]) evictLRU(from *list.List, ghost **list.List, newKey K) {
	el := from.Back()
	if el == nil {
		return
	}
	ent := el.Value.(*entry[K, V])
	if ent.key == newKey && from.Len() == 1 {
		return
	}
	from.Remove(el)
	c.stats.Evictions++
	if from == c.t1 {
		ent.where = ghostB1
	} else {
		ent.where = ghostB2
	}
	c.index[ent.key] = (*ghost).PushFront(ent)
}

func (c *Cache[K, V]) dropGhostLRU(ghost *list.List) {
	el := ghost.Back()
	if el == nil {
		return
	}
	ent := el.Value.(*entry[K, V])
	ghost.Remove(el)
	delete(c.index, ent.key)
}
