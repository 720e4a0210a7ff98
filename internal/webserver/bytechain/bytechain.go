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

// Package bytechain implements the response body representation used
// throughout the request path: an immutable, shareable sequence of byte
// buffers (a rope). Consumers clone the handle — a cheap slice-header
// copy of shared, never-mutated segments — rather than copying bytes.
package bytechain

// Chain is an immutable sequence of byte segments. The zero Chain is a
// valid, empty chain. Chains are safe to share across goroutines: once
// appended, a segment is never mutated, only referenced.
type Chain struct {
	segments [][]byte
	size     int
}

// Append returns a new Chain with b appended as a fresh segment. The
// receiver is left untouched; b is not copied, only referenced, so
// callers must not mutate b after passing it in.
func (c Chain) Append(b []byte) Chain {
	if len(b) == 0 {
		return c
	}
	segs := make([][]byte, len(c.segments)+1)
	copy(segs, c.segments)
	segs[len(c.segments)] = b
	return Chain{segments: segs, size: c.size + len(b)}
}

// Len returns the total number of bytes across all segments.
func (c Chain) Len() int { return c.size }

// Empty reports whether the chain carries zero bytes.
func (c Chain) Empty() bool { return c.size == 0 }

// Segments returns the underlying segment slice. Callers must treat the
// returned slices as read-only.
func (c Chain) Segments() [][]byte { return c.segments }

// Bytes assembles the chain into a single contiguous buffer. Prefer
// streaming over Segments() on the hot path; Bytes is for callers (tests,
// cache population) that need one buffer.
func (c Chain) Bytes() []byte {
	out := make([]byte, 0, c.size)
	for _, s := range c.segments {
		out = append(out, s...)
	}
	return out
}

// Clone returns a handle sharing the same underlying segments. Because
// Chain is an immutable value type backed by slices the runtime already
// reference-counts via garbage collection, Clone is just a value copy —
// there is no manual refcount to bump.
func (c Chain) Clone() Chain { return c }

// FromBytes builds a single-segment chain from b without copying.
func FromBytes(b []byte) Chain {
	if len(b) == 0 {
		return Chain{}
	}
	return Chain{segments: [][]byte{b}, size: len(b)}
}
