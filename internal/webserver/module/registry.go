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

package module

import (
	"fmt"
	"log"
)

// DefaultCapacity is the default fixed module-table capacity (spec.md
// §4.4's "e.g. 32").
const DefaultCapacity = 32

// Registry holds the fixed set of registered modules and, once
// Initialize has run, the priority-sorted per-stage execution arrays.
// The module table and execution arrays are mutated only during
// Initialize/Cleanup; Dispatch is lock-free thereafter.
type Registry struct {
	capacity int
	modules  []*Module

	byStage [numStages][]*Module
}

// NewRegistry constructs an empty registry with the given capacity.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{capacity: capacity}
}

// Register adds m to the table. Returns an error if the table is full.
// Must be called before Initialize.
func (r *Registry) Register(m *Module) error {
	if len(r.modules) >= r.capacity {
		return fmt.Errorf("module: registry at capacity %d, cannot register %q", r.capacity, m.Name)
	}
	r.modules = append(r.modules, m)
	return nil
}

// Lookup returns the registered module named name, if any.
func (r *Registry) Lookup(name string) (*Module, bool) {
	for _, m := range r.modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Initialize calls each module's Init (aborting on the first failure),
// then builds and priority-sorts the per-stage execution arrays. Call
// once at startup, before any request can arrive.
func (r *Registry) Initialize() error {
	for _, m := range r.modules {
		if m.Init == nil {
			continue
		}
		if err := m.Init(); err != nil {
			return fmt.Errorf("module: init %q: %w", m.Name, err)
		}
	}

	for stage := Stage(0); int(stage) < numStages; stage++ {
		var list []*Module
		for _, m := range r.modules {
			if m.hookFor(stage) != nil {
				list = append(list, m)
			}
		}
		insertionSortByPriority(list)
		r.byStage[stage] = list
	}
	return nil
}

// Cleanup calls every registered module's Cleanup, if set.
func (r *Registry) Cleanup() {
	for _, m := range r.modules {
		if m.Cleanup != nil {
			m.Cleanup()
		}
	}
}

// insertionSortByPriority is a stable sort over a small array — spec.md
// §4.4 calls out insertion sort as "sufficient and preferred for small N".
func insertionSortByPriority(list []*Module) {
	for i := 1; i < len(list); i++ {
		cur := list[i]
		j := i - 1
		for j >= 0 && list[j].Priority > cur.Priority {
			list[j+1] = list[j]
			j--
		}
		list[j+1] = cur
	}
}

// Dispatch runs every enabled hook registered for stage, in priority
// order, until one returns Break or the list is exhausted. A hook panic
// is recovered, logged, and treated as Continue (spec.md §7).
func (r *Registry) Dispatch(stage Stage, ctx *Context) Result {
	for _, m := range r.byStage[stage] {
		if !m.Enabled() {
			continue
		}
		hook := m.hookFor(stage)
		if hook == nil {
			continue
		}
		if dispatchOne(m, hook, ctx) == Break {
			return Break
		}
	}
	return Continue
}

func dispatchOne(m *Module, hook HookFunc, ctx *Context) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("module %q panicked in hook: %v", m.Name, rec)
			result = Continue
		}
	}()
	return hook(ctx)
}
