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

// Package module implements the request-processing module system: a
// fixed-capacity registry of pluggable components, dispatched in
// priority order at three hook stages, sharing one mutable request
// context. Modules are registered once at process startup (by calling
// Registry.Register from an init() or from main) and are never
// unloaded; this mirrors the spec's link-time registration model
// without requiring Go plugin support.
package module

import (
	"sync/atomic"
)

// Stage names a point in the request lifecycle at which hooks run.
type Stage int

const (
	// PreRequest runs after path resolution, before any response work.
	PreRequest Stage = iota
	// PreResponse runs after the request body is fully received.
	PreResponse
	// PostResponse runs after the response has been sent; it cannot
	// alter the wire result.
	PostResponse

	numStages = 3
)

func (s Stage) String() string {
	switch s {
	case PreRequest:
		return "PRE_REQUEST"
	case PreResponse:
		return "PRE_RESPONSE"
	case PostResponse:
		return "POST_RESPONSE"
	default:
		return "UNKNOWN_STAGE"
	}
}

// Result is what a hook returns to tell the dispatcher whether to keep
// going.
type Result int

const (
	// Continue lets the dispatcher invoke the next hook in the stage.
	Continue Result = iota
	// Break stops dispatch for this stage immediately.
	Break
)

// HookFunc is one module's callback for a single stage.
type HookFunc func(ctx *Context) Result

// Module is one pluggable request-processing component. The zero value
// is not meaningful; build with NewModule and then set whichever hooks
// the module implements. A Module built as a literal starts disabled.
type Module struct {
	Name     string
	Version  string
	Priority uint32 // lower runs earlier

	PreRequestHook  HookFunc
	PreResponseHook HookFunc
	PostResponseHook HookFunc

	Init    func() error
	Cleanup func()

	enabled atomic.Bool
}

// NewModule constructs a Module already enabled.
func NewModule(name string, priority uint32) *Module {
	m := &Module{Name: name, Priority: priority}
	m.enabled.Store(true)
	return m
}

// Enabled reports whether the module currently participates in dispatch.
func (m *Module) Enabled() bool { return m.enabled.Load() }

// SetEnabled flips the module's participation. Safe to call concurrently
// with dispatch: a disabled module is simply skipped by the next hook
// check, with no need to rebuild the per-stage execution arrays.
func (m *Module) SetEnabled(v bool) { m.enabled.Store(v) }

func (m *Module) hookFor(stage Stage) HookFunc {
	switch stage {
	case PreRequest:
		return m.PreRequestHook
	case PreResponse:
		return m.PreResponseHook
	case PostResponse:
		return m.PostResponseHook
	default:
		return nil
	}
}
