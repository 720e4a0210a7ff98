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

// Package echoheader is a sample module implementing the module ABI. It
// appends an X-Order header during PRE_REQUEST — demonstrating the
// append semantics two independently-priority modules rely on — and can
// optionally short-circuit PRE_RESPONSE for a configured path, standing
// in for a "dynamic URL" module per spec.md §1.
package echoheader

import "webcore/internal/webserver/module"

// New builds a module named name at priority that writes value into the
// X-Order header during PRE_REQUEST.
func New(name string, priority uint32, value string) *module.Module {
	m := module.NewModule(name, priority)
	m.PreRequestHook = func(ctx *module.Context) module.Result {
		ctx.Response.AddHeader("X-Order", value)
		return module.Continue
	}
	return m
}

// NewShortCircuit builds a module that, for requests to matchPath, fully
// produces a response in PRE_RESPONSE and returns BREAK — the static
// pipeline never runs for that path.
func NewShortCircuit(name string, priority uint32, matchPath string, status int, body string) *module.Module {
	m := module.NewModule(name, priority)
	m.PreResponseHook = func(ctx *module.Context) module.Result {
		if ctx.Request.Path != matchPath {
			return module.Continue
		}
		ctx.Response.SetStatus(status)
		ctx.Response.WriteBody([]byte(body))
		ctx.Response.End()
		return module.Break
	}
	return m
}
