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

import "webcore/internal/webserver/bytechain"

// Request is the inbound HTTP message as seen by hooks: method, URL
// parts, and headers. It is a read-only view — modules that need to
// react to headers read them here; only Response is mutable.
type Request struct {
	Method  string
	Path    string
	Query   string
	Headers map[string][]string
}

// Response is the mutable response builder hooks may populate. Headers
// append (spec.md §8 "priority ordering" scenario: two modules append
// to the same header name). Ended records that a hook has produced a
// full response (status + body); the handler itself skips the static
// pipeline on a Break result, not on Ended.
type Response struct {
	Status  int
	Headers map[string][]string
	Body    bytechain.Chain
	Ended   bool
}

// AddHeader appends a value to name, preserving any prior values.
func (r *Response) AddHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string][]string)
	}
	r.Headers[name] = append(r.Headers[name], value)
}

// SetStatus sets the response status code.
func (r *Response) SetStatus(code int) { r.Status = code }

// WriteBody appends b to the response body chain.
func (r *Response) WriteBody(b []byte) {
	r.Body = r.Body.Append(b)
}

// End marks the response as fully produced by a hook. Only the hook's
// Break result stops the static-file pipeline (spec.md §4.5).
func (r *Response) End() { r.Ended = true }

// Context is the shared, single-owner envelope passed to every hook for
// one request. Its lifetime is strictly bounded by the owning handler;
// no hook may retain a reference to it past its own return.
type Context struct {
	DocumentRoot string
	FilePath     string
	FilePathHash uint64

	Request     Request
	RequestBody bytechain.Chain

	Response *Response
}

// NewContext builds a Context with an initialized Response builder.
func NewContext() *Context {
	return &Context{Response: &Response{}}
}
