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

// Package transport declares the contract this server assumes of the
// external HTTP library (spec.md §6). HTTP/1.1 and HTTP/2 (h2c)
// framing, TLS termination, socket accept/close, and event-loop
// scheduling are black boxes behind these interfaces; cmd/webcored
// supplies a concrete implementation backed by net/http.
package transport

// HTTPMessage is the inbound request as delivered by the external
// library: method, URL parts, and headers.
type HTTPMessage interface {
	Method() string
	URL() string
	Path() string
	Query() string
	Headers() map[string][]string
}

// Downstream is the response-builder handle the external library
// hands the handler for one connection. Calls are only ever made from
// the I/O thread that owns the connection.
type Downstream interface {
	Status(code int, reason string)
	Header(name, value string)
	Send()             // flush status + headers
	Body(chunk []byte) // append a body chunk
	SendWithEOM()       // flush remaining body and terminate the message
	SendAbort()         // abort the response mid-stream
}

// EventBase lets a background goroutine (e.g. the CPU executor running
// a file-read loop) post a closure back onto the I/O thread that owns
// a connection. Closures posted from the same background job execute
// in posting order (spec.md §5).
type EventBase interface {
	RunInEventBaseThread(fn func())
}
