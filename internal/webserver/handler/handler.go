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

// Package handler implements the request-path core state machine: it
// resolves a virtual host, resolves the on-disk path through the
// directory-redirect cache, consults the response cache, dispatches
// module hooks, and either replays a cached body or hands off to the
// streaming file reader. One Handler serves exactly one request and is
// discarded afterward; there is no instance reuse.
package handler

import (
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"webcore/internal/webserver/contenttype"
	"webcore/internal/webserver/hostregistry"
	"webcore/internal/webserver/module"
	"webcore/internal/webserver/responsecache"
	"webcore/internal/webserver/stream"
	"webcore/internal/webserver/telemetry"
	"webcore/internal/webserver/transport"
	"webcore/internal/webserver/executor"
	"webcore/pkg/hashutil"
)

// Handler drives one request from onHeaders through completion. All
// methods are expected to be called from the I/O thread that owns the
// connection, in the order the external library guarantees (spec.md §5):
// onHeaders, zero or more onBody, onEOM, then pause/resume pairs, then
// requestComplete or onError.
type Handler struct {
	hotCache  *hostregistry.HotCache
	modules   *module.Registry
	respCache *responsecache.Cache
	pool      *executor.Pool
	localPort int

	downstream transport.Downstream
	eventBase  transport.EventBase

	ctx *module.Context

	handledFromCache atomic.Bool
	finished         atomic.Bool
	errored          atomic.Bool
	paused           atomic.Bool

	contentType string
	reader      *stream.Reader
}

func newHandler(hotCache *hostregistry.HotCache, modules *module.Registry, respCache *responsecache.Cache, pool *executor.Pool, localPort int, downstream transport.Downstream, eventBase transport.EventBase) *Handler {
	return &Handler{
		hotCache:   hotCache,
		modules:    modules,
		respCache:  respCache,
		pool:       pool,
		localPort:  localPort,
		downstream: downstream,
		eventBase:  eventBase,
		ctx:        module.NewContext(),
	}
}

// OnHeaders resolves the host, the on-disk path, runs PRE_REQUEST, and
// for cacheable GETs either serves the cached response or stashes the
// content type for the streaming path (spec.md §4.5).
func (h *Handler) OnHeaders(msg transport.HTTPMessage) {
	h.ctx.Request = module.Request{
		Method:  msg.Method(),
		Path:    msg.Path(),
		Query:   msg.Query(),
		Headers: msg.Headers(),
	}

	hostname, port := h.splitHost(headerValue(msg.Headers(), "Host"))
	cfg, ok := h.hotCache.LookupHost(hostname, port)
	if !ok {
		h.failBeforeHeaders(BadHost)
		return
	}

	filePath := cfg.WebRoot + msg.Path()
	if strings.HasSuffix(msg.Path(), "/") {
		dirPath := strings.TrimSuffix(filePath, "/")
		resolved, ok := h.hotCache.LookupRedirect(dirPath)
		if !ok {
			h.failBeforeHeaders(NotFound)
			return
		}
		filePath = resolved
	}

	h.ctx.DocumentRoot = cfg.WebRoot
	h.ctx.FilePath = filePath
	h.ctx.FilePathHash = hashutil.SumString(filePath)

	if h.modules.Dispatch(module.PreRequest, h.ctx) == module.Break {
		telemetry.HookBreak(module.PreRequest.String())
	}

	if h.ctx.Request.Method == http.MethodGet {
		if entry, ok := h.respCache.Get(h.ctx.FilePathHash); ok {
			telemetry.CacheHit("response")
			h.serveFromCache(entry)
			return
		}
		telemetry.CacheMiss("response")
	}

	h.contentType = contenttype.Get(filePath)
}

// OnBody appends chunk to the accumulated request body.
func (h *Handler) OnBody(chunk []byte) {
	h.ctx.RequestBody = h.ctx.RequestBody.Append(chunk)
}

// OnEOM runs PRE_RESPONSE; a BREAK means a module fully produced the
// response and the static pipeline must not run (spec.md §4.4, §4.5).
// A request already answered from cache or ended by an error page in
// OnHeaders is left as it is.
func (h *Handler) OnEOM() {
	if h.handledFromCache.Load() || h.finished.Load() {
		return
	}

	if h.modules.Dispatch(module.PreResponse, h.ctx) == module.Break {
		telemetry.HookBreak(module.PreResponse.String())
		h.sendHookProducedResponse()
		h.runPostResponseAndComplete()
		return
	}

	h.startStaticStream()
}

// OnEgressPaused forwards backpressure to the in-flight stream, if any.
func (h *Handler) OnEgressPaused() {
	h.paused.Store(true)
	if h.reader != nil {
		h.reader.Pause()
	}
}

// OnEgressResumed clears backpressure and lets the stream reschedule.
func (h *Handler) OnEgressResumed() {
	h.paused.Store(false)
	if h.reader != nil {
		h.reader.Resume()
	}
}

// RequestComplete marks the handler finished. The external library is
// expected to call this once no further callbacks will arrive.
func (h *Handler) RequestComplete() {
	h.finished.Store(true)
	h.paused.Store(true)
}

// OnError marks the handler finished and errored.
func (h *Handler) OnError(err error) {
	h.errored.Store(true)
	h.finished.Store(true)
	h.paused.Store(true)
}

// Released reports whether this handler may be discarded: finished, and
// (if a stream was started) the stream has reached a terminal state.
func (h *Handler) Released() bool {
	if !h.finished.Load() {
		return false
	}
	if h.reader == nil {
		return true
	}
	return h.reader.Done()
}

func (h *Handler) splitHost(hostHeader string) (string, int) {
	if hostHeader == "" {
		return "", h.localPort
	}
	if idx := strings.LastIndexByte(hostHeader, ':'); idx >= 0 {
		if port, err := strconv.Atoi(hostHeader[idx+1:]); err == nil {
			return hostHeader[:idx], port
		}
	}
	return hostHeader, h.localPort
}

func headerValue(headers map[string][]string, name string) string {
	canonical := http.CanonicalHeaderKey(name)
	if values, ok := headers[canonical]; ok && len(values) > 0 {
		return values[0]
	}
	if values, ok := headers[name]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// flushExtraHeaders forwards any headers a hook appended to ctx.Response
// onto the wire, independent of which response path ultimately emits the
// status line and body (spec.md §8 "priority ordering").
func (h *Handler) flushExtraHeaders() {
	for name, values := range h.ctx.Response.Headers {
		for _, v := range values {
			h.downstream.Header(name, v)
		}
	}
}
