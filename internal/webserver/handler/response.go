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

package handler

import (
	"net/http"

	"webcore/internal/webserver/contenttype"
	"webcore/internal/webserver/module"
	"webcore/internal/webserver/responsecache"
	"webcore/internal/webserver/stream"
	"webcore/internal/webserver/transport"
)

// failBeforeHeaders emits the inline error page for kind and terminates
// the request. Only valid before any bytes have been sent (spec.md §7's
// "before headers are sent" propagation policy).
func (h *Handler) failBeforeHeaders(kind Kind) {
	code := kind.status()
	h.downstream.Status(code, http.StatusText(code))
	h.downstream.Header("Content-Type", "text/html")
	h.downstream.Send()
	h.downstream.Body([]byte(contenttype.ErrorPage(code)))
	h.downstream.SendWithEOM()
	h.finished.Store(true)
}

// serveFromCache replays a previously streamed response in full from the
// response cache: no file is opened (spec.md §8 "response-cache
// idempotence").
func (h *Handler) serveFromCache(entry responsecache.Entry) {
	h.downstream.Status(200, "OK")
	h.downstream.Header("Content-Type", entry.ContentType)
	h.flushExtraHeaders()
	h.downstream.Send()
	for _, seg := range entry.Body.Segments() {
		h.downstream.Body(seg)
	}
	h.downstream.SendWithEOM()

	h.handledFromCache.Store(true)
	h.modules.Dispatch(module.PostResponse, h.ctx)
	h.finished.Store(true)
}

// sendHookProducedResponse emits whatever a PRE_RESPONSE hook wrote into
// ctx.Response after it returned BREAK (spec.md §4.5 step 3, §8 "hook
// short-circuit").
func (h *Handler) sendHookProducedResponse() {
	resp := h.ctx.Response
	status := resp.Status
	if status == 0 {
		status = 200
	}
	h.downstream.Status(status, http.StatusText(status))
	h.flushExtraHeaders()
	h.downstream.Send()
	if !resp.Body.Empty() {
		h.downstream.Body(resp.Body.Bytes())
	}
	h.downstream.SendWithEOM()
}

func (h *Handler) runPostResponseAndComplete() {
	h.modules.Dispatch(module.PostResponse, h.ctx)
	h.finished.Store(true)
}

// startStaticStream opens the resolved file and, on success, begins
// streaming it through the CPU executor; on failure it emits 404 (spec.md
// §4.6 step 1). POST_RESPONSE fires once the stream reaches a terminal
// state, via the completionDownstream wrapper below.
func (h *Handler) startStaticStream() {
	cd := &completionDownstream{Downstream: h.downstream, h: h}

	r, err := stream.Open(h.ctx.FilePath, h.contentType, h.ctx.FilePathHash, h.pool, cd, h.eventBase, h.respCache)
	if err != nil {
		h.flushExtraHeaders()
		h.failBeforeHeaders(NotFound)
		h.modules.Dispatch(module.PostResponse, h.ctx)
		return
	}

	h.flushExtraHeaders()
	h.reader = r
	r.Start()
}

// completionDownstream forwards every call to the real downstream and,
// on the stream's two terminal signals, runs POST_RESPONSE and marks the
// handler finished — the point at which "after the stream ends, run
// POST_RESPONSE hooks" (spec.md §4.5) is honored.
type completionDownstream struct {
	transport.Downstream
	h *Handler
}

func (c *completionDownstream) SendWithEOM() {
	c.Downstream.SendWithEOM()
	c.h.modules.Dispatch(module.PostResponse, c.h.ctx)
	c.h.finished.Store(true)
}

func (c *completionDownstream) SendAbort() {
	c.Downstream.SendAbort()
	c.h.errored.Store(true)
	c.h.modules.Dispatch(module.PostResponse, c.h.ctx)
	c.h.finished.Store(true)
}
