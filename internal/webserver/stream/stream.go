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

// Package stream implements the chunked static-file streaming pipeline
// (spec.md §4.6): it delivers file bytes to the client without blocking
// the I/O thread and without materialising the whole file twice. A
// read-loop job runs on the CPU executor; it communicates back to the
// I/O thread purely by posting closures through transport.EventBase, per
// the design note on cross-thread continuations — no response-builder
// state is ever touched from two goroutines at once.
package stream

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
	"time"

	"webcore/internal/webserver/bytechain"
	"webcore/internal/webserver/executor"
	"webcore/internal/webserver/responsecache"
	"webcore/internal/webserver/telemetry"
	"webcore/internal/webserver/transport"
)

// chunkTarget is the minimum preallocation per read; actual writes use
// whatever the read syscall returned (spec.md §4.6 tie-break).
const chunkTarget = 4096

// Reader drives one streaming session for a single request. It is not
// safe for concurrent use by multiple goroutines except via the
// documented Pause/Resume entry points, which are expected to be called
// from the I/O thread alongside everything else touching the handler.
type Reader struct {
	path        string
	contentType string
	pathHash    uint64

	file *os.File

	pool       *executor.Pool
	downstream transport.Downstream
	eventBase  transport.EventBase
	cache      *responsecache.Cache

	paused       atomic.Bool
	finished     atomic.Bool
	errored      atomic.Bool
	jobScheduled atomic.Bool

	accumulated bytechain.Chain // only touched from within the single in-flight job goroutine
}

// Open attempts to open path for streaming. On failure the caller must
// emit 404 and must not call Start (spec.md §4.6 step 1).
func Open(path, contentType string, pathHash uint64, pool *executor.Pool, downstream transport.Downstream, eventBase transport.EventBase, cache *responsecache.Cache) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return newReader(path, f, contentType, pathHash, pool, downstream, eventBase, cache), nil
}

// newReader builds a Reader around an already-open file. Split out of
// Open so tests can drive the loop over a pipe instead of a real file.
func newReader(path string, f *os.File, contentType string, pathHash uint64, pool *executor.Pool, downstream transport.Downstream, eventBase transport.EventBase, cache *responsecache.Cache) *Reader {
	return &Reader{
		path:        path,
		contentType: contentType,
		pathHash:    pathHash,
		file:        f,
		pool:        pool,
		downstream:  downstream,
		eventBase:   eventBase,
		cache:       cache,
	}
}

// Start sends 200 OK with the cached content type and headers-only, per
// spec.md §4.6 step 2, then schedules the first read job.
func (r *Reader) Start() {
	r.downstream.Status(200, "OK")
	r.downstream.Header("Content-Type", r.contentType)
	r.downstream.Send()
	r.scheduleJob()
}

// Pause sets the paused flag; the read loop ceases within one iteration
// (spec.md §8 "pause/resume liveness").
func (r *Reader) Pause() {
	r.paused.Store(true)
	telemetry.PauseEvent()
}

// Resume clears the paused flag and, if the file is still open and no
// job is currently scheduled, schedules one.
func (r *Reader) Resume() {
	r.paused.Store(false)
	if !r.finished.Load() && !r.errored.Load() {
		r.scheduleJob()
	}
}

// Finished reports whether the stream completed a full, error-free read
// through EOF.
func (r *Reader) Finished() bool { return r.finished.Load() }

// Done reports whether the stream has reached any terminal state, success
// or error, and will not schedule further jobs.
func (r *Reader) Done() bool { return r.finished.Load() || r.errored.Load() }

func (r *Reader) scheduleJob() {
	if r.finished.Load() || r.errored.Load() {
		return
	}
	if !r.jobScheduled.CompareAndSwap(false, true) {
		return // a job is already in flight
	}
	r.pool.Add(r.runJob)
}

// runJob is the CPU-executor body: it loops reading chunks until
// paused/finished/errored, posting each chunk (or the terminal EOF/error
// message) to the I/O thread via eventBase.RunInEventBaseThread.
func (r *Reader) runJob() {
	buf := make([]byte, chunkTarget)
	for {
		if r.paused.Load() || r.finished.Load() || r.errored.Load() {
			break
		}

		start := time.Now()
		n, err := r.file.Read(buf)
		telemetry.ObserveChunk(time.Since(start))

		if err != nil && !errors.Is(err, io.EOF) {
			r.errored.Store(true)
			r.eventBase.RunInEventBaseThread(func() {
				r.downstream.SendAbort()
			})
			break
		}

		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			r.accumulated = r.accumulated.Append(chunk)
			telemetry.StreamBytes(n)
			r.eventBase.RunInEventBaseThread(func() {
				r.downstream.Body(chunk)
			})
		}

		if err != nil || n == 0 {
			r.finishAtEOF()
			break
		}
	}

	r.jobScheduled.Store(false)
	if !r.finished.Load() && !r.errored.Load() && !r.paused.Load() {
		r.scheduleJob()
	}
}

// finishAtEOF assembles the accumulated chunks and, only now that the
// full body was read without error, inserts them into the response
// cache — a partial body from an error or client abort must never be
// cached (spec.md §4.6 cache-write policy).
func (r *Reader) finishAtEOF() {
	_ = r.file.Close()
	if !r.accumulated.Empty() {
		r.cache.Put(r.pathHash, responsecache.Entry{
			ContentType: r.contentType,
			Body:        r.accumulated,
		})
	}
	r.finished.Store(true)
	r.eventBase.RunInEventBaseThread(func() {
		r.downstream.SendWithEOM()
	})
}

