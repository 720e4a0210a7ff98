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

// Package executor implements the CPU-bound worker pool that the
// streaming file reader (internal/webserver/stream) dispatches
// potentially-blocking disk reads onto, standing in for the external
// "CPU executor" of spec.md §6. A rendezvous-hashing router maps a file
// path to a stable pool member name (RouteFor); jobs themselves are not
// routed by it and run on whichever worker takes them from the shared
// queue.
package executor

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
)

// Job is a unit of potentially-blocking work, typically one file-read
// loop iteration or a whole streaming session.
type Job func()

// Pool is a fixed-size pool of goroutines consuming Jobs from a shared
// queue. Add is non-blocking unless the queue is full.
type Pool struct {
	jobs chan Job
	wg   sync.WaitGroup

	router *rendezvous.Rendezvous
	names  []string
}

// New starts n worker goroutines, each pulling from a shared job queue
// of the given capacity.
func New(n, queueCapacity int) *Pool {
	if n <= 0 {
		n = 1
	}
	if queueCapacity <= 0 {
		queueCapacity = 1
	}
	names := make([]string, n)
	for i := range names {
		names[i] = workerName(i)
	}

	p := &Pool{
		jobs:   make(chan Job, queueCapacity),
		router: rendezvous.New(names, xxhash.Sum64String),
		names:  names,
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// Add enqueues job for execution on whichever worker goroutine is next
// free. There is no per-path worker affinity.
func (p *Pool) Add(job Job) {
	p.jobs <- job
}

// RouteFor returns the worker name rendezvous-hashing assigns to path.
// It does not itself dispatch work — the pool has one shared queue, so
// RouteFor is informational (for telemetry/tests): the same `path`
// always maps to the same name, but jobs are not sent to that worker.
func (p *Pool) RouteFor(path string) string {
	return p.router.Lookup(path)
}

// Close stops accepting new jobs and waits for in-flight jobs to drain.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

func workerName(i int) string {
	return fmt.Sprintf("worker-%d", i)
}
