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

// Package telemetry provides opt-in, low-overhead Prometheus metrics
// for the request path: cache hit/miss per cache tier, hook short-circuit
// counts per stage, and streamed bytes. Safe to call from hot paths —
// every exported function is a no-op until Enable has been called.
package telemetry

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	modEnabled atomic.Bool

	cacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webcore_cache_hits_total",
		Help: "Cache hits, labeled by cache tier (response, host, metadata).",
	}, []string{"cache"})
	cacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webcore_cache_misses_total",
		Help: "Cache misses, labeled by cache tier (response, host, metadata).",
	}, []string{"cache"})
	hookBreaksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webcore_hook_breaks_total",
		Help: "Count of hook dispatches that returned BREAK, labeled by stage.",
	}, []string{"stage"})
	streamBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webcore_stream_bytes_total",
		Help: "Total bytes streamed to clients by the static file pipeline.",
	})
	streamChunkLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "webcore_stream_chunk_seconds",
		Help:    "Latency of a single chunk read-and-send cycle.",
		Buckets: prometheus.DefBuckets,
	})
	pauseEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webcore_stream_pause_events_total",
		Help: "Count of onEgressPaused events observed by the streaming reader.",
	})
)

func init() {
	prometheus.MustRegister(
		cacheHitsTotal, cacheMissesTotal, hookBreaksTotal,
		streamBytesTotal, streamChunkLatency, pauseEventsTotal,
	)
}

// Enable turns on metrics collection. When metricsAddr is non-empty, a
// dedicated HTTP server is started serving /metrics (mirrors the
// teacher's churn.Enable shape: opt-in, with an optional standalone
// endpoint).
func Enable(metricsAddr string) {
	modEnabled.Store(true)
	if metricsAddr != "" {
		startMetricsEndpoint(metricsAddr)
	}
}

// Enabled reports whether telemetry collection is active.
func Enabled() bool { return modEnabled.Load() }

func startMetricsEndpoint(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = server.ListenAndServe()
	}()
}

// CacheHit records a hit against the named cache tier.
func CacheHit(cache string) {
	if !modEnabled.Load() {
		return
	}
	cacheHitsTotal.WithLabelValues(cache).Inc()
}

// CacheMiss records a miss against the named cache tier.
func CacheMiss(cache string) {
	if !modEnabled.Load() {
		return
	}
	cacheMissesTotal.WithLabelValues(cache).Inc()
}

// HookBreak records a stage dispatch that short-circuited.
func HookBreak(stage string) {
	if !modEnabled.Load() {
		return
	}
	hookBreaksTotal.WithLabelValues(stage).Inc()
}

// StreamBytes records n bytes sent to a client by the static pipeline.
func StreamBytes(n int) {
	if !modEnabled.Load() || n <= 0 {
		return
	}
	streamBytesTotal.Add(float64(n))
}

// ObserveChunk records the latency of one chunk read-and-send cycle.
func ObserveChunk(d time.Duration) {
	if !modEnabled.Load() {
		return
	}
	streamChunkLatency.Observe(d.Seconds())
}

// PauseEvent records one onEgressPaused occurrence.
func PauseEvent() {
	if !modEnabled.Load() {
		return
	}
	pauseEventsTotal.Inc()
}
