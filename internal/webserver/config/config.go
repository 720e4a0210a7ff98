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

// Package config declares the flag-driven knobs cmd/webcored exposes at
// startup. Parsing of an on-disk host configuration file format is out
// of scope (spec.md §1); instead the single demo/override host served
// by cmd/webcored is itself flag-driven, per SPEC_FULL.md §4.9.
package config

import (
	"flag"
	"time"
)

// Config holds every process-wide knob. Zero value is not meaningful;
// build with Parse.
type Config struct {
	ListenAddr  string
	MetricsAddr string

	// DemoHostname/DemoPort/DemoWebRoot/DemoIndexPages describe the one
	// virtual host cmd/webcored serves out of the box: the "small
	// built-in demo set" SPEC_FULL.md §4.9 promises, overridable by
	// flags rather than an on-disk config file.
	DemoHostname   string
	DemoPort       int
	DemoWebRoot    string
	DemoIndexPages string

	ExecutorWorkers int
	ExecutorQueue   int

	HostCacheSize int
	HotCacheSize  int
	RespCacheSize int

	ReconcileInterval time.Duration
	ReconcileMaxAge   time.Duration

	RedisAddr    string
	ReloadChannel string

	MetricsEnabled bool
}

// Parse parses flags from args (typically os.Args[1:]) into a Config.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("webcored", flag.ContinueOnError)

	cfg := &Config{}
	fs.StringVar(&cfg.ListenAddr, "listen_addr", ":8080", "HTTP/1.1 and h2c listen address")
	fs.StringVar(&cfg.MetricsAddr, "metrics_addr", "", "If non-empty, expose Prometheus /metrics on this address")
	fs.StringVar(&cfg.DemoHostname, "host", "localhost", "Virtual hostname served by the built-in demo/override host")
	fs.IntVar(&cfg.DemoPort, "host_port", 0, "Port the demo/override host answers on; 0 derives it from -listen_addr")
	fs.StringVar(&cfg.DemoWebRoot, "web_root", "/var/www/webcored", "Filesystem root served for -host")
	fs.StringVar(&cfg.DemoIndexPages, "index_pages", "index.html", "Comma-separated index filenames tried for directory requests")
	fs.IntVar(&cfg.ExecutorWorkers, "executor_workers", 8, "CPU executor pool size for static file streaming")
	fs.IntVar(&cfg.ExecutorQueue, "executor_queue", 256, "CPU executor job queue capacity")
	fs.IntVar(&cfg.HostCacheSize, "host_cache_size", 4096, "Authoritative host/metadata ARC cache size")
	fs.IntVar(&cfg.HotCacheSize, "hot_cache_size", 512, "Per-worker hot cache size")
	fs.IntVar(&cfg.RespCacheSize, "response_cache_size", 1024, "Rendered static-response cache size")
	fs.DurationVar(&cfg.ReconcileInterval, "reconcile_interval", 30*time.Second, "How often hot caches are scanned for stale entries")
	fs.DurationVar(&cfg.ReconcileMaxAge, "reconcile_max_age", 10*time.Minute, "Idle age after which a hot-cache entry is pruned")
	fs.StringVar(&cfg.RedisAddr, "redis_addr", "", "If non-empty, subscribe to this Redis instance for reload notifications")
	fs.StringVar(&cfg.ReloadChannel, "reload_channel", "webcored.reload", "Redis pub/sub channel carrying reload signals")
	fs.BoolVar(&cfg.MetricsEnabled, "metrics", false, "Enable in-process Prometheus telemetry (opt-in)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
