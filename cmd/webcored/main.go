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

// Package main is the webcored entrypoint: it wires the host registry,
// the module system, the response cache, and the CPU executor pool into
// a request handler factory, then serves HTTP/1.1 and HTTP/2 cleartext
// (h2c) on one listener.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"webcore/internal/webserver/config"
	"webcore/internal/webserver/executor"
	"webcore/internal/webserver/handler"
	"webcore/internal/webserver/hostregistry"
	"webcore/internal/webserver/module"
	"webcore/internal/webserver/nethttp"
	"webcore/internal/webserver/responsecache"
	"webcore/internal/webserver/telemetry"
	"webcore/plugin/echoheader"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("webcored: %v", err)
	}

	if cfg.MetricsEnabled || cfg.MetricsAddr != "" {
		telemetry.Enable(cfg.MetricsAddr)
	}

	registry := hostregistry.New(cfg.HostCacheSize)
	if err := registry.Load(loadHostDocs(cfg)); err != nil {
		log.Fatalf("webcored: loading host configuration: %v", err)
	}

	hot := hostregistry.NewHotCache(registry, cfg.HotCacheSize)
	reconciler := hostregistry.NewWorker([]*hostregistry.HotCache{hot}, cfg.ReconcileMaxAge, cfg.ReconcileInterval)
	reconciler.Start()

	ctx, cancel := context.WithCancel(context.Background())
	if cfg.RedisAddr != "" {
		bus := hostregistry.NewRedisReloadBus(cfg.RedisAddr)
		registry.WatchReloads(ctx, bus, cfg.ReloadChannel)
	}

	modules := module.NewRegistry(module.DefaultCapacity)
	if err := modules.Register(echoheader.New("request-id-echo", 10, "webcored")); err != nil {
		log.Fatalf("webcored: registering module: %v", err)
	}
	if err := modules.Initialize(); err != nil {
		log.Fatalf("webcored: initializing modules: %v", err)
	}

	respCache := responsecache.New(cfg.RespCacheSize)
	pool := executor.New(cfg.ExecutorWorkers, cfg.ExecutorQueue)

	factory := handler.NewFactory(hot, modules, respCache, pool, localPort(cfg.ListenAddr))

	mux := http.NewServeMux()
	mux.Handle("/", nethttp.Handler(factory))

	h2s := &http2.Server{}
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h2c.NewHandler(mux, h2s),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		fmt.Printf("webcored listening on %s\n", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("webcored: listen on %s: %v", cfg.ListenAddr, err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	fmt.Println("\nwebcored: shutting down")
	cancel()
	reconciler.Stop()
	pool.Close()
	modules.Cleanup()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("webcored: shutdown: %v", err)
	}
	fmt.Println("webcored: stopped")
}

// loadHostDocs builds the built-in demo/override host set SPEC_FULL.md
// §4.9 promises: one HostConfig, driven entirely by flags rather than an
// on-disk config file (config-file parsing is out of scope, spec.md §1).
func loadHostDocs(cfg *config.Config) []hostregistry.HostDoc {
	port := cfg.DemoPort
	if port == 0 {
		port = localPort(cfg.ListenAddr)
	}
	return []hostregistry.HostDoc{
		{
			Hostname:   cfg.DemoHostname,
			Port:       port,
			WebRoot:    cfg.DemoWebRoot,
			IndexPages: splitIndexPages(cfg.DemoIndexPages),
		},
	}
}

func splitIndexPages(csv string) []string {
	var pages []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			pages = append(pages, p)
		}
	}
	return pages
}

func localPort(listenAddr string) int {
	for i := len(listenAddr) - 1; i >= 0; i-- {
		if listenAddr[i] == ':' {
			port := 0
			for _, c := range listenAddr[i+1:] {
				if c < '0' || c > '9' {
					return 80
				}
				port = port*10 + int(c-'0')
			}
			if port == 0 {
				return 80
			}
			return port
		}
	}
	return 80
}
