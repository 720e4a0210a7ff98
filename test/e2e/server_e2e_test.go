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

// Package e2e exercises a real net/http server wired the same way
// cmd/webcored wires one, driving it over the loopback network rather
// than calling the handler package directly.
package e2e

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"webcore/internal/webserver/executor"
	"webcore/internal/webserver/handler"
	"webcore/internal/webserver/hostregistry"
	"webcore/internal/webserver/module"
	"webcore/internal/webserver/nethttp"
	"webcore/internal/webserver/responsecache"
	"webcore/plugin/echoheader"
)

func startServer(t *testing.T, webRoot string, extraModules ...*module.Module) *httptest.Server {
	t.Helper()

	reg := hostregistry.New(64)
	if err := reg.Load([]hostregistry.HostDoc{
		{Hostname: "a.test", Port: 80, WebRoot: webRoot, IndexPages: []string{"index.html"}},
	}); err != nil {
		t.Fatal(err)
	}
	hot := hostregistry.NewHotCache(reg, 64)

	modules := module.NewRegistry(module.DefaultCapacity)
	for _, m := range extraModules {
		if err := modules.Register(m); err != nil {
			t.Fatal(err)
		}
	}
	if err := modules.Initialize(); err != nil {
		t.Fatal(err)
	}

	cache := responsecache.New(64)
	pool := executor.New(4, 64)
	t.Cleanup(pool.Close)

	factory := handler.NewFactory(hot, modules, cache, pool, 80)
	srv := httptest.NewServer(nethttp.Handler(factory))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path, host string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Host = host
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestStaticHitColdThenWarmE2E(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/index.html", []byte("HELLO"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := startServer(t, dir)

	resp, body := get(t, srv, "/", "a.test:80")
	if resp.StatusCode != 200 || body != "HELLO" {
		t.Fatalf("cold: status=%d body=%q", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html" {
		t.Fatalf("content-type = %q", ct)
	}

	if err := os.Remove(dir + "/index.html"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	resp2, body2 := get(t, srv, "/", "a.test:80")
	if resp2.StatusCode != 200 || body2 != "HELLO" {
		t.Fatalf("warm: status=%d body=%q", resp2.StatusCode, body2)
	}
}

func TestDirectoryWithoutIndexE2E(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(dir+"/empty", 0o755); err != nil {
		t.Fatal(err)
	}
	srv := startServer(t, dir)

	resp, _ := get(t, srv, "/empty/", "a.test:80")
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUnknownHostE2E(t *testing.T) {
	dir := t.TempDir()
	srv := startServer(t, dir)

	resp, _ := get(t, srv, "/", "unknown.test:80")
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestModuleShortCircuitE2E(t *testing.T) {
	dir := t.TempDir()
	m := echoheader.NewShortCircuit("api", 10, "/api/x", 201, "ok")
	srv := startServer(t, dir, m)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/x", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Host = "a.test:80"
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != 201 || string(body) != "ok" {
		t.Fatalf("status=%d body=%q", resp.StatusCode, body)
	}
}

func TestPriorityOrderingE2E(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/index.html", []byte("HELLO"), 0o644); err != nil {
		t.Fatal(err)
	}
	m1 := echoheader.New("m1", 10, "A")
	m2 := echoheader.New("m2", 20, "B")
	srv := startServer(t, dir, m1, m2)

	resp, _ := get(t, srv, "/", "a.test:80")
	got := resp.Header.Values("X-Order")
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("X-Order = %v, want [A B]", got)
	}
}

func TestLargeFileStreamingE2E(t *testing.T) {
	dir := t.TempDir()
	payload := make([]byte, 5*1024*1024)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	if err := os.WriteFile(dir+"/index.html", payload, 0o644); err != nil {
		t.Fatal(err)
	}
	srv := startServer(t, dir)

	resp, body := get(t, srv, "/", "a.test:80")
	if resp.StatusCode != 200 || len(body) != len(payload) {
		t.Fatalf("status=%d len=%d want=%d", resp.StatusCode, len(body), len(payload))
	}
	for i := range payload {
		if body[i] != payload[i] {
			t.Fatalf("byte mismatch at %d", i)
		}
	}

	resp2, body2 := get(t, srv, "/", "a.test:80")
	if resp2.StatusCode != 200 || len(body2) != len(payload) {
		t.Fatalf("replay: status=%d len=%d", resp2.StatusCode, len(body2))
	}
}
