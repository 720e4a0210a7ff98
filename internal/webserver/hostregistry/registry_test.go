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

package hostregistry

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeHost(t *testing.T, root string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("HELLO"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAndLookupHost(t *testing.T) {
	root := t.TempDir()
	writeHost(t, root)

	reg := New(64)
	docs := []HostDoc{{Hostname: "a.test", Port: 80, WebRoot: root, IndexPages: []string{"index.html"}}}
	if err := reg.Load(docs); err != nil {
		t.Fatal(err)
	}

	cfg, ok := reg.LookupHost("a.test", 80)
	if !ok {
		t.Fatal("expected a.test:80 to resolve")
	}
	if cfg.WebRoot != root {
		t.Fatalf("webroot = %q, want %q", cfg.WebRoot, root)
	}

	if _, ok := reg.LookupHost("unknown.test", 80); ok {
		t.Fatal("expected unknown.test:80 to be absent")
	}
}

func TestDirectoryRedirect(t *testing.T) {
	root := t.TempDir()
	writeHost(t, root)

	reg := New(64)
	docs := []HostDoc{{Hostname: "a.test", Port: 80, WebRoot: root, IndexPages: []string{"index.html"}}}
	if err := reg.Load(docs); err != nil {
		t.Fatal(err)
	}

	resolved, ok := reg.LookupRedirect(root)
	if !ok {
		t.Fatal("expected root directory to have a redirect")
	}
	if resolved != filepath.Join(root, "index.html") {
		t.Fatalf("resolved = %q", resolved)
	}

	if _, ok := reg.LookupRedirect(filepath.Join(root, "empty")); ok {
		t.Fatal("expected empty/ to have no redirect")
	}
}

func TestReloadPicksUpNewHost(t *testing.T) {
	root := t.TempDir()
	writeHost(t, root)

	reg := New(64)
	if err := reg.Load([]HostDoc{{Hostname: "a.test", Port: 80, WebRoot: root, IndexPages: []string{"index.html"}}}); err != nil {
		t.Fatal(err)
	}

	other := t.TempDir()
	writeHost(t, other)
	reg.lastDocs = []HostDoc{
		{Hostname: "a.test", Port: 80, WebRoot: root, IndexPages: []string{"index.html"}},
		{Hostname: "b.test", Port: 80, WebRoot: other, IndexPages: []string{"index.html"}},
	}
	if err := reg.Reload(); err != nil {
		t.Fatal(err)
	}

	if _, ok := reg.LookupHost("b.test", 80); !ok {
		t.Fatal("expected b.test:80 to resolve after reload")
	}
}

func TestHotCacheFallsThroughAndPrunes(t *testing.T) {
	root := t.TempDir()
	writeHost(t, root)

	reg := New(64)
	if err := reg.Load([]HostDoc{{Hostname: "a.test", Port: 80, WebRoot: root, IndexPages: []string{"index.html"}}}); err != nil {
		t.Fatal(err)
	}

	hot := NewHotCache(reg, 16)
	if _, ok := hot.LookupHost("a.test", 80); !ok {
		t.Fatal("expected hot cache fallthrough hit")
	}

	pruned := hot.PruneStale(-time.Second) // negative maxAge: every entry counts as stale
	if pruned == 0 {
		t.Fatal("expected at least one entry pruned")
	}
	if _, ok := hot.hosts.Peek(CanonicalKey("a.test", 80)); ok {
		t.Fatal("expected entry evicted from hot cache after prune")
	}
}
