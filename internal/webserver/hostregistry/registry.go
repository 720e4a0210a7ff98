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

// Package hostregistry holds the authoritative, process-global virtual
// host configuration and filesystem metadata, plus the bounded,
// thread-local hot caches that sit in front of it. The authoritative
// tables are read-mostly, guarded by a reader-writer lock, and rebuilt
// wholesale on reload; worker goroutines never need to take that lock on
// the hot path once their hot cache is warm.
package hostregistry

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"webcore/pkg/arc"
)

// HostConfig is immutable after load. Identified by "<hostname>:<port>".
type HostConfig struct {
	WebRoot    string   // filesystem path, no trailing slash
	IndexPages []string // ordered list of filenames tried for directory requests
	SSL        bool
	CertFile   string
	KeyFile    string
}

// FileMetadata describes one path beneath a host's web root.
type FileMetadata struct {
	IsDirectory bool
}

// HostDoc is the parsed shape of one per-host configuration document
// (config file parsing itself is external; see spec.md §6).
type HostDoc struct {
	Hostname   string
	Port       int
	WebRoot    string
	IndexPages []string
	SSL        bool
	CertFile   string
	KeyFile    string
}

// Key returns the canonical "<hostname>:<port>" identity for a doc.
func (d HostDoc) Key() string {
	return CanonicalKey(d.Hostname, d.Port)
}

// CanonicalKey builds the registry's lookup key. Open Question (spec.md
// §9) resolved: host matching is always by "<hostname>:<port>".
func CanonicalKey(hostname string, port int) string {
	return fmt.Sprintf("%s:%d", hostname, port)
}

// Registry is the authoritative, process-global store of host
// configuration and filesystem metadata. It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	hosts     *arc.Cache[string, HostConfig]
	meta      *arc.Cache[string, FileMetadata]
	redirects map[uint64]string // hash(dirPath) -> resolved index file path

	cacheSize int       // minimum size of the caches rebuilt by Load/Reload
	lastDocs  []HostDoc // retained so Reload() can be called with no arguments
}

// New constructs an empty Registry. cacheSize is the minimum size of the
// host-config and metadata ARC caches; in practice it should exceed the number of hosts
// and files so the authoritative store rarely evicts, leaving eviction
// pressure to the smaller per-worker hot caches.
func New(cacheSize int) *Registry {
	return &Registry{
		hosts:     arc.New[string, HostConfig](cacheSize),
		meta:      arc.New[string, FileMetadata](cacheSize),
		redirects: make(map[uint64]string),
		cacheSize: cacheSize,
	}
}

// Load builds the registry from docs, recursively scanning each host's
// web root on the OS filesystem for metadata and precomputing the
// directory-redirect cache.
func (r *Registry) Load(docs []HostDoc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(docs)
}

// Reload re-runs Load using the most recently loaded set of host
// documents. Intended to be triggered by a configuration-reload signal;
// it acquires the exclusive lock for the whole rebuild, per spec.md §5's
// "reload requires exclusive lock + drain-and-rebuild" guidance.
func (r *Registry) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(r.lastDocs)
}

func (r *Registry) loadLocked(docs []HostDoc) error {
	hosts := arc.New[string, HostConfig](max(len(docs), r.cacheSize))
	meta := arc.New[string, FileMetadata](max(r.cacheSize, metaCacheSizeHint(r.meta)))
	redirects := make(map[uint64]string)

	for _, d := range docs {
		cfg := HostConfig{
			WebRoot:    strings.TrimSuffix(d.WebRoot, "/"),
			IndexPages: append([]string(nil), d.IndexPages...),
			SSL:        d.SSL,
			CertFile:   d.CertFile,
			KeyFile:    d.KeyFile,
		}
		hosts.Put(d.Key(), cfg)

		if err := scanHost(cfg, meta, redirects); err != nil {
			return fmt.Errorf("hostregistry: scan %s: %w", d.Key(), err)
		}
	}

	r.hosts = hosts
	r.meta = meta
	r.redirects = redirects
	r.lastDocs = docs
	return nil
}

// metaCacheSizeHint returns a floor for the rebuilt metadata cache's
// size: twice the old cache's resident count, and at least 1024.
func metaCacheSizeHint(old *arc.Cache[string, FileMetadata]) int {
	if old == nil {
		return 4096
	}
	size := old.Len() * 2
	if size < 1024 {
		return 1024
	}
	return size
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// scanHost recursively walks cfg.WebRoot, recording FileMetadata for
// every entry and precomputing, for each directory, the first existing
// index file tried in cfg.IndexPages order.
func scanHost(cfg HostConfig, meta *arc.Cache[string, FileMetadata], redirects map[uint64]string) error {
	if cfg.WebRoot == "" {
		return nil
	}
	return filepath.WalkDir(cfg.WebRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Stale/unreadable entries are acceptable per spec.md §7; skip.
			return nil
		}
		meta.Put(path, FileMetadata{IsDirectory: d.IsDir()})
		if d.IsDir() {
			if idx, ok := firstExistingIndex(path, cfg.IndexPages); ok {
				redirects[dirHash(path)] = idx
			}
		}
		return nil
	})
}

func firstExistingIndex(dir string, indexPages []string) (string, bool) {
	for _, name := range indexPages {
		candidate := filepath.Join(dir, name)
		if info, err := osStat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
