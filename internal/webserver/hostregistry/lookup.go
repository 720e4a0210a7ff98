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

	"webcore/pkg/hashutil"
)

// LookupHost returns the HostConfig for "<hostname>:<port>", or false if
// unknown. Safe for concurrent callers; takes the shared read lock and
// reads with Peek, which leaves the ARC state untouched.
func (r *Registry) LookupHost(hostname string, port int) (HostConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hosts.Peek(CanonicalKey(hostname, port))
}

// LookupMetadata returns FileMetadata for an absolute filesystem path.
func (r *Registry) LookupMetadata(path string) (FileMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.meta.Peek(path)
}

// LookupRedirect returns the precomputed first-existing index file for a
// directory, or false if the directory has no index (spec.md §4.3).
func (r *Registry) LookupRedirect(dirPath string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.redirects[dirHash(dirPath)]
	return p, ok
}

// dirHash keys the directory-redirect cache by the hash of the
// directory path, per spec.md §4.2's hash-utility contract.
func dirHash(dirPath string) uint64 {
	return hashutil.SumString(dirPath)
}

// osStat is a seam so tests can stub filesystem access; production
// callers always get the real os.Stat.
var osStat = os.Stat
