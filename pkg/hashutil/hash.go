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

// Package hashutil provides a fast, non-cryptographic 64-bit hash used to
// key the ARC caches by one or several byte-ranges in definition order.
package hashutil

import "github.com/cespare/xxhash/v2"

// Sum folds one or more byte-ranges into a single 64-bit digest, in the
// order given. Identical input sequences yield identical digests across
// runs and threads within a single process build.
func Sum(parts ...[]byte) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		// xxhash.Digest.Write never errors.
		_, _ = d.Write(p)
	}
	return d.Sum64()
}

// SumString is a convenience wrapper for the common case of hashing a
// single string without converting it to a byte slice first.
func SumString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// SumPath folds a document root and a request path into one digest, equal
// to SumString(docRoot + path). The response cache and the
// directory-redirect cache are keyed with SumString of a full path, not
// through SumPath.
func SumPath(docRoot, path string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(docRoot)
	_, _ = d.WriteString(path)
	return d.Sum64()
}
