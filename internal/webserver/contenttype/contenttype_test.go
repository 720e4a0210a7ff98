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

package contenttype

import "testing"

func TestGetKnownAndUnknown(t *testing.T) {
	cases := map[string]string{
		"/a/b/index.html": "text/html",
		"/a/b/IMAGE.PNG":   "image/png",
		"/a/b/archive.tar": "application/x-tar",
		"/a/b/noext":       defaultMIME,
		"/a/b/weird.xyz":   defaultMIME,
	}
	for path, want := range cases {
		if got := Get(path); got != want {
			t.Errorf("Get(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestErrorPageFallback(t *testing.T) {
	if ErrorPage(404) == "" {
		t.Fatal("expected non-empty 404 body")
	}
	if ErrorPage(999) != ErrorPage(500) {
		t.Fatal("expected unrecognised codes to fall back to 500 body")
	}
}
