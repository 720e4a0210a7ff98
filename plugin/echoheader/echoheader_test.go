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

package echoheader

import (
	"testing"

	"webcore/internal/webserver/module"
)

func TestNewAppendsHeader(t *testing.T) {
	m := New("echo", 10, "A")
	ctx := module.NewContext()
	if got := m.PreRequestHook(ctx); got != module.Continue {
		t.Fatalf("result = %v, want Continue", got)
	}
	if got := ctx.Response.Headers["X-Order"]; len(got) != 1 || got[0] != "A" {
		t.Fatalf("X-Order = %v", got)
	}
}

func TestNewShortCircuitMatchesPathOnly(t *testing.T) {
	m := NewShortCircuit("api", 10, "/api/x", 201, "ok")

	ctx := module.NewContext()
	ctx.Request.Path = "/other"
	if got := m.PreResponseHook(ctx); got != module.Continue {
		t.Fatalf("non-matching path: result = %v, want Continue", got)
	}

	ctx2 := module.NewContext()
	ctx2.Request.Path = "/api/x"
	if got := m.PreResponseHook(ctx2); got != module.Break {
		t.Fatalf("matching path: result = %v, want Break", got)
	}
	if ctx2.Response.Status != 201 || string(ctx2.Response.Body.Bytes()) != "ok" {
		t.Fatalf("response = %+v", ctx2.Response)
	}
}
