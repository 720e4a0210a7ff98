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

package module

import "testing"

func TestHookOrderRespectsPriorityAndEnabled(t *testing.T) {
	reg := NewRegistry(8)

	m1 := NewModule("m1", 10)
	m1.PreRequestHook = func(ctx *Context) Result {
		ctx.Response.AddHeader("X-Order", "A")
		return Continue
	}
	m2 := NewModule("m2", 20)
	m2.PreRequestHook = func(ctx *Context) Result {
		ctx.Response.AddHeader("X-Order", "B")
		return Continue
	}
	m3 := NewModule("m3", 20)
	m3.SetEnabled(false)
	m3.PreRequestHook = func(ctx *Context) Result {
		ctx.Response.AddHeader("X-Order", "C")
		return Continue
	}

	for _, m := range []*Module{m1, m2, m3} {
		if err := reg.Register(m); err != nil {
			t.Fatal(err)
		}
	}
	if err := reg.Initialize(); err != nil {
		t.Fatal(err)
	}

	ctx := NewContext()
	reg.Dispatch(PreRequest, ctx)

	got := ctx.Response.Headers["X-Order"]
	want := []string{"A", "B"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("X-Order = %v, want %v", got, want)
	}

	// Disable m2 at runtime; no Initialize re-run needed.
	m2.SetEnabled(false)
	ctx2 := NewContext()
	reg.Dispatch(PreRequest, ctx2)
	got2 := ctx2.Response.Headers["X-Order"]
	if len(got2) != 1 || got2[0] != "A" {
		t.Fatalf("after disabling m2, X-Order = %v, want [A]", got2)
	}
}

func TestHookShortCircuit(t *testing.T) {
	reg := NewRegistry(8)

	m1 := NewModule("m1", 10)
	m1.PreResponseHook = func(ctx *Context) Result {
		ctx.Response.SetStatus(201)
		ctx.Response.AddHeader("X-Plugin", "yes")
		ctx.Response.WriteBody([]byte("ok"))
		ctx.Response.End()
		return Break
	}
	m2called := false
	m2 := NewModule("m2", 20)
	m2.PreResponseHook = func(ctx *Context) Result {
		m2called = true
		return Continue
	}
	for _, m := range []*Module{m1, m2} {
		if err := reg.Register(m); err != nil {
			t.Fatal(err)
		}
	}
	if err := reg.Initialize(); err != nil {
		t.Fatal(err)
	}

	ctx := NewContext()
	result := reg.Dispatch(PreResponse, ctx)
	if result != Break {
		t.Fatalf("expected Break, got %v", result)
	}
	if m2called {
		t.Fatal("expected m2's hook not to run after m1's Break")
	}
	if ctx.Response.Status != 201 || string(ctx.Response.Body.Bytes()) != "ok" {
		t.Fatalf("unexpected response: %+v", ctx.Response)
	}
}

func TestPanicInHookIsRecoveredAsContinue(t *testing.T) {
	reg := NewRegistry(8)
	m1 := NewModule("panicky", 10)
	m1.PreRequestHook = func(ctx *Context) Result {
		panic("boom")
	}
	m2called := false
	m2 := NewModule("m2", 20)
	m2.PreRequestHook = func(ctx *Context) Result {
		m2called = true
		return Continue
	}
	for _, m := range []*Module{m1, m2} {
		if err := reg.Register(m); err != nil {
			t.Fatal(err)
		}
	}
	if err := reg.Initialize(); err != nil {
		t.Fatal(err)
	}

	result := reg.Dispatch(PreRequest, NewContext())
	if result != Continue {
		t.Fatalf("expected Continue after recovered panic, got %v", result)
	}
	if !m2called {
		t.Fatal("expected dispatch to continue to m2 after m1 panicked")
	}
}

func TestRegisterCapacity(t *testing.T) {
	reg := NewRegistry(1)
	if err := reg.Register(NewModule("a", 1)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(NewModule("b", 1)); err == nil {
		t.Fatal("expected error registering past capacity")
	}
}
