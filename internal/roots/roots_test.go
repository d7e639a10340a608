// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roots

import (
	"testing"

	"niflheim.dev/niflheim/internal/abi"
)

func obj() *abi.Object { return &abi.Object{Payload: &abi.StrPayload{}} }

func TestPushPopRoots(t *testing.T) {
	ts := NewThreadState()
	if ts.Depth() != 0 {
		t.Fatalf("fresh ThreadState has depth %d, want 0", ts.Depth())
	}
	f1 := ts.PushRoots(2, "f1")
	f2 := ts.PushRoots(1, "f2")
	if ts.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", ts.Depth())
	}
	if ts.Top() != f2 {
		t.Fatalf("Top() did not return the most recently pushed frame")
	}

	o1, o2 := obj(), obj()
	f1.Store(0, o1)
	f2.Store(0, o2)

	var seen []*abi.Object
	ts.WalkStack(func(o *abi.Object) { seen = append(seen, o) })
	if len(seen) != 2 {
		t.Fatalf("WalkStack visited %d objects, want 2", len(seen))
	}

	ts.PopRoots()
	if ts.Depth() != 1 {
		t.Fatalf("depth after one pop = %d, want 1", ts.Depth())
	}
	if f1.Load(0) != o1 {
		t.Fatalf("f1 slot 0 lost its value after popping f2")
	}

	ts.PopRoots()
	if ts.Depth() != 0 {
		t.Fatalf("depth after two pops = %d, want 0", ts.Depth())
	}
}

func TestPopRootsUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("PopRoots on empty stack did not panic")
		}
	}()
	NewThreadState().PopRoots()
}

func TestStoreOutOfRangePanics(t *testing.T) {
	ts := NewThreadState()
	f := ts.PushRoots(1, "f")
	defer func() {
		if recover() == nil {
			t.Fatal("Store with out-of-range index did not panic")
		}
	}()
	f.Store(1, obj())
}

func TestLoadOnNilFramePanics(t *testing.T) {
	var f *Frame
	defer func() {
		if recover() == nil {
			t.Fatal("Load on nil frame did not panic")
		}
	}()
	f.Load(0)
}

func TestTraceMirrorsFrameLabels(t *testing.T) {
	ts := NewThreadState()
	ts.PushRoots(0, "outer")
	ts.PushRoots(0, "inner")
	trace := ts.Trace()
	if len(trace) != 2 || trace[0] != "outer" || trace[1] != "inner" {
		t.Fatalf("Trace() = %v, want [outer inner]", trace)
	}
	ts.PopRoots()
	if trace := ts.Trace(); len(trace) != 1 || trace[0] != "outer" {
		t.Fatalf("Trace() after pop = %v, want [outer]", trace)
	}
}

func TestGlobalRegistryIdempotent(t *testing.T) {
	g := NewGlobal()
	var slot *abi.Object
	slot = obj()

	g.Register(&slot)
	g.Register(&slot) // second registration is a no-op, not a duplicate

	count := 0
	g.WalkGlobals(func(*abi.Object) { count++ })
	if count != 1 {
		t.Fatalf("WalkGlobals visited the slot %d times, want 1", count)
	}

	g.Unregister(&slot)
	count = 0
	g.WalkGlobals(func(*abi.Object) { count++ })
	if count != 0 {
		t.Fatalf("WalkGlobals visited %d objects after unregister, want 0", count)
	}

	// unregistering something never registered is silent
	var other *abi.Object
	g.Unregister(&other)
}

func TestRegisterNilSlotPanics(t *testing.T) {
	g := NewGlobal()
	defer func() {
		if recover() == nil {
			t.Fatal("Register(nil) did not panic")
		}
	}()
	g.Register(nil)
}

func TestGlobalReflectsCurrentValue(t *testing.T) {
	g := NewGlobal()
	var slot *abi.Object
	g.Register(&slot)

	// nothing stored yet: walking visits nothing
	n := 0
	g.WalkGlobals(func(*abi.Object) { n++ })
	if n != 0 {
		t.Fatalf("WalkGlobals visited %d objects before assignment, want 0", n)
	}

	o := obj()
	slot = o
	var got *abi.Object
	g.WalkGlobals(func(o *abi.Object) { got = o })
	if got != o {
		t.Fatal("WalkGlobals did not see the value assigned after registration")
	}
}
