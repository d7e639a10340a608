// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package roots implements the shadow-stack exact rooting protocol (§4.2):
// a stack of root frames running parallel to the native call stack, plus a
// registry of global roots, both of which the collector walks to find the
// live set without scanning the native stack itself. The structure mirrors
// internal/gocore/root.go's Root/Piece model, adapted from "describe a root
// found in a core dump" to "let generated code declare one up front".
package roots

import (
	"fmt"

	"niflheim.dev/niflheim/internal/abi"
)

// Frame is one shadow-stack frame: a fixed array of slots a function spills
// its live references into before any safepoint (§4.2, §6).
type Frame struct {
	Slots []*abi.Object
	prev  *Frame
}

// ThreadState is the per-thread (in practice: per-program, since Niflheim
// v0.1 is single-threaded, §1 Non-goals) root-frame stack plus a parallel
// diagnostic trace of frame labels for crash reporting.
type ThreadState struct {
	top   *Frame
	depth int

	// trace mirrors the frame stack with human-readable labels, purely for
	// diagnostics (panic messages, niflspect). It never affects collection.
	trace []string
}

// NewThreadState returns an empty shadow stack.
func NewThreadState() *ThreadState { return &ThreadState{} }

// PushRoots installs a new frame with nslots slots on top of the current
// top frame, which becomes its back-pointer. label is a diagnostic name (typically the function name)
// recorded for crash traces only.
//
// Fatal: nslots < 0.
func (ts *ThreadState) PushRoots(nslots int, label string) *Frame {
	if nslots < 0 {
		panic(fmt.Sprintf("negative slot count %d", nslots))
	}
	f := &Frame{Slots: make([]*abi.Object, nslots), prev: ts.top}
	ts.top = f
	ts.depth++
	ts.trace = append(ts.trace, label)
	return f
}

// PopRoots unlinks the current top frame. Fatal if the stack is empty
// (underflow), matching §4.2's "pop on empty stack is fatal" rule.
func (ts *ThreadState) PopRoots() {
	if ts.top == nil {
		panic("pop on empty shadow stack")
	}
	ts.top = ts.top.prev
	ts.depth--
	ts.trace = ts.trace[:len(ts.trace)-1]
}

// Top returns the innermost pushed frame, or nil if the stack is empty.
func (ts *ThreadState) Top() *Frame { return ts.top }

// Depth reports how many frames are currently pushed.
func (ts *ThreadState) Depth() int { return ts.depth }

// Trace returns the current stack of frame labels, outermost first, for
// diagnostic output. The returned slice is a copy.
func (ts *ThreadState) Trace() []string {
	out := make([]string, len(ts.trace))
	copy(out, ts.trace)
	return out
}

// Store writes ref into slot i of f. Fatal if f is nil or i is out of
// range (§4.2).
func (f *Frame) Store(i int, ref *abi.Object) {
	if f == nil {
		panic("store on nil frame")
	}
	if i < 0 || i >= len(f.Slots) {
		panic(fmt.Sprintf("slot index %d out of range [0,%d)", i, len(f.Slots)))
	}
	f.Slots[i] = ref
}

// Load reads slot i of f. Fatal if f is nil or i is out of range.
func (f *Frame) Load(i int) *abi.Object {
	if f == nil {
		panic("load on nil frame")
	}
	if i < 0 || i >= len(f.Slots) {
		panic(fmt.Sprintf("slot index %d out of range [0,%d)", i, len(f.Slots)))
	}
	return f.Slots[i]
}

// WalkStack calls visit once for every non-nil slot in every frame
// currently on the shadow stack, from the top down. The collector uses
// this to seed its mark phase (§4.4 step 2).
func (ts *ThreadState) WalkStack(visit func(*abi.Object)) {
	for f := ts.top; f != nil; f = f.prev {
		for _, s := range f.Slots {
			if s != nil {
				visit(s)
			}
		}
	}
}

// Global is the process-wide registry of global root slots: addresses of
// pointer variables that outlive every call frame (module-level statics).
// A registered slot is read at every collection, not snapshotted at
// registration time, so reassigning the global after registering it still
// roots whatever it currently holds. Registration is idempotent;
// unregistering a slot that was never registered is a silent no-op,
// matching §4.2's global-root lifecycle.
type Global struct {
	slots map[**abi.Object]struct{}
}

// NewGlobal returns an empty global-root registry.
func NewGlobal() *Global { return &Global{slots: make(map[**abi.Object]struct{})} }

// Register adds the address of a global pointer variable to the set of
// global roots. Registering the same address twice has no additional
// effect. A nil slot is fatal (§4.2): there is no address to re-read at
// collection time, so accepting one silently would just defer the
// failure to the next GC cycle.
func (g *Global) Register(slot **abi.Object) {
	if slot == nil {
		panic("nil slot")
	}
	g.slots[slot] = struct{}{}
}

// Unregister removes slot from the set of global roots, if present.
func (g *Global) Unregister(slot **abi.Object) {
	delete(g.slots, slot)
}

// WalkGlobals calls visit once for every registered global root currently
// holding a non-nil reference.
func (g *Global) WalkGlobals(visit func(*abi.Object)) {
	for slot := range g.slots {
		if ref := *slot; ref != nil {
			visit(ref)
		}
	}
}
