// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcheap

import (
	"niflheim.dev/niflheim/arch"
	"niflheim.dev/niflheim/internal/abi"
	"niflheim.dev/niflheim/internal/roots"
)

// Globals is the global-root registry a Collect pass consults in addition
// to the shadow stack (§4.4 step 2).
type Globals interface {
	WalkGlobals(func(*abi.Object))
}

// Collect runs one stop-the-world mark-sweep cycle (§4.4):
//
//  1. Clear the mark bit on every tracked object.
//  2. Seed a worklist from the shadow stack and the global-root registry.
//  3. Drain the worklist: mark each object, then trace it for unmarked
//     children and push them (cycles terminate because a second visit to
//     an already-marked object is a no-op).
//  4. Sweep: partition tracked objects into the marked or pinned (survive)
//     and the remaining (reclaimed) sets.
//  5. Retune next_gc_threshold from the post-sweep live set.
func (h *Heap) Collect(ts *roots.ThreadState) {
	h.CollectWithGlobals(ts, nil)
}

// CollectWithGlobals is Collect plus an explicit global-root registry. rt
// wires its process-wide Globals here; Collect alone is for tests that
// only care about stack roots.
func (h *Heap) CollectWithGlobals(ts *roots.ThreadState, globals Globals) {
	h.collections++

	// Step 1: clear.
	for _, o := range h.objects {
		o.SetMarked(false)
	}

	// Step 2: seed the worklist from every root source.
	var work []*abi.Object
	seed := func(o *abi.Object) {
		if o != nil {
			work = append(work, o)
		}
	}
	if ts != nil {
		ts.WalkStack(seed)
	}
	if globals != nil {
		globals.WalkGlobals(seed)
	}

	// Step 3: drain, marking and tracing.
	for len(work) > 0 {
		o := work[len(work)-1]
		work = work[:len(work)-1]
		if o.Marked() {
			continue
		}
		o.SetMarked(true)
		o.Type.Trace(o, func(child *abi.Object) {
			if child != nil && !child.Marked() {
				work = append(work, child)
			}
		})
	}

	// Step 4: sweep. An object survives if it was reached from a root
	// (MARKED) or is explicitly exempt from reachability (PINNED), per
	// §4.4 step 4 and the data model's §8 invariant 3.
	survivors := h.objects[:0]
	var live, reclaimed int64
	for _, o := range h.objects {
		if o.Marked() || o.Pinned() {
			survivors = append(survivors, o)
			live += o.Size
		} else {
			reclaimed += o.Size
		}
	}
	h.objects = survivors
	h.liveBytes = live
	h.trackedObjects = int64(len(survivors))
	h.bytesReclaimed += reclaimed
	h.allocatedBytes = live

	// Step 5: retune (§4.4 step 5): next threshold grows from the
	// post-sweep live set, floored at the minimum so a mostly-empty heap
	// doesn't collect on every other allocation.
	next := live * arch.GCGrowthNum / arch.GCGrowthDen
	if next < arch.MinGCThreshold {
		next = arch.MinGCThreshold
	}
	h.nextGCThreshold = next

	if reclaimed == 0 && len(h.objects) > 0 {
		h.warn("gc: collection #%d reclaimed nothing (%d bytes live)", h.collections, live)
	}
}
