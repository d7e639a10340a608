// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rt is the runtime generated code links against: process-wide GC
// state (§9's "model as a process-wide collector context"), the root
// protocol, the allocator/collector entry points, the panic family, and
// the built-in heap types. Apart from the diagnostic helpers Breakdown and
// AbortWithPanic, every exported function here corresponds to one rt_*
// entry point in the external-interface table (§6); Go naming
// (CamelCase, no rt_ prefix) stands in for the C-calling-convention names
// codegen emits symbol references to.
package rt

import (
	"fmt"
	"os"

	"niflheim.dev/niflheim/internal/abi"
	"niflheim.dev/niflheim/internal/gcheap"
	"niflheim.dev/niflheim/internal/roots"
)

// Runtime is the process-wide collector context (§9): tracked heap, shadow
// stack, and global-root registry. Generated code obtains one via Init and
// carries it (or its ThreadState) through every call; tests obtain a fresh
// one per scenario via Init/Shutdown, matching §9's "tests must call
// rt_gc_reset_state between scenarios".
type Runtime struct {
	Heap    *gcheap.Heap
	Threads *roots.ThreadState
	Globals *roots.Global
}

// current is the process-wide runtime instance. Niflheim v0.1 is
// single-threaded (§1 Non-goals), so one instance is sufficient; there is
// no per-goroutine indirection to build.
var current *Runtime

// Init establishes the process-wide runtime context (rt_init). Calling
// Init while already initialized replaces the previous context outright —
// this is rt_gc_reset_state's mechanism as much as rt_init's.
func Init() *Runtime {
	current = &Runtime{
		Heap:    gcheap.New(),
		Threads: roots.NewThreadState(),
		Globals: roots.NewGlobal(),
	}
	return current
}

// Shutdown tears down the process-wide runtime context (rt_shutdown).
// Fatal if the shadow stack isn't balanced (§8 invariant 4): every pushed
// frame must have been popped before shutdown.
func Shutdown() {
	if current == nil {
		return
	}
	if current.Threads.Depth() != 0 {
		panic(fmt.Sprintf("rt: shutdown with %d unbalanced root frame(s)", current.Threads.Depth()))
	}
	current = nil
}

// ResetState reinitializes the runtime context, discarding all state
// (rt_gc_reset_state). Unlike Shutdown, it does not require a balanced
// shadow stack — its purpose is exactly to recover between test scenarios
// that may have panicked mid-sequence.
func ResetState() *Runtime { return Init() }

// ThreadStateHandle returns the process-wide shadow stack (rt_thread_state).
// Panics if the runtime hasn't been initialized.
func ThreadStateHandle() *roots.ThreadState {
	requireInit()
	return current.Threads
}

func requireInit() {
	if current == nil {
		panic("rt: runtime not initialized; call rt.Init first")
	}
}

// --- Root protocol (§4.2, §6) ---

// withRootDiscipline calls f and recovers any panic internal/roots raises,
// re-raising it through panicRootDiscipline's "<entry>: <reason>" wire
// format (§7). internal/roots panics directly with its own lower-level
// message since it has no dependency on this package's panic family; every
// rt entry point that forwards straight into it funnels through here so a
// push/pop/slot-index/nil-global violation aborts exactly like every other
// generated-code panic, instead of surfacing as a raw unhandled Go panic.
func withRootDiscipline(entry string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			panicRootDiscipline(entry, fmt.Sprint(r))
		}
	}()
	f()
}

// PushRoots is rt_push_roots / the root_frame_init + push combination:
// installs a new shadow-stack frame with nslots slots.
func PushRoots(nslots int, label string) (f *roots.Frame) {
	requireInit()
	withRootDiscipline("push_roots", func() { f = current.Threads.PushRoots(nslots, label) })
	return f
}

// PopRoots is rt_pop_roots.
func PopRoots() {
	requireInit()
	withRootDiscipline("pop_roots", func() { current.Threads.PopRoots() })
}

// RootSlotStore is rt_root_slot_store.
func RootSlotStore(f *roots.Frame, i int, ref *abi.Object) {
	withRootDiscipline("root_slot_store", func() { f.Store(i, ref) })
}

// RootSlotLoad is rt_root_slot_load.
func RootSlotLoad(f *roots.Frame, i int) (ref *abi.Object) {
	withRootDiscipline("root_slot_load", func() { ref = f.Load(i) })
	return ref
}

// RegisterGlobalRoot is rt_gc_register_global_root.
func RegisterGlobalRoot(slot **abi.Object) {
	requireInit()
	withRootDiscipline("gc_register_global_root", func() { current.Globals.Register(slot) })
}

// UnregisterGlobalRoot is rt_gc_unregister_global_root.
func UnregisterGlobalRoot(slot **abi.Object) {
	requireInit()
	current.Globals.Unregister(slot)
}

// --- GC (§4.3, §4.4, §6) ---

// Collect is rt_gc_collect: an unconditional stop-the-world cycle.
func Collect() {
	requireInit()
	current.Heap.CollectWithGlobals(current.Threads, current.Globals)
}

// Stats is rt_gc_get_stats.
func Stats() gcheap.Stats {
	requireInit()
	return current.Heap.Stats()
}

// Breakdown reports live bytes and object counts grouped by type name
// (SPEC_FULL.md §13), for diagnostic tooling such as cmd/niflc's stats
// subcommand.
func Breakdown() []gcheap.Breakdown {
	requireInit()
	return current.Heap.Breakdown()
}

// AbortWithPanic prints a panic message in the §7/§6 wire format and
// terminates the process with a nonzero exit code. It is the terminal
// step every panic family member and rt_panic funnel through — adapted
// from internal/testenv's crash-after-work pattern (a deliberate,
// message-then-abort exit) rather than a Go panic/recover, since generated
// code has no unwinding protocol to catch one (§5, §7).
func AbortWithPanic(message string) {
	fmt.Fprintf(os.Stderr, "panic: %s\n", message)
	if current != nil {
		if trace := current.Threads.Trace(); len(trace) > 0 {
			fmt.Fprintln(os.Stderr, "stacktrace:")
			for i := len(trace) - 1; i >= 0; i-- {
				fmt.Fprintf(os.Stderr, "\t%s\n", trace[i])
			}
		}
	}
	os.Exit(1)
}
