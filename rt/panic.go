// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rt

import "fmt"

// The panic family (§6, §7). Every member is noreturn in the emitted
// code's model: each calls AbortWithPanic, which calls os.Exit and never
// returns to the caller. Message formats are wire contracts generated code
// and tests both depend on — changing one is a breaking ABI change.

// Panic is rt_panic(msg): the explicit, user- or runtime-triggered panic.
func Panic(msg string) {
	AbortWithPanic(msg)
}

// PanicNullDeref is rt_panic_null_deref.
func PanicNullDeref() {
	AbortWithPanic("null dereference")
}

// PanicBadCast is rt_panic_bad_cast(from, to).
func PanicBadCast(from, to string) {
	AbortWithPanic(fmt.Sprintf("bad cast (%s -> %s)", from, to))
}

// PanicOOM is rt_panic_oom.
func PanicOOM() {
	AbortWithPanic("out of memory")
}

// panicOutOfBounds backs every *_get/*_set/*_slice bounds check; api
// names the failing entry point (e.g. "array_get_i64").
func panicOutOfBounds(api string) {
	AbortWithPanic(fmt.Sprintf("%s: index out of bounds", api))
}

// panicBadSliceRange backs every *_slice range check.
func panicBadSliceRange(api string) {
	AbortWithPanic(fmt.Sprintf("%s: invalid slice range", api))
}

// panicTypeMismatch backs a built-in API called against the wrong object
// type (i.e. a payload type assertion that would otherwise fail).
func panicTypeMismatch(api, wantType string) {
	AbortWithPanic(fmt.Sprintf("%s: object is not %s", api, wantType))
}

// panicRootDiscipline backs push/pop underflow, bad-slot-index and
// nil-global-slot failures: internal/roots panics with its own lower-level
// message, and withRootDiscipline (rt.go) recovers it and re-raises it here
// in the §7 "<entry>: <reason>" shape.
func panicRootDiscipline(entry, reason string) {
	AbortWithPanic(fmt.Sprintf("%s: %s", entry, reason))
}
