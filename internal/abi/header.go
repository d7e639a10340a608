// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package abi is the compiler<->runtime contract: the object header and
// type descriptor layout every managed object and built-in heap type shares.
// It mirrors the self-describing object model internal/gocore/type.go and
// internal/gocore/object.go use to walk a live Go heap from a core dump,
// adapted here to a heap the runtime itself owns and mutates.
package abi

// Flag bits live in ObjectHeader.Flags. Bits beyond these two are reserved
// and must stay zero (§3).
const (
	FlagMarked uint32 = 1 << iota
	FlagPinned
)

// ObjectHeader sits at the base of every managed object (§3, §6). Total
// on-disk size is 24 bytes in the frozen ABI (arch.HeaderSize): type
// pointer (8), size (8), flags (4), reserved (4). This Go struct carries
// the same four fields without committing to that exact byte layout —
// nothing in this module does raw pointer arithmetic over object memory.
type ObjectHeader struct {
	Type  *TypeDescriptor
	Size  int64 // header + payload, inclusive
	Flags uint32
	_     uint32 // reserved; must stay zero
}

func (h *ObjectHeader) Marked() bool { return h.Flags&FlagMarked != 0 }
func (h *ObjectHeader) Pinned() bool { return h.Flags&FlagPinned != 0 }

func (h *ObjectHeader) SetMarked(v bool) { h.setFlag(FlagMarked, v) }
func (h *ObjectHeader) SetPinned(v bool) { h.setFlag(FlagPinned, v) }

func (h *ObjectHeader) setFlag(bit uint32, v bool) {
	if v {
		h.Flags |= bit
	} else {
		h.Flags &^= bit
	}
}

// Object is a managed heap value: a header plus whatever payload its
// TypeDescriptor knows how to interpret and trace. Built-in types in
// package rt wrap *Object behind typed accessors (Str, Vec, Box, ...).
type Object struct {
	ObjectHeader
	Payload any
}
