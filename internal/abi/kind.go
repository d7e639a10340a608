// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abi

// ElemKind names a primitive element type carried by a Box or a primitive
// array/slice. It has nothing to do with reference tracing: every ElemKind
// is scalar data the collector never looks inside.
type ElemKind uint8

const (
	I64 ElemKind = iota
	U64
	U8
	Bool
	F64
)

func (k ElemKind) String() string {
	switch k {
	case I64:
		return "i64"
	case U64:
		return "u64"
	case U8:
		return "u8"
	case Bool:
		return "bool"
	case F64:
		return "double"
	default:
		return "elem?"
	}
}

// Size is the in-memory size of one element of this kind, in bytes.
func (k ElemKind) Size() int64 {
	switch k {
	case U8, Bool:
		return 1
	default:
		return 8
	}
}
