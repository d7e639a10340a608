// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abi

// Built-in type ids. User-class descriptors synthesized by the compiler
// (NewClassDescriptor) start numbering at FirstUserTypeID.
const (
	idStr uint32 = iota
	idPrimArrayI64
	idPrimArrayU64
	idPrimArrayU8
	idPrimArrayBool
	idPrimArrayF64
	idRefArray
	idVec
	idVecStorage
	idStrBuf
	idStrBufStorage
	idBoxI64
	idBoxU64
	idBoxU8
	idBoxBool
	idBoxF64

	FirstUserTypeID
)

// StrPayload backs the Str descriptor: an immutable byte sequence.
type StrPayload struct {
	Bytes []byte
}

// StrDesc: leaf, variable size — the sole source of truth for a string's
// footprint is ObjectHeader.Size (§4.1).
var StrDesc = &TypeDescriptor{
	ID: idStr, Flags: Leaf | VariableSize, ABIVersion: ABIVersion,
	Align: 8, Name: "Str",
}

// PrimArrayPayload backs every primitive array descriptor: a flat byte
// buffer decoded according to Kind.
type PrimArrayPayload struct {
	Kind ElemKind
	Data []byte
}

func (p *PrimArrayPayload) Len() int64 { return int64(len(p.Data)) / p.Kind.Size() }

var primArrayDescs = map[ElemKind]*TypeDescriptor{
	I64:  {ID: idPrimArrayI64, Flags: Leaf | VariableSize, ABIVersion: ABIVersion, Align: 8, Name: "Array<i64>"},
	U64:  {ID: idPrimArrayU64, Flags: Leaf | VariableSize, ABIVersion: ABIVersion, Align: 8, Name: "Array<u64>"},
	U8:   {ID: idPrimArrayU8, Flags: Leaf | VariableSize, ABIVersion: ABIVersion, Align: 1, Name: "Array<u8>"},
	Bool: {ID: idPrimArrayBool, Flags: Leaf | VariableSize, ABIVersion: ABIVersion, Align: 1, Name: "Array<bool>"},
	F64:  {ID: idPrimArrayF64, Flags: Leaf | VariableSize, ABIVersion: ABIVersion, Align: 8, Name: "Array<double>"},
}

// PrimArrayDescriptor returns the built-in descriptor for a primitive array
// of the given element kind.
func PrimArrayDescriptor(k ElemKind) *TypeDescriptor { return primArrayDescs[k] }

// RefArrayPayload backs the reference-array descriptor: a fixed vector of
// slots, any of which may be the null reference.
type RefArrayPayload struct {
	Slots []*Object
}

// RefArrayDesc: has-refs, variable size, traces every slot in [0,len) (§4.1).
var RefArrayDesc = &TypeDescriptor{
	ID: idRefArray, Flags: HasRefs | VariableSize, ABIVersion: ABIVersion,
	Align: 8, Name: "Array<Obj>",
	TraceFn: func(obj *Object, mark func(*Object)) {
		p := obj.Payload.(*RefArrayPayload)
		for _, s := range p.Slots {
			if s != nil {
				mark(s)
			}
		}
	},
}

// VecPayload backs Vec: a length plus a pointer to the backing VecStorage
// object. Vec never holds its elements directly — growth reallocates
// Storage, never Vec itself.
type VecPayload struct {
	Len     int64
	Storage *Object // *Object with Payload *VecStoragePayload, or nil if cap==0
}

// VecDesc: has-refs, fixed size, traces its single Storage slot (§4.1).
var VecDesc = &TypeDescriptor{
	ID: idVec, Flags: HasRefs, ABIVersion: ABIVersion, Align: 8, Size: 24, Name: "Vec",
	TraceFn: func(obj *Object, mark func(*Object)) {
		p := obj.Payload.(*VecPayload)
		if p.Storage != nil {
			mark(p.Storage)
		}
	},
}

// VecStoragePayload backs VecStorage: the actual backing array of element
// slots, sized to capacity.
type VecStoragePayload struct {
	Slots []*Object
}

// VecStorageDesc: has-refs, variable size, traces every slot in
// [0,capacity) (§4.1).
var VecStorageDesc = &TypeDescriptor{
	ID: idVecStorage, Flags: HasRefs | VariableSize, ABIVersion: ABIVersion,
	Align: 8, Name: "VecStorage",
	TraceFn: func(obj *Object, mark func(*Object)) {
		p := obj.Payload.(*VecStoragePayload)
		for _, s := range p.Slots {
			if s != nil {
				mark(s)
			}
		}
	},
}

// StrBufPayload backs StrBuf: a length plus a pointer to the backing
// StrBufStorage object, parallel to Vec/VecStorage.
type StrBufPayload struct {
	Len     int64
	Storage *Object // *Object with Payload *StrBufStoragePayload
}

// StrBufDesc: has-refs, fixed size, traces its single Storage slot.
var StrBufDesc = &TypeDescriptor{
	ID: idStrBuf, Flags: HasRefs, ABIVersion: ABIVersion, Align: 8, Size: 24, Name: "StrBuf",
	TraceFn: func(obj *Object, mark func(*Object)) {
		p := obj.Payload.(*StrBufPayload)
		if p.Storage != nil {
			mark(p.Storage)
		}
	},
}

// StrBufStoragePayload backs StrBufStorage: the raw byte buffer, sized to
// capacity (only [0,Len) of it is meaningful).
type StrBufStoragePayload struct {
	Bytes []byte
}

// StrBufStorageDesc: leaf, variable size — raw bytes hold no references.
var StrBufStorageDesc = &TypeDescriptor{
	ID: idStrBufStorage, Flags: Leaf | VariableSize, ABIVersion: ABIVersion,
	Align: 8, Name: "StrBufStorage",
}

// BoxPayload backs every Box<T>: a single primitive value.
type BoxPayload struct {
	Kind ElemKind
	I64  int64
	U64  uint64
	U8   uint8
	Bool bool
	F64  float64
}

var boxDescs = map[ElemKind]*TypeDescriptor{
	I64:  {ID: idBoxI64, Flags: Leaf, ABIVersion: ABIVersion, Align: 8, Size: 32, Name: "BoxI64"},
	U64:  {ID: idBoxU64, Flags: Leaf, ABIVersion: ABIVersion, Align: 8, Size: 32, Name: "BoxU64"},
	U8:   {ID: idBoxU8, Flags: Leaf, ABIVersion: ABIVersion, Align: 8, Size: 25, Name: "BoxU8"},
	Bool: {ID: idBoxBool, Flags: Leaf, ABIVersion: ABIVersion, Align: 8, Size: 25, Name: "BoxBool"},
	F64:  {ID: idBoxF64, Flags: Leaf, ABIVersion: ABIVersion, Align: 8, Size: 32, Name: "BoxDouble"},
}

// BoxDescriptor returns the built-in descriptor for a boxed primitive of
// the given kind.
func BoxDescriptor(k ElemKind) *TypeDescriptor { return boxDescs[k] }
