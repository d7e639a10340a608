// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rt

import (
	"encoding/binary"
	"math"

	"niflheim.dev/niflheim/internal/abi"
)

// ArrayNew allocates a primitive array of n zeroed elements of kind k
// (rt_array_new_{i64,u64,u8,bool,double}).
func ArrayNew(k abi.ElemKind, n int64) *abi.Object {
	data := make([]byte, n*k.Size())
	return AllocObj(abi.PrimArrayDescriptor(k), int64(len(data)), &abi.PrimArrayPayload{Kind: k, Data: data})
}

func asArray(obj *abi.Object, api string, k abi.ElemKind) *abi.PrimArrayPayload {
	p, ok := obj.Payload.(*abi.PrimArrayPayload)
	if !ok || p.Kind != k {
		panicTypeMismatch(api, "Array<"+k.String()+">")
	}
	return p
}

// ArrayLen is rt_array_len_*.
func ArrayLen(obj *abi.Object, k abi.ElemKind) int64 {
	return asArray(obj, "array_len", k).Len()
}

func checkIndex(api string, p *abi.PrimArrayPayload, i int64) {
	if i < 0 || i >= p.Len() {
		panicOutOfBounds(api)
	}
}

// ArrayGetI64 is rt_array_get_i64.
func ArrayGetI64(obj *abi.Object, i int64) int64 {
	p := asArray(obj, "array_get_i64", abi.I64)
	checkIndex("array_get_i64", p, i)
	return int64(binary.LittleEndian.Uint64(p.Data[i*8:]))
}

// ArraySetI64 is rt_array_set_i64.
func ArraySetI64(obj *abi.Object, i, v int64) {
	p := asArray(obj, "array_set_i64", abi.I64)
	checkIndex("array_set_i64", p, i)
	binary.LittleEndian.PutUint64(p.Data[i*8:], uint64(v))
}

// ArrayGetU64 is rt_array_get_u64.
func ArrayGetU64(obj *abi.Object, i int64) uint64 {
	p := asArray(obj, "array_get_u64", abi.U64)
	checkIndex("array_get_u64", p, i)
	return binary.LittleEndian.Uint64(p.Data[i*8:])
}

// ArraySetU64 is rt_array_set_u64.
func ArraySetU64(obj *abi.Object, i int64, v uint64) {
	p := asArray(obj, "array_set_u64", abi.U64)
	checkIndex("array_set_u64", p, i)
	binary.LittleEndian.PutUint64(p.Data[i*8:], v)
}

// ArrayGetU8 is rt_array_get_u8.
func ArrayGetU8(obj *abi.Object, i int64) uint8 {
	p := asArray(obj, "array_get_u8", abi.U8)
	checkIndex("array_get_u8", p, i)
	return p.Data[i]
}

// ArraySetU8 is rt_array_set_u8.
func ArraySetU8(obj *abi.Object, i int64, v uint8) {
	p := asArray(obj, "array_set_u8", abi.U8)
	checkIndex("array_set_u8", p, i)
	p.Data[i] = v
}

// ArrayGetBool is rt_array_get_bool.
func ArrayGetBool(obj *abi.Object, i int64) bool {
	p := asArray(obj, "array_get_bool", abi.Bool)
	checkIndex("array_get_bool", p, i)
	return p.Data[i] != 0
}

// ArraySetBool is rt_array_set_bool.
func ArraySetBool(obj *abi.Object, i int64, v bool) {
	p := asArray(obj, "array_set_bool", abi.Bool)
	checkIndex("array_set_bool", p, i)
	if v {
		p.Data[i] = 1
	} else {
		p.Data[i] = 0
	}
}

// ArrayGetDouble is rt_array_get_double.
func ArrayGetDouble(obj *abi.Object, i int64) float64 {
	p := asArray(obj, "array_get_double", abi.F64)
	checkIndex("array_get_double", p, i)
	return math.Float64frombits(binary.LittleEndian.Uint64(p.Data[i*8:]))
}

// ArraySetDouble is rt_array_set_double.
func ArraySetDouble(obj *abi.Object, i int64, v float64) {
	p := asArray(obj, "array_set_double", abi.F64)
	checkIndex("array_set_double", p, i)
	binary.LittleEndian.PutUint64(p.Data[i*8:], math.Float64bits(v))
}

// ArraySlice is rt_array_slice_* for every primitive kind: returns a new,
// independently-allocated array covering [start,end) of obj (§8's "slice
// independence" property — the returned array owns a copy of the backing
// bytes, so later mutation of obj never aliases into it).
func ArraySlice(obj *abi.Object, k abi.ElemKind, start, end int64) *abi.Object {
	api := "array_slice_" + k.String()
	p := asArray(obj, api, k)
	if start > end || end > p.Len() || start < 0 {
		panicBadSliceRange(api)
	}
	out := ArrayNew(k, end-start)
	outData := out.Payload.(*abi.PrimArrayPayload).Data
	copy(outData, p.Data[start*k.Size():end*k.Size()])
	return out
}

// RefArrayNew is rt_array_new_ref: allocates a reference array of n
// null slots.
func RefArrayNew(n int64) *abi.Object {
	return AllocObj(abi.RefArrayDesc, n*8, &abi.RefArrayPayload{Slots: make([]*abi.Object, n)})
}

func asRefArray(obj *abi.Object, api string) *abi.RefArrayPayload {
	p, ok := obj.Payload.(*abi.RefArrayPayload)
	if !ok {
		panicTypeMismatch(api, "Array<Obj>")
	}
	return p
}

// RefArrayLen is rt_array_len_ref.
func RefArrayLen(obj *abi.Object) int64 {
	return int64(len(asRefArray(obj, "array_len_ref").Slots))
}

// RefArrayGet is rt_array_get_ref.
func RefArrayGet(obj *abi.Object, i int64) *abi.Object {
	p := asRefArray(obj, "array_get_ref")
	if i < 0 || i >= int64(len(p.Slots)) {
		panicOutOfBounds("array_get_ref")
	}
	return p.Slots[i]
}

// RefArraySet is rt_array_set_ref.
func RefArraySet(obj *abi.Object, i int64, v *abi.Object) {
	p := asRefArray(obj, "array_set_ref")
	if i < 0 || i >= int64(len(p.Slots)) {
		panicOutOfBounds("array_set_ref")
	}
	p.Slots[i] = v
}

// RefArraySlice is rt_array_slice_ref.
func RefArraySlice(obj *abi.Object, start, end int64) *abi.Object {
	p := asRefArray(obj, "array_slice_ref")
	if start > end || end > int64(len(p.Slots)) || start < 0 {
		panicBadSliceRange("array_slice_ref")
	}
	out := RefArrayNew(end - start)
	copy(out.Payload.(*abi.RefArrayPayload).Slots, p.Slots[start:end])
	return out
}
