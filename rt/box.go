// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rt

import "niflheim.dev/niflheim/internal/abi"

func asBox(obj *abi.Object, api string, kind abi.ElemKind) *abi.BoxPayload {
	p, ok := obj.Payload.(*abi.BoxPayload)
	if !ok || p.Kind != kind {
		panicTypeMismatch(api, abi.BoxDescriptor(kind).Name)
	}
	return p
}

// BoxI64New is rt_box_i64_new.
func BoxI64New(v int64) *abi.Object {
	return AllocObj(abi.BoxDescriptor(abi.I64), 8, &abi.BoxPayload{Kind: abi.I64, I64: v})
}

// BoxI64Get is rt_box_i64_get.
func BoxI64Get(obj *abi.Object) int64 { return asBox(obj, "box_i64_get", abi.I64).I64 }

// BoxU64New is rt_box_u64_new.
func BoxU64New(v uint64) *abi.Object {
	return AllocObj(abi.BoxDescriptor(abi.U64), 8, &abi.BoxPayload{Kind: abi.U64, U64: v})
}

// BoxU64Get is rt_box_u64_get.
func BoxU64Get(obj *abi.Object) uint64 { return asBox(obj, "box_u64_get", abi.U64).U64 }

// BoxU8New is rt_box_u8_new.
func BoxU8New(v uint8) *abi.Object {
	return AllocObj(abi.BoxDescriptor(abi.U8), 1, &abi.BoxPayload{Kind: abi.U8, U8: v})
}

// BoxU8Get is rt_box_u8_get.
func BoxU8Get(obj *abi.Object) uint8 { return asBox(obj, "box_u8_get", abi.U8).U8 }

// BoxBoolNew is rt_box_bool_new.
func BoxBoolNew(v bool) *abi.Object {
	return AllocObj(abi.BoxDescriptor(abi.Bool), 1, &abi.BoxPayload{Kind: abi.Bool, Bool: v})
}

// BoxBoolGet is rt_box_bool_get.
func BoxBoolGet(obj *abi.Object) bool { return asBox(obj, "box_bool_get", abi.Bool).Bool }

// BoxDoubleNew is rt_box_double_new.
func BoxDoubleNew(v float64) *abi.Object {
	return AllocObj(abi.BoxDescriptor(abi.F64), 8, &abi.BoxPayload{Kind: abi.F64, F64: v})
}

// BoxDoubleGet is rt_box_double_get.
func BoxDoubleGet(obj *abi.Object) float64 { return asBox(obj, "box_double_get", abi.F64).F64 }
