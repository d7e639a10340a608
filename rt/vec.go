// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rt

import "niflheim.dev/niflheim/internal/abi"

const vecInitialCap = 4

// VecNew is rt_vec_new: an empty Vec with no backing storage yet.
func VecNew() *abi.Object {
	return AllocObj(abi.VecDesc, 0, &abi.VecPayload{})
}

func asVec(obj *abi.Object, api string) *abi.VecPayload {
	p, ok := obj.Payload.(*abi.VecPayload)
	if !ok {
		panicTypeMismatch(api, "Vec")
	}
	return p
}

func vecCap(p *abi.VecPayload) int64 {
	if p.Storage == nil {
		return 0
	}
	return int64(len(p.Storage.Payload.(*abi.VecStoragePayload).Slots))
}

// VecLen is rt_vec_len.
func VecLen(obj *abi.Object) int64 { return asVec(obj, "vec_len").Len }

// VecGet is rt_vec_get.
func VecGet(obj *abi.Object, i int64) *abi.Object {
	p := asVec(obj, "vec_get")
	if i < 0 || i >= p.Len {
		panicOutOfBounds("vec_get")
	}
	return p.Storage.Payload.(*abi.VecStoragePayload).Slots[i]
}

// VecSet is rt_vec_set.
func VecSet(obj *abi.Object, i int64, v *abi.Object) {
	p := asVec(obj, "vec_set")
	if i < 0 || i >= p.Len {
		panicOutOfBounds("vec_set")
	}
	p.Storage.Payload.(*abi.VecStoragePayload).Slots[i] = v
}

// VecPush is rt_vec_push: appends v, growing Storage (doubling, minimum
// vecInitialCap) when at capacity. The grown VecStorage is a fresh
// allocation; the old one becomes unreachable as soon as Vec's Storage
// pointer is repointed, and is reclaimed by the next collection like any
// other dead object — there is no explicit free.
func VecPush(obj *abi.Object, v *abi.Object) {
	p := asVec(obj, "vec_push")
	if p.Len >= vecCap(p) {
		newCap := vecInitialCap
		if c := vecCap(p); c > 0 {
			newCap = int(c) * 2
		}
		newStorage := AllocObj(abi.VecStorageDesc, int64(newCap)*8, &abi.VecStoragePayload{Slots: make([]*abi.Object, newCap)})
		if p.Storage != nil {
			copy(newStorage.Payload.(*abi.VecStoragePayload).Slots, p.Storage.Payload.(*abi.VecStoragePayload).Slots[:p.Len])
		}
		p.Storage = newStorage
	}
	p.Storage.Payload.(*abi.VecStoragePayload).Slots[p.Len] = v
	p.Len++
}
