// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rt

import (
	"niflheim.dev/niflheim/internal/abi"
)

// AllocObj is rt_alloc_obj(ts, type, payload_bytes): allocates a tracked
// object of the given type with size header_size+payload_bytes, running a
// collection first if the heap is over threshold (§4.3). Negative
// payload_bytes is an overflow condition and panics with OOM (§4.3 step 2).
func AllocObj(typ *abi.TypeDescriptor, payloadBytes int64, payload any) *abi.Object {
	requireInit()
	if payloadBytes < 0 {
		PanicOOM()
	}
	size := int64(24) + payloadBytes
	return current.Heap.Alloc(current.Threads, typ, size, payload)
}

// CheckedCast is rt_checked_cast(obj, expected_type) (§8 invariant 8):
// null casts to null; a matching type returns obj unchanged; anything
// else panics bad-cast.
func CheckedCast(obj *abi.Object, expected *abi.TypeDescriptor) *abi.Object {
	if obj == nil {
		return nil
	}
	if obj.Type == expected {
		return obj
	}
	PanicBadCast(obj.Type.String(), expected.String())
	panic("unreachable") // AbortWithPanic calls os.Exit; this satisfies the Go compiler's control-flow analysis
}
