// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rt

import "niflheim.dev/niflheim/internal/abi"

// StrFromBytes is rt_str_from_bytes(b, n): allocates a Str holding a copy
// of b[:n].
func StrFromBytes(b []byte, n int64) *abi.Object {
	buf := make([]byte, n)
	copy(buf, b[:n])
	return AllocObj(abi.StrDesc, n, &abi.StrPayload{Bytes: buf})
}

func asStr(obj *abi.Object, api string) *abi.StrPayload {
	p, ok := obj.Payload.(*abi.StrPayload)
	if !ok {
		panicTypeMismatch(api, "Str")
	}
	return p
}

// StrLen is rt_str_len.
func StrLen(obj *abi.Object) int64 {
	return int64(len(asStr(obj, "str_len").Bytes))
}

// StrGetU8 is rt_str_get_u8(s, i).
func StrGetU8(obj *abi.Object, i int64) byte {
	p := asStr(obj, "str_get_u8")
	if i < 0 || i >= int64(len(p.Bytes)) {
		panicOutOfBounds("str_get_u8")
	}
	return p.Bytes[i]
}
