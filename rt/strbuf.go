// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rt

import "niflheim.dev/niflheim/internal/abi"

const strBufInitialCap = 16

// StrBufNew is rt_strbuf_new: an empty StrBuf with no backing storage yet.
func StrBufNew() *abi.Object {
	return AllocObj(abi.StrBufDesc, 0, &abi.StrBufPayload{})
}

func asStrBuf(obj *abi.Object, api string) *abi.StrBufPayload {
	p, ok := obj.Payload.(*abi.StrBufPayload)
	if !ok {
		panicTypeMismatch(api, "StrBuf")
	}
	return p
}

func strBufCap(p *abi.StrBufPayload) int64 {
	if p.Storage == nil {
		return 0
	}
	return int64(len(p.Storage.Payload.(*abi.StrBufStoragePayload).Bytes))
}

// StrBufLen is rt_strbuf_len.
func StrBufLen(obj *abi.Object) int64 { return asStrBuf(obj, "strbuf_len").Len }

// StrBufAppendByte is rt_strbuf_append_u8: appends one byte, growing
// Storage (doubling, minimum strBufInitialCap) when at capacity, parallel
// to VecPush's growth policy.
func StrBufAppendByte(obj *abi.Object, b byte) {
	p := asStrBuf(obj, "strbuf_append_u8")
	if p.Len >= strBufCap(p) {
		newCap := strBufInitialCap
		if c := strBufCap(p); c > 0 {
			newCap = int(c) * 2
		}
		newStorage := AllocObj(abi.StrBufStorageDesc, int64(newCap), &abi.StrBufStoragePayload{Bytes: make([]byte, newCap)})
		if p.Storage != nil {
			copy(newStorage.Payload.(*abi.StrBufStoragePayload).Bytes, p.Storage.Payload.(*abi.StrBufStoragePayload).Bytes[:p.Len])
		}
		p.Storage = newStorage
	}
	p.Storage.Payload.(*abi.StrBufStoragePayload).Bytes[p.Len] = b
	p.Len++
}

// StrBufToStr is rt_strbuf_to_str: allocates a new, independent Str
// snapshotting the buffer's current contents.
func StrBufToStr(obj *abi.Object) *abi.Object {
	p := asStrBuf(obj, "strbuf_to_str")
	if p.Storage == nil {
		return StrFromBytes(nil, 0)
	}
	return StrFromBytes(p.Storage.Payload.(*abi.StrBufStoragePayload).Bytes, p.Len)
}
