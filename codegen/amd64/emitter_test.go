// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amd64

import (
	"strings"
	"testing"
)

func TestEmitFuncPrologueReservesRefSlots(t *testing.T) {
	f := &Func{
		Name: "make_chain",
		Locals: []Local{
			{Name: "a", Class: ClassRef, Slot: 0},
			{Name: "b", Class: ClassRef, Slot: 1},
			{Name: "i", Class: ClassInt},
		},
		Code: []Inst{{Op: OpReturn}},
	}
	e := NewEmitter()
	e.EmitFunc(f)
	out := e.String()

	if !strings.Contains(out, "make_chain:") {
		t.Fatal("missing function label")
	}
	if !strings.Contains(out, "sub rsp, 16") {
		t.Fatalf("expected frame reservation for 2 ref slots, got:\n%s", out)
	}
	if !strings.Contains(out, "call push_roots") {
		t.Fatal("prologue did not call push_roots")
	}
	if !strings.Contains(out, "call pop_roots") {
		t.Fatal("return path did not call pop_roots")
	}
}

func TestEmitFuncPrologueAlignsOddRefSlotCount(t *testing.T) {
	f := &Func{
		Name: "make_chain",
		Locals: []Local{
			{Name: "a", Class: ClassRef, Slot: 0},
			{Name: "b", Class: ClassRef, Slot: 1},
			{Name: "c", Class: ClassRef, Slot: 2},
		},
		Code: []Inst{{Op: OpReturn}},
	}
	e := NewEmitter()
	e.EmitFunc(f)
	out := e.String()

	if strings.Contains(out, "sub rsp, 24") {
		t.Fatalf("3 ref slots (24 bytes) must round up to a 16-byte boundary, got:\n%s", out)
	}
	if !strings.Contains(out, "sub rsp, 32") {
		t.Fatalf("expected 3 ref slots to reserve 32 bytes (24 rounded up to 16), got:\n%s", out)
	}
}

func TestEmitFuncBalancesPushPopWithNoExplicitReturn(t *testing.T) {
	f := &Func{Name: "falls_off_end", Code: nil}
	e := NewEmitter()
	e.EmitFunc(f)
	out := e.String()
	pushes := strings.Count(out, "push_roots")
	pops := strings.Count(out, "pop_roots")
	if pushes != 1 || pops != 1 {
		t.Fatalf("push_roots=%d pop_roots=%d, want 1 and 1", pushes, pops)
	}
}

func TestFieldAccessEmitsNullCheck(t *testing.T) {
	f := &Func{
		Name: "get_field",
		Locals: []Local{
			{Name: "obj", Class: ClassRef},
			{Name: "v", Class: ClassInt},
		},
		Code: []Inst{
			{Op: OpFieldLoad, Src: "obj", Dst: "v", FieldOffset: 24},
			{Op: OpReturn, Src: "v"},
		},
	}
	e := NewEmitter()
	e.EmitFunc(f)
	out := e.String()
	if !strings.Contains(out, "call rt_panic_null_deref") {
		t.Fatal("field load did not emit a null-deref check")
	}
	if !strings.Contains(out, "[rax+24]") {
		t.Fatal("field load did not use the given field offset")
	}
}

func TestCheckedCastLowersToRuntimeCall(t *testing.T) {
	f := &Func{
		Name: "downcast",
		Locals: []Local{
			{Name: "in", Class: ClassRef},
			{Name: "out", Class: ClassRef},
		},
		Code: []Inst{
			{Op: OpCheckedCast, Src: "in", Dst: "out", ExpectedType: "BoxI64"},
			{Op: OpReturn, Src: "out"},
		},
	}
	e := NewEmitter()
	e.EmitFunc(f)
	if out := e.String(); !strings.Contains(out, "call rt_checked_cast") {
		t.Fatalf("checked cast did not lower to rt_checked_cast:\n%s", out)
	}
}

func TestRuntimeCallSpillsRefLocalsBeforeCall(t *testing.T) {
	f := &Func{
		Name: "push_to_vec",
		Locals: []Local{
			{Name: "v", Class: ClassRef, Slot: 0},
			{Name: "item", Class: ClassRef, Slot: 1},
		},
		Code: []Inst{
			{Op: OpCallRuntime, Callee: "rt_vec_push", Args: []string{"v", "item"}},
			{Op: OpReturn},
		},
	}
	e := NewEmitter()
	e.EmitFunc(f)
	out := e.String()
	spillIdx := strings.Index(out, "spill v to root slot")
	callIdx := strings.Index(out, "call rt_vec_push")
	if spillIdx == -1 || callIdx == -1 || spillIdx > callIdx {
		t.Fatalf("expected spill before call, got:\n%s", out)
	}
}

func TestArgRegPanicsPastRegisterRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("argReg with out-of-range index did not panic")
		}
	}()
	argReg(99)
}
