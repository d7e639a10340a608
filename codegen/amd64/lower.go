// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amd64

import (
	"fmt"

	"niflheim.dev/niflheim/arch"
)

// alignUp rounds n up to the next multiple of align.
func alignUp(n, align int) int {
	if rem := n % align; rem != 0 {
		n += align - rem
	}
	return n
}

// emitPrologue implements §4.5's prologue: reserve a frame region sized
// to the function's reference locals, build a root-frame descriptor over
// it, and push it onto the shadow stack. The reservation is rounded up to
// arch.AMD64.StackAlignment so the %rsp entering the call below (and every
// call after it) stays 16-byte aligned regardless of slot count.
func (e *Emitter) emitPrologue(f *Func) {
	e.instr("push rbp")
	e.instr("mov rbp, rsp")

	slots := f.RefSlots()
	frameBytes := alignUp(slots*8, arch.AMD64.StackAlignment)
	e.comment("reserve %d reference slot(s) (%d byte(s), %d-aligned) on the activation frame",
		slots, frameBytes, arch.AMD64.StackAlignment)
	if frameBytes > 0 {
		e.instr("sub rsp, %d", frameBytes)
	}
	e.instr("lea rdi, [rsp]")
	e.instr("mov rsi, %d", slots)
	e.instr("call root_frame_init")
	e.instr("mov rdi, rax")
	e.instr("call push_roots")
}

// emitEpilogue implements §4.5's epilogue: pop_roots exactly once, then
// restore the stack frame. Called once per return path.
func (e *Emitter) emitEpilogue() {
	e.instr("call pop_roots")
	e.instr("mov rsp, rbp")
	e.instr("pop rbp")
}

// spillLiveRefs writes every live ClassRef local into its root slot
// before a safepoint, per §4.5's safepoint rule.
func (e *Emitter) spillLiveRefs(f *Func) {
	for _, l := range f.Locals {
		if l.Class == ClassRef {
			e.comment("spill %s to root slot %d", l.Name, l.Slot)
			e.instr("mov rax, [rbp-%d]", (l.Slot+1)*8)
			e.instr("call root_slot_store_%d", l.Slot)
		}
	}
}

// reloadRefs reloads every ClassRef local from its root slot after a
// safepoint; raw register contents spanning the call are undefined (§4.5).
func (e *Emitter) reloadRefs(f *Func) {
	for _, l := range f.Locals {
		if l.Class == ClassRef {
			e.comment("reload %s from root slot %d", l.Name, l.Slot)
			e.instr("call root_slot_load_%d", l.Slot)
			e.instr("mov [rbp-%d], rax", (l.Slot+1)*8)
		}
	}
}

// emitCall lowers an argument-passing call: arguments placed in the
// calling-convention registers, reference args spilled first since every
// call in this IR is a safepoint or safepoint-adjacent (§4.5).
func (e *Emitter) emitCall(f *Func, callee string, args []string) {
	e.spillLiveRefs(f)
	intIdx, floatIdx := 0, 0
	for _, argName := range args {
		l, ok := f.localByName(argName)
		if !ok {
			panic(fmt.Sprintf("amd64: unknown argument local %q in call to %s", argName, callee))
		}
		reg := classArgReg(l.Class, pick(l.Class, &intIdx, &floatIdx))
		e.instr("mov %s, [local %s]", reg, argName)
	}
	e.instr("call %s", callee)
	e.reloadRefs(f)
}

func pick(cl Class, intIdx, floatIdx *int) int {
	if cl == ClassFloat {
		i := *floatIdx
		*floatIdx++
		return i
	}
	i := *intIdx
	*intIdx++
	return i
}

// emitInst lowers a single instruction per the emission sites named in
// §4.5.
func (e *Emitter) emitInst(f *Func, inst Inst) {
	switch inst.Op {
	case OpCallRuntime:
		e.comment("runtime call is always a safepoint")
		e.emitCall(f, inst.Callee, inst.Args)
		if inst.Dst != "" {
			e.instr("mov [local %s], %s", inst.Dst, returnReg(ClassInt))
		}

	case OpCallOrdinary:
		e.comment("ordinary call treated as safepoint-adjacent")
		e.emitCall(f, inst.Callee, inst.Args)
		if inst.Dst != "" {
			e.instr("mov [local %s], %s", inst.Dst, returnReg(ClassInt))
		}

	case OpFieldLoad:
		e.emitNullCheck(inst.Src)
		e.instr("mov rax, [local %s]", inst.Src)
		e.instr("mov rax, [rax+%d]", inst.FieldOffset)
		e.instr("mov [local %s], rax", inst.Dst)

	case OpFieldStore:
		e.emitNullCheck(inst.Dst)
		e.instr("mov rax, [local %s]", inst.Dst)
		e.instr("mov rcx, [local %s]", inst.Src)
		e.instr("mov [rax+%d], rcx", inst.FieldOffset)

	case OpIndexGet:
		e.comment("index sugar: %s.get(%s)", inst.Src, inst.Index)
		e.emitCall(f, "rt_array_get_i64", []string{inst.Src, inst.Index})
		if inst.Dst != "" {
			e.instr("mov [local %s], %s", inst.Dst, returnReg(ClassInt))
		}

	case OpIndexSet:
		e.comment("index sugar: %s.set(%s, %s)", inst.Dst, inst.Index, inst.Src)
		e.emitCall(f, "rt_array_set_i64", []string{inst.Dst, inst.Index, inst.Src})

	case OpCheckedCast:
		e.comment("downcast to %s", inst.ExpectedType)
		e.instr("mov rdi, [local %s]", inst.Src)
		e.instr("lea rsi, [rip+%s_descriptor]", inst.ExpectedType)
		e.emitCall(f, "rt_checked_cast", nil)
		if inst.Dst != "" {
			e.instr("mov [local %s], %s", inst.Dst, returnReg(ClassInt))
		}

	case OpNullCheck:
		e.emitNullCheck(inst.Src)

	case OpReturn:
		if inst.Src != "" {
			e.instr("mov rax, [local %s]", inst.Src)
		}
		e.emitEpilogue()
		e.instr("ret")

	default:
		panic(fmt.Sprintf("amd64: unhandled instruction op %d", inst.Op))
	}
}

// emitNullCheck emits the runtime-only null-dereference check §4.5
// requires at every field/method access site.
func (e *Emitter) emitNullCheck(local string) {
	e.instr("mov rax, [local %s]", local)
	e.instr("test rax, rax")
	e.instr("jnz .Lnotnull_%s", local)
	e.instr("call rt_panic_null_deref")
	e.label(".Lnotnull_" + local)
}
