// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arch contains the SysV x86-64 machine parameters Niflheim targets:
// register width, stack alignment, the object header layout, and the
// breakpoint opcode cmd/niflspect plants to halt a traced program.
package arch

import "encoding/binary"

// AMD64 describes the single target architecture. Niflheim has no other
// backend (Non-goal: ABIs other than SysV x86-64).
var AMD64 = Architecture{
	PointerSize:     8,
	IntSize:         8,
	ByteOrder:       binary.LittleEndian,
	StackAlignment:  16,
	BreakpointInstr: 0xCC, // INT 3
}

// Architecture holds the parameters code generation and process inspection
// need to agree on.
type Architecture struct {
	PointerSize int
	IntSize     int
	ByteOrder   binary.ByteOrder
	// StackAlignment is the required %rsp alignment, in bytes, at every
	// call instruction (SysV x86-64: 16).
	StackAlignment int
	// BreakpointInstr is the single-byte trap instruction cmd/niflspect
	// writes over a target address to stop the inferior.
	BreakpointInstr byte
}

// Object header layout (§3, §6): type pointer, size, flags, reserved.
const (
	HeaderTypeOffset  = 0
	HeaderSizeOffset  = 8
	HeaderFlagsOffset = 16
	HeaderResvOffset  = 20
	HeaderSize        = 24

	MinAlign = 8
)

// GC tuning defaults (§4.4 step 5).
const (
	MinGCThreshold = 64 * 1024
	GCGrowthNum    = 2
	GCGrowthDen    = 1
)

// Calling convention (§4.5, §6): SysV x86-64 register classes.
var (
	IntArgRegs   = [...]string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
	FloatArgRegs = [...]string{"xmm0", "xmm1", "xmm2", "xmm3", "xmm4", "xmm5", "xmm6", "xmm7"}
	CalleeSaved  = [...]string{"rbx", "rbp", "r12", "r13", "r14", "r15"}
	IntReturnReg = "rax"
	FltReturnReg = "xmm0"
)
