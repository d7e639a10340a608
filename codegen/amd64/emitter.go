// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amd64

import (
	"fmt"
	"strings"
)

// Emitter accumulates Intel-syntax assembly text for one translation unit.
// It tracks per-function state (current root-frame slot assignment) needed
// to lower safepoints correctly; nothing here executes or assembles the
// output, matching this component's scope as a pure text emitter (§4.5).
type Emitter struct {
	buf strings.Builder

	// curFunc is the function currently being lowered, for diagnostics
	// and slot lookups during instruction emission.
	curFunc *Func
}

// NewEmitter returns an empty Emitter.
func NewEmitter() *Emitter { return &Emitter{} }

// String returns the accumulated assembly text.
func (e *Emitter) String() string { return e.buf.String() }

func (e *Emitter) line(format string, args ...any) {
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *Emitter) label(name string) { e.line("%s:", name) }

func (e *Emitter) comment(format string, args ...any) {
	e.line("\t; %s", fmt.Sprintf(format, args...))
}

func (e *Emitter) instr(format string, args ...any) {
	e.line("\t%s", fmt.Sprintf(format, args...))
}

// EmitFunc lowers one function end to end: prologue, body, epilogue on
// every return path.
func (e *Emitter) EmitFunc(f *Func) {
	e.curFunc = f
	e.line("")
	e.comment("function %s", f.Name)
	e.line("%s:", f.Name)
	e.emitPrologue(f)
	for _, inst := range f.Code {
		e.emitInst(f, inst)
	}
	// A function with no explicit OpReturn (falls off the end) still
	// needs a balanced pop_roots, matching §4.5's "every exit path" rule.
	if len(f.Code) == 0 || f.Code[len(f.Code)-1].Op != OpReturn {
		e.emitEpilogue()
		e.instr("ret")
	}
	e.curFunc = nil
}
