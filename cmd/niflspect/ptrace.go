// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command niflspect launches a compiled Niflheim binary under ptrace,
// optionally plants a breakpoint at a hex address given with -break, runs
// it until it stops or exits, and dumps its SysV registers. It does not
// read the runtime's shadow stack or diagnostic trace-frame stack. It is
// an external collaborator of the runtime ABI in the sense spec.md §1
// describes the CLI/tooling layer, not part of the compiler or runtime
// components themselves.
//
// The ptrace plumbing below is a direct adaptation of program/server's
// dedicated-OS-thread channel pattern: every ptrace syscall must run on
// the thread that attached to the tracee, so a single goroutine is pinned
// with runtime.LockOSThread and every request is funneled through it.
package main

import (
	"fmt"
	"os"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

// tracer owns the dedicated OS thread a ptraced process must be controlled
// from. fc/ec are unbuffered so a reply always reaches the goroutine that
// issued the request, matching program/server/ptrace.go's ptraceRun
// contract.
type tracer struct {
	fc chan func() error
	ec chan error
}

func newTracer() *tracer {
	t := &tracer{fc: make(chan func() error), ec: make(chan error)}
	go t.run()
	return t
}

func (t *tracer) run() {
	runtime.LockOSThread()
	for f := range t.fc {
		t.ec <- f()
	}
}

func (t *tracer) do(f func() error) error {
	t.fc <- f
	return <-t.ec
}

func (t *tracer) start(name string, argv []string) (*os.Process, error) {
	var proc *os.Process
	err := t.do(func() error {
		var err1 error
		attr := &os.ProcAttr{
			Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
			Sys:   &syscall.SysProcAttr{Ptrace: true},
		}
		proc, err1 = os.StartProcess(name, argv, attr)
		return err1
	})
	return proc, err
}

func (t *tracer) wait(pid int) (syscall.WaitStatus, error) {
	var status syscall.WaitStatus
	err := t.do(func() error {
		_, err1 := syscall.Wait4(pid, &status, 0, nil)
		return err1
	})
	return status, err
}

func (t *tracer) getRegs(pid int) (syscall.PtraceRegs, error) {
	var regs syscall.PtraceRegs
	err := t.do(func() error {
		return syscall.PtraceGetRegs(pid, &regs)
	})
	return regs, err
}

func (t *tracer) peek(pid int, addr uintptr, out []byte) error {
	return t.do(func() error {
		n, err := syscall.PtracePeekText(pid, addr, out)
		if err != nil {
			return err
		}
		if n != len(out) {
			return fmt.Errorf("niflspect: peeked %d bytes, want %d", n, len(out))
		}
		return nil
	})
}

func (t *tracer) poke(pid int, addr uintptr, data []byte) error {
	return t.do(func() error {
		n, err := syscall.PtracePokeText(pid, addr, data)
		if err != nil {
			return err
		}
		if n != len(data) {
			return fmt.Errorf("niflspect: poked %d bytes, want %d", n, len(data))
		}
		return nil
	})
}

func (t *tracer) cont(pid int, signal int) error {
	return t.do(func() error { return syscall.PtraceCont(pid, signal) })
}

func (t *tracer) singleStep(pid int) error {
	return t.do(func() error { return syscall.PtraceSingleStep(pid) })
}

// raiseCoreLimit lifts the soft RLIMIT_CORE to the hard limit so a crashed tracee leaves
// a core file niflspect's companion tooling can later load, mirroring
// internal/gocore/gocore_test.go's adjustCoreRlimit helper.
func raiseCoreLimit() error {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_CORE, &rlim); err != nil {
		return err
	}
	rlim.Cur = rlim.Max
	return unix.Setrlimit(unix.RLIMIT_CORE, &rlim)
}
