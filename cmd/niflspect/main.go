// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"niflheim.dev/niflheim/arch"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: niflspect <binary> [args...]\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	breakAddr := flag.String("break", "", "hex address to plant a breakpoint at before running")
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	if err := raiseCoreLimit(); err != nil {
		fmt.Fprintf(os.Stderr, "niflspect: warning: could not raise core limit: %v\n", err)
	}

	t := newTracer()
	proc, err := t.start(flag.Arg(0), flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "niflspect: start %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}

	if _, err := t.wait(proc.Pid); err != nil {
		fmt.Fprintf(os.Stderr, "niflspect: initial wait: %v\n", err)
		os.Exit(1)
	}

	var origByte [1]byte
	var addr uintptr
	if *breakAddr != "" {
		addr, err = parseHexAddr(*breakAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "niflspect: %v\n", err)
			os.Exit(2)
		}
		if err := t.peek(proc.Pid, addr, origByte[:]); err != nil {
			fmt.Fprintf(os.Stderr, "niflspect: reading breakpoint site: %v\n", err)
			os.Exit(1)
		}
		trap := [1]byte{arch.AMD64.BreakpointInstr}
		if err := t.poke(proc.Pid, addr, trap[:]); err != nil {
			fmt.Fprintf(os.Stderr, "niflspect: planting breakpoint: %v\n", err)
			os.Exit(1)
		}
	}

	if err := t.cont(proc.Pid, 0); err != nil {
		fmt.Fprintf(os.Stderr, "niflspect: cont: %v\n", err)
		os.Exit(1)
	}
	status, err := t.wait(proc.Pid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "niflspect: wait: %v\n", err)
		os.Exit(1)
	}

	if status.Exited() {
		fmt.Printf("niflspect: process exited with status %d\n", status.ExitStatus())
		return
	}
	if !status.Stopped() {
		fmt.Printf("niflspect: process stopped unexpectedly: %v\n", status)
		return
	}

	regs, err := t.getRegs(proc.Pid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "niflspect: getregs: %v\n", err)
		os.Exit(1)
	}
	printRegs(regs)

	if *breakAddr != "" {
		if err := t.poke(proc.Pid, addr, origByte[:]); err != nil {
			fmt.Fprintf(os.Stderr, "niflspect: restoring breakpoint site: %v\n", err)
		}
	}
}

func parseHexAddr(s string) (uintptr, error) {
	if len(s) > 2 && s[:2] == "0x" {
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid breakpoint address %q: %w", s, err)
	}
	return uintptr(v), nil
}

// printRegs dumps the subset of SysV x86-64 registers the calling
// convention (§4.5) cares about: argument/return registers and the
// callee-saved set, plus the instruction pointer.
func printRegs(regs syscall.PtraceRegs) {
	fmt.Printf("rip=%#x\n", regs.Rip)
	fmt.Printf("rax=%#x rdi=%#x rsi=%#x rdx=%#x rcx=%#x r8=%#x r9=%#x\n",
		regs.Rax, regs.Rdi, regs.Rsi, regs.Rdx, regs.Rcx, regs.R8, regs.R9)
	fmt.Printf("rbx=%#x rbp=%#x r12=%#x r13=%#x r14=%#x r15=%#x\n",
		regs.Rbx, regs.Rbp, regs.R12, regs.R13, regs.R14, regs.R15)
	fmt.Printf("rsp=%#x\n", regs.Rsp)
}
