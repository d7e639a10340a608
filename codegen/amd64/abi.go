// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amd64

import "niflheim.dev/niflheim/arch"

// argReg returns the register an integer/pointer argument at position i
// goes in (§4.5 calling convention). Panics past the register-passed
// range: Niflheim v0.1 has no stack-argument lowering.
func argReg(i int) string {
	if i < 0 || i >= len(arch.IntArgRegs) {
		panic("amd64: argument index exceeds register-passed arguments")
	}
	return arch.IntArgRegs[i]
}

// floatArgReg returns the register a float argument at position i goes
// in.
func floatArgReg(i int) string {
	if i < 0 || i >= len(arch.FloatArgRegs) {
		panic("amd64: float argument index exceeds register-passed arguments")
	}
	return arch.FloatArgRegs[i]
}

// classArgReg picks the right register file for cl.
func classArgReg(cl Class, i int) string {
	if cl == ClassFloat {
		return floatArgReg(i)
	}
	return argReg(i)
}

// returnReg is the register the callee's result comes back in.
func returnReg(cl Class) string {
	if cl == ClassFloat {
		return arch.FltReturnReg
	}
	return arch.IntReturnReg
}
