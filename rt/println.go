// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rt

import (
	"fmt"
	"os"
)

// PrintlnI64 is rt_println_i64.
func PrintlnI64(v int64) { fmt.Fprintln(os.Stdout, v) }

// PrintlnU64 is rt_println_u64.
func PrintlnU64(v uint64) { fmt.Fprintln(os.Stdout, v) }

// PrintlnU8 is rt_println_u8.
func PrintlnU8(v uint8) { fmt.Fprintln(os.Stdout, v) }

// PrintlnBool is rt_println_bool.
func PrintlnBool(v bool) { fmt.Fprintln(os.Stdout, v) }

// PrintlnDouble is rt_println_double.
func PrintlnDouble(v float64) { fmt.Fprintln(os.Stdout, v) }
