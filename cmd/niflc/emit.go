// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"niflheim.dev/niflheim/codegen/amd64"
)

func newEmitCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "emit Intel-syntax x86-64 assembly for a sample lowering",
		Long: "emit lowers a small built-in demonstration function through the codegen/amd64 " +
			"package to show the prologue/safepoint/epilogue shape a front end's IR would drive; " +
			"niflc has no parser of its own, so this is not a general-purpose compiler invocation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := demoFunc()
			e := amd64.NewEmitter()
			e.EmitFunc(f)
			if out == "" {
				_, err := os.Stdout.WriteString(e.String())
				return err
			}
			return os.WriteFile(out, []byte(e.String()), 0644)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write assembly to this file instead of stdout")
	return cmd
}

// demoFunc builds the make_chain example from spec.md's §8 scenario 2:
// allocate a -> b -> c, root a, return it. It exists to exercise the
// emitter end to end, not to represent a real compiled program.
func demoFunc() *amd64.Func {
	return &amd64.Func{
		Name: "make_chain",
		Locals: []amd64.Local{
			{Name: "a", Class: amd64.ClassRef, Slot: 0},
			{Name: "b", Class: amd64.ClassRef, Slot: 1},
			{Name: "c", Class: amd64.ClassRef, Slot: 2},
		},
		Code: []amd64.Inst{
			{Op: amd64.OpCallRuntime, Callee: "rt_alloc_obj", Dst: "c"},
			{Op: amd64.OpCallRuntime, Callee: "rt_alloc_obj", Dst: "b"},
			{Op: amd64.OpFieldStore, Dst: "b", Src: "c", FieldOffset: 24},
			{Op: amd64.OpCallRuntime, Callee: "rt_alloc_obj", Dst: "a"},
			{Op: amd64.OpFieldStore, Dst: "a", Src: "b", FieldOffset: 24},
			{Op: amd64.OpReturn, Src: "a"},
		},
	}
}
