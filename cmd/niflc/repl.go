// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"niflheim.dev/niflheim/internal/abi"
	"niflheim.dev/niflheim/rt"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactive shell over the root protocol and allocator",
		Long: "repl drives rt's root-frame stack and allocator directly from typed commands, " +
			"for manually exercising push/pop/alloc/collect sequences without a front end.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}
}

func runRepl() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "nifl> ",
		HistoryFile: "",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	rt.Init()
	leaf := abi.NewClassDescriptor(1, "Leaf", 0)

	fmt.Println("niflheim repl: push <n>, pop, alloc, collect, stats, quit")
	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "push":
			n := 1
			if len(fields) > 1 {
				n, _ = strconv.Atoi(fields[1])
			}
			rt.PushRoots(n, "repl")
			fmt.Printf("pushed %d slot(s); depth=%d\n", n, rt.ThreadStateHandle().Depth())
		case "pop":
			rt.PopRoots()
			fmt.Printf("popped; depth=%d\n", rt.ThreadStateHandle().Depth())
		case "alloc":
			obj := rt.AllocObj(leaf, 8, &abi.Record{})
			fmt.Printf("allocated %s\n", obj.Type)
		case "collect":
			rt.Collect()
			fmt.Println("collected")
		case "stats":
			st := rt.Stats()
			fmt.Printf("%+v\n", st)
		case "quit", "exit":
			return nil
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}
