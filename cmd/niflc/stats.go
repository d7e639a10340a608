// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"niflheim.dev/niflheim/internal/abi"
	"niflheim.dev/niflheim/rt"
)

func newStatsCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "run a simulated allocation workload and print a GC breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.Init()

			leaf := abi.NewClassDescriptor(1, "Leaf", 0)
			for i := 0; i < n; i++ {
				rt.AllocObj(leaf, 8, &abi.Record{Prims: []byte{byte(i)}})
			}

			node := abi.NewClassDescriptor(2, "Node", 1)
			f := rt.PushRoots(1, "stats")
			a := rt.AllocObj(node, 8, &abi.Record{Refs: make([]*abi.Object, 1)})
			rt.RootSlotStore(f, 0, a)

			rt.Collect()

			st := rt.Stats()
			fmt.Printf("collections=%d allocated=%d live=%d next_threshold=%d tracked=%d\n",
				st.Collections, st.AllocatedBytes, st.LiveBytes, st.NextGCThreshold, st.TrackedObjects)

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tCOUNT\tBYTES")
			for _, b := range rt.Breakdown() {
				fmt.Fprintf(w, "%s\t%d\t%d\n", b.Name, b.Count, b.Bytes)
			}
			w.Flush()

			rt.PopRoots()
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 200, "number of throwaway Leaf objects to allocate before collecting")
	return cmd
}
