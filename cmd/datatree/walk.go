package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/reoring/datatree"
	"github.com/reoring/datatree/walk"
)

var (
	nameColor  = color.New(color.FgBlue, color.Bold).SprintFunc()
	valueColor = color.New(color.FgGreen).SprintFunc()
	opColor    = color.New(color.FgYellow).SprintFunc()
	errColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

func newWalkCmd(opts *options) *cobra.Command {
	var events bool
	cmd := &cobra.Command{
		Use:   "walk [doc.json]",
		Short: "Print the data tree",
		Long: `The walk command prints the data tree depth-first, one node per line.
With --events it prints the raw Enter/Exit listener events instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := build(cmd, opts, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if events {
				walk.Walk(tree.Root(), walk.Funcs[datatree.Node]{
					OnEnter: func(n datatree.Node) { fmt.Fprintln(out, "Enter", n.Name()) },
					OnExit:  func(n datatree.Node) { fmt.Fprintln(out, "Exit", n.Name()) },
				})
				return nil
			}
			depth := 0
			walk.Walk(tree.Root(), walk.Funcs[datatree.Node]{
				OnEnter: func(n datatree.Node) {
					fmt.Fprintln(out, strings.Repeat("  ", depth)+describe(n))
					depth++
				},
				OnExit: func(datatree.Node) { depth-- },
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&events, "events", false, "Print Enter/Exit events")
	return cmd
}

func describe(n datatree.Node) string {
	s := nameColor(n.Name())
	if keys := n.KeyValues(); len(keys) > 0 {
		s += "[" + strings.Join(keys, ",") + "]"
	}
	switch n.Kind() {
	case datatree.Leaf:
		s += " = " + valueColor(n.Value())
	case datatree.LeafList:
		s += " = [" + valueColor(strings.Join(n.Values(), ", ")) + "]"
	}
	if op := n.Op(); op != datatree.OpNone {
		s += " " + opColor("("+op.String()+")")
	}
	return s
}
