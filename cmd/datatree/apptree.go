package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/datatree"
	"github.com/reoring/datatree/walk"
)

func newAppTreeCmd(opts *options) *cobra.Command {
	var members bool
	cmd := &cobra.Command{
		Use:   "apptree [doc.json]",
		Short: "Print the application tree",
		Long: `The apptree command groups the data tree by owning module and augment
target and prints each group with its aggregate operation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, apps, err := build(cmd, opts, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			depth := 0
			walk.Walk(apps.Root(), walk.Funcs[datatree.AppNode]{
				OnEnter: func(a datatree.AppNode) {
					indent := strings.Repeat("  ", depth)
					depth++
					if a.IsRoot() {
						fmt.Fprintln(out, indent+nameColor(a.Name()))
						return
					}
					line := indent + nameColor(a.Name())
					if p := a.AugmentPath(); p != "" {
						line += " @ " + p
					}
					fmt.Fprintln(out, line+" "+opColor(a.Op().String()))
					if members {
						for _, m := range a.Members() {
							fmt.Fprintln(out, indent+"  - "+m.Path())
						}
					}
				},
				OnExit: func(datatree.AppNode) { depth-- },
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&members, "members", false, "List the data nodes of each group")
	return cmd
}
