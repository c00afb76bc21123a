package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/datatree"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [doc.json]",
		Short: "Validate a document",
		Long: `The check command builds the document and reports the first failure with
its error kind, code and data path. It exits non-zero when the document is
invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, apps, err := build(cmd, opts, args)
			if err != nil {
				if e, ok := datatree.AsError(err); ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s [%s] at %s: %s\n",
						errColor("invalid:"), e.Kind, e.Code, e.Path, e.Message)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d data nodes, %d application nodes\n", tree.Len(), apps.Len())
			return nil
		},
	}
}
