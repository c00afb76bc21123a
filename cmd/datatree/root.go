package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/reoring/datatree"
	"github.com/reoring/datatree/decode"
	"github.com/reoring/datatree/i18n"
	"github.com/reoring/datatree/schema/yamlschema"
)

type options struct {
	schemaPath string
	rootName   string
	postPass   bool
	maxDepth   int
	verbose    bool
	noColor    bool
	lang       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "datatree",
		Short: "Build and inspect schema-validated data trees",
		Long: `datatree decodes RFC 7951 style JSON documents against a YAML schema,
validating every value, key and cardinality constraint as the tree is built.

Example:
  datatree walk --schema model.yaml doc.json
  datatree apptree --schema model.yaml doc.json
  datatree check --schema model.yaml --lang ja doc.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
			if opts.lang != "" {
				i18n.SetLanguage(opts.lang)
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&opts.schemaPath, "schema", "s", "", "YAML schema file (required)")
	rootCmd.PersistentFlags().StringVar(&opts.rootName, "root", "root", "Name of the logical root node")
	rootCmd.PersistentFlags().BoolVar(&opts.postPass, "post-pass", false, "Build the application tree after the document instead of incrementally")
	rootCmd.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", 0, "Maximum JSON nesting depth (0 = default, negative = unlimited)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every builder step to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&opts.lang, "lang", "", "Message language (en, ja)")
	_ = rootCmd.MarkPersistentFlagRequired("schema")

	rootCmd.AddCommand(newWalkCmd(opts), newAppTreeCmd(opts), newCheckCmd(opts))
	return rootCmd
}

// build loads the schema and decodes the document named by args (stdin when
// absent or "-").
func build(cmd *cobra.Command, opts *options, args []string) (*datatree.Tree, *datatree.AppTree, error) {
	reg, err := yamlschema.LoadFile(opts.schemaPath)
	if err != nil {
		return nil, nil, err
	}
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		in = f
	}
	bo := datatree.BenchOpt{}
	if opts.postPass {
		bo.Resolve = datatree.ResolvePostPass
	}
	if opts.verbose {
		bo.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return decode.JSON(ctx, reg, opts.rootName, in, decode.Opt{MaxDepth: opts.maxDepth, Bench: bo})
}
