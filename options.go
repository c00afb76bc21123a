package datatree

import (
	"io"
	"log/slog"
)

// ResolveMode selects when the Application Tree is built.
type ResolveMode int

const (
	// ResolveIncremental updates the Application Tree on every structural
	// change, so partial results are visible while the document streams in.
	ResolveIncremental ResolveMode = iota
	// ResolvePostPass builds the Application Tree in one pass at Finish.
	ResolvePostPass
)

func (m ResolveMode) String() string {
	if m == ResolvePostPass {
		return "post-pass"
	}
	return "incremental"
}

// BenchOpt bundles Work Bench options.
type BenchOpt struct {
	// Namespace qualifies the module lookup at construction. Empty matches any.
	Namespace string
	// DefaultOp is the operation of the module node. OpUnset means OpNone.
	DefaultOp OpType
	Resolve   ResolveMode
	// Logger receives debug records for every structural change. nil discards.
	Logger *slog.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func mergeOpts(opts []BenchOpt) BenchOpt {
	var o BenchOpt
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.Logger == nil {
		o.Logger = discardLogger
	}
	if o.DefaultOp == OpUnset {
		o.DefaultOp = OpNone
	}
	return o
}
