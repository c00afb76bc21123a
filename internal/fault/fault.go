// Package fault carries coded failures from the internal validators to the
// public error model in the root package.
package fault

import (
	"strconv"

	"github.com/reoring/datatree/i18n"
)

// Failure codes. The root package re-exports these and maps each to an error kind.
const (
	CodeStructural       = "structural"
	CodeDuplicateEntry   = "duplicate_entry"
	CodeWrongCardinality = "wrong_cardinality"
	CodeAscendPastRoot   = "ascend_past_root"
	CodeBenchSpent       = "bench_spent"
	CodeSchemaLookup     = "schema_lookup"
	CodeTooFewKeys       = "too_few_keys"
	CodeTooManyKeys      = "too_many_keys"
	CodeMissingKeys      = "missing_keys"
	CodeKeyNotUnique     = "key_not_unique"
	CodeTooManyInstances = "too_many_instances"
	CodeDuplicateValue   = "duplicate_value"
	CodeOutOfRange       = "out_of_range"
	CodeInvalidWidth     = "invalid_width"
	CodeInvalidValue     = "invalid_value"
	CodeInvalidFacet     = "invalid_facet"
	CodeDuplicateMember  = "duplicate_member"
	CodeMaxDepthExceeded = "max_depth_exceeded"
	CodeUnexpectedToken  = "unexpected_token"
	CodeUnknownOperation = "unknown_operation"
)

// Fault is a lightweight coded error. Params are the parameters rendered into
// the message; they are kept for callers that localize or log them.
type Fault struct {
	Code    string
	Message string
	Params  map[string]string
}

func (f *Fault) Error() string { return f.Message }

// New renders the message for code with the current translator.
func New(code string, params map[string]string) *Fault {
	return &Fault{Code: code, Message: i18n.T(code, params), Params: params}
}

// Count formats an integer parameter.
func Count[T ~int | ~int64 | ~uint64](n T) string {
	return strconv.FormatInt(int64(n), 10)
}
