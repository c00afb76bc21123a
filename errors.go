package datatree

import (
	"errors"
	"fmt"

	"github.com/reoring/datatree/i18n"
	"github.com/reoring/datatree/internal/fault"
)

// Kind classifies failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindStructural
	KindSchemaLookup
	KindKey
	KindInstanceLimit
	KindDuplicateValue
	KindValueRange
	KindValueFormat
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "StructuralError"
	case KindSchemaLookup:
		return "SchemaLookupError"
	case KindKey:
		return "KeyError"
	case KindInstanceLimit:
		return "InstanceLimitError"
	case KindDuplicateValue:
		return "DuplicateValueError"
	case KindValueRange:
		return "ValueRangeError"
	case KindValueFormat:
		return "ValueFormatError"
	}
	return fmt.Sprintf("kind-%d", int(k))
}

// Failure codes (exported consts for IDE completion and type safety by convention)
const (
	CodeStructural       = fault.CodeStructural
	CodeDuplicateEntry   = fault.CodeDuplicateEntry
	CodeWrongCardinality = fault.CodeWrongCardinality
	CodeAscendPastRoot   = fault.CodeAscendPastRoot
	CodeBenchSpent       = fault.CodeBenchSpent
	CodeSchemaLookup     = fault.CodeSchemaLookup
	CodeTooFewKeys       = fault.CodeTooFewKeys
	CodeTooManyKeys      = fault.CodeTooManyKeys
	CodeMissingKeys      = fault.CodeMissingKeys
	CodeKeyNotUnique     = fault.CodeKeyNotUnique
	CodeTooManyInstances = fault.CodeTooManyInstances
	CodeDuplicateValue   = fault.CodeDuplicateValue
	CodeOutOfRange       = fault.CodeOutOfRange
	CodeInvalidWidth     = fault.CodeInvalidWidth
	CodeInvalidValue     = fault.CodeInvalidValue
	CodeInvalidFacet     = fault.CodeInvalidFacet
	// Document driver codes
	CodeDuplicateMember  = fault.CodeDuplicateMember
	CodeMaxDepthExceeded = fault.CodeMaxDepthExceeded
	CodeUnexpectedToken  = fault.CodeUnexpectedToken
	CodeUnknownOperation = fault.CodeUnknownOperation
)

var codeKinds = map[string]Kind{
	CodeStructural:       KindStructural,
	CodeDuplicateEntry:   KindStructural,
	CodeWrongCardinality: KindStructural,
	CodeAscendPastRoot:   KindStructural,
	CodeBenchSpent:       KindStructural,
	CodeDuplicateMember:  KindStructural,
	CodeMaxDepthExceeded: KindStructural,
	CodeUnexpectedToken:  KindStructural,
	CodeUnknownOperation: KindStructural,
	CodeSchemaLookup:     KindSchemaLookup,
	CodeInvalidFacet:     KindSchemaLookup,
	CodeTooFewKeys:       KindKey,
	CodeTooManyKeys:      KindKey,
	CodeMissingKeys:      KindKey,
	CodeKeyNotUnique:     KindKey,
	CodeTooManyInstances: KindInstanceLimit,
	CodeDuplicateValue:   KindDuplicateValue,
	CodeOutOfRange:       KindValueRange,
	CodeInvalidWidth:     KindValueFormat,
	CodeInvalidValue:     KindValueFormat,
}

// Error is the single failure type returned by the Work Bench. Message is
// stable and parameterized so protocol layers can forward it verbatim.
type Error struct {
	Kind    Kind
	Code    string
	Path    string // data path of the node being built or finalized
	Message string
	// Params carries the message parameters (e.g., {"list":"l","expected":"2"})
	// for i18n and observability.
	Params map[string]string
	Cause  error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Is matches the kind sentinels (ErrKey, ...) and any *Error target with the
// same kind and, when set on the target, the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrStructural     = &Error{Kind: KindStructural, Message: "structural error"}
	ErrSchemaLookup   = &Error{Kind: KindSchemaLookup, Message: "schema lookup error"}
	ErrKey            = &Error{Kind: KindKey, Message: "key error"}
	ErrInstanceLimit  = &Error{Kind: KindInstanceLimit, Message: "instance limit error"}
	ErrDuplicateValue = &Error{Kind: KindDuplicateValue, Message: "duplicate value error"}
	ErrValueRange     = &Error{Kind: KindValueRange, Message: "value range error"}
	ErrValueFormat    = &Error{Kind: KindValueFormat, Message: "value format error"}
)

// NewError builds an Error for code with a message rendered by i18n.
func NewError(code, path string, params map[string]string) *Error {
	return &Error{
		Kind:    codeKinds[code],
		Code:    code,
		Path:    path,
		Message: i18n.T(code, params),
		Params:  params,
	}
}

func fromFault(err error, path string) error {
	var f *fault.Fault
	if !errors.As(err, &f) {
		return err
	}
	return &Error{Kind: codeKinds[f.Code], Code: f.Code, Path: path, Message: f.Message, Params: f.Params}
}

// AsError extracts an *Error using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
