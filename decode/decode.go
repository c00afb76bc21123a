// Package decode streams an RFC 7951 style JSON document into a Work Bench.
//
// Top-level members are qualified "module:name". Objects become containers,
// arrays of objects become list instances, arrays of scalars become leaf-list
// values and scalars become leaves; [null] is the empty leaf. An object may
// start with an "@" member carrying {"operation": "delete"} style metadata.
// Members named "@name" annotate leaves and are skipped.
package decode

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/reoring/datatree"
	eng "github.com/reoring/datatree/internal/engine"
	"github.com/reoring/datatree/internal/fault"
	"github.com/reoring/datatree/internal/stream"
	"github.com/reoring/datatree/schema"
	"github.com/reoring/datatree/source/gojson"
)

const defaultMaxDepth = 64

// Duplicates selects how repeated member names inside one object are handled.
type Duplicates int

const (
	// DuplicatesError fails the document with a StructuralError.
	DuplicatesError Duplicates = iota
	// DuplicatesWarn logs a warning and lets the Work Bench decide.
	DuplicatesWarn
)

// Opt configures a decode run. When several are given the last one wins.
type Opt struct {
	// MaxDepth bounds JSON nesting. Zero means 64; negative disables the check.
	MaxDepth    int
	OnDuplicate Duplicates
	// Bench configures the Work Bench created by JSON.
	Bench datatree.BenchOpt
}

func mergeOpts(opts []Opt) Opt {
	var o Opt
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = defaultMaxDepth
	}
	return o
}

// JSON decodes one document from r into a new Work Bench rooted at rootName
// and returns the finished trees. The bench is opened on the module of the
// first top-level member.
func JSON(ctx context.Context, o schema.Oracle, rootName string, r io.Reader, opts ...Opt) (*datatree.Tree, *datatree.AppTree, error) {
	opt := mergeOpts(opts)
	d := newDecoder(ctx, o, r, opt)
	if err := d.document(func(module, namespace string) error {
		bo := opt.Bench
		bo.Namespace = namespace
		b, err := datatree.NewWorkBench(o, rootName, module, bo)
		if err != nil {
			return err
		}
		d.b = b
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return d.b.Finish()
}

// JSONBytes is JSON over an in-memory document.
func JSONBytes(ctx context.Context, o schema.Oracle, rootName string, data []byte, opts ...Opt) (*datatree.Tree, *datatree.AppTree, error) {
	return JSON(ctx, o, rootName, bytes.NewReader(data), opts...)
}

// Into decodes the members of one document into an existing bench. The bench
// is left open; callers Finish it. The cursor must be on the root or on a
// module node.
func Into(ctx context.Context, b *datatree.WorkBench, r io.Reader, opts ...Opt) error {
	opt := mergeOpts(opts)
	d := newDecoder(ctx, b.Oracle(), r, opt)
	d.b = b
	return d.document(nil)
}

type decoder struct {
	ctx    context.Context
	oracle schema.Oracle
	ns     schema.NamespaceResolver
	src    eng.TokenSource
	opt    Opt
	b      *datatree.WorkBench
}

func newDecoder(ctx context.Context, o schema.Oracle, r io.Reader, opt Opt) *decoder {
	d := &decoder{ctx: ctx, oracle: o, opt: opt}
	d.ns, _ = o.(schema.NamespaceResolver)
	eo := eng.EnforceOptions{MaxDepth: max(opt.MaxDepth, 0)}
	if opt.OnDuplicate == DuplicatesWarn {
		eo.OnDuplicate = eng.DupWarn
		eo.Warn = func(f *fault.Fault) {
			if l := opt.Bench.Logger; l != nil {
				l.Warn(f.Message, "path", f.Params["path"])
			}
		}
	}
	d.src = eng.WrapWithEnforcement(gojson.NewReader(r), eo)
	return d
}

// document reads the top-level object. open creates the bench for the first
// module when the decoder has none.
func (d *decoder) document(open func(module, namespace string) error) error {
	tok, err := d.next()
	if err != nil {
		return err
	}
	if tok.Kind != eng.KindBeginObject {
		return d.unexpected(tok)
	}
	current := ""
	if d.b != nil && d.b.Depth() == 1 {
		current = d.b.Cursor().Name()
	}
	for {
		key, err := d.next()
		if err != nil {
			return err
		}
		if key.Kind == eng.KindEndObject {
			break
		}
		module, name, ok := strings.Cut(key.String, ":")
		if !ok || module == "" || name == "" {
			return d.fail(fault.CodeUnexpectedToken, map[string]string{
				"token": "unqualified member " + key.String, "node": "/",
			})
		}
		vt, err := d.next()
		if err != nil {
			return err
		}
		if strings.HasPrefix(module, "@") {
			if err := stream.Skip(d.src, vt); err != nil {
				return d.wrap(err)
			}
			continue
		}
		if err := d.enterModule(module, current, open); err != nil {
			return err
		}
		current = module
		if err := d.member(name, d.namespace(module), vt); err != nil {
			return err
		}
	}
	if d.b == nil {
		return d.fail(fault.CodeUnexpectedToken, map[string]string{"token": "empty document", "node": "/"})
	}
	if _, err := d.src.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return d.wrap(err)
		}
		return d.fail(fault.CodeUnexpectedToken, map[string]string{"token": "trailing data", "node": "/"})
	}
	return nil
}

// enterModule leaves the cursor on the module node named module.
func (d *decoder) enterModule(module, current string, open func(string, string) error) error {
	if d.b == nil {
		return open(module, d.namespace(module))
	}
	if module == current && d.b.Depth() == 1 {
		return nil
	}
	for d.b.Depth() > 0 {
		if err := d.b.TraverseToParent(); err != nil {
			return err
		}
	}
	return d.b.AddChild(module, d.namespace(module), datatree.OpUnset)
}

func (d *decoder) namespace(module string) string {
	if d.ns == nil || module == "" {
		return ""
	}
	ns, _ := d.ns.NamespaceOf(module)
	return ns
}

// qualify splits an optional "module:" prefix off a member name.
func (d *decoder) qualify(member string) (name, namespace string) {
	if module, n, ok := strings.Cut(member, ":"); ok {
		return n, d.namespace(module)
	}
	return member, ""
}

// member adds the node named name whose value starts with tok.
func (d *decoder) member(name, namespace string, tok eng.Token) error {
	if err := d.ctx.Err(); err != nil {
		return err
	}
	switch tok.Kind {
	case eng.KindBeginObject:
		op, next, err := d.metadata(name)
		if err != nil {
			return err
		}
		if err := d.b.AddChild(name, namespace, op); err != nil {
			return err
		}
		return d.object(next)
	case eng.KindBeginArray:
		return d.array(name, namespace)
	case eng.KindString, eng.KindNumber, eng.KindBool:
		if err := d.b.AddLeaf(name, namespace, tok.Scalar()); err != nil {
			return err
		}
		return d.b.TraverseToParent()
	}
	return d.unexpected(tok)
}

// object adds the members of the open object, starting with tok, and
// ascends out of the node the object describes.
func (d *decoder) object(tok eng.Token) error {
	for tok.Kind != eng.KindEndObject {
		if tok.Kind != eng.KindKey {
			return d.unexpected(tok)
		}
		vt, err := d.next()
		if err != nil {
			return err
		}
		if strings.HasPrefix(tok.String, "@") {
			if err := stream.Skip(d.src, vt); err != nil {
				return d.wrap(err)
			}
		} else {
			name, ns := d.qualify(tok.String)
			if err := d.member(name, ns, vt); err != nil {
				return err
			}
		}
		if tok, err = d.next(); err != nil {
			return err
		}
	}
	return d.b.TraverseToParent()
}

func (d *decoder) array(name, namespace string) error {
	tok, err := d.next()
	if err != nil {
		return err
	}
	if tok.Kind == eng.KindBeginObject {
		for tok.Kind == eng.KindBeginObject {
			op, next, err := d.metadata(name)
			if err != nil {
				return err
			}
			if err := d.b.AddListEntry(name, namespace, op); err != nil {
				return err
			}
			if err := d.object(next); err != nil {
				return err
			}
			if tok, err = d.next(); err != nil {
				return err
			}
		}
		if tok.Kind != eng.KindEndArray {
			return d.unexpected(tok)
		}
		return nil
	}

	var values []string
	nulls := 0
	for ; tok.Kind != eng.KindEndArray; tok, err = d.next() {
		if err != nil {
			return err
		}
		switch {
		case tok.Kind == eng.KindNull:
			nulls++
		case tok.IsScalar():
			values = append(values, tok.Scalar())
		default:
			return d.unexpected(tok)
		}
	}
	switch {
	case nulls == 1 && len(values) == 0:
		if err := d.b.AddLeaf(name, namespace, ""); err != nil {
			return err
		}
	case nulls > 0:
		return d.fail(fault.CodeUnexpectedToken, map[string]string{"token": "null", "node": name})
	case len(values) == 0:
		return nil
	default:
		if err := d.b.AddLeafValues(name, namespace, values); err != nil {
			return err
		}
	}
	return d.b.TraverseToParent()
}

// metadata reads an optional leading "@" member of an object that has just
// been opened. It returns the operation and the token following the metadata.
func (d *decoder) metadata(name string) (datatree.OpType, eng.Token, error) {
	tok, err := d.next()
	if err != nil {
		return datatree.OpUnset, tok, err
	}
	if tok.Kind != eng.KindKey || tok.String != "@" {
		return datatree.OpUnset, tok, nil
	}
	vt, err := d.next()
	if err != nil {
		return datatree.OpUnset, tok, err
	}
	v, err := eng.DecodeAny(stream.NewSubtree(d.src, vt))
	if err != nil {
		return datatree.OpUnset, tok, d.wrap(err)
	}
	op := datatree.OpUnset
	if m, ok := v.(map[string]any); ok {
		if raw, present := m["operation"]; present {
			s, _ := raw.(string)
			if op, err = datatree.ParseOpType(s); err != nil {
				return datatree.OpUnset, tok, d.fail(fault.CodeUnknownOperation, map[string]string{
					"value": `"` + s + `"`, "node": name,
				})
			}
		}
	}
	tok, err = d.next()
	return op, tok, err
}

func (d *decoder) next() (eng.Token, error) {
	tok, err := d.src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return tok, d.fail(fault.CodeUnexpectedToken, map[string]string{"token": "end of input", "node": d.path()})
		}
		return tok, d.wrap(err)
	}
	return tok, nil
}

// wrap maps enforcement faults and syntax errors to the public error model.
// Enforcement failures carry the JSON pointer of the offending token as Path.
func (d *decoder) wrap(err error) error {
	var f *fault.Fault
	if errors.As(err, &f) {
		return datatree.NewError(f.Code, f.Params["path"], f.Params)
	}
	e := datatree.NewError(datatree.CodeUnexpectedToken, d.path(), map[string]string{
		"token": "input", "node": d.path(),
	})
	e.Cause = err
	return e
}

func (d *decoder) unexpected(tok eng.Token) error {
	return d.fail(fault.CodeUnexpectedToken, map[string]string{"token": tok.Kind.String(), "node": d.path()})
}

func (d *decoder) fail(code string, params map[string]string) error {
	return datatree.NewError(code, d.path(), params)
}

func (d *decoder) path() string {
	if d.b == nil {
		return "/"
	}
	return d.b.Cursor().Path()
}
