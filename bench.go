package datatree

import (
	"context"
	"log/slog"

	"github.com/reoring/datatree/internal/listkey"
	"github.com/reoring/datatree/internal/value"
	"github.com/reoring/datatree/schema"
)

// frame is the builder state of one open node. Children are only ever added
// to the top frame, so per-parent sibling bookkeeping lives here and is
// dropped when the frame is closed.
type frame struct {
	id NodeID
	// incremental marks a list instance whose keys arrive through AddLeaf and
	// are verified when the frame is closed.
	incremental bool
	singles     map[*schema.Descriptor]NodeID
	lists       map[*schema.Descriptor]*listkey.Siblings
	leafLists   map[*schema.Descriptor]*leafListState
}

type leafListState struct {
	id  NodeID
	set *listkey.ValueSet
}

func newFrame(id NodeID, incremental bool) *frame {
	return &frame{
		id:          id,
		incremental: incremental,
		singles:     make(map[*schema.Descriptor]NodeID),
		lists:       make(map[*schema.Descriptor]*listkey.Siblings),
		leafLists:   make(map[*schema.Descriptor]*leafListState),
	}
}

func (f *frame) siblings(d *schema.Descriptor) *listkey.Siblings {
	s, ok := f.lists[d]
	if !ok {
		s = listkey.NewSiblings(d.Name, d.MaxElements)
		f.lists[d] = s
	}
	return s
}

// WorkBench builds one data tree under a cursor. AddChild, AddListEntry,
// AddMultiInstanceChild and AddLeaf descend into the node they create;
// TraverseToParent finalizes the current node and ascends. A WorkBench is not
// safe for concurrent use. After any error it is spent and every later call
// fails.
type WorkBench struct {
	oracle   schema.Oracle
	opt      BenchOpt
	log      *slog.Logger
	tree     *Tree
	apps     *AppTree
	resolver *resolver
	frames   []*frame
	// parked holds the frames of module nodes the cursor has left, so a
	// module can be re-entered with its sibling bookkeeping intact.
	parked   map[NodeID]*frame
	err      error
	finished bool
}

// NewWorkBench creates the logical root named rootName and its module child,
// leaving the cursor on the module node.
func NewWorkBench(o schema.Oracle, rootName, module string, opts ...BenchOpt) (*WorkBench, error) {
	opt := mergeOpts(opts)
	t := newTree(rootName)
	apps := newAppTree(t)
	b := &WorkBench{
		oracle:   o,
		opt:      opt,
		log:      opt.Logger,
		tree:     t,
		apps:     apps,
		resolver: &resolver{oracle: o, apps: apps, log: opt.Logger},
		frames:   []*frame{newFrame(0, false)},
		parked:   make(map[NodeID]*frame),
	}
	if err := b.AddChild(module, opt.Namespace, opt.DefaultOp); err != nil {
		return nil, err
	}
	return b, nil
}

// Oracle returns the schema oracle the bench resolves against.
func (b *WorkBench) Oracle() schema.Oracle { return b.oracle }

// Cursor returns the node the cursor is on.
func (b *WorkBench) Cursor() Node { return Node{t: b.tree, id: b.top().id} }

// Depth returns the number of open frames above the logical root.
func (b *WorkBench) Depth() int { return len(b.frames) - 1 }

// Tree returns the data tree under construction. Until Finish succeeds it is
// a live view that the bench keeps mutating.
func (b *WorkBench) Tree() *Tree { return b.tree }

// AppTree returns the application tree under construction. With
// ResolveIncremental it reflects every node added so far.
func (b *WorkBench) AppTree() *AppTree { return b.apps }

// AddChild creates a single-instance child (container, or module when the
// cursor is on the root) and descends into it. Adding a module that already
// exists re-enters it; op is ignored in that case.
func (b *WorkBench) AddChild(name, namespace string, op OpType) error {
	if err := b.usable(); err != nil {
		return err
	}
	d, err := b.resolve(name, namespace)
	if err != nil {
		return b.fail(err)
	}
	switch d.Kind {
	case schema.KindList:
		return b.fail(b.wrongCardinality(d, "AddListEntry or AddMultiInstanceChild"))
	case schema.KindLeaf, schema.KindLeafList:
		return b.fail(b.wrongCardinality(d, "AddLeaf"))
	}
	top := b.top()
	if id, dup := top.singles[d]; dup {
		if f, ok := b.parked[id]; ok {
			delete(b.parked, id)
			b.frames = append(b.frames, f)
			b.log.Debug("reenter", "node", d.Name, "path", b.Cursor().Path())
			return nil
		}
		return b.fail(NewError(CodeDuplicateEntry, b.childPath(name), map[string]string{"node": name}))
	}
	id, err := b.create(node{name: d.Name, namespace: d.Namespace, kind: SingleInstance, op: b.effectiveOp(op), schema: d})
	if err != nil {
		return b.fail(err)
	}
	top.singles[d] = id
	b.push(id, false)
	return nil
}

// AddListEntry creates a list instance whose key leaves are supplied later
// with AddLeaf, and descends into it. Key presence and uniqueness are checked
// when the cursor leaves the instance.
func (b *WorkBench) AddListEntry(name, namespace string, op OpType) error {
	if err := b.usable(); err != nil {
		return err
	}
	d, err := b.resolve(name, namespace)
	if err != nil {
		return b.fail(err)
	}
	if d.Kind != schema.KindList {
		return b.fail(b.wrongCardinality(d, b.apiFor(d)))
	}
	if err := b.top().siblings(d).AddInstance(); err != nil {
		return b.fail(fromFault(err, b.childPath(name)))
	}
	id, err := b.create(node{name: d.Name, namespace: d.Namespace, kind: MultiInstance, op: b.effectiveOp(op), schema: d})
	if err != nil {
		return b.fail(err)
	}
	b.push(id, true)
	return nil
}

// AddMultiInstanceChild creates a list instance, binding keys positionally to
// the declared key leaves (which are created automatically), and descends
// into it. Key count, max-elements and key uniqueness are checked immediately.
func (b *WorkBench) AddMultiInstanceChild(name, namespace string, keys []string, op OpType) error {
	if err := b.usable(); err != nil {
		return err
	}
	d, err := b.resolve(name, namespace)
	if err != nil {
		return b.fail(err)
	}
	if d.Kind != schema.KindList {
		return b.fail(b.wrongCardinality(d, b.apiFor(d)))
	}
	path := b.childPath(name)
	if err := listkey.CheckKeyCount(d.Name, len(d.Keys), len(keys)); err != nil {
		return b.fail(fromFault(err, path))
	}
	siblings := b.top().siblings(d)
	if err := siblings.AddInstance(); err != nil {
		return b.fail(fromFault(err, path))
	}
	id, err := b.create(node{name: d.Name, namespace: d.Namespace, kind: MultiInstance, op: b.effectiveOp(op), schema: d})
	if err != nil {
		return b.fail(err)
	}
	b.push(id, false)
	for i, k := range d.Keys {
		if err := b.addLeaf(k, d.Namespace, keys[i:i+1], false); err != nil {
			return b.fail(err)
		}
		b.pop()
	}
	tuple, err := b.keyTuple(b.top(), d)
	if err != nil {
		return b.fail(err)
	}
	if err := siblings.AddKey(tuple); err != nil {
		return b.fail(fromFault(err, b.Cursor().Path()))
	}
	return nil
}

// AddLeaf adds a leaf, or one value to a leaf-list, and descends into it.
// The value is validated against the leaf's built-in type immediately.
func (b *WorkBench) AddLeaf(name, namespace, value string) error {
	if err := b.usable(); err != nil {
		return err
	}
	return b.fail(b.addLeaf(name, namespace, []string{value}, false))
}

// AddLeafValues adds a set of values to a leaf-list and descends into it.
func (b *WorkBench) AddLeafValues(name, namespace string, values []string) error {
	if err := b.usable(); err != nil {
		return err
	}
	return b.fail(b.addLeaf(name, namespace, values, true))
}

func (b *WorkBench) addLeaf(name, namespace string, values []string, valueSet bool) error {
	d, err := b.resolve(name, namespace)
	if err != nil {
		return err
	}
	top := b.top()
	path := b.childPath(name)
	switch d.Kind {
	case schema.KindLeaf:
		if valueSet {
			return b.wrongCardinality(d, "AddLeaf")
		}
		if _, dup := top.singles[d]; dup {
			return NewError(CodeDuplicateEntry, path, map[string]string{"node": name})
		}
		v, err := value.Validate(d.Name, d.Type, values[0])
		if err != nil {
			return fromFault(err, path)
		}
		id, err := b.create(node{name: d.Name, namespace: d.Namespace, kind: Leaf, op: b.effectiveOp(OpUnset), value: v, schema: d})
		if err != nil {
			return err
		}
		top.singles[d] = id
		b.push(id, false)
		return nil
	case schema.KindLeafList:
		st, exists := top.leafLists[d]
		if !exists {
			st = &leafListState{id: noNode, set: listkey.NewValueSet(d.Name, d.MaxElements)}
		}
		accepted := make([]string, 0, len(values))
		for _, raw := range values {
			v, err := value.Validate(d.Name, d.Type, raw)
			if err != nil {
				return fromFault(err, path)
			}
			if err := st.set.Add(v); err != nil {
				return fromFault(err, path)
			}
			accepted = append(accepted, v)
		}
		if !exists {
			id, err := b.create(node{name: d.Name, namespace: d.Namespace, kind: LeafList, op: b.effectiveOp(OpUnset), values: accepted, schema: d})
			if err != nil {
				return err
			}
			st.id = id
			top.leafLists[d] = st
		} else {
			n := &b.tree.nodes[st.id]
			n.values = append(n.values, accepted...)
		}
		b.push(st.id, false)
		return nil
	}
	return b.wrongCardinality(d, b.apiFor(d))
}

// TraverseToParent finalizes the current node and moves the cursor to its
// parent. Closing an incrementally built list instance verifies that every
// key was supplied and that the key tuple is unique among its siblings.
func (b *WorkBench) TraverseToParent() error {
	if err := b.usable(); err != nil {
		return err
	}
	if len(b.frames) == 1 {
		return b.fail(NewError(CodeAscendPastRoot, "/", map[string]string{"node": b.tree.nodes[0].name}))
	}
	if err := b.finalize(); err != nil {
		return b.fail(err)
	}
	b.pop()
	return nil
}

// Finish closes every open frame, finalizing each, and freezes both trees.
func (b *WorkBench) Finish() (*Tree, *AppTree, error) {
	if err := b.usable(); err != nil {
		return nil, nil, err
	}
	for len(b.frames) > 1 {
		if err := b.TraverseToParent(); err != nil {
			return nil, nil, err
		}
	}
	if b.opt.Resolve == ResolvePostPass {
		if err := b.resolver.placeAll(); err != nil {
			return nil, nil, b.fail(err)
		}
	}
	b.finished = true
	b.log.Debug("work bench finished", "nodes", b.tree.Len(), "apps", b.apps.Len())
	return b.tree, b.apps, nil
}

func (b *WorkBench) finalize() error {
	f := b.top()
	n := &b.tree.nodes[f.id]
	if n.kind != MultiInstance || !f.incremental {
		return nil
	}
	tuple, err := b.keyTuple(f, n.schema)
	if err != nil {
		return err
	}
	parent := b.frames[len(b.frames)-2]
	return fromFault(parent.siblings(n.schema).AddKey(tuple), b.Cursor().Path())
}

func (b *WorkBench) keyTuple(f *frame, d *schema.Descriptor) (listkey.Tuple, error) {
	tuple, err := listkey.CollectKeys(d.Name, d.Keys, func(k string) (string, bool) {
		kd, ok := d.KeyLeaf(k)
		if !ok {
			return "", false
		}
		id, ok := f.singles[kd]
		if !ok {
			return "", false
		}
		return b.tree.nodes[id].value, true
	})
	if err != nil {
		return nil, fromFault(err, Node{t: b.tree, id: f.id}.Path())
	}
	return tuple, nil
}

// resolve asks the oracle for a child of the cursor node.
func (b *WorkBench) resolve(name, namespace string) (*schema.Descriptor, error) {
	cur := b.Cursor()
	if k := cur.Kind(); k == Leaf || k == LeafList {
		return nil, NewError(CodeStructural, cur.Path(), map[string]string{
			"node": cur.Path(), "reason": "a " + k.String() + " cannot have children",
		})
	}
	parent := cur.Schema()
	d, err := b.oracle.Resolve(parent, name, namespace)
	if err != nil || d == nil {
		e := NewError(CodeSchemaLookup, b.childPath(name), map[string]string{"node": name, "parent": cur.Path()})
		e.Cause = err
		return nil, e
	}
	if (parent == nil) != (d.Kind == schema.KindModule) {
		reason := "only modules may be added to the root"
		if parent != nil {
			reason = "modules may only be added to the root"
		}
		return nil, NewError(CodeStructural, b.childPath(name), map[string]string{"node": name, "reason": reason})
	}
	return d, nil
}

func (b *WorkBench) create(n node) (NodeID, error) {
	id := b.tree.add(b.top().id, n)
	if b.opt.Resolve == ResolveIncremental {
		if err := b.resolver.place(id); err != nil {
			return id, err
		}
	}
	return id, nil
}

func (b *WorkBench) push(id NodeID, incremental bool) {
	b.frames = append(b.frames, newFrame(id, incremental))
	if b.log.Enabled(context.Background(), slog.LevelDebug) {
		n := Node{t: b.tree, id: id}
		b.log.Debug("descend", "node", n.Name(), "kind", n.Kind().String(), "op", n.Op().String(), "path", n.Path())
	}
}

func (b *WorkBench) pop() {
	f := b.top()
	b.frames = b.frames[:len(b.frames)-1]
	if len(b.frames) == 1 {
		b.parked[f.id] = f
	}
	if b.log.Enabled(context.Background(), slog.LevelDebug) {
		b.log.Debug("ascend", "node", b.tree.nodes[f.id].name, "depth", len(b.frames)-1)
	}
}

func (b *WorkBench) top() *frame { return b.frames[len(b.frames)-1] }

func (b *WorkBench) effectiveOp(op OpType) OpType {
	if op != OpUnset {
		return op
	}
	return b.tree.nodes[b.top().id].op
}

func (b *WorkBench) childPath(name string) string {
	p := b.Cursor().Path()
	if p == "/" {
		return p + name
	}
	return p + "/" + name
}

func (b *WorkBench) apiFor(d *schema.Descriptor) string {
	switch d.Kind {
	case schema.KindList:
		return "AddListEntry or AddMultiInstanceChild"
	case schema.KindLeaf, schema.KindLeafList:
		return "AddLeaf"
	}
	return "AddChild"
}

func (b *WorkBench) wrongCardinality(d *schema.Descriptor, api string) error {
	return NewError(CodeWrongCardinality, b.childPath(d.Name), map[string]string{
		"node": d.Name, "kind": d.Kind.String(), "api": api,
	})
}

func (b *WorkBench) usable() error {
	if b.finished {
		return NewError(CodeStructural, "/", map[string]string{
			"node": b.tree.nodes[0].name, "reason": "the work bench has finished",
		})
	}
	if b.err != nil {
		e := NewError(CodeBenchSpent, "", map[string]string{"cause": b.err.Error()})
		e.Cause = b.err
		return e
	}
	return nil
}

// fail records the first error; the bench is spent from then on.
func (b *WorkBench) fail(err error) error {
	if err == nil {
		return nil
	}
	if b.err == nil {
		b.err = err
		b.log.Debug("work bench spent", "err", err)
	}
	return err
}
