package datatree

import (
	"iter"
	"strings"

	"github.com/reoring/datatree/schema"
)

// NodeID addresses a node inside its Tree.
type NodeID int32

const noNode NodeID = -1

// node is the arena record. All links are indices into Tree.nodes.
type node struct {
	name      string
	namespace string
	kind      NodeKind
	op        OpType
	value     string
	values    []string
	schema    *schema.Descriptor

	parent     NodeID
	firstChild NodeID
	lastChild  NodeID
	next       NodeID
	prev       NodeID

	// group is the Application-Tree node this data node is grouped under.
	group AppID
}

// Tree is the data tree built by a WorkBench. The arena is the sole owner of
// every node. A Tree returned by Finish is immutable and safe for concurrent
// reads.
type Tree struct {
	nodes []node
}

func newTree(rootName string) *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, node{
		name: rootName, kind: SingleInstance, op: OpNone,
		parent: noNode, firstChild: noNode, lastChild: noNode, next: noNode, prev: noNode,
		group: appRoot,
	})
	return t
}

// add appends a node as the last child of parent.
func (t *Tree) add(parent NodeID, n node) NodeID {
	id := NodeID(len(t.nodes))
	n.parent = parent
	n.firstChild, n.lastChild, n.next = noNode, noNode, noNode
	n.prev = t.nodes[parent].lastChild
	n.group = noApp
	t.nodes = append(t.nodes, n)
	p := &t.nodes[parent]
	if p.lastChild == noNode {
		p.firstChild = id
	} else {
		t.nodes[p.lastChild].next = id
	}
	p.lastChild = id
	return id
}

// Root returns the logical root.
func (t *Tree) Root() Node { return Node{t: t, id: 0} }

// Len returns the number of nodes including the root.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return Node{}, false
	}
	return Node{t: t, id: id}, true
}

// Node is a read-only view of one data node. The zero Node is invalid.
type Node struct {
	t  *Tree
	id NodeID
}

func (n Node) rec() *node { return &n.t.nodes[n.id] }

// IsValid reports whether n refers to a node.
func (n Node) IsValid() bool { return n.t != nil }

// ID returns the arena handle of n.
func (n Node) ID() NodeID { return n.id }

func (n Node) Name() string      { return n.rec().name }
func (n Node) Namespace() string { return n.rec().namespace }
func (n Node) Kind() NodeKind    { return n.rec().kind }
func (n Node) Op() OpType        { return n.rec().op }

// Value returns the scalar value of a leaf.
func (n Node) Value() string { return n.rec().value }

// Values returns a copy of the value set of a leaf-list.
func (n Node) Values() []string { return append([]string(nil), n.rec().values...) }

// Schema returns the descriptor bound at creation; nil for the logical root.
func (n Node) Schema() *schema.Descriptor { return n.rec().schema }

func (n Node) link(id NodeID) (Node, bool) {
	if id == noNode {
		return Node{}, false
	}
	return Node{t: n.t, id: id}, true
}

func (n Node) Parent() (Node, bool)      { return n.link(n.rec().parent) }
func (n Node) FirstChild() (Node, bool)  { return n.link(n.rec().firstChild) }
func (n Node) NextSibling() (Node, bool) { return n.link(n.rec().next) }
func (n Node) PrevSibling() (Node, bool) { return n.link(n.rec().prev) }

// Children iterates the children of n in insertion order.
func (n Node) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for c, ok := n.FirstChild(); ok; c, ok = c.NextSibling() {
			if !yield(c) {
				return
			}
		}
	}
}

// Child returns the first child named name.
func (n Node) Child(name string) (Node, bool) {
	for c := range n.Children() {
		if c.Name() == name {
			return c, true
		}
	}
	return Node{}, false
}

// KeyValues returns the key leaf values of a list instance in declared key
// order. Keys not (yet) present are skipped.
func (n Node) KeyValues() []string {
	d := n.Schema()
	if n.Kind() != MultiInstance || d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Keys))
	for _, k := range d.Keys {
		if c, ok := n.keyLeaf(k); ok {
			out = append(out, c.Value())
		}
	}
	return out
}

// keyLeaf finds the key leaf k of a list instance by its schema node, so a
// same-named leaf augmented in from another module is never taken for a key.
func (n Node) keyLeaf(k string) (Node, bool) {
	kd, ok := n.Schema().KeyLeaf(k)
	if !ok {
		return Node{}, false
	}
	for c := range n.Children() {
		if c.Schema() == kd {
			return c, true
		}
	}
	return Node{}, false
}

// Path renders the data path of n below the logical root, with key
// predicates on list instances, e.g. "/food/food/snack[name='kitkat']".
// Key values containing a single quote are double-quoted instead.
func (n Node) Path() string {
	if n.t == nil {
		return ""
	}
	var segs []string
	for cur, ok := n, true; ok; cur, ok = cur.Parent() {
		if cur.id == 0 {
			break
		}
		segs = append(segs, cur.segment())
	}
	if len(segs) == 0 {
		return "/"
	}
	var b strings.Builder
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(segs[i])
	}
	return b.String()
}

func (n Node) segment() string {
	if n.Kind() != MultiInstance || n.Schema() == nil {
		return n.Name()
	}
	var b strings.Builder
	b.WriteString(n.Name())
	for _, k := range n.Schema().Keys {
		if c, ok := n.keyLeaf(k); ok {
			b.WriteString("[" + k + "=" + quoteKey(c.Value()) + "]")
		}
	}
	return b.String()
}

// quoteKey quotes a predicate value with ' or, when the value contains one,
// with ". A value holding both quote characters is double-quoted with \ and
// \" escapes.
func quoteKey(v string) string {
	switch {
	case !strings.ContainsRune(v, '\''):
		return "'" + v + "'"
	case !strings.ContainsRune(v, '"'):
		return `"` + v + `"`
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v) + `"`
}

func (n Node) String() string { return n.Path() }
