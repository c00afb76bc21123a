package datatree

import (
	"iter"
	"log/slog"

	"github.com/reoring/datatree/schema"
)

// AppID addresses a node inside its AppTree.
type AppID int32

const (
	noApp   AppID = -1
	appRoot AppID = 0
)

type appNode struct {
	name        string
	augmentPath string
	state       aggState
	// anchor is the module data node of a module group.
	anchor  NodeID
	members []NodeID

	parent     AppID
	firstChild AppID
	lastChild  AppID
	next       AppID
	prev       AppID
}

// AppTree groups data nodes by owning application (module) and augment
// target path. Its root has no operation and one child per top-level module
// in first-discovery order; augment groups hang under the group holding
// their target.
type AppTree struct {
	data  *Tree
	nodes []appNode
}

func newAppTree(data *Tree) *AppTree {
	t := &AppTree{data: data}
	t.nodes = append(t.nodes, appNode{
		name: data.nodes[0].name, anchor: 0,
		parent: noApp, firstChild: noApp, lastChild: noApp, next: noApp, prev: noApp,
	})
	return t
}

// child returns the child of parent keyed by (name, augmentPath), creating it
// as the last child when missing.
func (t *AppTree) child(parent AppID, name, augmentPath string) AppID {
	for c := t.nodes[parent].firstChild; c != noApp; c = t.nodes[c].next {
		if t.nodes[c].name == name && t.nodes[c].augmentPath == augmentPath {
			return c
		}
	}
	id := AppID(len(t.nodes))
	t.nodes = append(t.nodes, appNode{
		name: name, augmentPath: augmentPath, anchor: noNode,
		parent: parent, firstChild: noApp, lastChild: noApp, next: noApp,
		prev: t.nodes[parent].lastChild,
	})
	p := &t.nodes[parent]
	if p.lastChild == noApp {
		p.firstChild = id
	} else {
		t.nodes[p.lastChild].next = id
	}
	p.lastChild = id
	return id
}

// join adds a data node to group g and recomputes the aggregate.
func (t *AppTree) join(g AppID, id NodeID, op OpType) {
	a := &t.nodes[g]
	a.members = append(a.members, id)
	a.state = a.state.join(op)
}

// Root returns the application root.
func (t *AppTree) Root() AppNode { return AppNode{t: t, id: appRoot} }

// Len returns the number of application nodes including the root.
func (t *AppTree) Len() int { return len(t.nodes) }

// Data returns the data tree the application tree was built from.
func (t *AppTree) Data() *Tree { return t.data }

// Find returns the first group keyed by (name, augmentPath) in discovery
// order. Module groups have an empty augment path. The same key may occur
// under more than one parent group; AppNode.Child looks below one parent.
func (t *AppTree) Find(name, augmentPath string) (AppNode, bool) {
	for i := 1; i < len(t.nodes); i++ {
		if t.nodes[i].name == name && t.nodes[i].augmentPath == augmentPath {
			return AppNode{t: t, id: AppID(i)}, true
		}
	}
	return AppNode{}, false
}

// AppNode is a read-only view of one Application-Tree node.
type AppNode struct {
	t  *AppTree
	id AppID
}

func (a AppNode) rec() *appNode { return &a.t.nodes[a.id] }

// IsValid reports whether a refers to a node.
func (a AppNode) IsValid() bool { return a.t != nil }

// Name returns the application (module) name.
func (a AppNode) Name() string { return a.rec().name }

// AugmentPath returns the schema path the group's augment attaches to; empty
// for the root and module groups.
func (a AppNode) AugmentPath() string { return a.rec().augmentPath }

// Op returns the aggregate operation over the group's members.
func (a AppNode) Op() AppOpType { return a.rec().state.result() }

// IsRoot reports whether a is the application root.
func (a AppNode) IsRoot() bool { return a.id == appRoot }

// Members returns the data nodes grouped under a in insertion order.
func (a AppNode) Members() []Node {
	ids := a.rec().members
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{t: a.t.data, id: id}
	}
	return out
}

// Anchor returns the module data node of a module group.
func (a AppNode) Anchor() (Node, bool) {
	if a.rec().anchor == noNode {
		return Node{}, false
	}
	return Node{t: a.t.data, id: a.rec().anchor}, true
}

// Child returns the direct child group of a keyed by (name, augmentPath).
func (a AppNode) Child(name, augmentPath string) (AppNode, bool) {
	for c := range a.Children() {
		if c.Name() == name && c.AugmentPath() == augmentPath {
			return c, true
		}
	}
	return AppNode{}, false
}

func (a AppNode) link(id AppID) (AppNode, bool) {
	if id == noApp {
		return AppNode{}, false
	}
	return AppNode{t: a.t, id: id}, true
}

func (a AppNode) Parent() (AppNode, bool)      { return a.link(a.rec().parent) }
func (a AppNode) FirstChild() (AppNode, bool)  { return a.link(a.rec().firstChild) }
func (a AppNode) NextSibling() (AppNode, bool) { return a.link(a.rec().next) }
func (a AppNode) PrevSibling() (AppNode, bool) { return a.link(a.rec().prev) }

// Children iterates the children of a in discovery order.
func (a AppNode) Children() iter.Seq[AppNode] {
	return func(yield func(AppNode) bool) {
		for c, ok := a.FirstChild(); ok; c, ok = c.NextSibling() {
			if !yield(c) {
				return
			}
		}
	}
}

func (a AppNode) String() string {
	if a.rec().augmentPath == "" {
		return a.rec().name
	}
	return a.rec().name + "@" + a.rec().augmentPath
}

// resolver places data nodes into Application-Tree groups.
type resolver struct {
	oracle schema.Oracle
	apps   *AppTree
	log    *slog.Logger
}

// place groups data node id. Its parent must already be placed.
func (r *resolver) place(id NodeID) error {
	data := r.apps.data
	n := &data.nodes[id]
	parentGroup := data.nodes[n.parent].group
	d := n.schema

	var g AppID
	switch {
	case d.Kind == schema.KindModule:
		g = r.apps.child(appRoot, d.Name, "")
		if r.apps.nodes[g].anchor == noNode {
			r.apps.nodes[g].anchor = id
		}
		n.group = g
		r.log.Debug("module group", "app", d.Name)
		return nil
	case d.IsAugmented():
		app, err := r.oracle.ResolveAugmentingApp(d.Path)
		if err != nil {
			e := NewError(CodeSchemaLookup, Node{t: data, id: id}.Path(),
				map[string]string{"node": d.Path, "parent": "the augmenting applications"})
			e.Cause = err
			return e
		}
		pg := &r.apps.nodes[parentGroup]
		g = parentGroup
		if pg.name != app || pg.augmentPath != d.AugmentTarget {
			g = r.apps.child(parentGroup, app, d.AugmentTarget)
		}
	default:
		g = parentGroup
	}
	n.group = g
	r.apps.join(g, id, n.op)
	r.log.Debug("app group joined",
		"app", r.apps.nodes[g].name,
		"augment", r.apps.nodes[g].augmentPath,
		"node", n.name,
		"aggregate", r.apps.nodes[g].state.result().String())
	return nil
}

// placeAll groups every data node in creation order, which visits parents
// before children exactly as incremental placement does.
func (r *resolver) placeAll() error {
	for id := NodeID(1); int(id) < len(r.apps.data.nodes); id++ {
		if err := r.place(id); err != nil {
			return err
		}
	}
	return nil
}
