// Package walk traverses finished trees depth-first in pre-order.
//
// Any tree whose nodes can report their first child, next sibling and parent
// can be walked; both datatree.Node and datatree.AppNode qualify. Walk keeps
// no state beyond the current position, so walking an unmodified tree always
// reproduces the same event sequence, and independent walks of a finished
// tree may run concurrently.
package walk

// Node is the navigation contract of a walkable tree node. Nodes must be
// comparable so the walk can recognize its starting point.
type Node[N any] interface {
	comparable
	FirstChild() (N, bool)
	NextSibling() (N, bool)
	Parent() (N, bool)
}

// Listener receives traversal events synchronously in traversal order.
type Listener[N any] interface {
	Enter(n N)
	Exit(n N)
}

// Funcs adapts a pair of functions to a Listener. Nil functions are skipped.
type Funcs[N any] struct {
	OnEnter func(N)
	OnExit  func(N)
}

func (f Funcs[N]) Enter(n N) {
	if f.OnEnter != nil {
		f.OnEnter(n)
	}
}

func (f Funcs[N]) Exit(n N) {
	if f.OnExit != nil {
		f.OnExit(n)
	}
}

// Walk visits the subtree rooted at root. Every node gets Enter before any
// of its descendants and Exit after all of them; root is exited last.
// Siblings of root are not visited.
func Walk[N Node[N]](root N, l Listener[N]) {
	cur := root
	for {
		l.Enter(cur)
		if c, ok := cur.FirstChild(); ok {
			cur = c
			continue
		}
		for {
			l.Exit(cur)
			if cur == root {
				return
			}
			if s, ok := cur.NextSibling(); ok {
				cur = s
				break
			}
			p, ok := cur.Parent()
			if !ok {
				return
			}
			cur = p
		}
	}
}

// Event is one recorded traversal event.
type Event[N any] struct {
	Enter bool
	Node  N
}

// Recorder is a Listener that records every event.
type Recorder[N any] struct {
	Events []Event[N]
}

func (r *Recorder[N]) Enter(n N) { r.Events = append(r.Events, Event[N]{Enter: true, Node: n}) }
func (r *Recorder[N]) Exit(n N)  { r.Events = append(r.Events, Event[N]{Node: n}) }
