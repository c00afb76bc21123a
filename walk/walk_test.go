package walk_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/reoring/datatree"
	"github.com/reoring/datatree/schema"
	"github.com/reoring/datatree/walk"
)

type tnode struct {
	name   string
	parent *tnode
	kids   []*tnode
}

func tn(name string, kids ...*tnode) *tnode {
	n := &tnode{name: name, kids: kids}
	for _, k := range kids {
		k.parent = n
	}
	return n
}

func (n *tnode) FirstChild() (*tnode, bool) {
	if len(n.kids) == 0 {
		return nil, false
	}
	return n.kids[0], true
}

func (n *tnode) NextSibling() (*tnode, bool) {
	if n.parent == nil {
		return nil, false
	}
	sibs := n.parent.kids
	for i, s := range sibs {
		if s == n && i+1 < len(sibs) {
			return sibs[i+1], true
		}
	}
	return nil, false
}

func (n *tnode) Parent() (*tnode, bool) { return n.parent, n.parent != nil }

func trace[N walk.Node[N]](root N, name func(N) string) []string {
	var out []string
	walk.Walk(root, walk.Funcs[N]{
		OnEnter: func(n N) { out = append(out, "Enter "+name(n)) },
		OnExit:  func(n N) { out = append(out, "Exit "+name(n)) },
	})
	return out
}

func TestWalk_Order(t *testing.T) {
	root := tn("r", tn("a", tn("a1"), tn("a2", tn("a2x"))), tn("b"), tn("c", tn("c1")))
	got := trace(root, func(n *tnode) string { return n.name })
	want := []string{
		"Enter r",
		"Enter a", "Enter a1", "Exit a1", "Enter a2", "Enter a2x", "Exit a2x", "Exit a2", "Exit a",
		"Enter b", "Exit b",
		"Enter c", "Enter c1", "Exit c1", "Exit c",
		"Exit r",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_SubtreeStopsAtRoot(t *testing.T) {
	root := tn("r", tn("a", tn("a1")), tn("b"))
	a, _ := root.FirstChild()
	got := trace(a, func(n *tnode) string { return n.name })
	if diff := cmp.Diff([]string{"Enter a", "Enter a1", "Exit a1", "Exit a"}, got); diff != "" {
		t.Fatalf("subtree walk mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_SingleNode(t *testing.T) {
	var rec walk.Recorder[*tnode]
	n := tn("only")
	walk.Walk(n, &rec)
	require.Len(t, rec.Events, 2)
	require.True(t, rec.Events[0].Enter)
	require.False(t, rec.Events[1].Enter)
	require.Same(t, n, rec.Events[1].Node)
}

func scenarioTree(t *testing.T) *datatree.Tree {
	t.Helper()
	reg := schema.NewRegistry()
	require.NoError(t, reg.AddModule(schema.NewModule("food", "ydt.food",
		schema.NewContainer("food", schema.NewLeaf("chocolate", schema.String())),
	)))
	require.NoError(t, reg.Compile())
	b, err := datatree.NewWorkBench(reg, "foodarena", "food")
	require.NoError(t, err)
	require.NoError(t, b.AddChild("food", "", datatree.OpUnset))
	require.NoError(t, b.AddLeaf("chocolate", "", "dark"))
	tree, _, err := b.Finish()
	require.NoError(t, err)
	return tree
}

func TestWalk_DataTree(t *testing.T) {
	tree := scenarioTree(t)
	got := trace(tree.Root(), datatree.Node.Name)
	want := []string{
		"Enter foodarena", "Enter food", "Enter food", "Enter chocolate",
		"Exit chocolate", "Exit food", "Exit food", "Exit foodarena",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("data tree walk mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_Deterministic(t *testing.T) {
	tree := scenarioTree(t)
	first := trace(tree.Root(), datatree.Node.Name)
	require.Len(t, first, 2*tree.Len())

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = trace(tree.Root(), datatree.Node.Name)
		}()
	}
	wg.Wait()
	for _, r := range results {
		if diff := cmp.Diff(first, r); diff != "" {
			t.Fatalf("re-walk differs (-first +again):\n%s", diff)
		}
	}
}
