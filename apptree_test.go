package datatree_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/reoring/datatree"
	"github.com/reoring/datatree/walk"
)

// appDump renders the application tree as walk events with aggregates and
// member paths.
func appDump(apps *datatree.AppTree) []string {
	var out []string
	walk.Walk(apps.Root(), walk.Funcs[datatree.AppNode]{
		OnEnter: func(a datatree.AppNode) {
			s := "Enter " + a.String()
			if !a.IsRoot() {
				s += " " + a.Op().String()
			}
			for _, m := range a.Members() {
				s += " " + m.Path()
			}
			out = append(out, s)
		},
		OnExit: func(a datatree.AppNode) { out = append(out, "Exit "+a.String()) },
	})
	return out
}

func TestAppTree_DeleteOnly(t *testing.T) {
	b := newBench(t)
	require.NoError(t, b.AddChild("food", "", datatree.OpDelete))
	tree, apps, err := b.Finish()
	require.NoError(t, err)

	food, ok := apps.Find("food", "")
	require.True(t, ok)
	require.Equal(t, datatree.AppOpDeleteOnly, food.Op())
	anchor, ok := food.Anchor()
	require.True(t, ok)
	require.Equal(t, "/food", anchor.Path())
	require.Len(t, food.Members(), 1)
	require.Equal(t, "/food/food", food.Members()[0].Path())

	root := apps.Root()
	require.True(t, root.IsRoot())
	require.Equal(t, "foodarena", root.Name())
	_, ok = root.Parent()
	require.False(t, ok)
	_, ok = root.Anchor()
	require.True(t, ok)
	require.Same(t, tree, apps.Data())
}

func TestAppTree_AugmentAggregate(t *testing.T) {
	cases := []struct {
		name         string
		spice, sauce datatree.OpType
		want         datatree.AppOpType
	}{
		{"merge and delete", datatree.OpMerge, datatree.OpDelete, datatree.AppOpBoth},
		{"both delete", datatree.OpDelete, datatree.OpDelete, datatree.AppOpDeleteOnly},
		{"remove counts as delete", datatree.OpRemove, datatree.OpDelete, datatree.AppOpDeleteOnly},
		{"both edits", datatree.OpCreate, datatree.OpReplace, datatree.AppOpOtherEdit},
		{"none is an edit", datatree.OpNone, datatree.OpDelete, datatree.AppOpBoth},
	}
	for _, mode := range []datatree.ResolveMode{datatree.ResolveIncremental, datatree.ResolvePostPass} {
		for _, tc := range cases {
			t.Run(mode.String()+"/"+tc.name, func(t *testing.T) {
				b := newBench(t, datatree.BenchOpt{Resolve: mode})
				require.NoError(t, b.AddChild("food", "", datatree.OpMerge))
				require.NoError(t, b.AddChild("spice", "", tc.spice))
				leaf(t, b, "level", "hot")
				require.NoError(t, b.TraverseToParent())
				require.NoError(t, b.AddChild("sauce", "", tc.sauce))
				leaf(t, b, "kind", "soy")
				_, apps, err := b.Finish()
				require.NoError(t, err)

				aug, ok := apps.Find("food-aug", "/f:food")
				require.True(t, ok)
				require.Equal(t, tc.want, aug.Op())
				require.Len(t, aug.Members(), 4)
				require.Equal(t, "/f:food", aug.AugmentPath())
				parent, ok := aug.Parent()
				require.True(t, ok)
				require.Equal(t, "food", parent.Name())

				food, ok := apps.Find("food", "")
				require.True(t, ok)
				require.Equal(t, datatree.AppOpOtherEdit, food.Op())
			})
		}
	}
}

// buildMixed builds a document touching two modules and two augments.
func buildMixed(t *testing.T, opts ...datatree.BenchOpt) *datatree.WorkBench {
	t.Helper()
	b := newBench(t, opts...)
	require.NoError(t, b.AddChild("food", "", datatree.OpMerge))
	leaf(t, b, "chocolate", "dark")
	require.NoError(t, b.AddChild("veggies", "", datatree.OpDelete))
	leaf(t, b, "lettuce", "iceberg")
	require.NoError(t, b.TraverseToParent())
	require.NoError(t, b.AddChild("spice", "", datatree.OpUnset))
	leaf(t, b, "level", "mild")
	require.NoError(t, b.TraverseToParent())
	require.NoError(t, b.TraverseToParent())
	require.NoError(t, b.TraverseToParent())
	require.NoError(t, b.AddChild("drinks", "", datatree.OpUnset))
	require.NoError(t, b.AddChild("drinks", "", datatree.OpCreate))
	leaf(t, b, "cola", "true")
	return b
}

func TestAppTree_Structure(t *testing.T) {
	_, apps, err := buildMixed(t).Finish()
	require.NoError(t, err)

	want := []string{
		"Enter foodarena",
		"Enter food OTHER_EDIT /food/food /food/food/chocolate",
		"Enter veg@/food:food DELETE_ONLY /food/food/veggies /food/food/veggies/lettuce",
		"Exit veg@/food:food",
		"Enter food-aug@/f:food OTHER_EDIT /food/food/spice /food/food/spice/level",
		"Exit food-aug@/f:food",
		"Exit food",
		"Enter drinks OTHER_EDIT /drinks/drinks /drinks/drinks/cola",
		"Exit drinks",
		"Exit foodarena",
	}
	if diff := cmp.Diff(want, appDump(apps)); diff != "" {
		t.Fatalf("application tree mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 5, apps.Len())

	var modules []string
	for c := range apps.Root().Children() {
		modules = append(modules, c.Name())
	}
	require.Equal(t, []string{"food", "drinks"}, modules)
}

func TestAppTree_PostPassMatchesIncremental(t *testing.T) {
	inc := buildMixed(t)
	require.Equal(t, 5, inc.AppTree().Len())
	_, incApps, err := inc.Finish()
	require.NoError(t, err)

	post := buildMixed(t, datatree.BenchOpt{Resolve: datatree.ResolvePostPass})
	require.Equal(t, 1, post.AppTree().Len())
	_, postApps, err := post.Finish()
	require.NoError(t, err)

	if diff := cmp.Diff(appDump(incApps), appDump(postApps)); diff != "" {
		t.Fatalf("post-pass differs from incremental (-incremental +post-pass):\n%s", diff)
	}
}

func TestAppTree_IncrementalVisibility(t *testing.T) {
	b := newBench(t)
	require.NoError(t, b.AddChild("food", "", datatree.OpMerge))
	require.NoError(t, b.AddChild("spice", "", datatree.OpDelete))

	aug, ok := b.AppTree().Find("food-aug", "/f:food")
	require.True(t, ok)
	require.Equal(t, datatree.AppOpDeleteOnly, aug.Op())

	require.NoError(t, b.TraverseToParent())
	require.NoError(t, b.AddChild("sauce", "", datatree.OpMerge))
	require.Equal(t, datatree.AppOpBoth, aug.Op())
}

func TestAppTree_SetApp(t *testing.T) {
	reg := foodRegistry(t)
	reg.SetApp("/food:food/food-aug:spice", "spice-app")
	b, err := datatree.NewWorkBench(reg, "foodarena", "food")
	require.NoError(t, err)
	require.NoError(t, b.AddChild("food", "", datatree.OpMerge))
	require.NoError(t, b.AddChild("spice", "", datatree.OpMerge))
	_, apps, err := b.Finish()
	require.NoError(t, err)
	_, ok := apps.Find("spice-app", "/f:food")
	require.True(t, ok)
}

func TestAppNode_Child(t *testing.T) {
	_, apps, err := buildMixed(t).Finish()
	require.NoError(t, err)

	food, ok := apps.Root().Child("food", "")
	require.True(t, ok)
	veg, ok := food.Child("veg", "/food:food")
	require.True(t, ok)
	require.Equal(t, datatree.AppOpDeleteOnly, veg.Op())
	found, ok := apps.Find("veg", "/food:food")
	require.True(t, ok)
	require.Equal(t, veg, found)

	drinks, ok := apps.Root().Child("drinks", "")
	require.True(t, ok)
	_, ok = drinks.Child("veg", "/food:food")
	require.False(t, ok)
	_, ok = apps.Root().Child("veg", "/food:food")
	require.False(t, ok)
}
