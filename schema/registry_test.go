package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/datatree/schema"
)

func newFoodRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()
	require.NoError(t, reg.AddModule(schema.NewModule("food", "ydt.food",
		schema.NewContainer("food",
			schema.NewLeaf("chocolate", schema.String()),
			schema.NewList("snack", []string{"name"}, 2,
				schema.NewLeaf("name", schema.String()),
				schema.NewLeaf("calories", schema.Integer(schema.TypeUint16, "0..2000")),
			),
		),
	)))
	reg.SetPrefix("food", "f")
	require.NoError(t, reg.Augment("food-aug", "ydt.food-aug", "/f:food",
		schema.NewLeaf("spice", schema.Enumeration("mild", "hot")),
	))
	require.NoError(t, reg.AddIdentity("food", "flavor"))
	require.NoError(t, reg.AddIdentity("food", "sweet", "flavor"))
	require.NoError(t, reg.AddIdentity("food", "very-sweet", "sweet"))
	require.NoError(t, reg.Compile())
	return reg
}

func TestRegistry_ResolveAndPaths(t *testing.T) {
	reg := newFoodRegistry(t)

	m, err := reg.Resolve(nil, "food", "ydt.food")
	require.NoError(t, err)
	require.Equal(t, schema.KindModule, m.Kind)

	c, err := reg.Resolve(m, "food", "")
	require.NoError(t, err)
	require.Equal(t, "/food:food", c.Path)
	require.Equal(t, "food", c.Module)

	l, err := reg.Resolve(c, "snack", "")
	require.NoError(t, err)
	require.Equal(t, schema.KindList, l.Kind)
	require.Equal(t, []string{"name"}, l.Keys)
	require.Equal(t, "/food:food/snack", l.Path)

	_, err = reg.Resolve(c, "missing", "")
	require.ErrorIs(t, err, schema.ErrNotFound)
	_, err = reg.Resolve(nil, "food", "wrong.ns")
	require.ErrorIs(t, err, schema.ErrNotFound)
}

func TestRegistry_Augment(t *testing.T) {
	reg := newFoodRegistry(t)
	d, ok := reg.Find("/food:food/food-aug:spice")
	require.True(t, ok)
	require.True(t, d.IsAugmented())
	require.Equal(t, "/f:food", d.AugmentTarget)
	require.Equal(t, "food-aug", d.Module)
	require.Equal(t, "ydt.food-aug", d.Namespace)

	app, err := reg.ResolveAugmentingApp(d.Path)
	require.NoError(t, err)
	require.Equal(t, "food-aug", app)

	reg2 := schema.NewRegistry()
	require.NoError(t, reg2.Augment("x", "ns.x", "/nope:nothing", schema.NewLeaf("a", schema.Boolean())))
	require.Error(t, reg2.Compile())
}

func TestRegistry_Identities(t *testing.T) {
	reg := schema.NewRegistry()
	require.NoError(t, reg.AddModule(schema.NewModule("crypto", "ns.crypto",
		schema.NewLeaf("alg", schema.IdentityRef("crypto-alg")),
	)))
	reg.SetPrefix("crypto", "c")
	require.NoError(t, reg.AddIdentity("crypto", "crypto-alg"))
	require.NoError(t, reg.AddIdentity("crypto", "des", "crypto-alg"))
	require.NoError(t, reg.AddIdentity("crypto", "des3", "c:des"))
	require.NoError(t, reg.Compile())

	d, ok := reg.Find("/crypto:alg")
	require.True(t, ok)
	base := d.Type.Identity
	require.NotNil(t, base)

	_, ok = base.FindDerived("des3")
	require.True(t, ok)
	_, ok = base.FindDerived("c:des")
	require.True(t, ok)
	_, ok = base.FindDerived("crypto:des")
	require.True(t, ok)
	_, ok = base.FindDerived("crypto-alg")
	require.False(t, ok)
}

func TestRegistry_CompileErrors(t *testing.T) {
	reg := schema.NewRegistry()
	require.NoError(t, reg.AddModule(schema.NewModule("bad", "ns.bad",
		schema.NewList("l", []string{"k"}, 0, schema.NewLeaf("other", schema.String())),
		schema.NewLeaf("d", schema.Decimal64(0, "")),
		schema.NewLeaf("r", schema.Integer(schema.TypeInt8, "1..1000")),
	)))
	err := reg.Compile()
	require.Error(t, err)
	require.Contains(t, err.Error(), `key "k"`)
	require.Contains(t, err.Error(), "fraction-digits")
	require.Contains(t, err.Error(), "outside int8 bounds")
}
