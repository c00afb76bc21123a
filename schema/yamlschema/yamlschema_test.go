package yamlschema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/datatree/schema"
	"github.com/reoring/datatree/schema/yamlschema"
)

func TestLoadFile(t *testing.T) {
	reg, err := yamlschema.LoadFile("testdata/food.yaml")
	require.NoError(t, err)

	snack, ok := reg.Find("/food:food/snack")
	require.True(t, ok)
	require.Equal(t, schema.KindList, snack.Kind)
	require.Equal(t, []string{"name"}, snack.Keys)
	require.Equal(t, uint64(3), snack.MaxElements)

	neg, ok := reg.Find("/food:food/negInt")
	require.True(t, ok)
	require.Equal(t, schema.TypeInt8, neg.Type.Base)
	require.Len(t, neg.Type.Range, 2)

	taste, ok := reg.Find("/food:food/taste")
	require.True(t, ok)
	require.NotNil(t, taste.Type.Identity)
	_, ok = taste.Type.Identity.FindDerived("sweet")
	require.True(t, ok)

	spice, ok := reg.Find("/food:food/food-aug:spice")
	require.True(t, ok)
	require.Equal(t, "/f:food", spice.AugmentTarget)
	require.Equal(t, "ydt.food-aug", spice.Namespace)

	app, err := reg.ResolveAugmentingApp("/food:food/food-aug:spice")
	require.NoError(t, err)
	require.Equal(t, "spice-handler", app)

	ns, ok := reg.NamespaceOf("food-aug")
	require.True(t, ok)
	require.Equal(t, "ydt.food-aug", ns)
	ns, ok = reg.NamespaceOf("f")
	require.True(t, ok)
	require.Equal(t, "ydt.food", ns)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown field": `
modules:
  - name: m
    nodez: []
`,
		"two kinds": `
modules:
  - name: m
    nodes:
      - leaf: a
        container: a
`,
		"unknown type": `
modules:
  - name: m
    nodes:
      - leaf: a
        type: float
`,
		"bad range": `
modules:
  - name: m
    nodes:
      - leaf: a
        type: int8
        range: "0..300"
`,
		"key not a leaf": `
modules:
  - name: m
    nodes:
      - list: l
        key: [k]
        children:
          - container: k
`,
		"missing augment target": `
modules:
  - name: m
    augments:
      - target: /x:y
        nodes:
          - leaf: a
            type: string
`,
		"unnamed module": `
modules:
  - namespace: ns
`,
		"duplicate module": `
modules:
  - name: m
  - name: m
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := yamlschema.Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	reg, err := yamlschema.Parse(nil)
	require.NoError(t, err)
	require.Empty(t, reg.Modules())
}
