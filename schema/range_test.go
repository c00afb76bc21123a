package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/datatree/schema"
)

func mustInt(t *testing.T, s string) schema.Number {
	t.Helper()
	n, err := schema.ParseInteger(s)
	require.NoError(t, err)
	return n
}

func TestParseRange_MultiInterval(t *testing.T) {
	rng, err := schema.ParseRange("10..40 | 50..100", schema.TypeInt8, 0)
	require.NoError(t, err)
	require.Len(t, rng, 2)

	for _, ok := range []string{"10", "11", "40", "50", "55", "100"} {
		require.True(t, rng.Contains(mustInt(t, ok)), ok)
	}
	for _, bad := range []string{"9", "41", "49", "101"} {
		require.False(t, rng.Contains(mustInt(t, bad)), bad)
	}
}

func TestParseRange_MinMaxAndSingleValues(t *testing.T) {
	rng, err := schema.ParseRange("min..2 | 10 | 20..max", schema.TypeInt8, 0)
	require.NoError(t, err)
	require.Len(t, rng, 3)
	require.True(t, rng.Contains(mustInt(t, "-128")))
	require.True(t, rng.Contains(mustInt(t, "10")))
	require.True(t, rng.Contains(mustInt(t, "127")))
	require.False(t, rng.Contains(mustInt(t, "11")))
	require.False(t, rng.Contains(mustInt(t, "3")))
}

func TestParseRange_Decimal64Scaled(t *testing.T) {
	rng, err := schema.ParseRange("1.5..3 | 10.25", schema.TypeDecimal64, 2)
	require.NoError(t, err)
	require.Equal(t, schema.Uint(150), rng[0].Min)
	require.Equal(t, schema.Uint(300), rng[0].Max)
	require.Equal(t, schema.Uint(1025), rng[1].Min)
}

func TestParseRange_Errors(t *testing.T) {
	cases := []struct {
		name string
		expr string
		t    schema.BuiltinType
	}{
		{"not ascending", "50..60 | 10..20", schema.TypeInt8},
		{"overlap", "10..20 | 20..30", schema.TypeInt8},
		{"min greater than max", "20..10", schema.TypeInt8},
		{"outside type bounds", "0..300", schema.TypeUint8},
		{"garbage", "a..b", schema.TypeInt16},
		{"no range on boolean", "1..2", schema.TypeBoolean},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := schema.ParseRange(tc.expr, tc.t, 0)
			require.Error(t, err)
		})
	}
}

func TestParseDecimal(t *testing.T) {
	n, err := schema.ParseDecimal("-92233720368547758.08", 2)
	require.NoError(t, err)
	require.Equal(t, schema.Int(-9223372036854775808), n)

	n, err = schema.ParseDecimal("3", 2)
	require.NoError(t, err)
	require.Equal(t, "3.00", n.Decimal(2))

	_, err = schema.ParseDecimal("1.234", 2)
	require.ErrorIs(t, err, schema.ErrNumberSyntax)
	_, err = schema.ParseDecimal("1.", 2)
	require.ErrorIs(t, err, schema.ErrNumberSyntax)
	_, err = schema.ParseDecimal("999999999999999999999", 2)
	require.ErrorIs(t, err, schema.ErrNumberOverflow)
}

func TestNumberCompare(t *testing.T) {
	require.Equal(t, -1, schema.Int(-5).Compare(schema.Int(3)))
	require.Equal(t, 1, schema.Int(-5).Compare(schema.Int(-6)))
	require.Equal(t, 0, schema.Int(0).Compare(mustInt(t, "-0")))
	require.Equal(t, 1, schema.Uint(18446744073709551615).Compare(schema.Int(9223372036854775807)))
}

func TestBounds(t *testing.T) {
	b, ok := schema.Bounds(schema.TypeInt8)
	require.True(t, ok)
	require.Equal(t, schema.Int(-128), b.Min)
	require.Equal(t, schema.Int(127), b.Max)

	b, ok = schema.Bounds(schema.TypeUint16)
	require.True(t, ok)
	require.Equal(t, schema.Uint(65535), b.Max)

	_, ok = schema.Bounds(schema.TypeBoolean)
	require.False(t, ok)
}
