package datatree_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/datatree"
)

func TestParseOpType(t *testing.T) {
	for in, want := range map[string]datatree.OpType{
		"merge":    datatree.OpMerge,
		"DELETE":   datatree.OpDelete,
		" replace": datatree.OpReplace,
		"Create":   datatree.OpCreate,
		"remove":   datatree.OpRemove,
		"none":     datatree.OpNone,
	} {
		got, err := datatree.ParseOpType(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}
	for _, bad := range []string{"", "unset", "patch"} {
		_, err := datatree.ParseOpType(bad)
		require.Error(t, err, bad)
	}
	require.Equal(t, "merge", datatree.OpMerge.String())
	require.True(t, datatree.OpRemove.IsDelete())
	require.False(t, datatree.OpReplace.IsDelete())
}

func TestAppOpType_String(t *testing.T) {
	require.Equal(t, "NONE", datatree.AppOpNone.String())
	require.Equal(t, "OTHER_EDIT", datatree.AppOpOtherEdit.String())
	require.Equal(t, "DELETE_ONLY", datatree.AppOpDeleteOnly.String())
	require.Equal(t, "BOTH", datatree.AppOpBoth.String())
}

func TestError_Is(t *testing.T) {
	err := datatree.NewError(datatree.CodeKeyNotUnique, "/a", map[string]string{"list": "l"})
	require.ErrorIs(t, err, datatree.ErrKey)
	require.NotErrorIs(t, err, datatree.ErrStructural)
	require.ErrorIs(t, err, &datatree.Error{Kind: datatree.KindKey, Code: datatree.CodeKeyNotUnique})
	require.NotErrorIs(t, err, &datatree.Error{Kind: datatree.KindKey, Code: datatree.CodeMissingKeys})
	require.Equal(t, "KeyError", err.Kind.String())

	wrapped := errors.Join(errors.New("context"), err)
	e, ok := datatree.AsError(wrapped)
	require.True(t, ok)
	require.Equal(t, "/a", e.Path)
	_, ok = datatree.AsError(nil)
	require.False(t, ok)
}

func TestBenchOpt_Logger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := newBench(t, datatree.BenchOpt{Logger: log})
	require.NoError(t, b.AddChild("food", "", datatree.OpUnset))
	require.NoError(t, b.TraverseToParent())
	require.Contains(t, buf.String(), "msg=descend node=food kind=single-instance")
	require.Contains(t, buf.String(), "msg=ascend")
	require.Contains(t, buf.String(), "app=food")
}
