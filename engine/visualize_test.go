package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisualizeLabelsFieldsByName(t *testing.T) {
	model := NewBlock(Field("a", U16()), Field("b", S8()))
	root, err := BuildRoot(model, map[string]any{"a": 1, "b": 2}, nil)
	require.NoError(t, err)

	out := Visualize(root)
	require.True(t, strings.Contains(out, "a: "))
	require.True(t, strings.Contains(out, "b: "))
	require.True(t, strings.Contains(out, "@0"))
	require.True(t, strings.Contains(out, "@2"))
}

func TestVisualizeCollapsesPrimitiveArrayRuns(t *testing.T) {
	model := ArrayN(U8(), 5)
	root, err := BuildRoot(model, []any{1, 2, 3, 4, 5}, nil)
	require.NoError(t, err)

	out := Visualize(root)
	require.True(t, strings.Contains(out, "..."))
	require.False(t, strings.Contains(out, "[4]"))
}

func TestVisualizeNoPendingOnceBuilt(t *testing.T) {
	model := NewBlock(
		Field("name", Bytes()),
		Field("comment", Optional(Bytes())),
	)
	root, err := BuildRoot(model, map[string]any{"name": "hi"}, nil)
	require.NoError(t, err)
	out := Visualize(root)
	require.NotContains(t, out, "(pending)")
}
