package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionalPresent(t *testing.T) {
	// spec.md S3: an optional field with a present value.
	model := NewBlock(
		Field("a", U8()),
		Field("comment", Optional(Bytes())),
	)
	root, err := BuildRoot(model, map[string]any{"a": 1, "comment": "hi"}, nil)
	require.NoError(t, err)

	blk := root.(*Block)
	c, err := blk.Field("comment")
	require.NoError(t, err)
	opt := c.(*Optional)

	present, err := opt.Present()
	require.NoError(t, err)
	require.True(t, present)

	sz, err := opt.Size()
	require.NoError(t, err)
	require.Equal(t, 2, sz)

	b, err := opt.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), b)
}

func TestOptionalAbsent(t *testing.T) {
	model := NewBlock(
		Field("a", U8()),
		Field("comment", Optional(Bytes())),
	)
	root, err := BuildRoot(model, map[string]any{"a": 1}, nil)
	require.NoError(t, err)

	blk := root.(*Block)
	c, err := blk.Field("comment")
	require.NoError(t, err)
	opt := c.(*Optional)

	present, err := opt.Present()
	require.NoError(t, err)
	require.False(t, present)

	sz, err := opt.Size()
	require.NoError(t, err)
	require.Equal(t, 0, sz)

	b, err := opt.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{}, b)

	total, err := root.Size()
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestOptionalEmptySequenceIsAbsent(t *testing.T) {
	model := Optional(ArrayOf(U8()))
	root, err := BuildRoot(model, []any{}, nil)
	require.NoError(t, err)
	opt := root.(*Optional)
	present, err := opt.Present()
	require.NoError(t, err)
	require.False(t, present)
}

func TestOptionalPresenceUnknownBeforeBuild(t *testing.T) {
	m := Optional(Bytes())
	d, err := m.instantiate(nil)
	require.NoError(t, err)
	opt := d.(*Optional)
	_, err = opt.Present()
	require.Error(t, err)
	require.True(t, IsDependency(err))
}

func TestOptionalOfGeneratorPanics(t *testing.T) {
	require.Panics(t, func() {
		Optional(Align(ConstAlign(4)))
	})
}
