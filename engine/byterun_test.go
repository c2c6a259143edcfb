package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedBytesSizeKnownBeforeBuild(t *testing.T) {
	d, err := FixedBytes(4).instantiate(nil)
	require.NoError(t, err)
	sz, err := d.Size()
	require.NoError(t, err)
	require.Equal(t, 4, sz)
}

func TestFixedBytesRejectsWrongLength(t *testing.T) {
	d, err := FixedBytes(4).instantiate(nil)
	require.NoError(t, err)
	err = d.Build([]byte{1, 2})
	require.Error(t, err)
	require.True(t, errKind(err, Validation))
}

func TestUnsizedBytesDependencyBeforeBuild(t *testing.T) {
	d, err := Bytes().instantiate(nil)
	require.NoError(t, err)
	_, err = d.Size()
	require.Error(t, err)
	require.True(t, IsDependency(err))
}

func TestBytesWithDefault(t *testing.T) {
	model := NewBlock(Field("magic", FixedBytes(2).WithDefault([]byte{0xCA, 0xFE})))
	root, err := BuildRoot(model, map[string]any{}, nil)
	require.NoError(t, err)
	b, err := root.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0xCA, 0xFE}, b)
}

func TestBytesAcceptsStringInput(t *testing.T) {
	d, err := Bytes().instantiate(nil)
	require.NoError(t, err)
	require.NoError(t, d.Build("hello"))
	b, err := d.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), b)
}
