package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRoundTrip(t *testing.T) {
	model := NewBlock(Field("a", U8()))
	RegisterSchema("test-registry-roundtrip", model)

	got, ok := LookupSchema("test-registry-roundtrip")
	require.True(t, ok)
	require.Same(t, Model(model), got)

	require.Contains(t, SchemaNames(), "test-registry-roundtrip")

	_, ok = LookupSchema("does-not-exist")
	require.False(t, ok)
}
