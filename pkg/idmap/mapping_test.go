package idmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.GetOrCreate("alpha")
	b.GetOrCreate("beta")
	b.GetOrCreate("gamma")

	m, err := NewMapping(b.Export())
	require.NoError(t, err)

	assert.Equal(t, 3, m.Size())
	for i, want := range []string{"alpha", "beta", "gamma"} {
		id, err := m.ToInternal(want)
		require.NoError(t, err)
		assert.Equal(t, uint32(i), id)

		ext, err := m.ToExternal(i)
		require.NoError(t, err)
		assert.Equal(t, want, ext)
	}
}

func TestMappingRejectsSparseIDs(t *testing.T) {
	_, err := NewMapping(map[string]uint32{"a": 0, "b": 2})
	assert.Error(t, err)
}

func TestMappingRejectsDuplicateIDs(t *testing.T) {
	_, err := NewMapping(map[string]uint32{"a": 0, "b": 0})
	assert.Error(t, err)
}

func TestMappingRejectsNil(t *testing.T) {
	_, err := NewMapping(nil)
	assert.Error(t, err)
}

func TestMappingLookupErrors(t *testing.T) {
	m, err := NewMapping(map[string]uint32{"only": 0})
	require.NoError(t, err)

	_, err = m.ToInternal("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.ToExternal(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = m.ToExternal(1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.True(t, m.ContainsInternal(0))
	assert.False(t, m.ContainsInternal(-5))
	assert.True(t, m.ContainsExternal("only"))
	assert.False(t, m.ContainsExternal("other"))
}

func TestMappingIndependentOfInput(t *testing.T) {
	src := map[string]uint32{"a": 0, "b": 1}
	m, err := NewMapping(src)
	require.NoError(t, err)

	src["c"] = 2
	delete(src, "a")

	assert.Equal(t, 2, m.Size())
	assert.True(t, m.ContainsExternal("a"))
	assert.False(t, m.ContainsExternal("c"))
}
