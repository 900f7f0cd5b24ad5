package idmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedIndexFind(t *testing.T) {
	idx, err := NewSortedIndex([]int64{100, 200, 300, 400, 500})
	require.NoError(t, err)

	assert.Equal(t, int32(2), idx.FindInternalID(300))
	assert.Equal(t, int32(0), idx.FindInternalID(100))
	assert.Equal(t, int32(4), idx.FindInternalID(500))

	assert.Equal(t, NotFound, idx.FindInternalID(250))
	assert.Equal(t, NotFound, idx.FindInternalID(99))
	assert.Equal(t, NotFound, idx.FindInternalID(501))
}

func TestSortedIndexEmpty(t *testing.T) {
	idx, err := NewSortedIndex(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, NotFound, idx.FindInternalID(0))
}

func TestSortedIndexRejectsUnsorted(t *testing.T) {
	_, err := NewSortedIndex([]int64{100, 300, 200})
	assert.Error(t, err)
}

func TestSortedIndexRejectsDuplicates(t *testing.T) {
	_, err := NewSortedIndex([]int64{100, 100, 200})
	assert.Error(t, err)
}

func TestSortedIndexExternalID(t *testing.T) {
	idx, err := NewSortedIndex([]int64{10, 20, 30})
	require.NoError(t, err)

	ext, err := idx.ExternalID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), ext)

	_, err = idx.ExternalID(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = idx.ExternalID(3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func BenchmarkSortedIndexFindMiddle(b *testing.B) {
	idx := newLargeIndex(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.FindInternalID(2 * 50_000)
	}
}

func BenchmarkSortedIndexFindEnd(b *testing.B) {
	idx := newLargeIndex(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.FindInternalID(2 * 99_999)
	}
}

func newLargeIndex(b *testing.B) *SortedIndex {
	b.Helper()
	ids := make([]int64, 100_000)
	for i := range ids {
		ids[i] = int64(2 * i)
	}
	idx, err := NewSortedIndex(ids)
	if err != nil {
		b.Fatal(err)
	}
	return idx
}
