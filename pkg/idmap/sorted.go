package idmap

import (
	"fmt"
	"sort"
)

// NotFound is the sentinel returned by SortedIndex.FindInternalID when the
// external id is absent. Absence is an expected outcome, not an error.
const NotFound int32 = -1

// SortedIndex maps sorted external int64 ids to their dense internal index.
// The internal id of an external id is simply its position in the array,
// found by binary search.
//
// Immutable after construction; safe for concurrent readers.
type SortedIndex struct {
	ids []int64
}

// NewSortedIndex builds an index over ids. The slice must be strictly
// ascending (sorted, unique); this is checked here so a violated
// precondition surfaces at construction instead of corrupting lookups.
// The slice is retained, not copied; callers hand over ownership.
func NewSortedIndex(ids []int64) (*SortedIndex, error) {
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			return nil, fmt.Errorf("external ids not strictly ascending at %d: %d <= %d", i, ids[i], ids[i-1])
		}
	}
	return &SortedIndex{ids: ids}, nil
}

// FindInternalID returns the internal index of external, or NotFound.
// O(log n), no allocation.
func (s *SortedIndex) FindInternalID(external int64) int32 {
	i := sort.Search(len(s.ids), func(i int) bool {
		return s.ids[i] >= external
	})
	if i < len(s.ids) && s.ids[i] == external {
		return int32(i)
	}
	return NotFound
}

// Contains reports whether external is present.
func (s *SortedIndex) Contains(external int64) bool {
	return s.FindInternalID(external) != NotFound
}

// ExternalID returns the external id at internal index i.
func (s *SortedIndex) ExternalID(i int) (int64, error) {
	if i < 0 || i >= len(s.ids) {
		return 0, fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, i, len(s.ids))
	}
	return s.ids[i], nil
}

// Len returns the number of indexed ids.
func (s *SortedIndex) Len() int {
	return len(s.ids)
}

// ExternalIDs exposes the backing array for serialization. Callers must
// treat it as read-only.
func (s *SortedIndex) ExternalIDs() []int64 {
	return s.ids
}
