package idmap

import "fmt"

// Mapping is the immutable string-keyed id table built from a Builder
// export. It offers the same read API as Builder with no mutation path,
// so post-freeze writes are impossible by construction.
//
// Safe for concurrent readers.
type Mapping struct {
	forward map[string]uint32
	reverse []string
}

// NewMapping builds an immutable Mapping from an exported forward map.
// The ids must form a dense 0-indexed range with no duplicates; the input
// map is copied, never retained.
func NewMapping(mappings map[string]uint32) (*Mapping, error) {
	if mappings == nil {
		return nil, fmt.Errorf("mappings must not be nil")
	}
	size := len(mappings)
	forward := make(map[string]uint32, size)
	reverse := make([]string, size)
	seen := make([]bool, size)

	for external, id := range mappings {
		if int(id) >= size {
			return nil, fmt.Errorf("internal ids must be dense and 0-indexed, got %d for size %d", id, size)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate internal id %d", id)
		}
		seen[id] = true
		forward[external] = id
		reverse[id] = external
	}

	return &Mapping{forward: forward, reverse: reverse}, nil
}

// ToInternal returns the internal id for a registered external id.
func (m *Mapping) ToInternal(external string) (uint32, error) {
	id, ok := m.forward[external]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, external)
	}
	return id, nil
}

// ToExternal returns the external id for an internal id, rejecting
// negative and out-of-bounds values.
func (m *Mapping) ToExternal(internal int) (string, error) {
	if internal < 0 || internal >= len(m.reverse) {
		return "", fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, internal, len(m.reverse))
	}
	return m.reverse[internal], nil
}

// ContainsExternal reports whether external is mapped.
func (m *Mapping) ContainsExternal(external string) bool {
	_, ok := m.forward[external]
	return ok
}

// ContainsInternal reports whether internal is a valid id.
func (m *Mapping) ContainsInternal(internal int) bool {
	return internal >= 0 && internal < len(m.reverse)
}

// Size returns the number of mapped ids.
func (m *Mapping) Size() int {
	return len(m.reverse)
}

// External returns the external id at position i without bounds checking
// beyond the slice's own. Intended for serialization walks over [0, Size).
func (m *Mapping) External(i int) string {
	return m.reverse[i]
}
