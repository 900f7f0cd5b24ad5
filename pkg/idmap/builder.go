// Package idmap translates externally-visible identifiers into the dense,
// zero-based internal ids that index every per-node array in a model.
//
// Two phases, two types: a mutable Builder used while the graph is under
// construction, and immutable lookup structures (Mapping, SortedIndex) that
// the finished model owns. The Builder is single-writer; the immutable
// types are safe for unlimited concurrent readers.
package idmap

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an external id was never registered.
var ErrNotFound = errors.New("external id not found")

// ErrOutOfRange is returned when an internal id is negative or >= size.
var ErrOutOfRange = errors.New("internal id out of range")

// Builder assigns dense internal ids to external string ids during graph
// construction. Insertion order defines id assignment: the first distinct
// external id becomes 0, the next 1, and so on.
//
// Not safe for concurrent use; construction is single-writer.
type Builder struct {
	forward map[string]uint32
	reverse []string
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{forward: make(map[string]uint32)}
}

// GetOrCreate returns the internal id for external, assigning the next
// dense id if it has not been seen before. It never fails.
func (b *Builder) GetOrCreate(external string) uint32 {
	if id, ok := b.forward[external]; ok {
		return id
	}
	id := uint32(len(b.reverse))
	b.forward[external] = id
	b.reverse = append(b.reverse, external)
	return id
}

// ToInternal returns the internal id for a previously registered external id.
func (b *Builder) ToInternal(external string) (uint32, error) {
	id, ok := b.forward[external]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, external)
	}
	return id, nil
}

// ToExternal returns the external id for an internal id.
// The parameter is signed so that negative ids are representable and can be
// rejected explicitly instead of wrapping into a valid position.
func (b *Builder) ToExternal(internal int) (string, error) {
	if internal < 0 || internal >= len(b.reverse) {
		return "", fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, internal, len(b.reverse))
	}
	return b.reverse[internal], nil
}

// ContainsExternal reports whether external has been registered.
func (b *Builder) ContainsExternal(external string) bool {
	_, ok := b.forward[external]
	return ok
}

// ContainsInternal reports whether internal is a valid assigned id.
func (b *Builder) ContainsInternal(internal int) bool {
	return internal >= 0 && internal < len(b.reverse)
}

// Size returns the count of distinct registered external ids.
func (b *Builder) Size() int {
	return len(b.reverse)
}

// Export returns a copy of the forward mapping. The copy and the builder
// share no state: mutating one never affects the other.
func (b *Builder) Export() map[string]uint32 {
	out := make(map[string]uint32, len(b.forward))
	for k, v := range b.forward {
		out[k] = v
	}
	return out
}
