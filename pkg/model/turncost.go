package model

import "math"

// DefaultTurnCost is the implicit penalty for edge pairs with no entry.
const DefaultTurnCost float32 = 0.0

// ForbiddenTurn marks a transition that must never be taken.
var ForbiddenTurn = float32(math.Inf(1))

const emptyKey = ^uint64(0)

// TurnCost is one explicit turn penalty: the extra cost of moving from one
// incoming edge directly onto one outgoing edge at their shared node.
type TurnCost struct {
	FromEdge uint32
	ToEdge   uint32
	Penalty  float32
}

// TurnCostTable is a read-only open-addressing hash map from (from_edge,
// to_edge) pairs to penalties. Keys are the two edge ids packed into one
// uint64; lookup is linear probing over primitive arrays, so the query
// path never allocates. Immutable after construction, safe for concurrent
// readers.
type TurnCostTable struct {
	keys    []uint64
	values  []float32
	mask    uint64
	size    int
	entries []TurnCost // construction order, kept for serialization
}

// NewTurnCostTable builds the table from explicit entries. Capacity is the
// next power of two above entries/0.6 so probe chains stay short. On
// duplicate (from, to) pairs the last entry wins.
func NewTurnCostTable(entries []TurnCost) *TurnCostTable {
	capacity := 1
	for capacity < int(math.Ceil(float64(len(entries))*1.67))+1 {
		capacity <<= 1
	}

	keys := make([]uint64, capacity)
	for i := range keys {
		keys[i] = emptyKey
	}
	values := make([]float32, capacity)
	mask := uint64(capacity - 1)

	t := &TurnCostTable{keys: keys, values: values, mask: mask}
	for _, e := range entries {
		if t.insert(packTurnKey(e.FromEdge, e.ToEdge), e.Penalty) {
			t.size++
			t.entries = append(t.entries, e)
		}
	}
	return t
}

// insert reports whether a new key was added (false means overwrite).
func (t *TurnCostTable) insert(key uint64, value float32) bool {
	i := mix64(key) & t.mask
	for t.keys[i] != emptyKey {
		if t.keys[i] == key {
			t.values[i] = value
			for j := range t.entries {
				if packTurnKey(t.entries[j].FromEdge, t.entries[j].ToEdge) == key {
					t.entries[j].Penalty = value
				}
			}
			return false
		}
		i = (i + 1) & t.mask
	}
	t.keys[i] = key
	t.values[i] = value
	return true
}

// Penalty returns the turn penalty for the edge pair, or DefaultTurnCost
// when no explicit entry exists.
func (t *TurnCostTable) Penalty(fromEdge, toEdge uint32) float32 {
	key := packTurnKey(fromEdge, toEdge)
	i := mix64(key) & t.mask
	for {
		k := t.keys[i]
		if k == key {
			return t.values[i]
		}
		if k == emptyKey {
			return DefaultTurnCost
		}
		i = (i + 1) & t.mask
	}
}

// HasEntry reports whether an explicit entry exists for the pair. An
// explicit 0.0 entry counts; the implicit default does not.
func (t *TurnCostTable) HasEntry(fromEdge, toEdge uint32) bool {
	key := packTurnKey(fromEdge, toEdge)
	i := mix64(key) & t.mask
	for {
		k := t.keys[i]
		if k == key {
			return true
		}
		if k == emptyKey {
			return false
		}
		i = (i + 1) & t.mask
	}
}

// IsForbidden reports whether the transition carries an infinite penalty.
func (t *TurnCostTable) IsForbidden(fromEdge, toEdge uint32) bool {
	return math.IsInf(float64(t.Penalty(fromEdge, toEdge)), 1)
}

// Len returns the number of explicit entries.
func (t *TurnCostTable) Len() int {
	return t.size
}

// Entries returns a copy of the explicit entries in insertion order.
func (t *TurnCostTable) Entries() []TurnCost {
	out := make([]TurnCost, len(t.entries))
	copy(out, t.entries)
	return out
}

func packTurnKey(fromEdge, toEdge uint32) uint64 {
	return uint64(fromEdge)<<32 | uint64(toEdge)
}

// mix64 is the murmur3 64-bit finalizer, spreading packed keys across the
// table.
func mix64(k uint64) uint64 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return k
}
