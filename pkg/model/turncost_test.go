package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnCostLookup(t *testing.T) {
	table := NewTurnCostTable([]TurnCost{
		{FromEdge: 0, ToEdge: 1, Penalty: 2.5},
		{FromEdge: 1, ToEdge: 0, Penalty: 0}, // explicit zero
		{FromEdge: 5, ToEdge: 9, Penalty: ForbiddenTurn},
	})

	assert.Equal(t, float32(2.5), table.Penalty(0, 1))
	assert.Equal(t, float32(0), table.Penalty(1, 0))
	assert.True(t, math.IsInf(float64(table.Penalty(5, 9)), 1))

	// Absent pairs default to zero and are not "entries".
	assert.Equal(t, DefaultTurnCost, table.Penalty(9, 5))
	assert.False(t, table.HasEntry(9, 5))
	assert.True(t, table.HasEntry(1, 0))
	assert.True(t, table.IsForbidden(5, 9))
	assert.False(t, table.IsForbidden(0, 1))
	assert.Equal(t, 3, table.Len())
}

func TestTurnCostEmpty(t *testing.T) {
	table := NewTurnCostTable(nil)

	assert.Equal(t, 0, table.Len())
	assert.Equal(t, DefaultTurnCost, table.Penalty(0, 0))
	assert.False(t, table.HasEntry(0, 0))
}

func TestTurnCostDuplicateLastWins(t *testing.T) {
	table := NewTurnCostTable([]TurnCost{
		{FromEdge: 3, ToEdge: 4, Penalty: 1.0},
		{FromEdge: 3, ToEdge: 4, Penalty: 7.0},
	})

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, float32(7.0), table.Penalty(3, 4))

	entries := table.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, float32(7.0), entries[0].Penalty)
}

func TestTurnCostAsymmetricKeys(t *testing.T) {
	// (a,b) and (b,a) are distinct transitions.
	table := NewTurnCostTable([]TurnCost{
		{FromEdge: 2, ToEdge: 7, Penalty: 1},
		{FromEdge: 7, ToEdge: 2, Penalty: 9},
	})

	assert.Equal(t, float32(1), table.Penalty(2, 7))
	assert.Equal(t, float32(9), table.Penalty(7, 2))
}

func TestTurnCostManyEntriesProbing(t *testing.T) {
	// Enough entries to force collisions and long probe chains.
	var entries []TurnCost
	for i := uint32(0); i < 10_000; i++ {
		entries = append(entries, TurnCost{FromEdge: i, ToEdge: i * 31, Penalty: float32(i)})
	}
	table := NewTurnCostTable(entries)

	assert.Equal(t, 10_000, table.Len())
	for i := uint32(0); i < 10_000; i++ {
		assert.Equal(t, float32(i), table.Penalty(i, i*31))
	}
	assert.Equal(t, DefaultTurnCost, table.Penalty(10_001, 3))
}

func BenchmarkTurnCostPenalty(b *testing.B) {
	var entries []TurnCost
	for i := uint32(0); i < 100_000; i++ {
		entries = append(entries, TurnCost{FromEdge: i, ToEdge: i + 1, Penalty: float32(i)})
	}
	table := NewTurnCostTable(entries)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Penalty(uint32(i)%100_000, uint32(i)%100_000+1)
	}
}
