package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestRenumberDense(t *testing.T) {
	// Ranks [nil, 3.5, 1, nil, 2] renumber to [nil, 3, 1, nil, 2]
	entries := []Entry{
		{ID: "a", Rank: nil},
		{ID: "b", Rank: ptr(3.5)},
		{ID: "c", Rank: ptr(1)},
		{ID: "d", Rank: nil},
		{ID: "e", Rank: ptr(2)},
	}

	changes := Renumber(entries)
	require.Len(t, changes, 3, "unranked entries are excluded")

	byID := make(map[string]Change, len(changes))
	for _, c := range changes {
		byID[c.Entry.ID] = c
	}

	assert.Equal(t, 1, byID["c"].NewRank)
	assert.Equal(t, 2, byID["e"].NewRank)
	assert.Equal(t, 3, byID["b"].NewRank)

	assert.Equal(t, 3.5, byID["b"].OldRank)
	assert.True(t, byID["b"].Changed())
	assert.False(t, byID["c"].Changed())
	assert.False(t, byID["e"].Changed())
}

func TestRenumberPreservesOrder(t *testing.T) {
	entries := []Entry{
		{ID: "a", Rank: ptr(10)},
		{ID: "b", Rank: ptr(2.5)},
		{ID: "c", Rank: ptr(7)},
		{ID: "d", Rank: ptr(0.5)},
	}

	changes := Renumber(entries)
	require.Len(t, changes, 4)

	// For any two ranked entries, old order implies new order
	for i := range changes {
		for j := range changes {
			if changes[i].OldRank < changes[j].OldRank {
				assert.Less(t, changes[i].NewRank, changes[j].NewRank)
			}
		}
	}
}

func TestRenumberIdempotent(t *testing.T) {
	entries := []Entry{
		{ID: "a", Rank: ptr(3.5)},
		{ID: "b", Rank: ptr(1)},
		{ID: "c", Rank: ptr(2)},
	}

	first := Renumber(entries)

	// Apply the first pass, then renumber again
	applied := make([]Entry, len(first))
	for i, c := range first {
		applied[i] = Entry{ID: c.Entry.ID, Rank: ptr(float64(c.NewRank))}
	}

	second := Renumber(applied)
	require.Len(t, second, len(first))
	for i := range second {
		assert.Equal(t, first[i].Entry.ID, second[i].Entry.ID)
		assert.Equal(t, first[i].NewRank, second[i].NewRank)
		assert.False(t, second[i].Changed())
	}

	assert.Empty(t, Pending(second))
}

func TestRenumberStableOnTies(t *testing.T) {
	entries := []Entry{
		{ID: "first", Rank: ptr(2)},
		{ID: "second", Rank: ptr(2)},
		{ID: "third", Rank: ptr(1)},
	}

	changes := Renumber(entries)
	require.Len(t, changes, 3)

	// Tied ranks keep their input order
	assert.Equal(t, "third", changes[0].Entry.ID)
	assert.Equal(t, "first", changes[1].Entry.ID)
	assert.Equal(t, "second", changes[2].Entry.ID)
}

func TestRenumberEmpty(t *testing.T) {
	assert.Empty(t, Renumber(nil))
	assert.Empty(t, Renumber([]Entry{{ID: "a"}, {ID: "b"}}))
}

func TestPending(t *testing.T) {
	changes := []Change{
		{Entry: Entry{ID: "a"}, OldRank: 1, NewRank: 1},
		{Entry: Entry{ID: "b"}, OldRank: 3.5, NewRank: 2},
	}

	pending := Pending(changes)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].Entry.ID)
}
