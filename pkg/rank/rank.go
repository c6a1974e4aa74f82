// Package rank implements dense renumbering of an optionally-ranked set
// of records. It is a pure in-memory transform; writing the result back
// is the caller's concern.
package rank

import "sort"

// Entry is one record carrying an optional numeric rank. A nil Rank marks
// an unranked record, which the transform leaves untouched.
type Entry struct {
	ID    string
	Title string
	Rank  *float64
}

// Change is one renumbering decision for a ranked entry.
type Change struct {
	Entry   Entry
	OldRank float64
	NewRank int
}

// Changed reports whether applying this change would alter the stored rank.
func (c Change) Changed() bool {
	return c.OldRank != float64(c.NewRank)
}

// Renumber stable-sorts the ranked subset of entries by current rank
// ascending and assigns dense integer ranks 1..N in that order. Entries
// without a rank are excluded from the output. The transform is
// idempotent and preserves relative order: if a.OldRank < b.OldRank then
// a.NewRank < b.NewRank.
func Renumber(entries []Entry) []Change {
	ranked := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Rank != nil {
			ranked = append(ranked, e)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Rank < *ranked[j].Rank
	})

	changes := make([]Change, len(ranked))
	for i, e := range ranked {
		changes[i] = Change{
			Entry:   e,
			OldRank: *e.Rank,
			NewRank: i + 1,
		}
	}

	return changes
}

// Pending filters changes down to those whose rank actually moves.
func Pending(changes []Change) []Change {
	pending := make([]Change, 0, len(changes))
	for _, c := range changes {
		if c.Changed() {
			pending = append(pending, c)
		}
	}
	return pending
}
