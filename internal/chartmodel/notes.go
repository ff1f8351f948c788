package chartmodel

import "sort"

// SortNotes returns notes in the WAV aggregate's total order: ascending
// score time, then side, then key. The aggregate itself stores notes in
// parse order; the compiler sorts its own events by y and does not call
// this function.
func SortNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := a.Time.Compare(b.Time); c != 0 {
			return c < 0
		}
		if a.Side != b.Side {
			return a.Side < b.Side
		}
		return a.Key < b.Key
	})
	return out
}
