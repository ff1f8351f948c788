package bmson

import "nitro-core-dx/internal/chartmodel"

const synthAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// synthIDs hands out sequential ObjectIDs for BMSON events, which carry
// their values inline rather than through a def table the way BMS does.
// Wrapping each inline value in a synthetic one-entry def keeps the chart
// model's def-table invariants (spec.md §3 "Ownership") uniform across
// both front ends.
type synthIDs struct{ next int }

func (s *synthIDs) next36() chartmodel.ObjectID {
	n := s.next
	s.next++
	hi := n / len(synthAlphabet)
	lo := n % len(synthAlphabet)
	return chartmodel.NewObjectID(synthAlphabet[hi%len(synthAlphabet)], synthAlphabet[lo])
}
