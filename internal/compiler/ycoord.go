package compiler

import (
	"math/big"
	"sort"

	"nitro-core-dx/internal/chartmodel"
)

// minSectionLength is the clamp spec.md §4.6 requires: "section lengths
// are clamped to a minimum positive value for scheduling purposes while
// still being visible to renderers" — the model's own SectionLength
// aggregate keeps the true (possibly zero) value; this converter only
// clamps its own internal cumulative-y arithmetic.
var minSectionLength = big.NewRat(1, 1_000_000_000)

// yConverter builds the ascending (track, cumulative-y-at-start) sequence
// spec.md §4.6 describes and converts any ScoreTime to a y-coordinate.
type yConverter struct {
	model  *chartmodel.Model
	tracks []int64      // ascending, starts at 0
	starts []*chartmodel.Y // starts[i] is the y at the start of tracks[i]
}

func newYConverter(model *chartmodel.Model) *yConverter {
	maxTrack := int64(0)
	note := func(t chartmodel.ScoreTime) {
		if t.Track > maxTrack {
			maxTrack = t.Track
		}
	}
	for _, n := range model.WAV.Notes {
		note(n.Time)
	}
	for _, b := range model.WAV.Bgm {
		note(b.Time)
	}
	model.BPM.Changes.Each(func(t chartmodel.ScoreTime, _ chartmodel.BPMChange) { note(t) })
	model.Stop.Events.Each(func(t chartmodel.ScoreTime, _ *chartmodel.Decimal) { note(t) })
	model.Scroll.Changes.Each(func(t chartmodel.ScoreTime, _ chartmodel.FactorChange) { note(t) })
	model.Speed.Changes.Each(func(t chartmodel.ScoreTime, _ chartmodel.FactorChange) { note(t) })
	for track := range model.SectionLength.Lengths {
		note(chartmodel.ScoreTime{Track: track})
	}

	yc := &yConverter{model: model}
	cur := new(big.Rat)
	for track := int64(0); track <= maxTrack; track++ {
		yc.tracks = append(yc.tracks, track)
		yc.starts = append(yc.starts, new(chartmodel.Y).Set(cur))
		cur = new(big.Rat).Add(cur, yc.effectiveLength(track))
	}
	return yc
}

// effectiveLength is the section length used for y-advancement math: the
// model's configured length (default 1), clamped away from zero.
func (yc *yConverter) effectiveLength(track int64) *chartmodel.Decimal {
	l := yc.model.SectionLength.Length(track)
	if l.Sign() <= 0 {
		return new(big.Rat).Set(minSectionLength)
	}
	return l
}

func (yc *yConverter) trackStart(track int64) *chartmodel.Y {
	i := sort.Search(len(yc.tracks), func(i int) bool { return yc.tracks[i] >= track })
	if i < len(yc.tracks) && yc.tracks[i] == track {
		return yc.starts[i]
	}
	// Track referenced beyond the precomputed range (e.g. a trailing empty
	// track past the last event): extend on demand from the last known start.
	last := new(big.Rat)
	if len(yc.starts) > 0 {
		last.Set(yc.starts[len(yc.starts)-1])
	}
	lastTrack := int64(0)
	if len(yc.tracks) > 0 {
		lastTrack = yc.tracks[len(yc.tracks)-1]
	}
	for t := lastTrack; t < track; t++ {
		last.Add(last, yc.effectiveLength(t))
	}
	return last
}

// Y converts a ScoreTime to the unified y-coordinate (spec.md §4.6).
func (yc *yConverter) Y(t chartmodel.ScoreTime) *chartmodel.Y {
	start := yc.trackStart(t.Track)
	frac := big.NewRat(t.Num, t.Den)
	frac.Mul(frac, yc.effectiveLength(t.Track))
	return new(big.Rat).Add(start, frac)
}

// barLines returns the y-coordinate of every track boundary this
// converter knows about, for EventBarLine emission.
func (yc *yConverter) barLines() []*chartmodel.Y {
	out := make([]*chartmodel.Y, len(yc.starts))
	copy(out, yc.starts)
	return out
}
