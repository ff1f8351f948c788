package bmson

import (
	"math/big"
	"sort"

	"nitro-core-dx/internal/chartmodel"
)

// barLayout maps BMSON's flat pulse/y coordinate space onto the same
// (track, num, den) score-time shape the BMS front end produces, so the
// compiler (component I) never has to know which front end a chart came
// from. Bar boundaries come from the BMSON "lines" array when present
// (spec.md §4.5); otherwise a synthetic one-measure-per-track layout is
// assumed, matching the default section length used on the BMS side.
type barLayout struct {
	starts []*big.Rat // ascending, starts[0] == 0
}

// newBarLayout builds a layout from explicit bar-line y-coordinates (may be
// empty) and the highest y-coordinate any event in the chart reaches.
func newBarLayout(lineYs []*big.Rat, maxY *big.Rat) barLayout {
	zero := new(big.Rat)
	seen := map[string]bool{zero.RatString(): true}
	starts := []*big.Rat{zero}
	for _, y := range lineYs {
		if y.Sign() <= 0 {
			continue
		}
		key := y.RatString()
		if seen[key] {
			continue
		}
		seen[key] = true
		starts = append(starts, new(big.Rat).Set(y))
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Cmp(starts[j]) < 0 })

	if len(lineYs) == 0 {
		one := big.NewRat(1, 1)
		for cur := new(big.Rat).Set(one); cur.Cmp(maxY) <= 0; cur.Add(cur, one) {
			starts = append(starts, new(big.Rat).Set(cur))
		}
	}
	return barLayout{starts: starts}
}

// scoreTime converts y into a ScoreTime and, as a side effect, records the
// length of the track it falls into (length *length) into lengths so the
// compiler's ordinary section-length-driven y-conversion reconstructs the
// same y exactly, regardless of whether the chart came from BMS or BMSON.
func (b barLayout) scoreTime(y *big.Rat, lengths map[int64]*chartmodel.Decimal) chartmodel.ScoreTime {
	track := 0
	for track+1 < len(b.starts) && b.starts[track+1].Cmp(y) <= 0 {
		track++
	}
	start := b.starts[track]
	var length *big.Rat
	if track+1 < len(b.starts) {
		length = new(big.Rat).Sub(b.starts[track+1], start)
	} else {
		length = big.NewRat(1, 1)
	}
	if _, ok := lengths[int64(track)]; !ok && length.Sign() != 0 {
		lengths[int64(track)] = new(chartmodel.Decimal).Set(length)
	}

	offset := new(big.Rat).Sub(y, start)
	if length.Sign() == 0 {
		return chartmodel.NewScoreTime(int64(track), 0, 1)
	}
	frac := new(big.Rat).Quo(offset, length)
	return chartmodel.NewScoreTime(int64(track), frac.Num().Int64(), frac.Denom().Int64())
}
