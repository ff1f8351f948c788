package chartmodel

import (
	"fmt"
	"math/big"
)

// ScoreTime is (track, numerator, denominator) as defined in spec.md §3.
// It is always kept normalized: reduced by gcd, and numerator carried into
// track when numerator >= denominator.
type ScoreTime struct {
	Track int64
	Num   int64
	Den   int64
}

// NewScoreTime builds a normalized ScoreTime from raw components.
func NewScoreTime(track, num, den int64) ScoreTime {
	t := ScoreTime{Track: track, Num: num, Den: den}
	t.normalize()
	return t
}

func (t *ScoreTime) normalize() {
	if t.Den == 0 {
		t.Den = 1
	}
	if t.Den < 0 {
		t.Den = -t.Den
		t.Num = -t.Num
	}
	g := gcd(absInt64(t.Num), t.Den)
	if g > 1 {
		t.Num /= g
		t.Den /= g
	}
	if t.Num >= t.Den {
		t.Track += t.Num / t.Den
		t.Num = t.Num % t.Den
	}
	for t.Num < 0 {
		t.Num += t.Den
		t.Track--
	}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// String formats a ScoreTime as "track:num/den", used only in diagnostics.
func (t ScoreTime) String() string {
	return fmt.Sprintf("%d:%d/%d", t.Track, t.Num, t.Den)
}

// Compare orders two ScoreTimes lexicographically by (track, num/den) using
// exact cross-multiplication, per spec.md §3.
func (t ScoreTime) Compare(o ScoreTime) int {
	if t.Track != o.Track {
		if t.Track < o.Track {
			return -1
		}
		return 1
	}
	lhs := t.Num * o.Den
	rhs := o.Num * t.Den
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Decimal is the exact-precision numeric type used for BPM, stop duration,
// scroll/speed factor and section length values (spec.md §3 "Decimals").
// math/big.Rat is the arbitrary-precision facility used: the pack contains
// no third-party decimal/rational library to ground this on, so this is the
// one stdlib-only concern in the module (see DESIGN.md).
type Decimal = big.Rat

// Y is a position on the unified timeline; one 4/4 measure equals 1.0.
type Y = big.Rat

func NewDecimalInt(v int64) *Decimal {
	return new(big.Rat).SetInt64(v)
}

func DecimalFromString(s string) (*Decimal, bool) {
	r := new(big.Rat)
	_, ok := r.SetString(s)
	return r, ok
}
