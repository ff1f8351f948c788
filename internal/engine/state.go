// Package engine implements component J of spec.md: a time-driven
// playback state machine that advances a playhead along a compiled
// timeline (internal/compiler) and emits triggered events exactly once
// each. Grounded on internal/clock's MasterClock: a stateful scheduler
// advanced by direct Update/Step calls from its owning thread, no
// channels or goroutines (spec.md §5's single-threaded cooperative model).
package engine

import (
	"math/big"
	"time"

	"nitro-core-dx/internal/chartmodel"
)

// PlaybackState is spec.md §4.7's state record. ElapsedTime is the
// "elapsed_ticks" field renamed to its actual unit: exact seconds of
// virtual music time, already scaled by playback_ratio, directly
// comparable against a compiler.TimelineEvent's ActivationTime.
type PlaybackState struct {
	CurrentBPM     *chartmodel.Decimal
	CurrentSpeed   *chartmodel.Decimal
	CurrentScroll  *chartmodel.Decimal
	PlaybackRatio  *chartmodel.Decimal
	ProgressedY    *chartmodel.Y
	ElapsedTime    *chartmodel.Decimal
	StartedAt      time.Time
	LastUpdateTime time.Time
}

// ratFromDuration converts a wall-clock duration to an exact-rational
// second count: time.Duration is already an int64 nanosecond count, so
// the conversion is exact, unlike going through float64.
func ratFromDuration(d time.Duration) *big.Rat {
	return big.NewRat(int64(d), int64(time.Second))
}
