package engine

import (
	"math/big"
	"sort"
	"time"

	"github.com/google/uuid"

	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/compiler"
)

var (
	rat240 = big.NewRat(240, 1)
	rat1   = big.NewRat(1, 1)
)

// Engine owns one chart's playback state (spec.md §5 "Shared-resource
// policy": the playback state is exclusively owned by its engine
// instance; the chart model/timeline may be shared read-only across many
// engines).
type Engine struct {
	// SessionID identifies one playback session, so a host driving several
	// engines at once can correlate emitted events and diagnostics back to
	// the instance that produced them in its own logs.
	SessionID    uuid.UUID
	chart        *compiler.ParsedChart
	baseBPM      *chartmodel.Decimal
	reactionTime time.Duration
	state        PlaybackState
	cursor       int // index into chart.AllEvents of the next not-yet-emitted event
}

// Start implements spec.md §4.7's initialisation: resets factors to 1.0,
// BPM to the chart's init_bpm, y to 0, and the emission cursor to the
// first event.
func Start(chart *compiler.ParsedChart, reactionTime time.Duration, baseBPM *chartmodel.Decimal, startTime time.Time) *Engine {
	return &Engine{
		SessionID:    uuid.New(),
		chart:        chart,
		baseBPM:      new(big.Rat).Set(baseBPM),
		reactionTime: reactionTime,
		state: PlaybackState{
			CurrentBPM:     new(big.Rat).Set(chart.InitBPM),
			CurrentSpeed:   big.NewRat(1, 1),
			CurrentScroll:  big.NewRat(1, 1),
			PlaybackRatio:  big.NewRat(1, 1),
			ProgressedY:    new(big.Rat),
			ElapsedTime:    new(big.Rat),
			StartedAt:      startTime,
			LastUpdateTime: startTime,
		},
	}
}

// State returns a snapshot of the current playback state. Callers must
// not mutate the returned decimals; Engine treats them as owned.
func (e *Engine) State() PlaybackState { return e.state }

// Pause sets playback_ratio to 0: wall-clock time still passes between
// updates, but no chart progress is made (spec.md §4.7 "Control events").
func (e *Engine) Pause() { e.state.PlaybackRatio = new(big.Rat) }

// Resume restores a playback ratio, e.g. the one Pause replaced.
func (e *Engine) Resume(ratio *chartmodel.Decimal) { e.SetPlaybackRatio(ratio) }

// SetPlaybackRatio sets playback_ratio directly; r must be >= 0.
func (e *Engine) SetPlaybackRatio(r *chartmodel.Decimal) {
	if r.Sign() < 0 {
		return
	}
	e.state.PlaybackRatio = new(big.Rat).Set(r)
}

// SeekTo implements spec.md §4.7's SeekTo: recomputes elapsed_time and the
// cached bpm/scroll/speed factors from the compiled flow sequence up to
// y, then rearms the emission cursor so a backward seek re-emits events
// between the new and old position on the next Update.
func (e *Engine) SeekTo(y *chartmodel.Y) {
	bpm := new(big.Rat).Set(e.chart.InitBPM)
	scroll := big.NewRat(1, 1)
	speed := big.NewRat(1, 1)
	curY := new(big.Rat)
	curTime := new(big.Rat)

	for _, fe := range e.chart.FlowEventsByY {
		if fe.Y.Cmp(y) > 0 {
			break
		}
		advance(curTime, curY, fe.Y, bpm)
		curY.Set(fe.Y)
		applyFlowPayload(fe, bpm, scroll, speed, curTime)
	}
	advance(curTime, curY, y, bpm)

	e.state.CurrentBPM = bpm
	e.state.CurrentScroll = scroll
	e.state.CurrentSpeed = speed
	e.state.ElapsedTime = curTime
	e.state.ProgressedY = new(big.Rat).Set(y)
	e.cursor = sort.Search(len(e.chart.AllEvents), func(i int) bool {
		return e.chart.AllEvents[i].Y.Cmp(y) > 0
	})
}

// advance moves curTime forward by the y-distance (toY - fromY-already-in-curY)
// at bpm, matching the compiler's own activation-time formula, then sets
// curY to toY as a side effect via the caller (kept here to avoid passing
// curY by pointer-to-pointer: caller updates curY itself after the call
// when it represents a flow event's own position).
func advance(curTime, curY, toY, bpm *big.Rat) {
	dy := new(big.Rat).Sub(toY, curY)
	if dy.Sign() > 0 && bpm.Sign() != 0 {
		dt := new(big.Rat).Quo(new(big.Rat).Mul(dy, rat240), bpm)
		curTime.Add(curTime, dt)
	}
}

func applyFlowPayload(fe compiler.TimelineEvent, bpm, scroll, speed, curTime *big.Rat) {
	switch fe.Kind {
	case compiler.EventBpmChange:
		if v := fe.Payload.(compiler.BpmChangePayload).BPM; v != nil && v.Sign() != 0 {
			bpm.Set(v)
		}
	case compiler.EventStop:
		dur := fe.Payload.(compiler.StopPayload).DurationSeconds
		if bpm.Sign() != 0 {
			dt := new(big.Rat).Quo(new(big.Rat).Mul(dur, rat240), bpm)
			curTime.Add(curTime, dt)
		}
	case compiler.EventScrollChange:
		scroll.Set(fe.Payload.(compiler.FactorChangePayload).Factor)
	case compiler.EventSpeedChange:
		speed.Set(fe.Payload.(compiler.FactorChangePayload).Factor)
	}
}

// Update implements spec.md §4.7's update(now): advances the playhead from
// last_update_time to now and returns every event triggered in between,
// in chronological order, each exactly once.
func (e *Engine) Update(now time.Time) []compiler.TimelineEvent {
	wallDelta := now.Sub(e.state.LastUpdateTime)
	dt := ratFromDuration(wallDelta)
	dt.Mul(dt, e.state.PlaybackRatio)
	target := new(big.Rat).Add(e.state.ElapsedTime, dt)

	var emitted []compiler.TimelineEvent
	for e.cursor < len(e.chart.AllEvents) {
		ev := e.chart.AllEvents[e.cursor]
		if ev.ActivationTime.Cmp(target) > 0 {
			break
		}
		e.advanceTo(ev.ActivationTime)
		e.applyFlowEffect(ev)
		emitted = append(emitted, ev)
		e.cursor++
	}
	e.advanceTo(target)
	e.state.LastUpdateTime = now
	return emitted
}

// advanceTo moves the playhead's (ElapsedTime, ProgressedY) pair forward
// to t, tracking y at the current bpm; callers apply any Stop pause after
// this, since a stop advances time without moving y (spec.md §4.6).
func (e *Engine) advanceTo(t *chartmodel.Decimal) {
	dt := new(big.Rat).Sub(t, e.state.ElapsedTime)
	if dt.Sign() > 0 && e.state.CurrentBPM.Sign() != 0 {
		dy := new(big.Rat).Quo(new(big.Rat).Mul(dt, e.state.CurrentBPM), rat240)
		e.state.ProgressedY.Add(e.state.ProgressedY, dy)
	}
	e.state.ElapsedTime = new(big.Rat).Set(t)
}

func (e *Engine) applyFlowEffect(ev compiler.TimelineEvent) {
	switch ev.Kind {
	case compiler.EventBpmChange:
		if v := ev.Payload.(compiler.BpmChangePayload).BPM; v != nil && v.Sign() != 0 {
			e.state.CurrentBPM = new(big.Rat).Set(v)
		}
	case compiler.EventStop:
		dur := ev.Payload.(compiler.StopPayload).DurationSeconds
		if e.state.CurrentBPM.Sign() != 0 {
			dt := new(big.Rat).Quo(new(big.Rat).Mul(dur, rat240), e.state.CurrentBPM)
			e.state.ElapsedTime.Add(e.state.ElapsedTime, dt)
		}
	case compiler.EventScrollChange:
		e.state.CurrentScroll = new(big.Rat).Set(ev.Payload.(compiler.FactorChangePayload).Factor)
	case compiler.EventSpeedChange:
		e.state.CurrentSpeed = new(big.Rat).Set(ev.Payload.(compiler.FactorChangePayload).Factor)
	}
}

// visibleWindowY is spec.md §4.7's visible-window length in y, normalised
// so that at (bpm = B0, speed = 1, ratio = 1) the window equals one
// reaction time's worth of music.
func (e *Engine) visibleWindowY() *big.Rat {
	if e.baseBPM.Sign() == 0 {
		return new(big.Rat)
	}
	delta := ratFromDuration(e.reactionTime)
	num := new(big.Rat).Mul(delta, e.state.CurrentBPM)
	num.Mul(num, e.state.CurrentSpeed)
	num.Mul(num, e.state.PlaybackRatio)
	den := new(big.Rat).Mul(rat240, e.baseBPM)
	return new(big.Rat).Quo(num, den)
}

// scrollWeightedDistance integrates the (possibly changing) scroll factor
// across [fromY, toY], the "cumulative effect of ScrollChange" spec.md
// §4.7 asks display ratios to account for.
func (e *Engine) scrollWeightedDistance(fromY, toY *chartmodel.Y) *big.Rat {
	total := new(big.Rat)
	cur := new(big.Rat).Set(fromY)
	scroll := new(big.Rat).Set(e.state.CurrentScroll)
	for _, fe := range e.chart.FlowEventsByY {
		if fe.Kind != compiler.EventScrollChange {
			continue
		}
		if fe.Y.Cmp(fromY) <= 0 {
			continue
		}
		if fe.Y.Cmp(toY) > 0 {
			break
		}
		seg := new(big.Rat).Sub(fe.Y, cur)
		total.Add(total, new(big.Rat).Mul(seg, scroll))
		cur.Set(fe.Y)
		scroll = new(big.Rat).Set(fe.Payload.(compiler.FactorChangePayload).Factor)
	}
	seg := new(big.Rat).Sub(toY, cur)
	total.Add(total, new(big.Rat).Mul(seg, scroll))
	return total
}

// DisplayRatio returns an event's position within the visible window,
// clamped to [0, 1] (spec.md §4.7).
func (e *Engine) DisplayRatio(eventY *chartmodel.Y) *big.Rat {
	window := e.visibleWindowY()
	if window.Sign() <= 0 {
		return new(big.Rat)
	}
	dist := e.scrollWeightedDistance(e.state.ProgressedY, eventY)
	ratio := new(big.Rat).Quo(dist, window)
	if ratio.Sign() < 0 {
		return new(big.Rat)
	}
	if ratio.Cmp(rat1) > 0 {
		return new(big.Rat).Set(rat1)
	}
	return ratio
}

// VisibleEvents returns not-yet-emitted events whose display ratio falls
// within [0, 1], in y order. Read-only: does not advance the cursor.
func (e *Engine) VisibleEvents() []compiler.TimelineEvent {
	var out []compiler.TimelineEvent
	for i := e.cursor; i < len(e.chart.AllEvents); i++ {
		ev := e.chart.AllEvents[i]
		ratio := e.DisplayRatio(ev.Y)
		if ratio.Sign() < 0 {
			continue
		}
		if ratio.Cmp(rat1) >= 0 && ev.Y.Cmp(e.state.ProgressedY) > 0 {
			// Assumes a non-negative scroll factor: once one upcoming
			// event's ratio saturates at 1, every later (larger-y) event
			// does too, so the scan can stop early.
			break
		}
		out = append(out, ev)
	}
	return out
}

// EventsInTimeRange returns events (already emitted or not) whose
// activation time falls within span of the current playhead time. Both
// queries this package exposes are read-only and non-destructive
// (spec.md §4.7 "Queries").
func (e *Engine) EventsInTimeRange(span time.Duration) []compiler.TimelineEvent {
	lo := e.state.ElapsedTime
	hi := new(big.Rat).Add(lo, ratFromDuration(span))
	events := e.chart.AllEvents
	start := sort.Search(len(events), func(i int) bool { return events[i].ActivationTime.Cmp(lo) >= 0 })
	var out []compiler.TimelineEvent
	for i := start; i < len(events) && events[i].ActivationTime.Cmp(hi) <= 0; i++ {
		out = append(out, events[i])
	}
	return out
}
