// Package compiler implements component I of spec.md: flattening a parsed
// chart model (from either internal/bmsparse or internal/bmson) into an
// ordered, y-indexed event timeline with precomputed activation
// timestamps, the input the playback engine (internal/engine) replays.
package compiler

import "nitro-core-dx/internal/chartmodel"

// EventKind enumerates spec.md §4.6's timeline event kinds.
type EventKind int

const (
	EventNote EventKind = iota
	EventBgm
	EventBpmChange
	EventScrollChange
	EventSpeedChange
	EventStop
	EventBgaChange
	EventBgaOpacityChange
	EventBgaArgbChange
	EventBgmVolumeChange
	EventKeyVolumeChange
	EventTextDisplay
	EventJudgeLevelChange
	EventVideoSeek
	EventBgaKeybound
	EventOptionChange
	EventBarLine
)

// flowKind reports whether k participates in the activation-time walk
// (spec.md §4.6 "Activation-time precomputation"): BPM changes and stops
// affect elapsed time directly; scroll/speed only affect display, but are
// still walked in y-order so the engine can replay cached-factor updates
// without re-scanning the whole timeline on every update.
func (k EventKind) flowKind() bool {
	switch k {
	case EventBpmChange, EventStop, EventScrollChange, EventSpeedChange:
		return true
	}
	return false
}

// kindPriority orders events at the same y-coordinate (spec.md §3's
// invariant: "ties are ordered by a stable, documented per-event-kind
// priority"). Flow events (which change playback state) go first, then
// BGA before BGM before notes, matching the order a human chart author
// would expect simultaneous effects to apply in.
func kindPriority(k EventKind) int {
	switch k {
	case EventBpmChange:
		return 0
	case EventStop:
		return 1
	case EventScrollChange:
		return 2
	case EventSpeedChange:
		return 3
	case EventBarLine:
		return 4
	case EventBgaChange, EventBgaOpacityChange, EventBgaArgbChange, EventBgaKeybound:
		return 5
	case EventBgmVolumeChange, EventKeyVolumeChange:
		return 6
	case EventJudgeLevelChange:
		return 7
	case EventOptionChange:
		return 8
	case EventTextDisplay:
		return 9
	case EventVideoSeek:
		return 10
	case EventBgm:
		return 11
	case EventNote:
		return 12
	default:
		return 99
	}
}

// NotePayload is EventNote's payload.
type NotePayload struct {
	Side        chartmodel.Side
	Key         int
	Kind        chartmodel.NoteKind
	WavID       chartmodel.ObjectID
	Length      *chartmodel.Decimal // y-length of a Long note's hold, nil otherwise
	ContinuePlay *chartmodel.Decimal // seconds from begin to end, Long begin notes only
	Continue    bool
}

// BpmChangePayload is EventBpmChange's payload.
type BpmChangePayload struct{ BPM *chartmodel.Decimal }

// FactorChangePayload is EventScrollChange/EventSpeedChange's payload.
type FactorChangePayload struct{ Factor *chartmodel.Decimal }

// StopPayload is EventStop's payload. Despite the field name, the value is
// the stop's length in measures (the raw stop value divided by 192); the
// compiler and engine turn it into seconds as value * 240 / current_bpm.
type StopPayload struct{ DurationSeconds *chartmodel.Decimal }

// BgaPayload covers EventBgaChange/BgaOpacityChange/BgaArgbChange.
type BgaPayload struct {
	Layer   chartmodel.BGALayer
	BmpID   *chartmodel.ObjectID
	Opacity *uint8
	ARGB    *uint32
}

// IDValuePayload covers Text/Judge/Option change events, all of which are
// "an id referencing a def table, at a time".
type IDValuePayload struct {
	ID    chartmodel.ObjectID
	Level int // JudgeLevelChange only
}

// VolumePayload covers EventBgmVolumeChange/EventKeyVolumeChange.
type VolumePayload struct{ Volume uint8 }

// TimelineEvent is one entry of a ParsedChart's ordered timeline.
type TimelineEvent struct {
	Y              *chartmodel.Y
	ActivationTime *chartmodel.Decimal // seconds from playback start
	Kind           EventKind
	Payload        any
}

// ParsedChart is spec.md §4.6's compiler output.
type ParsedChart struct {
	AllEvents      []TimelineEvent
	FlowEventsByY  []TimelineEvent
	InitBPM        *chartmodel.Decimal
}
