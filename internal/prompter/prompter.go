// Package prompter implements the duplication-resolution policy pattern
// (component E of spec.md §2): every token→model processor in
// internal/bmsparse asks a Prompter how to resolve a duplicate def or a
// same-time channel collision instead of hard-coding a choice, the same
// way the teacher's internal/corelx lets a pluggable PolicyHook decide
// optimization tradeoffs instead of baking one default into codegen.
package prompter

import "nitro-core-dx/internal/diag"

// DuplicationWorkaround is the resolution a Prompter returns for one
// duplicate, spec.md §4.3.
type DuplicationWorkaround int

const (
	UseOlder DuplicationWorkaround = iota
	UseNewer
	WarnAndUseOlder
	WarnAndUseNewer
	Fail
)

// DefKind tags which aggregate a duplicate definition belongs to.
type DefKind string

const (
	DefWav          DefKind = "Wav"
	DefBmp          DefKind = "Bmp"
	DefBpmChange    DefKind = "BpmChange"
	DefStop         DefKind = "Stop"
	DefScroll       DefKind = "Scroll"
	DefSpeed        DefKind = "Speed"
	DefChangeOption DefKind = "ChangeOption"
	DefExRank       DefKind = "ExRank"
	DefExWav        DefKind = "ExWav"
	DefSeekEvent    DefKind = "SeekEvent"
	DefText         DefKind = "Text"
)

// ChannelKind tags which ordered-event stream a same-time collision hit.
type ChannelKind string

const (
	ChannelBpm       ChannelKind = "Bpm"
	ChannelBga       ChannelKind = "Bga"
	ChannelStop      ChannelKind = "Stop"
	ChannelScroll    ChannelKind = "Scroll"
	ChannelSpeed     ChannelKind = "Speed"
	ChannelOpacity   ChannelKind = "Opacity"
	ChannelArgb      ChannelKind = "Argb"
	ChannelBgmVolume ChannelKind = "BgmVolume"
	ChannelKeyVolume ChannelKind = "KeyVolume"
	ChannelJudge     ChannelKind = "Judge"
	ChannelOption    ChannelKind = "Option"
	ChannelText      ChannelKind = "Text"
)

// DefDuplication describes one colliding definition; Older/Newer are
// opaque to the prompter (it only decides which one wins).
type DefDuplication struct {
	Kind  DefKind
	ID    string
	Older any
	Newer any
}

// TrackDuplication describes a colliding section-length change.
type TrackDuplication struct {
	Track int64
	Older any
	Newer any
}

// ChannelDuplication describes two ordered events landing at the same
// score time on the same channel.
type ChannelDuplication struct {
	Kind  ChannelKind
	Time  string // formatted score time, for diagnostics only
	Older any
	Newer any
}

// Prompter is the policy interface spec.md §4.3 names.
type Prompter interface {
	HandleDefDuplication(d DefDuplication) DuplicationWorkaround
	HandleTrackDuplication(d TrackDuplication) DuplicationWorkaround
	HandleChannelDuplication(d ChannelDuplication) DuplicationWorkaround
}

// Resolution is what apply_def/apply_channel ended up doing, for the
// caller to act on: whether to keep the new value and which warning (if
// any) to attach to the parse output.
type Resolution struct {
	UseNew    bool
	Warning   *diag.Diagnostic
	Err       *diag.Diagnostic
}

// ApplyDef runs the UseOlder/UseNewer/WarnAnd*/Fail contract spec.md §4.3
// names for apply_def, given the workaround a Prompter already chose.
func ApplyDef(w DuplicationWorkaround, kind DefKind, id string) Resolution {
	switch w {
	case UseOlder:
		return Resolution{UseNew: false}
	case UseNewer:
		return Resolution{UseNew: true}
	case WarnAndUseOlder:
		warn := diag.Warningf(diag.StageParse, diag.KindDuplicatingDef, diag.Location{}, "duplicate %s definition %q, keeping the earlier one", kind, id)
		return Resolution{UseNew: false, Warning: &warn}
	case WarnAndUseNewer:
		warn := diag.Warningf(diag.StageParse, diag.KindDuplicatingDef, diag.Location{}, "duplicate %s definition %q, keeping the later one", kind, id)
		return Resolution{UseNew: true, Warning: &warn}
	case Fail:
		err := diag.Errorf(diag.StageParse, diag.KindDuplicatingDef, diag.Location{}, "duplicate %s definition %q", kind, id)
		return Resolution{Err: &err}
	default:
		return Resolution{UseNew: false}
	}
}

// ApplyTrack runs the same contract for a duplicate section-length entry
// on the same track.
func ApplyTrack(w DuplicationWorkaround, track int64) Resolution {
	switch w {
	case UseOlder:
		return Resolution{UseNew: false}
	case UseNewer:
		return Resolution{UseNew: true}
	case WarnAndUseOlder:
		warn := diag.Warningf(diag.StageParse, diag.KindDuplicatingChannelObj, diag.Location{}, "duplicate section length on track %d, keeping the earlier one", track)
		return Resolution{UseNew: false, Warning: &warn}
	case WarnAndUseNewer:
		warn := diag.Warningf(diag.StageParse, diag.KindDuplicatingChannelObj, diag.Location{}, "duplicate section length on track %d, keeping the later one", track)
		return Resolution{UseNew: true, Warning: &warn}
	case Fail:
		err := diag.Errorf(diag.StageParse, diag.KindDuplicatingChannelObj, diag.Location{}, "duplicate section length on track %d", track)
		return Resolution{Err: &err}
	default:
		return Resolution{UseNew: false}
	}
}

// ApplyChannel runs the same contract for a same-time channel collision.
func ApplyChannel(w DuplicationWorkaround, kind ChannelKind, at string) Resolution {
	switch w {
	case UseOlder:
		return Resolution{UseNew: false}
	case UseNewer:
		return Resolution{UseNew: true}
	case WarnAndUseOlder:
		warn := diag.Warningf(diag.StageParse, diag.KindDuplicatingChannelObj, diag.Location{}, "duplicate %s event at %s, keeping the earlier one", kind, at)
		return Resolution{UseNew: false, Warning: &warn}
	case WarnAndUseNewer:
		warn := diag.Warningf(diag.StageParse, diag.KindDuplicatingChannelObj, diag.Location{}, "duplicate %s event at %s, keeping the later one", kind, at)
		return Resolution{UseNew: true, Warning: &warn}
	case Fail:
		err := diag.Errorf(diag.StageParse, diag.KindDuplicatingChannelObj, diag.Location{}, "duplicate %s event at %s", kind, at)
		return Resolution{Err: &err}
	default:
		return Resolution{UseNew: false}
	}
}
