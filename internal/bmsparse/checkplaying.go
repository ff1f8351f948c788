package bmsparse

import (
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
)

// CheckPlaying inspects a fully parsed Model for conditions that would
// make it unplayable or heavily affect the playing experience, ported
// from original_source's check_playing.rs. Exposed separately from
// ParseBMS so a consumer mid-edit (a chart editor) can opt out of it.
func CheckPlaying(model *chartmodel.Model) []diag.Diagnostic {
	var out []diag.Diagnostic

	if model.Judge.TotalGauge == nil {
		out = append(out, diag.Warningf(diag.StageParse, diag.KindPlayingTotalUndefined, diag.Location{}, "#TOTAL is not specified"))
	}

	if model.BPM.InitialBPM == nil {
		if model.BPM.Changes.Len() == 0 {
			out = append(out, diag.Errorf(diag.StageParse, diag.KindPlayingBpmUndefined, diag.Location{}, "no BPM is defined"))
		} else {
			out = append(out, diag.Warningf(diag.StageParse, diag.KindPlayingStartBpmUndefined, diag.Location{}, "#BPM is not specified; the first BPM change will be used"))
		}
	}

	if len(model.WAV.Notes) == 0 {
		out = append(out, diag.Errorf(diag.StageParse, diag.KindPlayingNoNotes, diag.Location{}, "there are no notes"))
		return out
	}

	hasDisplayable, hasPlayable := false, false
	for _, n := range model.WAV.Notes {
		switch n.Kind {
		case chartmodel.NoteVisible, chartmodel.NoteLong, chartmodel.NoteLandmine:
			hasDisplayable = true
		}
		if n.Kind != chartmodel.NoteInvisible {
			hasPlayable = true
		}
	}
	if !hasDisplayable {
		out = append(out, diag.Warningf(diag.StageParse, diag.KindPlayingNoDisplayableNotes, diag.Location{}, "there are no displayable notes"))
	}
	if !hasPlayable {
		out = append(out, diag.Warningf(diag.StageParse, diag.KindPlayingNoPlayableNotes, diag.Location{}, "there are no playable notes"))
	}

	return out
}
