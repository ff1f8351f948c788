package bmsparse

import (
	"strconv"
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
	"nitro-core-dx/internal/prompter"
)

// WavProcessor owns the WAV aggregate: path defs, note placement on note
// channels, and #LNOBJ long-note pairing (spec.md §4.4).
type WavProcessor struct{}

func (WavProcessor) OnHeader(ctx *Context, name, args string) bool {
	upper := strings.ToUpper(name)
	if id, ok := splitPrefixedHeader(upper, "WAV"); ok {
		_, exists := ctx.Model.WAV.Paths.Get(mustID(id, ctx.CaseSensitive))
		if ctx.applyDef(prompter.DefWav, id, exists) {
			ctx.Model.WAV.Paths.Set(mustID(id, ctx.CaseSensitive), strings.TrimSpace(args))
		}
		return true
	}
	if id, ok := splitPrefixedHeader(upper, "EXWAV"); ok {
		desc, path, ok := parseExWav(args)
		if !ok {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#EXWAV%s has a malformed argument %q", id, args))
			return true
		}
		objID := mustID(id, ctx.CaseSensitive)
		_, exists := ctx.Model.WAV.ExWavDefs.Get(objID)
		if ctx.applyDef(prompter.DefExWav, id, exists) {
			ctx.Model.WAV.ExWavDefs.Set(objID, desc)
			ctx.Model.WAV.Paths.Set(objID, path)
		}
		return true
	}
	if upper == "LNOBJ" {
		endID, ok := chartmodel.ParseObjectID(strings.TrimSpace(args), ctx.CaseSensitive)
		if !ok {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindUndefinedObject, diag.Location{}, "#LNOBJ has an invalid object id %q", args))
			return true
		}
		pairLNOBJ(ctx, endID)
		return true
	}
	return false
}

func (WavProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	switch ch.Kind {
	case bmslex.ChannelBgm:
		pairs, warnings := SplitPairs(track, message, ctx.CaseSensitive)
		ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
		for _, p := range pairs {
			if p.IsAbsent {
				continue
			}
			ctx.Model.WAV.Bgm = append(ctx.Model.WAV.Bgm, chartmodel.BgmEvent{Time: p.Time, WavID: p.ID})
		}
		return true
	case bmslex.ChannelNote:
		pairs, warnings := SplitPairs(track, message, ctx.CaseSensitive)
		ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
		key := noteChannelKey{Side: ch.Note.Side, Key: ch.Note.Key}
		for _, p := range pairs {
			if p.IsAbsent {
				continue
			}
			note := chartmodel.Note{Time: p.Time, Side: ch.Note.Side, Key: ch.Note.Key, Kind: ch.Note.Kind, WavID: p.ID}
			ctx.Model.WAV.Notes = append(ctx.Model.WAV.Notes, note)
			ctx.noteHistory[key] = append(ctx.noteHistory[key], noteHistoryEntry{Time: p.Time, ID: p.ID})
		}
		return true
	}
	return false
}

// parseExWav parses "#EXWAVxx pan volume frequency path" in the order the
// pvf parameter string selects; this implementation assumes the common
// "pan volume frequency" parameter order and requires all three present.
func parseExWav(args string) (chartmodel.ExWavDescriptor, string, bool) {
	fields := strings.Fields(args)
	if len(fields) != 4 {
		return chartmodel.ExWavDescriptor{}, "", false
	}
	pan, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || pan < -10000 || pan > 10000 {
		return chartmodel.ExWavDescriptor{}, "", false
	}
	vol, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || vol < -10000 || vol > 0 {
		return chartmodel.ExWavDescriptor{}, "", false
	}
	freq, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil || freq < 100 || freq > 100000 {
		return chartmodel.ExWavDescriptor{}, "", false
	}
	return chartmodel.ExWavDescriptor{Pan: pan, Volume: vol, Frequency: freq, HasFreq: true}, fields[3], true
}

func mustID(s string, caseSensitive bool) chartmodel.ObjectID {
	id, _ := chartmodel.ParseObjectID(s, caseSensitive)
	return id
}

// pairLNOBJ implements spec.md §4.4's long-note transform: find the most
// recent note earlier in the same channel carrying endID, and promote both
// it and the end note to Long. The begin search walks backward past any
// repeated endID markers sharing the end note's own track — those are
// redundant same-track occurrences, not a valid begin — and stops at the
// first note from a different track or a different id.
func pairLNOBJ(ctx *Context, endID chartmodel.ObjectID) {
	found := false
	for key, history := range ctx.noteHistory {
		endIdx := -1
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].ID == endID {
				endIdx = i
				break
			}
		}
		if endIdx < 0 {
			continue
		}
		found = true
		endTrack := history[endIdx].Time.Track
		beginIdx := endIdx - 1
		for beginIdx >= 0 && history[beginIdx].Time.Track == endTrack && history[beginIdx].ID == endID {
			beginIdx--
		}
		if beginIdx < 0 {
			ctx.fail(diag.Errorf(diag.StageParse, diag.KindSyntaxError, diag.Location{},
				"#LNOBJ %s has no preceding note on the same channel", endID))
			continue
		}
		beginTime := history[beginIdx].Time
		endTime := history[endIdx].Time
		promoteNoteKind(ctx, key, beginTime, chartmodel.NoteLong)
		promoteNoteKind(ctx, key, endTime, chartmodel.NoteLong)
	}
	if !found {
		ctx.fail(diag.Errorf(diag.StageParse, diag.KindUndefinedObject, diag.Location{}, "#LNOBJ %s is undefined", endID))
	}
}

func promoteNoteKind(ctx *Context, key noteChannelKey, at chartmodel.ScoreTime, kind chartmodel.NoteKind) {
	for i := range ctx.Model.WAV.Notes {
		n := &ctx.Model.WAV.Notes[i]
		if n.Side == key.Side && n.Key == key.Key && n.Time.Compare(at) == 0 {
			n.Kind = kind
			return
		}
	}
}
