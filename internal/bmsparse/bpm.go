package bmsparse

import (
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
	"nitro-core-dx/internal/prompter"
)

// BpmProcessor owns the BPM aggregate (spec.md §4.4).
type BpmProcessor struct{}

func (BpmProcessor) OnHeader(ctx *Context, name, args string) bool {
	upper := strings.ToUpper(name)
	args = strings.TrimSpace(args)
	if upper == "BPM" {
		if v, ok := chartmodel.DecimalFromString(args); ok {
			ctx.Model.BPM.InitialBPM = v
		} else {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#BPM has a non-numeric value %q", args))
		}
		return true
	}
	for _, prefix := range []string{"BPM", "EXBPM"} {
		if id, ok := splitPrefixedHeader(upper, prefix); ok {
			v, numOK := chartmodel.DecimalFromString(args)
			if !numOK {
				ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#%s%s has a non-numeric value %q", prefix, id, args))
				return true
			}
			objID := mustID(id, ctx.CaseSensitive)
			_, exists := ctx.Model.BPM.Defs.Get(objID)
			if ctx.applyDef(prompter.DefBpmChange, id, exists) {
				ctx.Model.BPM.Defs.Set(objID, v)
			}
			return true
		}
	}
	return false
}

func (BpmProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	switch ch.Kind {
	case bmslex.ChannelBpmChange:
		pairs, warnings := SplitPairs(track, message, ctx.CaseSensitive)
		ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
		for _, p := range pairs {
			if p.IsAbsent {
				continue
			}
			v, ok := ctx.Model.BPM.Defs.Get(p.ID)
			if !ok {
				ctx.fail(diag.Errorf(diag.StageParse, diag.KindUndefinedObject, diag.Location{}, "BPM change references undefined def %s", p.ID))
				continue
			}
			_, exists := ctx.Model.BPM.Changes.Get(p.Time)
			if ctx.applyChannel(prompter.ChannelBpm, p.Time.String(), exists) {
				ctx.Model.BPM.Changes.Set(p.Time, chartmodel.BPMChange{DefID: p.ID, Value: v})
			}
		}
		return true
	case bmslex.ChannelBpmChangeU8:
		raws, warnings := SplitHexBytes(track, message)
		ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
		for _, r := range raws {
			_, exists := ctx.Model.BPM.RawU8.Get(r.Time)
			if ctx.applyChannel(prompter.ChannelBpm, r.Time.String(), exists) {
				ctx.Model.BPM.RawU8.Set(r.Time, chartmodel.NewDecimalInt(r.Value))
			}
		}
		return true
	}
	return false
}
