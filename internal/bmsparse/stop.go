package bmsparse

import (
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
	"nitro-core-dx/internal/prompter"
)

// StopProcessor owns the Stop aggregate. Unlike every other channel,
// duplicate stops at the same time add rather than ask the prompter
// (spec.md §4.4, §4.3's additive-stop special case).
type StopProcessor struct{}

func (StopProcessor) OnHeader(ctx *Context, name, args string) bool {
	upper := strings.ToUpper(name)
	id, ok := splitPrefixedHeader(upper, "STOP")
	if !ok {
		return false
	}
	v, numOK := chartmodel.DecimalFromString(strings.TrimSpace(args))
	if !numOK {
		ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#STOP%s has a non-numeric value %q", id, args))
		return true
	}
	objID := mustID(id, ctx.CaseSensitive)
	_, exists := ctx.Model.Stop.Defs.Get(objID)
	if ctx.applyDef(prompter.DefStop, id, exists) {
		ctx.Model.Stop.Defs.Set(objID, v)
	}
	return true
}

func (StopProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	if ch.Kind != bmslex.ChannelStop {
		return false
	}
	pairs, warnings := SplitPairs(track, message, ctx.CaseSensitive)
	ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
	for _, p := range pairs {
		if p.IsAbsent {
			continue
		}
		dur, ok := ctx.Model.Stop.Defs.Get(p.ID)
		if !ok {
			ctx.fail(diag.Errorf(diag.StageParse, diag.KindUndefinedObject, diag.Location{}, "stop event references undefined def %s", p.ID))
			continue
		}
		if existing, exists := ctx.Model.Stop.Events.Get(p.Time); exists {
			sum := new(chartmodel.Decimal).Add(existing, dur)
			ctx.Model.Stop.Events.Set(p.Time, sum)
			continue
		}
		ctx.Model.Stop.Events.Set(p.Time, dur)
	}
	return true
}
