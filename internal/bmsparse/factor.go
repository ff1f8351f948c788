package bmsparse

import (
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
	"nitro-core-dx/internal/prompter"
)

// FactorKind distinguishes scroll from speed, which share identical shape
// and processing (spec.md §4.4: "ScrollProcessor, SpeedProcessor: analogous").
type FactorKind int

const (
	FactorScroll FactorKind = iota
	FactorSpeed
)

func (k FactorKind) headerPrefix() string {
	if k == FactorScroll {
		return "SCROLL"
	}
	return "SPEED"
}

func (k FactorKind) defKind() prompter.DefKind {
	if k == FactorScroll {
		return prompter.DefScroll
	}
	return prompter.DefSpeed
}

func (k FactorKind) channelKind() prompter.ChannelKind {
	if k == FactorScroll {
		return prompter.ChannelScroll
	}
	return prompter.ChannelSpeed
}

func (k FactorKind) aggregate(ctx *Context) *chartmodel.FactorAggregate {
	if k == FactorScroll {
		return ctx.Model.Scroll
	}
	return ctx.Model.Speed
}

func (k FactorKind) channelKindLex(ch bmslex.Channel) bool {
	if k == FactorScroll {
		return ch.Kind == bmslex.ChannelScroll
	}
	return ch.Kind == bmslex.ChannelSpeed
}

// FactorProcessor implements one of the Scroll/Speed aggregates, selected by Kind.
type FactorProcessor struct {
	Kind FactorKind
}

func (p FactorProcessor) OnHeader(ctx *Context, name, args string) bool {
	upper := strings.ToUpper(name)
	id, ok := splitPrefixedHeader(upper, p.Kind.headerPrefix())
	if !ok {
		return false
	}
	v, numOK := chartmodel.DecimalFromString(strings.TrimSpace(args))
	if !numOK {
		ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#%s%s has a non-numeric value %q", p.Kind.headerPrefix(), id, args))
		return true
	}
	agg := p.Kind.aggregate(ctx)
	objID := mustID(id, ctx.CaseSensitive)
	_, exists := agg.Defs.Get(objID)
	if ctx.applyDef(p.Kind.defKind(), id, exists) {
		agg.Defs.Set(objID, v)
	}
	return true
}

func (p FactorProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	if !p.Kind.channelKindLex(ch) {
		return false
	}
	agg := p.Kind.aggregate(ctx)
	pairs, warnings := SplitPairs(track, message, ctx.CaseSensitive)
	ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
	for _, pr := range pairs {
		if pr.IsAbsent {
			continue
		}
		v, ok := agg.Defs.Get(pr.ID)
		if !ok {
			ctx.fail(diag.Errorf(diag.StageParse, diag.KindUndefinedObject, diag.Location{}, "%s change references undefined def %s", p.Kind.headerPrefix(), pr.ID))
			continue
		}
		_, exists := agg.Changes.Get(pr.Time)
		if ctx.applyChannel(p.Kind.channelKind(), pr.Time.String(), exists) {
			agg.Changes.Set(pr.Time, chartmodel.FactorChange{DefID: pr.ID, Value: v})
		}
	}
	return true
}
