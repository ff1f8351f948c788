package bmsparse

import (
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/prompter"
)

// TextProcessor owns the Text aggregate: #TEXTxx/#SONGxx defs and the text
// display channel (spec.md §4.4).
type TextProcessor struct{}

func (TextProcessor) OnHeader(ctx *Context, name, args string) bool {
	upper := strings.ToUpper(name)
	for _, prefix := range []string{"TEXT", "SONG"} {
		id, ok := splitPrefixedHeader(upper, prefix)
		if !ok {
			continue
		}
		objID := mustID(id, ctx.CaseSensitive)
		_, exists := ctx.Model.Text.Defs.Get(objID)
		if ctx.applyDef(prompter.DefText, id, exists) {
			ctx.Model.Text.Defs.Set(objID, strings.TrimSpace(args))
		}
		return true
	}
	return false
}

func (TextProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	if ch.Kind != bmslex.ChannelText {
		return false
	}
	pairs, warnings := SplitPairs(track, message, ctx.CaseSensitive)
	ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
	for _, p := range pairs {
		if p.IsAbsent {
			continue
		}
		_, exists := ctx.Model.Text.Events.Get(p.Time)
		if ctx.applyChannel(prompter.ChannelText, p.Time.String(), exists) {
			ctx.Model.Text.Events.Set(p.Time, p.ID)
		}
	}
	return true
}
