package bmsparse

import (
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/prompter"
)

// OptionProcessor owns the Option aggregate: #OPTION strings, #CHANGEOPTIONxx
// defs, and their change channel (spec.md §4.4).
type OptionProcessor struct{}

func (OptionProcessor) OnHeader(ctx *Context, name, args string) bool {
	upper := strings.ToUpper(name)
	if upper == "OPTION" {
		ctx.Model.Option.Options = append(ctx.Model.Option.Options, strings.TrimSpace(args))
		return true
	}
	id, ok := splitPrefixedHeader(upper, "CHANGEOPTION")
	if !ok {
		return false
	}
	objID := mustID(id, ctx.CaseSensitive)
	_, exists := ctx.Model.Option.ChangeDefs.Get(objID)
	if ctx.applyDef(prompter.DefChangeOption, id, exists) {
		ctx.Model.Option.ChangeDefs.Set(objID, strings.TrimSpace(args))
	}
	return true
}

func (OptionProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	if ch.Kind != bmslex.ChannelChangeOption {
		return false
	}
	pairs, warnings := SplitPairs(track, message, ctx.CaseSensitive)
	ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
	for _, p := range pairs {
		if p.IsAbsent {
			continue
		}
		_, exists := ctx.Model.Option.Changes.Get(p.Time)
		if ctx.applyChannel(prompter.ChannelOption, p.Time.String(), exists) {
			ctx.Model.Option.Changes.Set(p.Time, p.ID)
		}
	}
	return true
}
