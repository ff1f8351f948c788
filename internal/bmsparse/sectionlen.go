package bmsparse

import (
	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
)

// SectionLenProcessor owns the SectionLength aggregate. Its channel carries
// a bare decimal string rather than id pairs (spec.md §4.4).
type SectionLenProcessor struct{}

func (SectionLenProcessor) OnHeader(*Context, string, string) bool { return false }

func (SectionLenProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	if ch.Kind != bmslex.ChannelSectionLen {
		return false
	}
	v, ok := chartmodel.DecimalFromString(message)
	if !ok {
		ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "track %d has a non-numeric section length %q", track, message))
		return true
	}
	_, exists := ctx.Model.SectionLength.Lengths[track]
	if ctx.applyTrack(track, exists) {
		ctx.Model.SectionLength.Lengths[track] = v
	}
	return true
}
