package bmsparse

import (
	"strconv"
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
	"nitro-core-dx/internal/prompter"
)

// BgaProcessor owns the BGA/BMP aggregate: #BMPxx, #EXBMPxx, #POORBGA, and
// the base/layer/poor/opacity/ARGB channels (spec.md §4.4).
type BgaProcessor struct{}

func (BgaProcessor) OnHeader(ctx *Context, name, args string) bool {
	upper := strings.ToUpper(name)
	args = strings.TrimSpace(args)

	if upper == "POORBGA" {
		v, err := strconv.Atoi(args)
		ctx.Model.BGA.PoorBGAMode = err == nil && v != 0
		return true
	}
	if id, ok := splitPrefixedHeader(upper, "BMP"); ok {
		objID := mustID(id, ctx.CaseSensitive)
		_, exists := ctx.Model.BGA.Defs.Get(objID)
		if ctx.applyDef(prompter.DefBmp, id, exists) {
			ctx.Model.BGA.Defs.Set(objID, chartmodel.BMPDescriptor{Path: args})
		}
		return true
	}
	if id, ok := splitPrefixedHeader(upper, "EXBMP"); ok {
		desc, ok := parseExBmp(args)
		if !ok {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#EXBMP%s has a malformed argument %q", id, args))
			return true
		}
		objID := mustID(id, ctx.CaseSensitive)
		_, exists := ctx.Model.BGA.Defs.Get(objID)
		if ctx.applyDef(prompter.DefBmp, id, exists) {
			ctx.Model.BGA.Defs.Set(objID, desc)
		}
		return true
	}
	return false
}

func parseExBmp(args string) (chartmodel.BMPDescriptor, bool) {
	parts := strings.SplitN(args, ",", 5)
	if len(parts) != 5 {
		return chartmodel.BMPDescriptor{}, false
	}
	var channels [4]uint64
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return chartmodel.BMPDescriptor{}, false
		}
		channels[i] = v
	}
	argb := uint32(channels[0])<<24 | uint32(channels[1])<<16 | uint32(channels[2])<<8 | uint32(channels[3])
	return chartmodel.BMPDescriptor{
		Path:              strings.TrimSpace(parts[4]),
		TransparentARGB:   argb,
		HasTransparentKey: true,
	}, true
}

func (BgaProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	layer, ok := bgaLayerFor(ch.Kind)
	if ok {
		pairs, warnings := SplitPairs(track, message, ctx.CaseSensitive)
		ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
		changes := ctx.Model.BGA.LayerChanges(layer)
		for _, p := range pairs {
			if p.IsAbsent {
				continue
			}
			_, exists := changes.Get(p.Time)
			if ctx.applyChannel(prompter.ChannelBga, p.Time.String(), exists) {
				changes.Set(p.Time, p.ID)
			}
		}
		return true
	}

	switch ch.Kind {
	case bmslex.ChannelBgaOpacity:
		raws, warnings := SplitHexBytes(track, message)
		ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
		opacity := bgaOpacityMap(ctx, chartmodel.BGALayerBase)
		for _, r := range raws {
			_, exists := opacity.Get(r.Time)
			if ctx.applyChannel(prompter.ChannelOpacity, r.Time.String(), exists) {
				opacity.Set(r.Time, uint8(r.Value))
			}
		}
		return true
	case bmslex.ChannelBgaArgb:
		raws, warnings := SplitHexBytes(track, message)
		ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
		argb := bgaArgbMap(ctx, chartmodel.BGALayerBase)
		for _, r := range raws {
			_, exists := argb.Get(r.Time)
			if ctx.applyChannel(prompter.ChannelArgb, r.Time.String(), exists) {
				argb.Set(r.Time, uint32(r.Value))
			}
		}
		return true
	}
	return false
}

func bgaLayerFor(kind bmslex.ChannelKind) (chartmodel.BGALayer, bool) {
	switch kind {
	case bmslex.ChannelBgaBase:
		return chartmodel.BGALayerBase, true
	case bmslex.ChannelBgaLayer:
		return chartmodel.BGALayerOverlay, true
	case bmslex.ChannelBgaPoor:
		return chartmodel.BGALayerMiss, true
	}
	return 0, false
}

func bgaOpacityMap(ctx *Context, layer chartmodel.BGALayer) *chartmodel.TimeMap[uint8] {
	m, ok := ctx.Model.BGA.Opacity[layer]
	if !ok {
		m = chartmodel.NewTimeMap[uint8]()
		ctx.Model.BGA.Opacity[layer] = m
	}
	return m
}

func bgaArgbMap(ctx *Context, layer chartmodel.BGALayer) *chartmodel.TimeMap[uint32] {
	m, ok := ctx.Model.BGA.ARGB[layer]
	if !ok {
		m = chartmodel.NewTimeMap[uint32]()
		ctx.Model.BGA.ARGB[layer] = m
	}
	return m
}
