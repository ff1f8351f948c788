package bmsparse

import (
	"strconv"
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/prompter"
)

// VolumeProcessor owns the Volume aggregate: #VOLWAV master volume and the
// per-time BGM/key volume channels (spec.md §4.4).
type VolumeProcessor struct{}

func (VolumeProcessor) OnHeader(ctx *Context, name, args string) bool {
	if strings.ToUpper(name) != "VOLWAV" {
		return false
	}
	v, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || v < 0 || v > 255 {
		return true
	}
	ctx.Model.Volume.Master = uint8(v)
	return true
}

func (VolumeProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	switch ch.Kind {
	case bmslex.ChannelBgmVolume:
		raws, warnings := SplitHexBytes(track, message)
		ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
		for _, r := range raws {
			_, exists := ctx.Model.Volume.BGMChanges.Get(r.Time)
			if ctx.applyChannel(prompter.ChannelBgmVolume, r.Time.String(), exists) {
				ctx.Model.Volume.BGMChanges.Set(r.Time, uint8(r.Value))
			}
		}
		return true
	case bmslex.ChannelKeyVolume:
		raws, warnings := SplitHexBytes(track, message)
		ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
		for _, r := range raws {
			_, exists := ctx.Model.Volume.KeyChanges.Get(r.Time)
			if ctx.applyChannel(prompter.ChannelKeyVolume, r.Time.String(), exists) {
				ctx.Model.Volume.KeyChanges.Set(r.Time, uint8(r.Value))
			}
		}
		return true
	}
	return false
}
