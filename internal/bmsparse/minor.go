package bmsparse

import (
	"strconv"
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
)

// MinorProcessors returns the obsolete command family (spec.md §9):
// #STP, #WAVCMD, #SWBGA, #ExtChr. Callers gate these behind
// ParseConfig.EnableMinorCommands, since the reference test suite does
// not exercise them; they are emitted through the same def/event
// machinery as every other processor.
func MinorProcessors() []Processor {
	return []Processor{MinorProcessor{}}
}

// MinorProcessor owns the Minor aggregate (spec.md §9 / original_source's
// minor_command.rs).
type MinorProcessor struct{}

func (MinorProcessor) OnHeader(ctx *Context, name, args string) bool {
	upper := strings.ToUpper(name)
	args = strings.TrimSpace(args)
	switch {
	case upper == "STP":
		ev, ok := parseStp(args)
		if !ok {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#STP has a malformed argument %q", args))
			return true
		}
		ctx.Model.Minor.Stp = append(ctx.Model.Minor.Stp, ev)
		return true
	case upper == "WAVCMD":
		ev, ok := parseWavCmd(args, ctx.CaseSensitive)
		if !ok {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#WAVCMD has a malformed argument %q", args))
			return true
		}
		ctx.Model.Minor.WavCmd = append(ctx.Model.Minor.WavCmd, ev)
		return true
	case upper == "EXTCHR":
		ev, ok := parseExtChr(args)
		if !ok {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#ExtChr has a malformed argument %q", args))
			return true
		}
		ctx.Model.Minor.ExtChr = append(ctx.Model.Minor.ExtChr, ev)
		return true
	}
	if _, ok := splitPrefixedHeader(upper, "SWBGA"); ok {
		ev, ok := parseSwBga(args)
		if !ok {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#SWBGA%s has a malformed argument %q", upper[5:], args))
			return true
		}
		ctx.Model.Minor.SwBga = append(ctx.Model.Minor.SwBga, ev)
		return true
	}
	return false
}

func (MinorProcessor) OnMessage(*Context, int64, bmslex.Channel, string) bool { return false }

// parseStp reads "mmmff value": a 3-digit track plus a 2-digit fraction out
// of 1000, followed by a millisecond duration.
func parseStp(args string) (chartmodel.StpEvent, bool) {
	fields := strings.Fields(args)
	if len(fields) != 2 || len(fields[0]) != 5 {
		return chartmodel.StpEvent{}, false
	}
	track, err := strconv.ParseInt(fields[0][:3], 10, 64)
	if err != nil {
		return chartmodel.StpEvent{}, false
	}
	frac, err := strconv.ParseInt(fields[0][3:], 10, 64)
	if err != nil {
		return chartmodel.StpEvent{}, false
	}
	dur, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return chartmodel.StpEvent{}, false
	}
	return chartmodel.StpEvent{
		Time:     chartmodel.NewScoreTime(track, frac, 1000),
		Duration: dur,
	}, true
}

func parseWavCmd(args string, caseSensitive bool) (chartmodel.WavCmdEvent, bool) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return chartmodel.WavCmdEvent{}, false
	}
	var param chartmodel.WavCmdParam
	switch fields[0] {
	case "00":
		param = chartmodel.WavCmdPitch
	case "01":
		param = chartmodel.WavCmdVolume
	case "02":
		param = chartmodel.WavCmdTime
	default:
		return chartmodel.WavCmdEvent{}, false
	}
	id, ok := chartmodel.ParseObjectID(fields[1], caseSensitive)
	if !ok {
		return chartmodel.WavCmdEvent{}, false
	}
	v, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return chartmodel.WavCmdEvent{}, false
	}
	return chartmodel.WavCmdEvent{Param: param, WavID: id, Value: uint32(v)}, true
}

func parseSwBga(args string) (chartmodel.SwBgaEvent, bool) {
	parts := strings.Split(args, ":")
	if len(parts) != 6 {
		return chartmodel.SwBgaEvent{}, false
	}
	frameRate, err1 := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32)
	totalTime, err2 := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 32)
	line, err3 := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 8)
	loopVal, err4 := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return chartmodel.SwBgaEvent{}, false
	}
	argbFields := strings.Split(strings.TrimSpace(parts[4]), ",")
	if len(argbFields) != 4 {
		return chartmodel.SwBgaEvent{}, false
	}
	var channels [4]uint64
	for i, f := range argbFields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return chartmodel.SwBgaEvent{}, false
		}
		channels[i] = v
	}
	argb := uint32(channels[0])<<24 | uint32(channels[1])<<16 | uint32(channels[2])<<8 | uint32(channels[3])
	return chartmodel.SwBgaEvent{
		FrameRateMS: uint32(frameRate),
		TotalTimeMS: uint32(totalTime),
		Line:        uint8(line),
		Loop:        loopVal != 0,
		ARGB:        argb,
		Pattern:     strings.TrimSpace(parts[5]),
	}, true
}

func parseExtChr(args string) (chartmodel.ExtChrEvent, bool) {
	fields := strings.Fields(args)
	if len(fields) < 6 {
		return chartmodel.ExtChrEvent{}, false
	}
	ints := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return chartmodel.ExtChrEvent{}, false
		}
		ints[i] = v
	}
	ev := chartmodel.ExtChrEvent{
		SpriteNum: ints[0],
		BmpNum:    ints[1],
		StartX:    ints[2],
		StartY:    ints[3],
		EndX:      ints[4],
		EndY:      ints[5],
	}
	if len(ints) >= 8 {
		ev.OffsetX, ev.OffsetY = &ints[6], &ints[7]
	}
	if len(ints) >= 10 {
		ev.AbsX, ev.AbsY = &ints[8], &ints[9]
	}
	return ev, true
}
