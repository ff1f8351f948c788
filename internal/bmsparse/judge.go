package bmsparse

import (
	"strconv"
	"strings"

	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
	"nitro-core-dx/internal/prompter"
)

// exRankSynthID is the synthetic id #DEFEXRANK registers under (spec.md §4.4).
const exRankSynthID = "00"

// JudgeProcessor owns the Judge aggregate: #RANK, #EXRANKxx, #DEFEXRANK, #TOTAL.
type JudgeProcessor struct{}

func (JudgeProcessor) OnHeader(ctx *Context, name, args string) bool {
	upper := strings.ToUpper(name)
	args = strings.TrimSpace(args)
	switch {
	case upper == "RANK":
		v, err := strconv.Atoi(args)
		if err != nil {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#RANK has a non-integer value %q", args))
			return true
		}
		ctx.Model.Judge.Rank = rankFromInt(v)
		return true
	case upper == "TOTAL":
		v, ok := chartmodel.DecimalFromString(args)
		if !ok {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#TOTAL has a non-numeric value %q", args))
			return true
		}
		ctx.Model.Judge.TotalGauge = v
		return true
	case upper == "DEFEXRANK":
		v, err := strconv.Atoi(args)
		if err != nil {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#DEFEXRANK has a non-integer value %q", args))
			return true
		}
		objID := mustID(exRankSynthID, ctx.CaseSensitive)
		_, exists := ctx.Model.Judge.ExRankDefs.Get(objID)
		if ctx.applyDef(prompter.DefExRank, exRankSynthID, exists) {
			ctx.Model.Judge.ExRankDefs.Set(objID, v)
		}
		return true
	}
	if id, ok := splitPrefixedHeader(upper, "EXRANK"); ok {
		v, err := strconv.Atoi(args)
		if err != nil {
			ctx.warn(diag.Warningf(diag.StageParse, diag.KindSyntaxError, diag.Location{}, "#EXRANK%s has a non-integer value %q", id, args))
			return true
		}
		objID := mustID(id, ctx.CaseSensitive)
		_, exists := ctx.Model.Judge.ExRankDefs.Get(objID)
		if ctx.applyDef(prompter.DefExRank, id, exists) {
			ctx.Model.Judge.ExRankDefs.Set(objID, v)
		}
		return true
	}
	return false
}

func (JudgeProcessor) OnMessage(ctx *Context, track int64, ch bmslex.Channel, message string) bool {
	if ch.Kind != bmslex.ChannelJudge {
		return false
	}
	pairs, warnings := SplitPairs(track, message, ctx.CaseSensitive)
	ctx.Diagnostics = append(ctx.Diagnostics, warnings...)
	for _, p := range pairs {
		if p.IsAbsent {
			continue
		}
		level, ok := ctx.Model.Judge.ExRankDefs.Get(p.ID)
		if !ok {
			ctx.fail(diag.Errorf(diag.StageParse, diag.KindUndefinedObject, diag.Location{}, "judge change references undefined ExRank %s", p.ID))
			continue
		}
		_, exists := ctx.Model.Judge.Changes.Get(p.Time)
		if ctx.applyChannel(prompter.ChannelJudge, p.Time.String(), exists) {
			ctx.Model.Judge.Changes.Set(p.Time, chartmodel.JudgeChange{DefID: p.ID, Level: level})
		}
	}
	return true
}

func rankFromInt(v int) *chartmodel.Rank {
	switch v {
	case 0:
		return &chartmodel.Rank{VeryHard: true}
	case 1:
		return &chartmodel.Rank{Hard: true}
	case 2:
		return &chartmodel.Rank{Normal: true}
	case 3:
		return &chartmodel.Rank{Easy: true}
	default:
		return &chartmodel.Rank{OtherInt: &v}
	}
}
