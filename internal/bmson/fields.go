package bmson

import (
	"github.com/tidwall/gjson"

	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
)

// asString coerces a field to a string, recording MissingRequiredField or
// InvalidFieldType via v (when non-nil) the way spec.md §4.5 requires.
func asString(field gjson.Result, path string, v *validator) (string, bool) {
	if !field.Exists() {
		if v != nil {
			v.warn(diag.KindMissingRequiredField, path, "%s is required", path)
		}
		return "", false
	}
	if field.Type != gjson.String {
		if v != nil {
			v.warn(diag.KindInvalidFieldType, path, "%s must be a string", path)
		}
		return "", false
	}
	return field.String(), true
}

func asInt(field gjson.Result, path string, v *validator) (int64, bool) {
	if !field.Exists() {
		if v != nil {
			v.warn(diag.KindMissingRequiredField, path, "%s is required", path)
		}
		return 0, false
	}
	if field.Type != gjson.Number {
		if v != nil {
			v.warn(diag.KindInvalidFieldType, path, "%s must be a number", path)
		}
		return 0, false
	}
	return field.Int(), true
}

func asBool(field gjson.Result, path string, v *validator) (bool, bool) {
	if !field.Exists() {
		return false, false
	}
	if field.Type != gjson.True && field.Type != gjson.False {
		if v != nil {
			v.warn(diag.KindInvalidFieldType, path, "%s must be a boolean", path)
		}
		return false, false
	}
	return field.Bool(), true
}

// asDecimal reads a JSON number's own literal text rather than its float64
// decoding, so integral or simple-decimal BPM/factor values stay exact
// (spec.md §3 "Decimals": no lossy double-precision in the compile
// pipeline).
func asDecimal(field gjson.Result, path string, v *validator) (*chartmodel.Decimal, bool) {
	if !field.Exists() {
		if v != nil {
			v.warn(diag.KindMissingRequiredField, path, "%s is required", path)
		}
		return nil, false
	}
	if field.Type != gjson.Number {
		if v != nil {
			v.warn(diag.KindInvalidFieldType, path, "%s must be a number", path)
		}
		return nil, false
	}
	d, ok := chartmodel.DecimalFromString(field.Raw)
	if !ok {
		if v != nil {
			v.warn(diag.KindInvalidFieldType, path, "%s is not a well-formed decimal", path)
		}
		return nil, false
	}
	return d, true
}

// readInfo coerces the required "info" object (spec.md §4.5's named
// required fields: title, artist, level, init_bpm, resolution) and returns
// the chart's pulse resolution for the rest of the walk to use.
func (v *validator) readInfo(info gjson.Result) int64 {
	if !info.Exists() {
		v.warn(diag.KindMissingRequiredField, "$.info", "info is required")
	}

	title, ok := asString(info.Get("title"), "$.info.title", v)
	if ok {
		v.model.MusicInfo.Title = title
	}
	if artist, ok := asString(info.Get("artist"), "$.info.artist", v); ok {
		v.model.MusicInfo.Artist = artist
	}
	if s, ok := asString(info.Get("subtitle"), "$.info.subtitle", nil); ok {
		v.model.MusicInfo.Subtitle = s
	}
	if s, ok := asString(info.Get("genre"), "$.info.genre", nil); ok {
		v.model.MusicInfo.Genre = s
	}
	if s, ok := asString(info.Get("chart_name"), "$.info.chart_name", nil); ok {
		v.model.MusicInfo.SubArtist = s
	}
	if s, ok := asString(info.Get("preview_music"), "$.info.preview_music", nil); ok {
		v.model.MusicInfo.PreviewMusic = s
	}
	if lvl, ok := asInt(info.Get("level"), "$.info.level", v); ok {
		v.model.Metadata.PlayLevel = int(lvl)
	}
	if bpm, ok := asDecimal(info.Get("init_bpm"), "$.info.init_bpm", v); ok {
		v.model.BPM.InitialBPM = bpm
	}
	if total, ok := asDecimal(info.Get("total"), "$.info.total", nil); ok {
		v.model.Judge.TotalGauge = total
	}
	if rank, ok := asInt(info.Get("judge_rank"), "$.info.judge_rank", nil); ok {
		v.model.Judge.Rank = bmsonJudgeRank(rank)
	}

	resolution, ok := asInt(info.Get("resolution"), "$.info.resolution", v)
	if !ok || resolution == 0 {
		if ok && resolution == 0 {
			v.warn(diag.KindInvalidFieldType, "$.info.resolution", "resolution must be nonzero; defaulting to 240")
		}
		resolution = 240
	}
	return resolution
}

// bmsonJudgeRank mirrors bmsparse.rankFromInt's BMS #RANK encoding: the
// bmson 1.0 judge_rank field reuses the same 0..3 enum.
func bmsonJudgeRank(v int64) *chartmodel.Rank {
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
		vi := int(v)
		return &chartmodel.Rank{OtherInt: &vi}
	}
}
