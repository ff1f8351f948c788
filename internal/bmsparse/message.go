// Package bmsparse is the token→model parser (component F of spec.md §2):
// a family of processors, one per chart-model aggregate, dispatched from a
// master loop over the AST-evaluated token stream. Grounded on the
// teacher's internal/corelx/semantic.go (one analyzer per concern,
// registered into a shared pass) translated to BMS's flatter, token-driven
// shape.
package bmsparse

import (
	"strconv"

	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
)

// Pair is one decoded 2-character id group from a message payload, at the
// score time it occupies before normalization (spec.md §4.4).
type Pair struct {
	Index int
	Time  chartmodel.ScoreTime
	Raw   string // original 2 chars, case preserved
	ID    chartmodel.ObjectID
	IsAbsent bool
}

// SplitPairs decodes a message payload of 2-char id groups (spec.md §4.4
// "Message parsing"). Non-alphanumeric pairs are skipped with an
// InvalidPair warning; an odd trailing character is dropped without a
// warning, since only whole 2-char groups are read.
func SplitPairs(track int64, message string, caseSensitive bool) ([]Pair, []diag.Diagnostic) {
	n := len(message) / 2
	if n == 0 {
		return nil, nil
	}
	var pairs []Pair
	var warnings []diag.Diagnostic
	for i := 0; i < n; i++ {
		raw := message[i*2 : i*2+2]
		if raw == "00" {
			pairs = append(pairs, Pair{Index: i, Time: chartmodel.NewScoreTime(track, int64(i), int64(n)), Raw: raw, IsAbsent: true})
			continue
		}
		id, ok := chartmodel.ParseObjectID(raw, caseSensitive)
		if !ok {
			warnings = append(warnings, diag.Warningf(diag.StageParse, diag.KindInvalidPair, diag.Location{}, "invalid object id pair %q", raw))
			continue
		}
		pairs = append(pairs, Pair{Index: i, Time: chartmodel.NewScoreTime(track, int64(i), int64(n)), Raw: raw, ID: id})
	}
	return pairs, warnings
}

// SplitHexBytes decodes the BpmChangeU8 channel's payload: each 2-char
// group is a raw hex byte BPM value (spec.md §4.4 "Special message channels").
func SplitHexBytes(track int64, message string) ([]struct {
	Time  chartmodel.ScoreTime
	Value int64
}, []diag.Diagnostic) {
	n := len(message) / 2
	if n == 0 {
		return nil, nil
	}
	var out []struct {
		Time  chartmodel.ScoreTime
		Value int64
	}
	var warnings []diag.Diagnostic
	for i := 0; i < n; i++ {
		raw := message[i*2 : i*2+2]
		if raw == "00" {
			continue
		}
		v, err := strconv.ParseInt(raw, 16, 64)
		if err != nil {
			warnings = append(warnings, diag.Warningf(diag.StageParse, diag.KindInvalidPair, diag.Location{}, "invalid hex BPM byte %q", raw))
			continue
		}
		out = append(out, struct {
			Time  chartmodel.ScoreTime
			Value int64
		}{Time: chartmodel.NewScoreTime(track, int64(i), int64(n)), Value: v})
	}
	return out, warnings
}
