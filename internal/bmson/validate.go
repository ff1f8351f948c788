// Package bmson implements component H of spec.md: a validator that walks
// a loosely-typed JSON tree (as an external, fault-tolerant tokenizer would
// hand back) and coerces it into the same chartmodel.Model the BMS front
// end (internal/bmsparse) produces, down to reusing its def-table and
// ordered-event shapes. Grounded on original_source's src/bmson/parse.rs
// and src/bmson/pulse.rs for field names and the pulse→y conversion.
package bmson

import (
	"math/big"

	"github.com/tidwall/gjson"

	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
)

// ParseOutput mirrors bmsparse.ParseOutput so bmscore.go's facade can treat
// both front ends uniformly.
type ParseOutput struct {
	Model    *chartmodel.Model
	Warnings []diag.Diagnostic
	Err      error
}

// ParseBMSON validates and coerces raw into a chart model. It never
// panics: malformed input degrades to defaults plus diagnostics, the same
// recoverable-failure posture as the BMS lexer (spec.md §4.1).
func ParseBMSON(raw string) ParseOutput {
	if !gjson.Valid(raw) {
		d := diag.Errorf(diag.StageBMSON, diag.KindJSONParsing, diag.AtJSONPath("$"), "input is not valid JSON")
		return ParseOutput{Model: chartmodel.NewModel(), Warnings: []diag.Diagnostic{d}, Err: d}
	}
	root := gjson.Parse(raw)

	v := &validator{model: chartmodel.NewModel(), bgaDefs: map[int64]chartmodel.ObjectID{}}
	v.model.Metadata.CaseSensitiveObjectID = true // synthetic ids use the full alphabet

	v.walk(root)

	out := ParseOutput{Model: v.model, Warnings: v.diags}
	if diag.HasErrors(v.diags) {
		out.Err = diag.Errors(v.diags)[0]
	}
	return out
}

type validator struct {
	model   *chartmodel.Model
	diags   []diag.Diagnostic
	ids     synthIDs
	bgaDefs map[int64]chartmodel.ObjectID // bmson integer bga-header id -> synthesized ObjectID
}

func (v *validator) warn(kind diag.Kind, path, format string, args ...any) {
	v.diags = append(v.diags, diag.Warningf(diag.StageBMSON, kind, diag.AtJSONPath(path), format, args...))
}

func (v *validator) fail(kind diag.Kind, path, format string, args ...any) {
	v.diags = append(v.diags, diag.Errorf(diag.StageBMSON, kind, diag.AtJSONPath(path), format, args...))
}

func (v *validator) walk(root gjson.Result) {
	resolution := v.readInfo(root.Get("info"))

	// First pass: collect every y-bearing pulse position so the bar layout
	// (and therefore the synthesized section-length map) covers the whole
	// chart, then a second pass does the real field coercion. Cheap at
	// chart sizes that matter here (thousands of events, not millions).
	var lineYs []*big.Rat
	maxY := new(big.Rat)
	collectMax := func(pulses gjson.Result, path string) {
		p, ok := asInt(pulses, path, nil)
		if !ok {
			return
		}
		y := pulseToY(p, resolution)
		if y.Cmp(maxY) > 0 {
			maxY.Set(y)
		}
	}
	root.Get("lines").ForEach(func(_, line gjson.Result) bool {
		collectMax(line.Get("y"), "$.lines[].y")
		return true
	})
	forEachEvent(root, func(path string, ev gjson.Result) { collectMax(ev.Get("y"), path+".y") })

	root.Get("lines").ForEach(func(_, line gjson.Result) bool {
		if p, ok := asInt(line.Get("y"), "$.lines[].y", nil); ok {
			lineYs = append(lineYs, pulseToY(p, resolution))
		}
		return true
	})
	bars := newBarLayout(lineYs, maxY)

	v.readSoundChannels(root.Get("sound_channels"), resolution, bars)
	v.readMineChannels(root.Get("mine_channels"), resolution, bars)
	v.readKeyChannels(root.Get("key_channels"), resolution, bars)
	v.readBpmEvents(root.Get("bpm_events"), resolution, bars)
	v.readStopEvents(root.Get("stop_events"), resolution, bars)
	v.readScrollEvents(root.Get("scroll_events"), resolution, bars)
	v.readBga(root.Get("bga"), resolution, bars)
}

// forEachEvent visits every object in the chart carrying a "y" field, for
// the max-y prepass.
func forEachEvent(root gjson.Result, fn func(path string, ev gjson.Result)) {
	visitNotes := func(arrPath string, arr gjson.Result) {
		arr.ForEach(func(_, ch gjson.Result) bool {
			ch.Get("notes").ForEach(func(_, n gjson.Result) bool {
				fn(arrPath+"[].notes[]", n)
				return true
			})
			return true
		})
	}
	visitNotes("$.sound_channels", root.Get("sound_channels"))
	visitNotes("$.mine_channels", root.Get("mine_channels"))
	visitNotes("$.key_channels", root.Get("key_channels"))
	for _, key := range []string{"bpm_events", "stop_events", "scroll_events"} {
		root.Get(key).ForEach(func(_, ev gjson.Result) bool {
			fn("$."+key+"[]", ev)
			return true
		})
	}
	bga := root.Get("bga")
	for _, key := range []string{"bga_events", "layer_events", "poor_events"} {
		bga.Get(key).ForEach(func(_, ev gjson.Result) bool {
			fn("$.bga."+key+"[]", ev)
			return true
		})
	}
}

// pulseToY converts a BMSON pulse count to the shared y-coordinate space
// (spec.md §4.5): y = pulses / (4 * resolution).
func pulseToY(pulses int64, resolution int64) *big.Rat {
	return big.NewRat(pulses, 4*resolution)
}
