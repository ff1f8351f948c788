// Package bmscore parses BMS text and BMSON JSON-tree chart data into a
// shared chart model, compiles that model into a y-indexed timeline, and
// drives the timeline from wall-clock time into a deterministic event
// stream. It is a library: audio mixing, rendering, input/judgement and
// network transport are host concerns layered on top, exercised here only
// by the thin cmd/bmschart example.
//
// Mirrors the way the teacher's internal/corelx/service.go exposes a small
// facade over its own compiler/codegen packages.
package bmscore

import (
	"time"

	"nitro-core-dx/internal/bmsast"
	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/bmson"
	"nitro-core-dx/internal/bmsparse"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/compiler"
	"nitro-core-dx/internal/diag"
	"nitro-core-dx/internal/engine"
	"nitro-core-dx/internal/prompter"
)

// ParseConfig configures one BMS parse pass.
type ParseConfig = bmsparse.ParseConfig

// DefaultParseConfig matches the defaults real-world BMS files expect.
func DefaultParseConfig() ParseConfig { return bmsparse.DefaultParseConfig() }

// ParseOutput is what one parse (BMS or BMSON) yields.
type ParseOutput struct {
	Model *chartmodel.Model
	// Source is the pre-evaluation control-flow AST, present only for a
	// BMS parse; BMSON carries no such structure (see unparse.Unparse).
	Source   *bmsast.Root
	Warnings []diag.Diagnostic
	Err      error
}

// ParseBMS lexes, builds and evaluates the BMS control-flow AST, then
// dispatches the resulting token stream through the chart-model processors
// (component F).
func ParseBMS(source string, opts *ParseConfig) ParseOutput {
	out := bmsparse.ParseBMS(source, opts)
	return ParseOutput{Model: out.Model, Source: out.Source, Warnings: out.Warnings, Err: out.Err}
}

// ParseBMSON validates a BMSON JSON document and coerces it into the same
// chart model ParseBMS produces (component H).
func ParseBMSON(raw string) ParseOutput {
	out := bmson.ParseBMSON(raw)
	return ParseOutput{Model: out.Model, Warnings: out.Warnings, Err: out.Err}
}

// Compile flattens a chart model into a y-indexed, activation-time
// precomputed timeline (component I).
func Compile(model *chartmodel.Model) (*compiler.ParsedChart, []diag.Diagnostic) {
	return compiler.Compile(model)
}

// NewEngine starts a playback engine over chart, reporting display ratios
// relative to baseBPM and reactionTime (component J).
func NewEngine(chart *compiler.ParsedChart, reactionTime time.Duration, baseBPM *chartmodel.Decimal, startTime time.Time) *engine.Engine {
	return engine.Start(chart, reactionTime, baseBPM, startTime)
}

// Re-exported so a consumer never has to import the internal packages
// directly to build a ParseConfig or read a diagnostic.
type (
	Diagnostic    = diag.Diagnostic
	Prompter      = prompter.Prompter
	ChannelMapper = bmslex.ChannelMapper
	Relaxer       = bmslex.Relaxer
	RandomSource  = bmsast.RandomSource
)
