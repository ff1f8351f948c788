// Package bmsparse wires the lexer, AST builder/evaluator, and the
// processor family into the single entry point ParseBMS, in the teacher's
// staged-pipeline idiom (internal/corelx/compiler.go's CompileSource):
// track the current stage and recover from a panic into a diagnostic instead
// of crashing the caller. The stages always run in sequence; warnings from
// an earlier stage do not stop a later one.
package bmsparse

import (
	"nitro-core-dx/internal/bmsast"
	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
	"nitro-core-dx/internal/prompter"
)

// ParseConfig configures one BMS parse pass (spec.md §4).
type ParseConfig struct {
	Prompter              prompter.Prompter
	RNG                   bmsast.RandomSource
	ChannelMappers        []bmslex.ChannelMapper
	Relaxers              []bmslex.Relaxer
	CaseSensitiveObjectID bool
	EnableMinorCommands   bool
}

// DefaultParseConfig matches the defaults real-world BMS files expect:
// the lenient WarnAndUseNewer duplication policy, the Beat/PMS channel
// chain, and all relaxers enabled.
func DefaultParseConfig() ParseConfig {
	return ParseConfig{
		Prompter:       prompter.Default(),
		RNG:            bmsast.NewDefaultRandomSource(0, 0),
		ChannelMappers: bmslex.DefaultChannelMappers(),
		Relaxers:       bmslex.DefaultRelaxers(),
	}
}

func mergeParseConfig(dst *ParseConfig, src ParseConfig) {
	if src.Prompter != nil {
		dst.Prompter = src.Prompter
	}
	if src.RNG != nil {
		dst.RNG = src.RNG
	}
	if src.ChannelMappers != nil {
		dst.ChannelMappers = src.ChannelMappers
	}
	if src.Relaxers != nil {
		dst.Relaxers = src.Relaxers
	}
	if src.CaseSensitiveObjectID {
		dst.CaseSensitiveObjectID = true
	}
	if src.EnableMinorCommands {
		dst.EnableMinorCommands = true
	}
}

// ParseOutput is what one BMS source yields.
type ParseOutput struct {
	Model *chartmodel.Model
	// Source is the pre-evaluation control-flow AST: the original sequence
	// of Random/Switch blocks with their branches, non-command lines, and
	// literal header/message tokens (spec.md §3 "Control-flow
	// representation"). It is an alternative to Model, used by the unparse
	// path rather than the compile path.
	Source   *bmsast.Root
	Warnings []diag.Diagnostic
	Err      error
}

// ParseBMS lexes, builds and evaluates the control-flow AST, then
// dispatches the resulting flat token stream through every Processor.
func ParseBMS(source string, opts *ParseConfig) (out ParseOutput) {
	cfg := DefaultParseConfig()
	if opts != nil {
		mergeParseConfig(&cfg, *opts)
	}

	currentStage := diag.StageLex
	defer func() {
		if r := recover(); r != nil {
			d := diag.Errorf(currentStage, diag.KindSyntaxError, diag.Location{}, "internal parser error: %v", r)
			out.Warnings = append(out.Warnings, d)
			out.Err = d
		}
	}()

	lexOut := bmslex.Lex(source, cfg.Relaxers)
	out.Warnings = append(out.Warnings, lexOut.Warnings...)

	currentStage = diag.StageAST
	root, buildWarnings := bmsast.Build(lexOut.Tokens)
	out.Warnings = append(out.Warnings, buildWarnings...)
	out.Source = &root
	flat, evalWarnings := bmsast.Evaluate(root, cfg.RNG)
	out.Warnings = append(out.Warnings, evalWarnings...)

	currentStage = diag.StageParse
	model := chartmodel.NewModel()
	model.Metadata.CaseSensitiveObjectID = cfg.CaseSensitiveObjectID
	ctx := NewContext(model, cfg.Prompter, cfg.ChannelMappers, cfg.CaseSensitiveObjectID)

	processors := AllProcessors()
	if cfg.EnableMinorCommands {
		processors = append(processors, MinorProcessors()...)
	}
	Dispatch(ctx, flat, processors)

	out.Model = model
	out.Warnings = append(out.Warnings, ctx.Diagnostics...)
	if ctx.Err != nil {
		out.Err = *ctx.Err
	}
	return out
}
