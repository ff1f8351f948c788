package bmsast

import (
	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/diag"
)

// RandomSource rolls an inclusive integer range, the injectable seam spec.md
// §4.2's evaluator needs so control-flow selection is reproducible in tests.
type RandomSource interface {
	Generate(min, max int64) int64
}

// EvalWarning is a diagnostic raised while evaluating the AST (as opposed to
// BuildWarning, raised while constructing it); spec.md §4.2 keeps the two separate.
type EvalWarning = diag.Diagnostic

// Evaluate walks the AST left to right, resolving every RandomBlock and
// SwitchBlock with rng, and returns the flat token sequence that survives.
func Evaluate(root Root, rng RandomSource) ([]bmslex.Token, []EvalWarning) {
	var warnings []EvalWarning
	tokens := evalUnits(root.Units, rng, &warnings)
	return tokens, warnings
}

func evalUnits(units []Unit, rng RandomSource, warnings *[]EvalWarning) []bmslex.Token {
	var out []bmslex.Token
	for _, u := range units {
		switch u.Kind {
		case UnitToken:
			out = append(out, u.Token)
		case UnitRandomBlock:
			out = append(out, evalRandomBlock(*u.Random, rng, warnings)...)
		case UnitSwitchBlock:
			out = append(out, evalSwitchBlock(*u.Switch, rng, warnings)...)
		}
	}
	return out
}

func resolveBlockValue(v BlockValue, rng RandomSource, warnings *[]EvalWarning) (int64, bool) {
	if v.IsSet {
		return v.Value, true
	}
	if v.Max <= 0 {
		return 0, true
	}
	picked := rng.Generate(1, v.Max)
	if picked < 1 || picked > v.Max {
		*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindRandomGeneratedValueOutOfRange,
			diag.Location{}, "random value %d out of range [1, %d]", picked, v.Max))
		return 0, false
	}
	return picked, true
}

func evalRandomBlock(block RandomBlock, rng RandomSource, warnings *[]EvalWarning) []bmslex.Token {
	selected, ok := resolveBlockValue(block.Value, rng, warnings)
	if !ok {
		return nil
	}
	var out []bmslex.Token
	for _, ifBlock := range block.IfBlocks {
		if units, ok := ifBlock.Branches[selected]; ok {
			out = append(out, evalUnits(units, rng, warnings)...)
		} else if ifBlock.HasElse {
			out = append(out, evalUnits(ifBlock.Else, rng, warnings)...)
		}
	}
	return out
}

func evalSwitchBlock(block SwitchBlock, rng RandomSource, warnings *[]EvalWarning) []bmslex.Token {
	selected, ok := resolveBlockValue(block.Value, rng, warnings)
	if !ok {
		return nil
	}

	cases := block.Cases
	var out []bmslex.Token

	// spec.md §4.2 point 3: a Def appearing before any Case runs
	// unconditionally and without fall-through, then normal Case matching
	// proceeds among the remaining branches.
	if len(cases) > 0 && cases[0].IsDef {
		out = append(out, evalUnits(cases[0].Units, rng, warnings)...)
		cases = cases[1:]
	}

	matchIdx := -1
	for idx, c := range cases {
		if !c.IsDef && c.Value == selected {
			matchIdx = idx
			break
		}
	}
	if matchIdx < 0 {
		for idx, c := range cases {
			if c.IsDef {
				matchIdx = idx
				break
			}
		}
	}
	if matchIdx >= 0 {
		out = append(out, evalFallthrough(cases, matchIdx, rng, warnings)...)
	}
	return out
}

func evalFallthrough(cases []CaseBranch, startIdx int, rng RandomSource, warnings *[]EvalWarning) []bmslex.Token {
	var out []bmslex.Token
	for idx := startIdx; idx < len(cases); idx++ {
		out = append(out, evalUnits(cases[idx].Units, rng, warnings)...)
		if cases[idx].EndsInSkip {
			break
		}
	}
	return out
}
