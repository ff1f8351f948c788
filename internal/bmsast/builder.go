package bmsast

import (
	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/diag"
)

// Build turns a flat token stream into an AST forest (spec.md §4.2
// "Builder"). It never aborts: unexpected control tokens are dropped with a
// warning, and a missing #ENDRANDOM/#ENDSWITCH at EOF auto-closes the block.
func Build(tokens []bmslex.Token) (Root, []BuildWarning) {
	var warnings []BuildWarning
	i := 0
	units := buildUnits(tokens, &i, &warnings, nil)
	return Root{Units: units}, warnings
}

// stopSet, when non-nil, names the token kinds that end the current body
// without being consumed (the caller inspects them next).
type stopSet map[bmslex.TokenKind]bool

func buildUnits(toks []bmslex.Token, i *int, warnings *[]BuildWarning, stop stopSet) []Unit {
	var units []Unit
	for *i < len(toks) {
		tok := toks[*i]
		if stop != nil && stop[tok.Kind] {
			return units
		}
		switch tok.Kind {
		case bmslex.TokenRandom, bmslex.TokenSetRandom:
			block := parseRandomBlock(toks, i, warnings)
			units = append(units, Unit{Kind: UnitRandomBlock, Random: &block})
		case bmslex.TokenSwitch, bmslex.TokenSetSwitch:
			block := parseSwitchBlock(toks, i, warnings)
			units = append(units, Unit{Kind: UnitSwitchBlock, Switch: &block})
		case bmslex.TokenIf:
			// An #IF with no enclosing #RANDOM: consume its whole chain so
			// the cursor stays in sync, then drop it.
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedElseIf,
				diag.AtByteRange(tok.Range.Start, tok.Range.End), "#IF without an enclosing #RANDOM/#SWITCH block"))
			parseIfChain(toks, i, warnings)
		case bmslex.TokenElseIf, bmslex.TokenElse, bmslex.TokenEndIf:
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedElseIf,
				diag.AtByteRange(tok.Range.Start, tok.Range.End), "unmatched %s", tokenName(tok.Kind)))
			*i++
		case bmslex.TokenEndRandom:
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedEndRandom,
				diag.AtByteRange(tok.Range.Start, tok.Range.End), "unmatched #ENDRANDOM"))
			*i++
		case bmslex.TokenEndSwitch:
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedEndIf,
				diag.AtByteRange(tok.Range.Start, tok.Range.End), "unmatched #ENDSW/#ENDSWITCH"))
			*i++
		case bmslex.TokenCase, bmslex.TokenDef, bmslex.TokenSkip:
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedElseIf,
				diag.AtByteRange(tok.Range.Start, tok.Range.End), "%s without an enclosing #SWITCH/#SETSWITCH block", tokenName(tok.Kind)))
			*i++
		default:
			units = append(units, Unit{Kind: UnitToken, Token: tok})
			*i++
		}
	}
	return units
}

var ifChainStop = stopSet{
	bmslex.TokenElseIf:    true,
	bmslex.TokenElse:      true,
	bmslex.TokenEndIf:     true,
	bmslex.TokenEndRandom: true,
	bmslex.TokenEndSwitch: true,
}

var switchBodyStop = stopSet{
	bmslex.TokenCase:      true,
	bmslex.TokenDef:       true,
	bmslex.TokenSkip:      true,
	bmslex.TokenEndSwitch: true,
	bmslex.TokenEndRandom: true,
}

var randomBodyStop = stopSet{
	bmslex.TokenIf:        true,
	bmslex.TokenEndRandom: true,
	bmslex.TokenEndSwitch: true,
}

func parseRandomBlock(toks []bmslex.Token, i *int, warnings *[]BuildWarning) RandomBlock {
	opener := toks[*i]
	*i++
	value := blockValueOf(opener)
	var ifBlocks []IfBlock
	for {
		if *i >= len(toks) {
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedEndRandom,
				diag.AtByteRange(opener.Range.Start, opener.Range.End), "missing #ENDRANDOM, block auto-closed at end of file"))
			break
		}
		tok := toks[*i]
		switch tok.Kind {
		case bmslex.TokenIf:
			ifBlocks = append(ifBlocks, parseIfChain(toks, i, warnings))
		case bmslex.TokenEndRandom:
			*i++
			return RandomBlock{Value: value, IfBlocks: ifBlocks}
		case bmslex.TokenEndSwitch:
			// Missing #ENDRANDOM but an enclosing #ENDSWITCH appeared:
			// auto-close here and let the caller consume the #ENDSWITCH.
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedEndRandom,
				diag.AtByteRange(tok.Range.Start, tok.Range.End), "missing #ENDRANDOM before #ENDSWITCH, block auto-closed"))
			return RandomBlock{Value: value, IfBlocks: ifBlocks}
		default:
			stray := buildUnits(toks, i, warnings, randomBodyStop)
			if len(stray) > 0 {
				*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindSyntaxError,
					diag.Location{}, "dropped %d token(s) inside #RANDOM block outside any #IF chain", len(stray)))
			}
		}
	}
	return RandomBlock{Value: value, IfBlocks: ifBlocks}
}

func parseIfChain(toks []bmslex.Token, i *int, warnings *[]BuildWarning) IfBlock {
	block := IfBlock{Branches: make(map[int64][]Unit)}
	ifTok := toks[*i]
	*i++
	if ifTok.Value != nil {
		block.Branches[*ifTok.Value] = buildUnits(toks, i, warnings, ifChainStop)
	} else {
		buildUnits(toks, i, warnings, ifChainStop)
	}
	for {
		if *i >= len(toks) {
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedEndIf,
				diag.AtByteRange(ifTok.Range.Start, ifTok.Range.End), "missing #ENDIF, chain auto-closed at end of file"))
			return block
		}
		tok := toks[*i]
		switch tok.Kind {
		case bmslex.TokenElseIf:
			*i++
			units := buildUnits(toks, i, warnings, ifChainStop)
			if tok.Value != nil {
				block.Branches[*tok.Value] = units
			}
		case bmslex.TokenElse:
			*i++
			block.HasElse = true
			block.Else = buildUnits(toks, i, warnings, ifChainStop)
		case bmslex.TokenEndIf:
			*i++
			return block
		case bmslex.TokenEndRandom, bmslex.TokenEndSwitch:
			// Missing #ENDIF: auto-close and let the enclosing block consume this.
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedEndIf,
				diag.AtByteRange(tok.Range.Start, tok.Range.End), "missing #ENDIF before %s, chain auto-closed", tokenName(tok.Kind)))
			return block
		default:
			*i++ // unreachable given ifChainStop, defensive only
		}
	}
}

func parseSwitchBlock(toks []bmslex.Token, i *int, warnings *[]BuildWarning) SwitchBlock {
	opener := toks[*i]
	*i++
	value := blockValueOf(opener)
	var cases []CaseBranch
	for {
		if *i >= len(toks) {
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedEndIf,
				diag.AtByteRange(opener.Range.Start, opener.Range.End), "missing #ENDSW/#ENDSWITCH, block auto-closed at end of file"))
			break
		}
		tok := toks[*i]
		switch tok.Kind {
		case bmslex.TokenCase, bmslex.TokenDef:
			cases = append(cases, parseCaseBranch(toks, i, warnings))
		case bmslex.TokenEndSwitch:
			*i++
			return SwitchBlock{Value: value, Cases: cases}
		case bmslex.TokenEndRandom:
			*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindUnmatchedEndIf,
				diag.AtByteRange(tok.Range.Start, tok.Range.End), "missing #ENDSW/#ENDSWITCH before #ENDRANDOM, block auto-closed"))
			return SwitchBlock{Value: value, Cases: cases}
		default:
			stray := buildUnits(toks, i, warnings, switchBodyStop)
			if len(stray) > 0 {
				*warnings = append(*warnings, diag.Warningf(diag.StageAST, diag.KindSyntaxError,
					diag.Location{}, "dropped %d token(s) inside #SWITCH block outside any #CASE/#DEF", len(stray)))
			}
		}
	}
	return SwitchBlock{Value: value, Cases: cases}
}

func parseCaseBranch(toks []bmslex.Token, i *int, warnings *[]BuildWarning) CaseBranch {
	tok := toks[*i]
	isDef := tok.Kind == bmslex.TokenDef
	var val int64
	if !isDef && tok.Value != nil {
		val = *tok.Value
	}
	*i++
	units := buildUnits(toks, i, warnings, switchBodyStop)
	endsInSkip := false
	if *i < len(toks) && toks[*i].Kind == bmslex.TokenSkip {
		endsInSkip = true
		*i++
	}
	return CaseBranch{IsDef: isDef, Value: val, Units: units, EndsInSkip: endsInSkip}
}

func blockValueOf(tok bmslex.Token) BlockValue {
	if tok.Value == nil {
		return SetValue(0)
	}
	switch tok.Kind {
	case bmslex.TokenSetRandom, bmslex.TokenSetSwitch:
		return SetValue(*tok.Value)
	default:
		return GenMax(*tok.Value)
	}
}

func tokenName(k bmslex.TokenKind) string {
	switch k {
	case bmslex.TokenRandom:
		return "#RANDOM"
	case bmslex.TokenSetRandom:
		return "#SETRANDOM"
	case bmslex.TokenIf:
		return "#IF"
	case bmslex.TokenElseIf:
		return "#ELSEIF"
	case bmslex.TokenElse:
		return "#ELSE"
	case bmslex.TokenEndIf:
		return "#ENDIF"
	case bmslex.TokenEndRandom:
		return "#ENDRANDOM"
	case bmslex.TokenSwitch:
		return "#SWITCH"
	case bmslex.TokenSetSwitch:
		return "#SETSWITCH"
	case bmslex.TokenCase:
		return "#CASE"
	case bmslex.TokenDef:
		return "#DEF"
	case bmslex.TokenSkip:
		return "#SKIP"
	case bmslex.TokenEndSwitch:
		return "#ENDSW"
	default:
		return "control token"
	}
}
