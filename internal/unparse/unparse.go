// Package unparse implements component L of spec.md: re-serializing a
// parsed BMS control-flow AST (internal/bmsast) back into a token stream
// such that a second lex+parse pass reproduces an equivalent chart model
// (spec.md §4.8 "Round-trip unparse").
//
// It walks the pre-evaluation bmsast.Root, the same tree internal/bmsast
// builds from the lexer's flat token stream, rather than the evaluated
// flat content bmsast.Evaluate produces: the AST's Random/Switch nesting is
// exactly the "control-flow representation ... as an alternative to
// evaluated content" spec.md §3 sets aside for this path.
package unparse

import (
	"sort"

	"nitro-core-dx/internal/bmsast"
	"nitro-core-dx/internal/bmslex"
)

// Unparse re-emits root as a flat token stream.
func Unparse(root *bmsast.Root) []bmslex.Token {
	return unparseUnits(root.Units)
}

type msgKey struct {
	Track   int64
	Channel string
}

// unparseUnits renders one flat Unit list (a Root, an #IF/#ELSEIF/#ELSE
// branch body, or a #CASE/#DEF branch body) to tokens. Within one such
// list: headers, non-command lines and nested control-flow blocks are kept
// in their original relative order; message commands are pulled out,
// grouped and merged by (track, channel), and appended afterward — spec.md
// §4.8's "definitions emit before messages".
func unparseUnits(units []bmsast.Unit) []bmslex.Token {
	var out []bmslex.Token
	var msgOrder []msgKey
	msgGroups := map[msgKey][]string{}
	msgTemplate := map[msgKey]bmslex.Token{}

	for _, u := range units {
		switch u.Kind {
		case bmsast.UnitToken:
			if u.Token.Kind == bmslex.TokenMessage {
				key := msgKey{Track: u.Token.Track, Channel: u.Token.Channel}
				if _, seen := msgGroups[key]; !seen {
					msgOrder = append(msgOrder, key)
					msgTemplate[key] = u.Token
				}
				msgGroups[key] = append(msgGroups[key], u.Token.Message)
				continue
			}
			out = append(out, u.Token)
		case bmsast.UnitRandomBlock:
			out = append(out, renderRandomBlock(u.Random)...)
		case bmsast.UnitSwitchBlock:
			out = append(out, renderSwitchBlock(u.Switch)...)
		}
	}

	for _, key := range msgOrder {
		tmpl := msgTemplate[key]
		tmpl.Message = mergeMessages(msgGroups[key])
		out = append(out, tmpl)
	}
	return out
}

func renderRandomBlock(rb *bmsast.RandomBlock) []bmslex.Token {
	opener := bmslex.Token{Kind: bmslex.TokenRandom, Value: blockValuePtr(rb.Value)}
	if rb.Value.IsSet {
		opener.Kind = bmslex.TokenSetRandom
	}
	out := []bmslex.Token{opener}
	for _, ifb := range rb.IfBlocks {
		out = append(out, renderIfChain(ifb)...)
	}
	out = append(out, bmslex.Token{Kind: bmslex.TokenEndRandom})
	return out
}

func renderIfChain(ifb bmsast.IfBlock) []bmslex.Token {
	keys := make([]int64, 0, len(ifb.Branches))
	for k := range ifb.Branches {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var out []bmslex.Token
	for i, k := range keys {
		v := k
		kind := bmslex.TokenElseIf
		if i == 0 {
			kind = bmslex.TokenIf
		}
		out = append(out, bmslex.Token{Kind: kind, Value: &v})
		out = append(out, unparseUnits(ifb.Branches[k])...)
	}
	if len(keys) == 0 {
		// No numbered branch ever matched: still open the chain so the
		// #ENDIF below has something to close.
		out = append(out, bmslex.Token{Kind: bmslex.TokenIf, Value: new(int64)})
	}
	if ifb.HasElse {
		out = append(out, bmslex.Token{Kind: bmslex.TokenElse})
		out = append(out, unparseUnits(ifb.Else)...)
	}
	out = append(out, bmslex.Token{Kind: bmslex.TokenEndIf})
	return out
}

func renderSwitchBlock(sb *bmsast.SwitchBlock) []bmslex.Token {
	opener := bmslex.Token{Kind: bmslex.TokenSwitch, Value: blockValuePtr(sb.Value)}
	if sb.Value.IsSet {
		opener.Kind = bmslex.TokenSetSwitch
	}
	out := []bmslex.Token{opener}
	for _, c := range sb.Cases {
		if c.IsDef {
			out = append(out, bmslex.Token{Kind: bmslex.TokenDef})
		} else {
			v := c.Value
			out = append(out, bmslex.Token{Kind: bmslex.TokenCase, Value: &v})
		}
		out = append(out, unparseUnits(c.Units)...)
		if c.EndsInSkip {
			out = append(out, bmslex.Token{Kind: bmslex.TokenSkip})
		}
	}
	out = append(out, bmslex.Token{Kind: bmslex.TokenEndSwitch})
	return out
}

func blockValuePtr(v bmsast.BlockValue) *int64 {
	if v.IsSet {
		n := v.Value
		return &n
	}
	n := v.Max
	return &n
}
