// Package bmsast builds and evaluates the control-flow AST for BMS
// `#RANDOM`/`#SWITCH` blocks (components C and D of spec.md §2), grounded
// on original_source/src/bms/ast.rs's Unit/RandomBlock/SwitchBlock shape and
// translated into the teacher's AST idiom (internal/corelx/ast package: a
// tagged-union node with an unexported marker method).
package bmsast

import (
	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/diag"
)

// BlockValue is a Random/Switch block's selector: either a die to roll or a
// value already fixed by #SETRANDOM/#SETSWITCH (spec.md §4.2).
type BlockValue struct {
	IsSet bool
	Max   int64 // valid when !IsSet
	Value int64 // valid when IsSet
}

func GenMax(max int64) BlockValue   { return BlockValue{Max: max} }
func SetValue(v int64) BlockValue   { return BlockValue{IsSet: true, Value: v} }

// Unit is one node of the AST forest: a plain token, a RandomBlock, or a
// SwitchBlock. Only one of Token/Random/Switch is populated; Kind tags which.
type Unit struct {
	Kind   UnitKind
	Token  bmslex.Token
	Random *RandomBlock
	Switch *SwitchBlock
}

type UnitKind int

const (
	UnitToken UnitKind = iota
	UnitRandomBlock
	UnitSwitchBlock
)

// RandomBlock is spec.md §4.2's `RandomBlock { value, if_blocks }`.
type RandomBlock struct {
	Value    BlockValue
	IfBlocks []IfBlock
}

// IfBlock is one independent #IF chain nested inside a RandomBlock; several
// may coexist in document order inside the same block.
type IfBlock struct {
	Branches map[int64][]Unit
	HasElse  bool
	Else     []Unit
}

// SwitchBlock is spec.md §4.2's `SwitchBlock { value, cases }`.
type SwitchBlock struct {
	Value BlockValue
	Cases []CaseBranch
}

// CaseBranch is either Case(v) or Def, carrying its branch body and whether
// it ends in an explicit #SKIP (suppressing fall-through).
type CaseBranch struct {
	IsDef      bool
	Value      int64 // valid when !IsDef
	Units      []Unit
	EndsInSkip bool
}

// Root is the top-level forest produced by Build.
type Root struct {
	Units []Unit
}

// BuildWarning is a fault-tolerance diagnostic raised while building the
// AST (unmatched control tokens, auto-closed blocks at EOF).
type BuildWarning = diag.Diagnostic
