package bmsast

import (
	"testing"

	"nitro-core-dx/internal/bmslex"
)

// fixedRNG always returns max, mirroring the reference test suite's DummyRng.
type fixedRNG struct{}

func (fixedRNG) Generate(min, max int64) int64 { return max }

func titleToken(name string) bmslex.Token {
	return bmslex.Token{Kind: bmslex.TokenHeader, HeaderName: "TITLE", HeaderArgs: name}
}

func val(v int64) *int64 { return &v }

func titles(toks []bmslex.Token) []string {
	var out []string
	for _, t := range toks {
		if t.Kind == bmslex.TokenHeader && t.HeaderName == "TITLE" {
			out = append(out, t.HeaderArgs)
		}
	}
	return out
}

func TestSwitchNestedSwitchCase(t *testing.T) {
	toks := []bmslex.Token{
		titleToken("11000000"),
		{Kind: bmslex.TokenSwitch, Value: val(2)},
		{Kind: bmslex.TokenCase, Value: val(1)},
		titleToken("00220000"),
		{Kind: bmslex.TokenRandom, Value: val(2)},
		{Kind: bmslex.TokenIf, Value: val(1)},
		titleToken("00550000"),
		{Kind: bmslex.TokenElseIf, Value: val(2)},
		titleToken("00006600"),
		{Kind: bmslex.TokenEndIf},
		{Kind: bmslex.TokenEndRandom},
		{Kind: bmslex.TokenSkip},
		{Kind: bmslex.TokenCase, Value: val(2)},
		titleToken("00003300"),
		{Kind: bmslex.TokenSkip},
		{Kind: bmslex.TokenEndSwitch},
		titleToken("00000044"),
	}

	root, buildWarnings := Build(toks)
	if len(buildWarnings) != 0 {
		t.Fatalf("unexpected build warnings: %v", buildWarnings)
	}
	if len(root.Units) != 3 {
		t.Fatalf("expected 3 top-level units, got %d", len(root.Units))
	}
	if root.Units[0].Kind != UnitToken || root.Units[1].Kind != UnitSwitchBlock || root.Units[2].Kind != UnitToken {
		t.Fatalf("unexpected top-level unit shape: %+v", root.Units)
	}

	// The RNG always returns max, so #SWITCH 2 selects case 2 ("00003300");
	// the nested Random under case 1 is never evaluated.
	got, evalWarnings := Evaluate(root, fixedRNG{})
	if len(evalWarnings) != 0 {
		t.Fatalf("unexpected eval warnings: %v", evalWarnings)
	}
	want := []string{"11000000", "00003300", "00000044"}
	gotTitles := titles(got)
	if len(gotTitles) != len(want) {
		t.Fatalf("titles = %v, want %v", gotTitles, want)
	}
	for i := range want {
		if gotTitles[i] != want[i] {
			t.Fatalf("titles[%d] = %q, want %q", i, gotTitles[i], want[i])
		}
	}
}

func TestRandomBlockElseFallback(t *testing.T) {
	toks := []bmslex.Token{
		{Kind: bmslex.TokenSetRandom, Value: val(5)},
		{Kind: bmslex.TokenIf, Value: val(1)},
		titleToken("BRANCH_ONE"),
		{Kind: bmslex.TokenElse},
		titleToken("BRANCH_ELSE"),
		{Kind: bmslex.TokenEndIf},
		{Kind: bmslex.TokenEndRandom},
	}
	root, warnings := Build(toks)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	got, _ := Evaluate(root, fixedRNG{})
	want := []string{"BRANCH_ELSE"}
	if gotTitles := titles(got); len(gotTitles) != 1 || gotTitles[0] != want[0] {
		t.Fatalf("titles = %v, want %v", gotTitles, want)
	}
}

func TestSwitchDefFallback(t *testing.T) {
	toks := []bmslex.Token{
		{Kind: bmslex.TokenSetSwitch, Value: val(9)},
		{Kind: bmslex.TokenCase, Value: val(1)},
		titleToken("CASE1"),
		{Kind: bmslex.TokenSkip},
		{Kind: bmslex.TokenDef},
		titleToken("DEFAULT"),
		{Kind: bmslex.TokenSkip},
		{Kind: bmslex.TokenEndSwitch},
	}
	root, _ := Build(toks)
	got, _ := Evaluate(root, fixedRNG{})
	if gotTitles := titles(got); len(gotTitles) != 1 || gotTitles[0] != "DEFAULT" {
		t.Fatalf("titles = %v, want [DEFAULT]", gotTitles)
	}
}

func TestMissingEndIfAutoClosesWithWarning(t *testing.T) {
	toks := []bmslex.Token{
		{Kind: bmslex.TokenRandom, Value: val(1)},
		{Kind: bmslex.TokenIf, Value: val(1)},
		titleToken("ONLY"),
	}
	root, warnings := Build(toks)
	if len(warnings) == 0 {
		t.Fatalf("expected a warning for the missing #ENDIF/#ENDRANDOM")
	}
	if len(root.Units) != 1 || root.Units[0].Kind != UnitRandomBlock {
		t.Fatalf("expected one auto-closed random block, got %+v", root.Units)
	}
}
