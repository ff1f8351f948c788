package diag

import (
	"strings"
	"testing"
)

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	ds := []Diagnostic{
		Warningf(StageLex, KindExpectedToken, AtByteRange(0, 1), "warn"),
	}
	if HasErrors(ds) {
		t.Fatalf("expected HasErrors to be false with only warnings")
	}
	ds = append(ds, Errorf(StageParse, KindSyntaxError, AtByteRange(2, 3), "boom"))
	if !HasErrors(ds) {
		t.Fatalf("expected HasErrors to be true once an error is present")
	}
}

func TestErrorsFiltersToFatalOnly(t *testing.T) {
	warn := Warningf(StageLex, KindExpectedToken, AtByteRange(0, 1), "warn")
	fatal := Errorf(StageParse, KindSyntaxError, AtByteRange(2, 3), "boom")
	got := Errors([]Diagnostic{warn, fatal})
	if len(got) != 1 || got[0].Severity != SeverityError {
		t.Fatalf("expected exactly one fatal diagnostic, got %+v", got)
	}
}

func TestLocationStringPrefersByteRange(t *testing.T) {
	loc := AtByteRange(3, 7)
	if got, want := loc.String(), "bytes 3-7"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	loc = AtJSONPath("$.lines[0]")
	if got, want := loc.String(), "$.lines[0]"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	loc = Location{ByteRange: &ByteRange{Start: 1, End: 2}, JSONPath: "$.x"}
	if got, want := loc.String(), "bytes 1-2"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDiagnosticErrorIncludesStageKindAndLocation(t *testing.T) {
	d := Errorf(StageCompile, KindUndefinedObject, AtByteRange(0, 2), "object %s missing", "01")
	msg := d.Error()
	if msg == "" {
		t.Fatalf("expected non-empty error message")
	}
	for _, want := range []string{string(StageCompile), string(KindUndefinedObject), "object 01 missing"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error message %q to contain %q", msg, want)
		}
	}
}
