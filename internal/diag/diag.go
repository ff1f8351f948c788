// Package diag carries structured parse/compile diagnostics with source
// locations, generalizing the teacher's corelx.Diagnostic to the two
// location kinds this module needs: a BMS byte-range and a BMSON JSON path.
package diag

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Stage string

const (
	StageLex      Stage = "lex"
	StageAST      Stage = "ast"
	StageParse    Stage = "parse"
	StageBMSON    Stage = "bmson"
	StageCompile  Stage = "compile"
	StagePlayback Stage = "playback"
)

// Kind names one of the diagnostic categories enumerated in spec.md §6.
type Kind string

const (
	KindExpectedToken                Kind = "ExpectedToken"
	KindUnknownChannel                Kind = "UnknownChannel"
	KindUndefinedObject                Kind = "UndefinedObject"
	KindSyntaxError                    Kind = "SyntaxError"
	KindDuplicatingDef                 Kind = "DuplicatingDef"
	KindDuplicatingChannelObj          Kind = "DuplicatingChannelObj"
	KindRandomGeneratedValueOutOfRange Kind = "RandomGeneratedValueOutOfRange"
	KindUnmatchedEndIf                 Kind = "UnmatchedEndIf"
	KindUnmatchedElseIf                Kind = "UnmatchedElseIf"
	KindUnmatchedEndRandom             Kind = "UnmatchedEndRandom"
	KindInvalidPair                    Kind = "InvalidPair"

	KindPlayingTotalUndefined      Kind = "PlayingWarning::TotalUndefined"
	KindPlayingNoDisplayableNotes  Kind = "PlayingWarning::NoDisplayableNotes"
	KindPlayingNoPlayableNotes     Kind = "PlayingWarning::NoPlayableNotes"
	KindPlayingStartBpmUndefined  Kind = "PlayingWarning::StartBpmUndefined"
	KindPlayingBpmUndefined        Kind = "PlayingError::BpmUndefined"
	KindPlayingNoNotes             Kind = "PlayingError::NoNotes"

	KindMissingRequiredField Kind = "MissingRequiredField"
	KindInvalidFieldType     Kind = "InvalidFieldType"
	KindJSONParsing          Kind = "JsonParsing"
)

// ByteRange is a half-open [Start, End) range into BMS source text.
type ByteRange struct {
	Start int
	End   int
}

// Location is exactly one of a BMS byte range or a BMSON JSON path.
type Location struct {
	ByteRange *ByteRange
	JSONPath  string
}

func AtByteRange(start, end int) Location {
	return Location{ByteRange: &ByteRange{Start: start, End: end}}
}

func AtJSONPath(path string) Location {
	return Location{JSONPath: path}
}

func (l Location) String() string {
	switch {
	case l.ByteRange != nil:
		return fmt.Sprintf("bytes %d-%d", l.ByteRange.Start, l.ByteRange.End)
	case l.JSONPath != "":
		return l.JSONPath
	default:
		return "<unknown location>"
	}
}

// Diagnostic is one warning or error, tagged with its stage, kind and
// source location. It implements error so a fatal Diagnostic can be
// returned and wrapped like any other Go error.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Severity Severity
	Stage    Stage
	Location Location
	Notes    []string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Stage, d.Kind, d.Message, d.Location)
}

func Warningf(stage Stage, kind Kind, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning, Stage: stage, Location: loc}
}

func Errorf(stage Stage, kind Kind, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Severity: SeverityError, Stage: stage, Location: loc}
}

// HasErrors reports whether any diagnostic in the slice is fatal.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors filters a diagnostic slice down to fatal entries only.
func Errors(ds []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}
