package bmslex

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"nitro-core-dx/internal/diag"
)

// Relaxer normalizes a raw command token before classification, or handles
// a specific degenerate pattern directly. Grounded on
// original_source/src/bms/lex/relaxer.rs's Relaxer trait, translated to
// Go's small-interface idiom the way the teacher turns Rust traits into
// Go interfaces throughout internal/corelx.
type Relaxer interface {
	// Normalize rewrites a raw command token (case, fullwidth hash, typos).
	Normalize(command string) string
	// TryHandleSpecial consumes a special pattern directly from the cursor
	// if commandUpper matches one, returning the token it produced.
	TryHandleSpecial(commandUpper string, cur *Cursor, startIndex int) (Token, bool)
}

var titleCaser = cases.Upper(language.Und)

// UppercaseRelaxer uppercases the command for keyword lookup, using
// golang.org/x/text/cases instead of a hand-rolled unicode.ToUpper loop so
// multi-script chart authoring (e.g. fullwidth Latin) folds consistently.
type UppercaseRelaxer struct{}

func (UppercaseRelaxer) Normalize(command string) string { return titleCaser.String(command) }
func (UppercaseRelaxer) TryHandleSpecial(string, *Cursor, int) (Token, bool) {
	return Token{}, false
}

// FullwidthHashRelaxer folds a fullwidth '＃' prefix to ASCII '#' using
// golang.org/x/text/width, the ecosystem's halfwidth/fullwidth folding
// facility, in place of a one-off rune comparison.
type FullwidthHashRelaxer struct{}

func (FullwidthHashRelaxer) Normalize(command string) string {
	if strings.HasPrefix(command, "＃") {
		return "#" + width.Narrow.String(strings.TrimPrefix(command, "＃"))
	}
	return command
}
func (FullwidthHashRelaxer) TryHandleSpecial(string, *Cursor, int) (Token, bool) {
	return Token{}, false
}

// TypoRelaxer fixes the two specific misspellings spec.md §4.1 names.
type TypoRelaxer struct{}

func (TypoRelaxer) Normalize(command string) string {
	switch command {
	case "#RONDAM":
		return "#RANDOM"
	case "#IFEND":
		return "#ENDIF"
	default:
		return command
	}
}
func (TypoRelaxer) TryHandleSpecial(string, *Cursor, int) (Token, bool) { return Token{}, false }

// NoSpaceSuffixRelaxer handles `#RANDOMn` / `#IFn` with no separating space.
type NoSpaceSuffixRelaxer struct{}

func (NoSpaceSuffixRelaxer) Normalize(command string) string { return command }

func (NoSpaceSuffixRelaxer) TryHandleSpecial(commandUpper string, cur *Cursor, startIndex int) (Token, bool) {
	if suffix, ok := digitSuffix(commandUpper, "#RANDOM"); ok {
		if v, err := strconv.ParseInt(suffix, 10, 64); err == nil {
			return Token{Kind: TokenRandom, Value: &v, Range: byteRange(startIndex, cur.Index())}, true
		}
	}
	if suffix, ok := digitSuffix(commandUpper, "#IF"); ok {
		if v, err := strconv.ParseInt(suffix, 10, 64); err == nil {
			return Token{Kind: TokenIf, Value: &v, Range: byteRange(startIndex, cur.Index())}, true
		}
	}
	return Token{}, false
}

func digitSuffix(commandUpper, prefix string) (string, bool) {
	if !strings.HasPrefix(commandUpper, prefix) {
		return "", false
	}
	suffix := strings.TrimPrefix(commandUpper, prefix)
	if suffix == "" {
		return "", false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return suffix, true
}

// SpacedEndIfRelaxer handles `#END IF` meaning `#ENDIF`.
type SpacedEndIfRelaxer struct{}

func (SpacedEndIfRelaxer) Normalize(command string) string { return command }

func (SpacedEndIfRelaxer) TryHandleSpecial(commandUpper string, cur *Cursor, startIndex int) (Token, bool) {
	if commandUpper != "#END" {
		return Token{}, false
	}
	next, ok := cur.PeekNextToken()
	if !ok || titleCaser.String(next) != "IF" {
		return Token{}, false
	}
	cur.NextToken()
	return Token{Kind: TokenEndIf, Range: byteRange(startIndex, cur.Index())}, true
}

func byteRange(start, end int) diag.ByteRange {
	return diag.ByteRange{Start: start, End: end}
}

// DefaultRelaxers returns the default chain in spec.md §4.1 order.
func DefaultRelaxers() []Relaxer {
	return []Relaxer{
		UppercaseRelaxer{},
		FullwidthHashRelaxer{},
		TypoRelaxer{},
		NoSpaceSuffixRelaxer{},
		SpacedEndIfRelaxer{},
	}
}
