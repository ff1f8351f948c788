package bmslex

import (
	"strconv"
	"strings"

	"nitro-core-dx/internal/diag"
)

var controlFlowKeywords = map[string]TokenKind{
	"#SETRANDOM": TokenSetRandom,
	"#IF":        TokenIf,
	"#ELSEIF":    TokenElseIf,
	"#ELSE":      TokenElse,
	"#ENDIF":     TokenEndIf,
	"#ENDRANDOM": TokenEndRandom,
	"#SETSWITCH": TokenSetSwitch,
	"#CASE":      TokenCase,
	"#DEF":       TokenDef,
	"#SKIP":      TokenSkip,
	"#ENDSW":     TokenEndSwitch,
	"#ENDSWITCH": TokenEndSwitch,
}

// Lex scans source line by line into a flat token stream (component A/B of
// spec.md §2). It never fails: malformed lines become warnings and are
// skipped, matching spec.md §4.1 "failure modes of the lexer are always
// recoverable" and §7's lexer-never-fails propagation policy.
//
// Relaxer normalization is applied only to a throwaway copy of the command
// token used for control-flow/keyword classification; header names (minus
// their leading '#', or a fullwidth '＃' a relaxer folded to '#'), header
// args, and message payloads are kept byte-for-byte so object ids stay
// meaningful under case-sensitive mode (spec.md §9 Open Question).
func Lex(source string, relaxers []Relaxer) LexOutput {
	var out LexOutput
	lineStart := 0
	for lineStart <= len(source) {
		nl := strings.IndexByte(source[lineStart:], '\n')
		var lineEndExclNL, nextLineStart int
		if nl < 0 {
			lineEndExclNL = len(source)
			nextLineStart = len(source) + 1
		} else {
			lineEndExclNL = lineStart + nl
			nextLineStart = lineEndExclNL + 1
		}
		raw := strings.TrimSuffix(source[lineStart:lineEndExclNL], "\r")
		lexLine(&out, raw, lineStart, relaxers)
		if nl < 0 {
			break
		}
		lineStart = nextLineStart
	}
	return out
}

func lexLine(out *LexOutput, line string, lineByteStart int, relaxers []Relaxer) {
	trimmed := strings.TrimLeft(line, " \t")
	leadingWS := len(line) - len(trimmed)
	if trimmed == "" {
		return
	}
	if !isCommandStart(trimmed) {
		out.Tokens = append(out.Tokens, Token{
			Kind:  TokenNotACommand,
			Text:  line,
			Range: diag.ByteRange{Start: lineByteStart, End: lineByteStart + len(line)},
		})
		return
	}

	cur := NewCursor(line[leadingWS:])
	rawCommand, cmdRange, ok := cur.NextToken()
	if !ok {
		return
	}
	absStart := lineByteStart + leadingWS

	classify := rawCommand
	for _, r := range relaxers {
		classify = r.Normalize(classify)
	}
	classifyUpper := strings.ToUpper(classify)

	for _, r := range relaxers {
		if tok, handled := r.TryHandleSpecial(classifyUpper, cur, cmdRange.Start); handled {
			tok.Range = diag.ByteRange{Start: tok.Range.Start + absStart, End: tok.Range.End + absStart}
			out.Tokens = append(out.Tokens, tok)
			return
		}
	}

	if kind, ok := controlFlowKeywords[classifyUpper]; ok {
		tok := Token{Kind: kind, Range: absRange(cmdRange, absStart)}
		if kind == TokenIf || kind == TokenElseIf || kind == TokenCase {
			if v, ok := nextInt(cur); ok {
				tok.Value = &v
			} else {
				out.Warnings = append(out.Warnings, diag.Warningf(diag.StageLex, diag.KindExpectedToken,
					diag.AtByteRange(absStart, lineByteStart+len(line)), "%s expects an integer argument", classifyUpper))
				return
			}
		}
		out.Tokens = append(out.Tokens, tok)
		return
	}
	if classifyUpper == "#RANDOM" || classifyUpper == "#SWITCH" {
		kind := TokenRandom
		if classifyUpper == "#SWITCH" {
			kind = TokenSwitch
		}
		if v, ok := nextInt(cur); ok {
			out.Tokens = append(out.Tokens, Token{Kind: kind, Value: &v, Range: absRange(cmdRange, absStart)})
		} else {
			out.Warnings = append(out.Warnings, diag.Warningf(diag.StageLex, diag.KindExpectedToken,
				diag.AtByteRange(absStart, lineByteStart+len(line)), "%s expects an integer argument", classifyUpper))
		}
		return
	}

	// Message command: the raw (unnormalized) token matches "#XXXYY:DATA":
	// X is 3 decimal digits (track), YY is 2 alphanumerics (channel, case
	// preserved), DATA is everything after ':' (case preserved, per
	// spec.md §3 case-sensitive ids).
	if track, channel, data, isMessage := tryParseMessage(rawCommand); isMessage {
		out.Tokens = append(out.Tokens, Token{
			Kind:    TokenMessage,
			Track:   track,
			Channel: channel,
			Message: data,
			Range:   diag.ByteRange{Start: absStart, End: lineByteStart + len(line)},
		})
		return
	}

	// Header command: name keeps its original case (spec.md §4.1 says
	// uppercasing happens "for lookup", i.e. at dispatch, not at lex time).
	args, argsRange := cur.NextLineRemaining()
	name := strings.TrimPrefix(rawCommand, "#")
	if !strings.HasPrefix(rawCommand, "#") && strings.HasPrefix(classify, "#") {
		// A relaxer folded a non-ASCII hash (fullwidth '＃') into '#'.
		name = strings.TrimPrefix(rawCommand, "＃")
	}
	out.Tokens = append(out.Tokens, Token{
		Kind:       TokenHeader,
		HeaderName: name,
		HeaderArgs: args,
		Range:      diag.ByteRange{Start: absStart, End: argsRange.End + absStart},
	})
}

func isCommandStart(trimmed string) bool {
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '#' {
		return len(trimmed) > 1 && isLetter(trimmed[1])
	}
	// Fullwidth '＃' is 3 bytes in UTF-8: 0xEF 0xBC 0x83.
	if strings.HasPrefix(trimmed, "＃") {
		rest := strings.TrimPrefix(trimmed, "＃")
		return rest != "" && isLetter(rest[0])
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool {
	return isLetter(b) || (b >= '0' && b <= '9')
}

// tryParseMessage recognizes "#XXXYY:DATA" from the raw command token
// (which, because message commands contain no whitespace, is the whole
// command). It never uppercases DATA.
func tryParseMessage(rawCommand string) (track int64, channel, data string, ok bool) {
	if len(rawCommand) < 7 || rawCommand[0] != '#' {
		return 0, "", "", false
	}
	body := rawCommand[1:]
	if len(body) < 6 || body[5] != ':' {
		return 0, "", "", false
	}
	trackStr := body[0:3]
	channelStr := body[3:5]
	for i := 0; i < 3; i++ {
		if trackStr[i] < '0' || trackStr[i] > '9' {
			return 0, "", "", false
		}
	}
	if !isAlnum(channelStr[0]) || !isAlnum(channelStr[1]) {
		return 0, "", "", false
	}
	t, err := strconv.ParseInt(trackStr, 10, 64)
	if err != nil {
		return 0, "", "", false
	}
	return t, channelStr, body[6:], true
}

func nextInt(cur *Cursor) (int64, bool) {
	tok, _, ok := cur.NextToken()
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func absRange(r diag.ByteRange, absStart int) diag.ByteRange {
	return diag.ByteRange{Start: r.Start + absStart, End: r.End + absStart}
}
