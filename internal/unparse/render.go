package unparse

import (
	"fmt"
	"strings"

	"nitro-core-dx/internal/bmslex"
)

// Render serializes a token stream produced by Unparse into BMS source
// text, one line per token, in the exact shapes bmslex.Lex parses.
func Render(tokens []bmslex.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		writeToken(&b, t)
	}
	return b.String()
}

func writeToken(b *strings.Builder, t bmslex.Token) {
	switch t.Kind {
	case bmslex.TokenHeader:
		if t.HeaderArgs == "" {
			fmt.Fprintf(b, "#%s\n", t.HeaderName)
		} else {
			fmt.Fprintf(b, "#%s %s\n", t.HeaderName, t.HeaderArgs)
		}
	case bmslex.TokenMessage:
		fmt.Fprintf(b, "#%03d%s:%s\n", t.Track, t.Channel, t.Message)
	case bmslex.TokenNotACommand:
		fmt.Fprintf(b, "%s\n", t.Text)
	case bmslex.TokenRandom:
		fmt.Fprintf(b, "#RANDOM %d\n", valueOr(t.Value))
	case bmslex.TokenSetRandom:
		fmt.Fprintf(b, "#SETRANDOM %d\n", valueOr(t.Value))
	case bmslex.TokenIf:
		fmt.Fprintf(b, "#IF %d\n", valueOr(t.Value))
	case bmslex.TokenElseIf:
		fmt.Fprintf(b, "#ELSEIF %d\n", valueOr(t.Value))
	case bmslex.TokenElse:
		b.WriteString("#ELSE\n")
	case bmslex.TokenEndIf:
		b.WriteString("#ENDIF\n")
	case bmslex.TokenEndRandom:
		b.WriteString("#ENDRANDOM\n")
	case bmslex.TokenSwitch:
		fmt.Fprintf(b, "#SWITCH %d\n", valueOr(t.Value))
	case bmslex.TokenSetSwitch:
		fmt.Fprintf(b, "#SETSWITCH %d\n", valueOr(t.Value))
	case bmslex.TokenCase:
		fmt.Fprintf(b, "#CASE %d\n", valueOr(t.Value))
	case bmslex.TokenDef:
		b.WriteString("#DEF\n")
	case bmslex.TokenSkip:
		b.WriteString("#SKIP\n")
	case bmslex.TokenEndSwitch:
		b.WriteString("#ENDSW\n")
	}
}

func valueOr(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
