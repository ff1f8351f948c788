package bmslex

import "testing"

func TestLexHeaderKeepsOriginalCase(t *testing.T) {
	out := Lex("#Player 1\n", nil)
	if len(out.Tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(out.Tokens))
	}
	tok := out.Tokens[0]
	if tok.Kind != TokenHeader {
		t.Fatalf("expected TokenHeader, got %v", tok.Kind)
	}
	if tok.HeaderName != "Player" {
		t.Fatalf("expected header name to keep original case, got %q", tok.HeaderName)
	}
	if tok.HeaderArgs != "1" {
		t.Fatalf("expected args %q, got %q", "1", tok.HeaderArgs)
	}
}

func TestLexMessageParsesTrackChannelData(t *testing.T) {
	out := Lex("#00111:0102\n", nil)
	if len(out.Tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(out.Tokens))
	}
	tok := out.Tokens[0]
	if tok.Kind != TokenMessage {
		t.Fatalf("expected TokenMessage, got %v", tok.Kind)
	}
	if tok.Track != 1 || tok.Channel != "11" || tok.Message != "0102" {
		t.Fatalf("got track=%d channel=%q message=%q", tok.Track, tok.Channel, tok.Message)
	}
}

func TestLexMessageChannelCasePreserved(t *testing.T) {
	out := Lex("#001Zz:01\n", nil)
	if len(out.Tokens) != 1 || out.Tokens[0].Kind != TokenMessage {
		t.Fatalf("expected a single message token, got %+v", out.Tokens)
	}
	if out.Tokens[0].Channel != "Zz" {
		t.Fatalf("expected channel case preserved as %q, got %q", "Zz", out.Tokens[0].Channel)
	}
}

func TestLexNonCommandLinePreservedVerbatim(t *testing.T) {
	out := Lex("; just a comment\n", nil)
	if len(out.Tokens) != 1 || out.Tokens[0].Kind != TokenNotACommand {
		t.Fatalf("expected a single NotACommand token, got %+v", out.Tokens)
	}
	if out.Tokens[0].Text != "; just a comment" {
		t.Fatalf("expected verbatim text, got %q", out.Tokens[0].Text)
	}
}

func TestLexControlFlowKeywordsWithValue(t *testing.T) {
	out := Lex("#RANDOM 2\n#IF 1\n#ENDIF\n#ENDRANDOM\n", nil)
	wantKinds := []TokenKind{TokenRandom, TokenIf, TokenEndIf, TokenEndRandom}
	if len(out.Tokens) != len(wantKinds) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(wantKinds), len(out.Tokens), out.Tokens)
	}
	for i, want := range wantKinds {
		if out.Tokens[i].Kind != want {
			t.Fatalf("token %d: expected kind %v, got %v", i, want, out.Tokens[i].Kind)
		}
	}
	if out.Tokens[0].Value == nil || *out.Tokens[0].Value != 2 {
		t.Fatalf("expected #RANDOM value 2, got %v", out.Tokens[0].Value)
	}
	if out.Tokens[1].Value == nil || *out.Tokens[1].Value != 1 {
		t.Fatalf("expected #IF value 1, got %v", out.Tokens[1].Value)
	}
}

func TestLexMissingControlFlowValueWarns(t *testing.T) {
	out := Lex("#RANDOM\n", nil)
	if len(out.Tokens) != 0 {
		t.Fatalf("expected the malformed #RANDOM line to produce no token, got %+v", out.Tokens)
	}
	if len(out.Warnings) != 1 {
		t.Fatalf("expected one warning, got %d", len(out.Warnings))
	}
}

func TestLexEmptyAndBlankLinesProduceNoTokens(t *testing.T) {
	out := Lex("\n   \n\t\n", nil)
	if len(out.Tokens) != 0 || len(out.Warnings) != 0 {
		t.Fatalf("expected no tokens or warnings, got tokens=%+v warnings=%+v", out.Tokens, out.Warnings)
	}
}

func TestLexFullwidthHashRelaxerFoldsToAscii(t *testing.T) {
	out := Lex("＃BPM 120\n", []Relaxer{FullwidthHashRelaxer{}})
	if len(out.Tokens) != 1 || out.Tokens[0].Kind != TokenHeader {
		t.Fatalf("expected a single header token, got %+v", out.Tokens)
	}
	if out.Tokens[0].HeaderName != "BPM" {
		t.Fatalf("expected header name %q, got %q", "BPM", out.Tokens[0].HeaderName)
	}
}

func TestLexUppercaseRelaxerNormalizesKeywordLookupOnly(t *testing.T) {
	out := Lex("#if 1\n#endif\n", []Relaxer{UppercaseRelaxer{}})
	if len(out.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %+v", len(out.Tokens), out.Tokens)
	}
	if out.Tokens[0].Kind != TokenIf || out.Tokens[1].Kind != TokenEndIf {
		t.Fatalf("expected If/EndIf despite lowercase source, got %+v", out.Tokens)
	}
}
