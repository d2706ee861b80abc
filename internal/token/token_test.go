package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  Token
	}{
		{"BEGIN", BEGIN},
		{"in", IN},
		{"getline", GETLINE},
		{"atan2", F_ATAN2},
		{"toupper", F_TOUPPER},
		{"begin", NAME},
		{"SYMTAB", NAME},
	}
	for _, tt := range tests {
		if got := LookupIdent(tt.ident); got != tt.want {
			t.Errorf("LookupIdent(%q): got %s, want %s", tt.ident, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{APPEND, ">>"},
		{NOT_MATCH, "!~"},
		{PRINTF, "printf"},
		{F_SUBSTR, "substr"},
		{NEWLINE, "<newline>"},
		{Token(250), "token(250)"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestIsBuiltin(t *testing.T) {
	for _, tok := range []Token{F_ATAN2, F_LENGTH, F_TOUPPER} {
		if !tok.IsBuiltin() {
			t.Errorf("%s: got IsBuiltin false", tok)
		}
	}
	for _, tok := range []Token{IN, NAME, DOLLAR} {
		if tok.IsBuiltin() {
			t.Errorf("%s: got IsBuiltin true", tok)
		}
	}
}
