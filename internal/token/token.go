package token

import (
	"strings"

	"dust/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Sym     source.Symbol
	Leading []Trivia
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwIf, KwElse, KwThen, KwIs, KwTrue, KwMut:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= RBrace
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// NumberParts splits a Number token's text into the literal and its type
// suffix ("7u8" -> "7", "u8"). The suffix is empty when none was written.
// Hex literals cannot carry an f suffix since f is a hex digit.
func (t Token) NumberParts() (value, suffix string) {
	return SplitNumber(t.Text)
}

// SplitNumber is NumberParts over raw text.
func SplitNumber(text string) (value, suffix string) {
	hex := strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
	for i := 1; i < len(text); i++ {
		switch c := text[i]; {
		case c == 'i' || c == 'u':
			return text[:i], text[i:]
		case c == 'f' && !hex:
			return text[:i], text[i:]
		}
	}
	return text, ""
}
