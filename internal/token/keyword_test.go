package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"if":   KwIf,
		"else": KwElse,
		"then": KwThen,
		"is":   KwIs,
		"true": KwTrue,
		"mut":  KwMut,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
		if !(Token{Kind: got}).IsKeyword() {
			t.Fatalf("%v must report IsKeyword", got)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// Заведомо НЕ ключевые слова
	notKw := []string{
		"If", "ELSE", "True", // регистр важен
		"false", "fn", "let", "i32",
		"identifier", "thenx",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}

func TestSplitNumber(t *testing.T) {
	tests := []struct {
		text, value, suffix string
	}{
		{"12", "12", ""},
		{"7u8", "7", "u8"},
		{"1_000i64", "1_000", "i64"},
		{"2.5f32", "2.5", "f32"},
		{"1e10", "1e10", ""},
		{"0xff", "0xff", ""},
		{"0x1fu16", "0x1f", "u16"},
		{"0b101i8", "0b101", "i8"},
	}
	for _, tt := range tests {
		value, suffix := SplitNumber(tt.text)
		if value != tt.value || suffix != tt.suffix {
			t.Errorf("SplitNumber(%q) = (%q, %q), want (%q, %q)", tt.text, value, suffix, tt.value, tt.suffix)
		}
	}
}

func TestKindClassification(t *testing.T) {
	for _, k := range []Kind{Plus, Shr, ColonColon, Question, RBrace, LParen} {
		if !(Token{Kind: k}).IsPunctOrOp() {
			t.Errorf("%v should be punct/op", k)
		}
	}
	for _, k := range []Kind{Ident, Number, Lifetime, KwMut, EOF} {
		if (Token{Kind: k}).IsPunctOrOp() {
			t.Errorf("%v must NOT be punct/op", k)
		}
	}
	if Semicolon.String() != "Semicolon" || Kind(250).String() != "Kind(?)" {
		t.Errorf("unexpected kind names: %s %s", Semicolon, Kind(250))
	}
}
