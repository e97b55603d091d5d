package lexer

import (
	"dust/internal/diag"
	"dust/internal/token"
)

// Поддержка: 0, 1_000, 0b1010, 0o17, 0xff, 1.5, 1e-3, 2.5e+10 и суффиксы
// i8..i128, u8..u128, f32, f64. Дробная часть только если после точки цифра:
// `1.foo` это член, а не float.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	isFloat, hex := false, false

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && isBaseMarker(b1) {
		lx.cursor.Bump()
		base := lx.cursor.Bump()
		hex = base == 'x' || base == 'X'
		digits := 0
		for {
			b := lx.cursor.Peek()
			if b == '_' || isBaseDigit(base, b) {
				if b != '_' {
					digits++
				}
				lx.cursor.Bump()
				continue
			}
			break
		}
		if digits == 0 {
			tok := lx.emit(token.Number, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digits after base prefix "+quoteText(tok.Text))
			return lx.finishNumber(tok, hex, isFloat)
		}
	} else {
		lx.scanDecimals()
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
			isFloat = true
			lx.cursor.Bump()
			lx.scanDecimals()
		}
		if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
			mark := lx.cursor.Mark()
			lx.cursor.Bump()
			if s := lx.cursor.Peek(); s == '+' || s == '-' {
				lx.cursor.Bump()
			}
			if !isDec(lx.cursor.Peek()) {
				// `2else`? не экспонента: оставляем хвост суффиксу
				lx.cursor.Reset(mark)
			} else {
				isFloat = true
				lx.scanDecimals()
			}
		}
	}

	// суффикс: любой хвост из букв/цифр, валидируется ниже
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.finishNumber(lx.emit(token.Number, start), hex, isFloat)
}

func (lx *Lexer) finishNumber(tok token.Token, hex, isFloat bool) token.Token {
	value, suffix := token.SplitNumber(tok.Text)
	switch {
	case suffix == "" && hasTrailingLetters(value, hex):
		lx.errLex(diag.LexBadNumberSuffix, tok.Span, "invalid number suffix in "+quoteText(tok.Text))
	case suffix != "" && !validSuffix(suffix, isFloat):
		lx.errLex(diag.LexBadNumberSuffix, tok.Span, "invalid number suffix "+quoteText(suffix))
	}
	tok.Sym = lx.file.ID.Session().Symbol(value)
	return tok
}

func (lx *Lexer) scanDecimals() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func isBaseMarker(b byte) bool {
	switch b {
	case 'b', 'B', 'o', 'O', 'x', 'X':
		return true
	}
	return false
}

func isBaseDigit(base, b byte) bool {
	switch base {
	case 'b', 'B':
		return b == '0' || b == '1'
	case 'o', 'O':
		return b >= '0' && b <= '7'
	default:
		return isHex(b)
	}
}

// hasTrailingLetters reports letters after the digits that are neither an
// exponent nor hex digits nor a base prefix: 12abc.
func hasTrailingLetters(value string, hex bool) bool {
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case isDec(c), c == '_', c == '.', c == '+', c == '-':
		case i == 1 && isBaseMarker(c) && value[0] == '0':
		case hex && isHex(c):
		case !hex && (c == 'e' || c == 'E'):
		default:
			return true
		}
	}
	return false
}

var validSuffixes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true,
	"f32": true, "f64": true,
}

// validSuffix: integer suffixes on a float literal are rejected (1.5u8).
func validSuffix(suffix string, isFloat bool) bool {
	if !validSuffixes[suffix] {
		return false
	}
	return !isFloat || suffix[0] == 'f'
}
