package lexer

import (
	"dust/internal/diag"
	"dust/internal/token"
)

// scanIdentRun consumes an identifier starting at the cursor and reports
// whether one was there. Nothing is consumed on false.
func (lx *Lexer) scanIdentRun() bool {
	r, sz := lx.peekRune()
	if sz == 0 {
		return false
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return false
		}
	} else if !isIdentStartRune(r) {
		return false
	}
	lx.bumpRune()
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if lx.cursor.EOF() || !isIdentContinueByte(b) {
				return true
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			return true
		}
		lx.bumpRune()
	}
}

// scanIdentOrKeyword сканирует Ident и проверяет через LookupKeyword.
// Token.Text: ровно исходный срез; Sym: NFC-нормализованная форма.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	if !lx.scanIdentRun() {
		// не буква: неизвестный символ, съедаем руну целиком
		lx.bumpRune()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+quoteText(tok.Text))
		return tok
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
		return tok
	}
	tok.Sym = lx.file.ID.Session().Symbol(normalizeIdent(tok.Text))
	return tok
}
