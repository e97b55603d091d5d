package lexer

import (
	"dust/internal/diag"
	"dust/internal/token"
)

// scanLifetime: 'a. Sym holds the name without the quote.
func (lx *Lexer) scanLifetime() token.Token {
	return lx.scanSigil('\'', token.Lifetime, diag.LexBadLifetime, "expected lifetime name after '\\''")
}

// scanLabel: $x. Sym holds the name without the dollar.
func (lx *Lexer) scanLabel() token.Token {
	return lx.scanSigil('$', token.Label, diag.LexBadLabel, "expected label name after '$'")
}

func (lx *Lexer) scanSigil(sigil byte, kind token.Kind, code diag.Code, msg string) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Eat(sigil)
	nameStart := lx.cursor.Mark()
	if !lx.scanIdentRun() {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(code, tok.Span, msg)
		return tok
	}
	name := lx.cursor.SpanFrom(nameStart)
	tok := lx.emit(kind, start)
	tok.Sym = lx.file.ID.Session().Symbol(normalizeIdent(lx.text(name)))
	return tok
}
