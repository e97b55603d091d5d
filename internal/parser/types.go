package parser

import (
	"strconv"

	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/source"
	"dust/internal/token"
)

// startsType reports whether tok can begin a type: a::b, ::a, (T, U), ().
func startsType(k token.Kind) bool {
	return k == token.Ident || k == token.ColonColon || k == token.LParen
}

// parseType: путь `::a::b` / `a::b` или кортеж `(T, U)`, `()`, `(T,)`.
// `(T)` без запятой: просто T в скобках.
func (p *Parser) parseType() (ast.TypeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident, token.ColonColon:
		return p.parseTypePath()
	case token.LParen:
		return p.parseTypeTuple()
	default:
		p.errAt(diag.SynExpectType, p.diagnosticSpan(), "expected type, got "+describe(tok))
		return ast.NoTypeID, false
	}
}

func (p *Parser) parseTypePath() (ast.TypeID, bool) {
	start := p.lx.Peek().Span
	abs := false
	if p.at(token.ColonColon) {
		abs = true
		p.advance()
	}
	var segs []source.Spanned[source.Symbol]
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected path segment")
		if !ok {
			return ast.NoTypeID, false
		}
		segs = append(segs, source.On(name.Span, name.Sym))
		if !p.at(token.ColonColon) {
			break
		}
		p.advance()
	}
	span := start.Union(segs[len(segs)-1].Span)
	return p.b.Types.NewPath(span, abs, segs), true
}

func (p *Parser) parseTypeTuple() (ast.TypeID, bool) {
	open := p.advance()
	var elems []ast.TypeID
	trailingComma := false
	for !p.atOr(token.RParen, token.EOF) {
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		elems = append(elems, elem)
		trailingComma = false
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		trailingComma = true
	}
	closeTok, ok := p.expectClosing(token.RParen, open)
	if !ok {
		return ast.NoTypeID, false
	}
	span := open.Span.Union(closeTok.Span)
	if len(elems) == 1 && !trailingComma {
		if node := p.b.Types.Get(elems[0]); node != nil {
			node.Span = span
		}
		return elems[0], true
	}
	return p.b.Types.NewTuple(span, elems), true
}

// numTy переводит уже провалидированный лексером суффикс в NumTy.
// Неверный суффикс даёт NumTy{}: ошибка уже в диагностике.
func numTy(suffix string) ast.NumTy {
	if len(suffix) < 2 {
		return ast.NumTy{}
	}
	bits, err := strconv.ParseUint(suffix[1:], 10, 16)
	if err != nil {
		return ast.NumTy{}
	}
	var kind ast.NumKind
	switch suffix[0] {
	case 'i':
		kind = ast.NumSigned
	case 'u':
		kind = ast.NumUnsigned
	case 'f':
		kind = ast.NumFloat
	default:
		return ast.NumTy{}
	}
	switch bits {
	case 8, 16, 32, 64, 128:
		if kind == ast.NumFloat && bits != 32 && bits != 64 {
			return ast.NumTy{}
		}
		return ast.NumTy{Kind: kind, Bits: uint16(bits)}
	}
	return ast.NumTy{}
}
