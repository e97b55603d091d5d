package parser

import (
	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/source"
	"dust/internal/token"
)

// parsePattern: alt ('|' alt)*; alt: atom ('&' atom)*.
// Один элемент без '|' / '&' не оборачивается в Or/And.
func (p *Parser) parsePattern() (ast.PatternID, bool) {
	return p.parsePatternList(token.Pipe, p.parsePatternAnd, p.b.Patterns.NewOr)
}

func (p *Parser) parsePatternAnd() (ast.PatternID, bool) {
	return p.parsePatternList(token.Amp, p.parsePatternAtom, p.b.Patterns.NewAnd)
}

func (p *Parser) parsePatternList(
	sep token.Kind,
	item func() (ast.PatternID, bool),
	build func(source.Span, []ast.PatternID) ast.PatternID,
) (ast.PatternID, bool) {
	first, ok := item()
	if !ok {
		return ast.NoPatternID, false
	}
	if !p.at(sep) {
		return first, true
	}
	items := []ast.PatternID{first}
	for p.at(sep) {
		p.advance()
		next, ok := item()
		if !ok {
			return ast.NoPatternID, false
		}
		items = append(items, next)
	}
	span := p.b.Patterns.Get(first).Span.Union(p.b.Patterns.Get(items[len(items)-1]).Span)
	return build(span, items), true
}

// parsePatternAtom: true | $label [Type] | Type | (pattern) | ().
func (p *Parser) parsePatternAtom() (ast.PatternID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.KwTrue:
		p.advance()
		return p.b.Patterns.NewTrue(tok.Span), true

	case token.Label:
		p.advance()
		label := source.On(tok.Span, tok.Sym)
		if !startsType(p.lx.Peek().Kind) {
			return p.b.Patterns.NewLot(tok.Span, label, ast.NoTypeID), true
		}
		ty, ok := p.parseType()
		if !ok {
			return ast.NoPatternID, false
		}
		span := tok.Span.Union(p.b.Types.Get(ty).Span)
		return p.b.Patterns.NewLot(span, label, ty), true

	case token.LParen:
		return p.parsePatternParen()

	case token.Ident, token.ColonColon:
		ty, ok := p.parseType()
		if !ok {
			return ast.NoPatternID, false
		}
		return p.b.Patterns.NewLot(p.b.Types.Get(ty).Span, source.Spanned[source.Symbol]{}, ty), true

	default:
		p.errAt(diag.SynExpectPattern, p.diagnosticSpan(), "expected pattern, got "+describe(tok))
		return ast.NoPatternID, false
	}
}

// parsePatternParen: `()` это unit-тип, `(p)`: группировка паттернов.
// Кортежные типы в паттерне пишутся после метки: `$x (A, B)`.
func (p *Parser) parsePatternParen() (ast.PatternID, bool) {
	open := p.advance()
	if p.at(token.RParen) {
		closeTok := p.advance()
		span := open.Span.Union(closeTok.Span)
		unit := p.b.Types.NewUnit(span)
		return p.b.Patterns.NewLot(span, source.Spanned[source.Symbol]{}, unit), true
	}
	inner, ok := p.parsePattern()
	if !ok {
		return ast.NoPatternID, false
	}
	closeTok, ok := p.expectClosing(token.RParen, open)
	if !ok {
		return ast.NoPatternID, false
	}
	if node := p.b.Patterns.Get(inner); node != nil {
		node.Span = open.Span.Union(closeTok.Span)
	}
	return inner, true
}
