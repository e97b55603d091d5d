package parser

import (
	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/source"
	"dust/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(0)
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов.
// `is` живёт в той же таблице: справа от него паттерн, а не выражение.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		tok := p.lx.Peek()
		prec, rightAssoc := binaryPrec(tok.Kind)
		if prec < 0 || prec < minPrec {
			break
		}
		opTok := p.advance()

		if opTok.Kind == token.KwIs {
			pat, ok := p.parsePattern()
			if !ok {
				return ast.NoExprID, false
			}
			left = p.b.Guard(left, pat)
			continue
		}

		nextMinPrec := prec + 1
		if rightAssoc {
			nextMinPrec = prec
		}
		right, ok := p.parseBinaryExpr(nextMinPrec)
		if !ok {
			return ast.NoExprID, false
		}
		left = p.b.Binop(left, binaryOps[opTok.Kind], right)
	}
	return left, true
}

type prefix struct {
	op   ast.UnaryOp
	span source.Span
}

// parseUnaryExpr обрабатывает префиксы: & &mut &'a &'a mut * ! -
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	var prefixes []prefix

	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.Amp:
			prefixes = append(prefixes, p.parseRefPrefix())
			continue
		case token.AndAnd:
			// `&&x` это два borrow: &(&x)
			p.advance()
			outer := tok.Span.Within(0, 1)
			inner := tok.Span.Within(1, 2)
			prefixes = append(prefixes, prefix{op: ast.Ref(false, source.Symbol{}), span: outer})
			prefixes = append(prefixes, p.refTail(inner))
			continue
		}
		op, ok := prefixOp(tok.Kind)
		if !ok {
			break
		}
		p.advance()
		prefixes = append(prefixes, prefix{op: op, span: tok.Span})
	}

	expr, ok := p.parsePostfixExpr()
	if !ok {
		return ast.NoExprID, false
	}

	// Применяем префиксы справа налево
	for i := len(prefixes) - 1; i >= 0; i-- {
		expr = p.b.Unop(prefixes[i].span, prefixes[i].op, expr)
	}
	return expr, true
}

func (p *Parser) parseRefPrefix() prefix {
	amp := p.advance()
	return p.refTail(amp.Span)
}

// refTail разбирает необязательные 'lifetime и mut после '&'.
func (p *Parser) refTail(mark source.Span) prefix {
	var lifetime source.Symbol
	if p.at(token.Lifetime) {
		lt := p.advance()
		lifetime = lt.Sym
		mark = mark.Union(lt.Span)
	}
	mutable := false
	if p.at(token.KwMut) {
		mutable = true
		mark = mark.Union(p.advance().Span)
	}
	return prefix{op: ast.Ref(mutable, lifetime), span: mark}
}

// parsePostfixExpr: вызовы f(a, b), цепочки полей a.b.c, try x?
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		switch p.lx.Peek().Kind {
		case token.LParen:
			expr, ok = p.parseCallExpr(expr)
		case token.Dot:
			expr, ok = p.parseMemberExpr(expr)
		case token.Question:
			q := p.advance()
			expr = p.b.Unop(q.Span, ast.UnaryOp{Kind: ast.UnaryTry}, expr)
		default:
			return expr, true
		}
		if !ok {
			return ast.NoExprID, false
		}
	}
}

// parseMemberExpr собирает все подряд идущие .name в один узел Member.
func (p *Parser) parseMemberExpr(target ast.ExprID) (ast.ExprID, bool) {
	var fields []source.Spanned[source.Symbol]
	span := p.b.Exprs.Span(target)
	for p.at(token.Dot) {
		p.advance()
		name, ok := p.expect(token.Ident, diag.SynExpectFieldName, "expected field name after '.'")
		if !ok {
			return ast.NoExprID, false
		}
		fields = append(fields, source.On(name.Span, name.Sym))
		span = span.Union(name.Span)
	}
	return p.b.Exprs.NewMember(span, target, fields), true
}

func (p *Parser) parseCallExpr(callee ast.ExprID) (ast.ExprID, bool) {
	open := p.advance()
	var args []ast.ExprID
	for !p.atOr(token.RParen, token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expectClosing(token.RParen, open)
	if !ok {
		return ast.NoExprID, false
	}
	span := p.b.Exprs.Span(callee).Union(closeTok.Span)
	return p.b.Exprs.NewCall(span, callee, args), true
}

// parsePrimaryExpr парсит основные (атомарные) выражения
func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.b.Exprs.NewIdent(tok.Span, tok.Sym), true

	case token.Number:
		p.advance()
		_, suffix := tok.NumberParts()
		return p.b.Exprs.NewNum(tok.Span, tok.Sym, numTy(suffix)), true

	case token.LParen:
		return p.parseParenExpr()

	case token.LBrace:
		return p.parseBlockExpr()

	case token.KwIf:
		return p.parseIfExpr()

	case token.KwTrue:
		p.errAt(diag.SynExpectExpression, tok.Span, "'true' is a pattern, not an expression")
		p.advance()
		return ast.NoExprID, false

	case token.Invalid:
		// лексер уже отрепортил
		p.advance()
		return ast.NoExprID, false

	default:
		p.errAt(diag.SynExpectExpression, p.diagnosticSpan(), "expected expression, got "+describe(tok))
		return ast.NoExprID, false
	}
}

// parseParenExpr: () это Unit, (e): группировка; span узла расширяется до скобок.
func (p *Parser) parseParenExpr() (ast.ExprID, bool) {
	open := p.advance()
	if p.at(token.RParen) {
		closeTok := p.advance()
		return p.b.Exprs.NewUnit(open.Span.Union(closeTok.Span)), true
	}
	inner, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	closeTok, ok := p.expectClosing(token.RParen, open)
	if !ok {
		return ast.NoExprID, false
	}
	if node := p.b.Exprs.Get(inner); node != nil {
		node.Span = open.Span.Union(closeTok.Span)
	}
	return inner, true
}
