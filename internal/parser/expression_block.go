package parser

import (
	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/token"
)

// parseBlockExpr: { e; e; ... }. Пустой блок допустим.
func (p *Parser) parseBlockExpr() (ast.ExprID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{'")
	if !ok {
		return ast.NoExprID, false
	}
	exprs := p.parseSequence(token.RBrace)
	closeTok, ok := p.expectClosing(token.RBrace, open)
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.NewBlock(open.Span.Union(closeTok.Span), exprs), true
}

// parseIfExpr разворачивает `if c {a} else {b}` в (guard then a) else b.
// Если условие само guard (`if x is $y T {..}`), оно используется как есть,
// иначе оборачивается в `c is true` с паттерном True на месте `if`.
func (p *Parser) parseIfExpr() (ast.ExprID, bool) {
	ifTok := p.advance()

	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	guard := cond
	if kind, _ := p.b.Exprs.Kind(cond); kind != ast.ExprGuard {
		guard = p.b.Guard(cond, p.b.Patterns.NewTrue(ifTok.Span))
	}

	then, ok := p.parseBlockExpr()
	if !ok {
		return ast.NoExprID, false
	}
	expr := p.b.Binop(guard, ast.BinaryThen, then)

	if !p.at(token.KwElse) {
		return expr, true
	}
	p.advance()

	var alt ast.ExprID
	if p.at(token.KwIf) {
		alt, ok = p.parseIfExpr()
	} else {
		alt, ok = p.parseBlockExpr()
	}
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Binop(expr, ast.BinaryElse, alt), true
}
