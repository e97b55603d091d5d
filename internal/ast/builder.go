package ast

import (
	"dust/internal/source"
)

type Hints struct{ Exprs, Types, Patterns uint }

// Builder owns the arenas of one parse.
type Builder struct {
	Exprs    *Exprs
	Types    *Types
	Patterns *Patterns
}

func NewBuilder(hints Hints) *Builder {
	return &Builder{
		Exprs:    NewExprs(hints.Exprs),
		Types:    NewTypes(hints.Types),
		Patterns: NewPatterns(hints.Patterns),
	}
}

// Binop builds left op right. The node's span is exactly the union of the
// operand spans, whatever the operator token's position.
func (b *Builder) Binop(left ExprID, op BinaryOp, right ExprID) ExprID {
	span := b.Exprs.Span(left).Union(b.Exprs.Span(right))
	return b.Exprs.NewBinop(span, left, op, right)
}

// Unop builds a unary node. mark is the operator token's span; the node covers
// mark and the operand, so prefix and postfix operators both work.
func (b *Builder) Unop(mark source.Span, op UnaryOp, operand ExprID) ExprID {
	span := mark.Union(b.Exprs.Span(operand))
	return b.Exprs.NewUnop(span, op, operand)
}

// Guard builds `value is pattern` spanning both parts.
func (b *Builder) Guard(value ExprID, pat PatternID) ExprID {
	span := b.Exprs.Span(value).Union(b.Patterns.Get(pat).Span)
	return b.Exprs.NewGuard(span, value, pat)
}

// Counts returns the number of nodes per arena.
func (b *Builder) Counts() (exprs, types, patterns uint32) {
	return b.Exprs.Arena.Len(), b.Types.Arena.Len(), b.Patterns.Arena.Len()
}
