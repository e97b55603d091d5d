package ast

import (
	"dust/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena   *Arena[source.Spanned[Expr]]
	Idents  *Arena[ExprIdentData]
	Nums    *Arena[ExprNumData]
	Guards  *Arena[ExprGuardData]
	Members *Arena[ExprMemberData]
	Calls   *Arena[ExprCallData]
	Binops  *Arena[ExprBinopData]
	Unops   *Arena[ExprUnopData]
	Blocks  *Arena[ExprBlockData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
// If capHint is 0, a default capacity of 1<<8 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:   NewArena[source.Spanned[Expr]](capHint),
		Idents:  NewArena[ExprIdentData](capHint),
		Nums:    NewArena[ExprNumData](capHint),
		Guards:  NewArena[ExprGuardData](capHint / 4),
		Members: NewArena[ExprMemberData](capHint / 2),
		Calls:   NewArena[ExprCallData](capHint / 2),
		Binops:  NewArena[ExprBinopData](capHint),
		Unops:   NewArena[ExprUnopData](capHint / 2),
		Blocks:  NewArena[ExprBlockData](capHint / 4),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(source.On(span, Expr{Kind: kind, Payload: PayloadID(payload)})))
}

// Get returns the spanned expression with the given ID, or nil.
func (e *Exprs) Get(id ExprID) *source.Spanned[Expr] {
	return e.Arena.Get(uint32(id))
}

// Span returns the span of id; the zero Span for NoExprID.
func (e *Exprs) Span(id ExprID) source.Span {
	if expr := e.Get(id); expr != nil {
		return expr.Span
	}
	return source.Span{}
}

// Kind returns the kind of id; ok is false for unknown ids.
func (e *Exprs) Kind(id ExprID) (ExprKind, bool) {
	expr := e.Get(id)
	if expr == nil {
		return 0, false
	}
	return expr.Node.Kind, true
}

// payload returns the payload index of id if it has the wanted kind.
func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Node.Kind != kind {
		return 0, false
	}
	return uint32(expr.Node.Payload), true
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.Symbol) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

// NewNum creates a numeric literal; pass NumTy{} when there is no suffix.
func (e *Exprs) NewNum(span source.Span, value source.Symbol, ty NumTy) ExprID {
	return e.new(ExprNum, span, e.Nums.Allocate(ExprNumData{Value: value, Ty: ty}))
}

func (e *Exprs) Num(id ExprID) (*ExprNumData, bool) {
	p, ok := e.payload(id, ExprNum)
	if !ok {
		return nil, false
	}
	return e.Nums.Get(p), true
}

// NewGuard creates a pattern-match guard expression.
func (e *Exprs) NewGuard(span source.Span, value ExprID, pat PatternID) ExprID {
	return e.new(ExprGuard, span, e.Guards.Allocate(ExprGuardData{Value: value, Pattern: pat}))
}

func (e *Exprs) Guard(id ExprID) (*ExprGuardData, bool) {
	p, ok := e.payload(id, ExprGuard)
	if !ok {
		return nil, false
	}
	return e.Guards.Get(p), true
}

// NewMember creates a member access. It panics when fields is empty.
func (e *Exprs) NewMember(span source.Span, target ExprID, fields []source.Spanned[source.Symbol]) ExprID {
	if len(fields) == 0 {
		panic("ast: member access needs at least one field")
	}
	payload := e.Members.Allocate(ExprMemberData{
		Target: target,
		Fields: append([]source.Spanned[source.Symbol](nil), fields...),
	})
	return e.new(ExprMember, span, payload)
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(p), true
}

// NewCall creates a new function call expression.
func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{
		Callee: callee,
		Args:   append([]ExprID(nil), args...),
	})
	return e.new(ExprCall, span, payload)
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

// NewBinop creates a binary expression with an explicit span.
// Builder.Binop is the usual entry point; it derives the span from the operands.
func (e *Exprs) NewBinop(span source.Span, left ExprID, op BinaryOp, right ExprID) ExprID {
	payload := e.Binops.Allocate(ExprBinopData{Left: left, Op: op, Right: right})
	return e.new(ExprBinop, span, payload)
}

func (e *Exprs) Binop(id ExprID) (*ExprBinopData, bool) {
	p, ok := e.payload(id, ExprBinop)
	if !ok {
		return nil, false
	}
	return e.Binops.Get(p), true
}

// NewUnop creates a unary expression with an explicit span.
func (e *Exprs) NewUnop(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := e.Unops.Allocate(ExprUnopData{Op: op, Operand: operand})
	return e.new(ExprUnop, span, payload)
}

func (e *Exprs) Unop(id ExprID) (*ExprUnopData, bool) {
	p, ok := e.payload(id, ExprUnop)
	if !ok {
		return nil, false
	}
	return e.Unops.Get(p), true
}

// NewBlock creates a block of expressions.
func (e *Exprs) NewBlock(span source.Span, exprs []ExprID) ExprID {
	payload := e.Blocks.Allocate(ExprBlockData{Exprs: append([]ExprID(nil), exprs...)})
	return e.new(ExprBlock, span, payload)
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	p, ok := e.payload(id, ExprBlock)
	if !ok {
		return nil, false
	}
	return e.Blocks.Get(p), true
}

// NewUnit creates ().
func (e *Exprs) NewUnit(span source.Span) ExprID {
	return e.new(ExprUnit, span, uint32(NoPayloadID))
}
