package ast

import (
	"dust/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprIdent represents an identifier expression.
	ExprIdent ExprKind = iota
	// ExprNum represents a numeric literal with an optional suffix.
	ExprNum
	// ExprGuard matches a scrutinee against a pattern.
	ExprGuard
	// ExprMember represents field access, one or many names deep.
	ExprMember
	// ExprCall represents a function call expression.
	ExprCall
	// ExprBinop represents a binary expression.
	ExprBinop
	// ExprUnop represents a unary expression.
	ExprUnop
	// ExprBlock represents a sequence of expressions.
	ExprBlock
	// ExprUnit represents ().
	ExprUnit
)

var exprKindNames = [...]string{
	ExprIdent:  "Ident",
	ExprNum:    "Num",
	ExprGuard:  "Guard",
	ExprMember: "Member",
	ExprCall:   "Call",
	ExprBinop:  "Binop",
	ExprUnop:   "Unop",
	ExprBlock:  "Block",
	ExprUnit:   "Unit",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "?"
}

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Payload PayloadID
}

type ExprIdentData struct {
	Name source.Symbol
}

type ExprNumData struct {
	Value source.Symbol
	Ty    NumTy
}

type ExprGuardData struct {
	Value   ExprID
	Pattern PatternID
}

// ExprMemberData: Fields holds at least one name.
type ExprMemberData struct {
	Target ExprID
	Fields []source.Spanned[source.Symbol]
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprBinopData struct {
	Left  ExprID
	Op    BinaryOp
	Right ExprID
}

type ExprUnopData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprBlockData struct {
	Exprs []ExprID
}
