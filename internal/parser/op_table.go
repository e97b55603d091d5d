package parser

import (
	"dust/internal/ast"
	"dust/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precElse           = 1  // else
	precThen           = 2  // then
	precAssignment     = 3  // =
	precLogicalOr      = 4  // ||
	precLogicalAnd     = 5  // &&
	precEquality       = 6  // == !=
	precComparison     = 7  // < <= > >= is
	precBitwiseOr      = 8  // |
	precBitwiseXor     = 9  // ^
	precBitwiseAnd     = 10 // &
	precShift          = 11 // << >>
	precAdditive       = 12 // + -
	precMultiplicative = 13 // * / %
)

// binaryPrec возвращает приоритет и ассоциативность оператора
// Возвращает (приоритет, правоассоциативный); -1 если это не бинарный оператор
func binaryPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.KwElse:
		return precElse, false
	case token.KwThen:
		return precThen, false
	case token.Assign:
		return precAssignment, true
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.EqEq, token.BangEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq, token.KwIs:
		return precComparison, false
	case token.Pipe:
		return precBitwiseOr, false
	case token.Caret:
		return precBitwiseXor, false
	case token.Amp:
		return precBitwiseAnd, false
	case token.Shl, token.Shr:
		return precShift, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	default:
		return -1, false
	}
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Plus:    ast.BinaryAdd,
	token.Minus:   ast.BinarySub,
	token.Star:    ast.BinaryMul,
	token.Slash:   ast.BinaryDiv,
	token.Percent: ast.BinaryMod,
	token.Shl:     ast.BinaryShl,
	token.Shr:     ast.BinaryShr,
	token.Amp:     ast.BinaryBitAnd,
	token.Pipe:    ast.BinaryBitOr,
	token.Caret:   ast.BinaryBitXor,
	token.AndAnd:  ast.BinaryAnd,
	token.OrOr:    ast.BinaryOr,
	token.EqEq:    ast.BinaryEq,
	token.BangEq:  ast.BinaryNotEq,
	token.Lt:      ast.BinaryLess,
	token.Gt:      ast.BinaryGreater,
	token.LtEq:    ast.BinaryLessEq,
	token.GtEq:    ast.BinaryGreaterEq,
	token.Assign:  ast.BinaryAssign,
	token.KwThen:  ast.BinaryThen,
	token.KwElse:  ast.BinaryElse,
}

// prefixOp возвращает унарный оператор для простого префикса (без &: он отдельно)
func prefixOp(kind token.Kind) (ast.UnaryOp, bool) {
	switch kind {
	case token.Star:
		return ast.UnaryOp{Kind: ast.UnaryDeref}, true
	case token.Bang:
		return ast.UnaryOp{Kind: ast.UnaryNot}, true
	case token.Minus:
		return ast.UnaryOp{Kind: ast.UnaryNeg}, true
	default:
		return ast.UnaryOp{}, false
	}
}
