package ast

import (
	"fmt"
	"strings"

	"dust/internal/source"
)

// BinaryOp enumerates binary operator kinds.
type BinaryOp uint8

const (
	// Арифметические

	// BinaryAdd represents the addition operator (+).
	BinaryAdd BinaryOp = iota
	// BinarySub represents the subtraction operator (-).
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod

	// Битовые

	// BinaryShl represents the left shift operator (<<).
	BinaryShl
	BinaryShr
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor

	// Логические

	// BinaryAnd represents the logical AND operator (&&).
	BinaryAnd
	BinaryOr

	// Сравнения

	// BinaryEq represents the equality operator (==).
	BinaryEq
	BinaryNotEq
	BinaryLess
	BinaryGreater
	BinaryLessEq
	BinaryGreaterEq

	// BinaryAssign represents assignment (=).
	BinaryAssign

	// Условные цепочки: `if c {a} else {b}` разворачивается в (guard then a) else b

	// BinaryThen runs the right side when the left side matched.
	BinaryThen
	// BinaryElse runs the right side when the left side did not match.
	BinaryElse
)

var binaryOpNames = [...]struct{ name, symbol string }{
	BinaryAdd:       {"Add", "+"},
	BinarySub:       {"Sub", "-"},
	BinaryMul:       {"Mul", "*"},
	BinaryDiv:       {"Div", "/"},
	BinaryMod:       {"Mod", "%"},
	BinaryShl:       {"BLeft", "<<"},
	BinaryShr:       {"BRight", ">>"},
	BinaryBitAnd:    {"BAnd", "&"},
	BinaryBitOr:     {"BOr", "|"},
	BinaryBitXor:    {"BXor", "^"},
	BinaryAnd:       {"And", "&&"},
	BinaryOr:        {"Or", "||"},
	BinaryEq:        {"Eq", "=="},
	BinaryNotEq:     {"Neq", "!="},
	BinaryLess:      {"Less", "<"},
	BinaryGreater:   {"Greater", ">"},
	BinaryLessEq:    {"Leq", "<="},
	BinaryGreaterEq: {"Geq", ">="},
	BinaryAssign:    {"Assign", "="},
	BinaryThen:      {"Then", "then"},
	BinaryElse:      {"Else", "else"},
}

// String returns the symbol representation of a binary operator.
func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op].symbol
	}
	return "?"
}

// Name returns the variant name used in debug output.
func (op BinaryOp) Name() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op].name
	}
	return fmt.Sprintf("BinaryOp(%d)", uint8(op))
}

// UnaryKind enumerates unary operator kinds.
type UnaryKind uint8

const (
	// UnaryRef is a borrow: &x, &mut x, &'a x.
	UnaryRef UnaryKind = iota
	// UnaryDeref is *x.
	UnaryDeref
	UnaryNot
	UnaryNeg
	// UnaryTry is the postfix x?.
	UnaryTry
)

// UnaryOp is a unary operator. Mutable and Lifetime only apply to UnaryRef;
// a zero Lifetime means none was written.
type UnaryOp struct {
	Kind     UnaryKind
	Mutable  bool
	Lifetime source.Symbol
}

// Ref builds a reference operator.
func Ref(mutable bool, lifetime source.Symbol) UnaryOp {
	return UnaryOp{Kind: UnaryRef, Mutable: mutable, Lifetime: lifetime}
}

// String returns the operator as written in source.
func (op UnaryOp) String() string {
	switch op.Kind {
	case UnaryRef:
		var b strings.Builder
		b.WriteByte('&')
		if op.Lifetime.IsValid() {
			b.WriteString("'" + op.Lifetime.Ident() + " ")
		}
		if op.Mutable {
			b.WriteString("mut ")
		}
		return b.String()
	case UnaryDeref:
		return "*"
	case UnaryNot:
		return "!"
	case UnaryNeg:
		return "-"
	case UnaryTry:
		return "?"
	default:
		return "?"
	}
}

// GoString is the debug form: Ref { mutable: true, lifetime: Some(Symbol("a")) }, Star, Not...
func (op UnaryOp) GoString() string {
	switch op.Kind {
	case UnaryRef:
		lt := "None"
		if op.Lifetime.IsValid() {
			lt = fmt.Sprintf("Some(%#v)", op.Lifetime)
		}
		return fmt.Sprintf("Ref { mutable: %t, lifetime: %s }", op.Mutable, lt)
	case UnaryDeref:
		return "Star"
	case UnaryNot:
		return "Not"
	case UnaryNeg:
		return "Neg"
	case UnaryTry:
		return "Try"
	default:
		return fmt.Sprintf("UnaryOp(%d)", uint8(op.Kind))
	}
}

// NumKind is the family of a numeric literal suffix.
type NumKind uint8

const (
	// NumNone means no suffix was written.
	NumNone NumKind = iota
	NumSigned
	NumUnsigned
	NumFloat
)

// NumTy is a numeric literal suffix such as i32, u8 or f64.
type NumTy struct {
	Kind NumKind
	Bits uint16
}

// IsValid reports whether a suffix is present.
func (t NumTy) IsValid() bool { return t.Kind != NumNone }

func (t NumTy) String() string {
	switch t.Kind {
	case NumSigned:
		return fmt.Sprintf("i%d", t.Bits)
	case NumUnsigned:
		return fmt.Sprintf("u%d", t.Bits)
	case NumFloat:
		return fmt.Sprintf("f%d", t.Bits)
	default:
		return ""
	}
}

func (t NumTy) GoString() string {
	switch t.Kind {
	case NumSigned:
		return fmt.Sprintf("Signed(%d)", t.Bits)
	case NumUnsigned:
		return fmt.Sprintf("Unsigned(%d)", t.Bits)
	case NumFloat:
		return fmt.Sprintf("Float(%d)", t.Bits)
	default:
		return "None"
	}
}
