package ast

import (
	"dust/internal/source"
)

// TypeKind enumerates type expression shapes.
type TypeKind uint8

const (
	// TypePath is a possibly root-absolute path: a::b, ::std::int.
	TypePath TypeKind = iota
	// TypeTuple is (T, U); the empty tuple is the unit type.
	TypeTuple
)

// Type is a type expression node. Payload indexes the per-kind arena.
type Type struct {
	Kind    TypeKind
	Payload PayloadID
}

type TypePathData struct {
	Abs      bool
	Segments []source.Spanned[source.Symbol]
}

type TypeTupleData struct {
	Elems []TypeID
}

// Types manages allocation of type expressions.
type Types struct {
	Arena  *Arena[source.Spanned[Type]]
	Paths  *Arena[TypePathData]
	Tuples *Arena[TypeTupleData]
}

func NewTypes(capHint uint) *Types {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Types{
		Arena:  NewArena[source.Spanned[Type]](capHint),
		Paths:  NewArena[TypePathData](capHint),
		Tuples: NewArena[TypeTupleData](capHint),
	}
}

func (t *Types) new(kind TypeKind, span source.Span, payload uint32) TypeID {
	return TypeID(t.Arena.Allocate(source.On(span, Type{Kind: kind, Payload: PayloadID(payload)})))
}

// Get returns the spanned type node, or nil for NoTypeID.
func (t *Types) Get(id TypeID) *source.Spanned[Type] {
	return t.Arena.Get(uint32(id))
}

// NewPath creates a path type.
func (t *Types) NewPath(span source.Span, abs bool, segments []source.Spanned[source.Symbol]) TypeID {
	payload := t.Paths.Allocate(TypePathData{
		Abs:      abs,
		Segments: append([]source.Spanned[source.Symbol](nil), segments...),
	})
	return t.new(TypePath, span, payload)
}

// Path returns the path data for the given type ID.
func (t *Types) Path(id TypeID) (*TypePathData, bool) {
	typ := t.Get(id)
	if typ == nil || typ.Node.Kind != TypePath {
		return nil, false
	}
	return t.Paths.Get(uint32(typ.Node.Payload)), true
}

// NewTuple creates a tuple type.
func (t *Types) NewTuple(span source.Span, elems []TypeID) TypeID {
	payload := t.Tuples.Allocate(TypeTupleData{Elems: append([]TypeID(nil), elems...)})
	return t.new(TypeTuple, span, payload)
}

// NewUnit creates the unit type, an empty tuple.
func (t *Types) NewUnit(span source.Span) TypeID {
	return t.NewTuple(span, nil)
}

// Tuple returns the tuple data for the given type ID.
func (t *Types) Tuple(id TypeID) (*TypeTupleData, bool) {
	typ := t.Get(id)
	if typ == nil || typ.Node.Kind != TypeTuple {
		return nil, false
	}
	return t.Tuples.Get(uint32(typ.Node.Payload)), true
}

// IsUnit reports whether id is the empty tuple.
func (t *Types) IsUnit(id TypeID) bool {
	tup, ok := t.Tuple(id)
	return ok && len(tup.Elems) == 0
}
