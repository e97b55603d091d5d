package ast

import (
	"dust/internal/source"
)

// PatternKind enumerates pattern shapes.
type PatternKind uint8

const (
	// PatternTrue always matches; `if` uses it as the guard pattern.
	PatternTrue PatternKind = iota
	// PatternLot is a "let or test" binding: `$label Ty`, either part optional.
	PatternLot
	// PatternOr matches if any alternative matches.
	PatternOr
	// PatternAnd matches if every part matches.
	PatternAnd
)

type Pattern struct {
	Kind    PatternKind
	Payload PayloadID
}

// PatternLotData: Label is zero-valued when absent, Type is NoTypeID when absent.
type PatternLotData struct {
	Label source.Spanned[source.Symbol]
	Type  TypeID
}

// HasLabel reports whether a $label was written.
func (d *PatternLotData) HasLabel() bool { return d.Label.Node.IsValid() }

type PatternListData struct {
	Items []PatternID
}

// Patterns manages allocation of patterns.
type Patterns struct {
	Arena *Arena[source.Spanned[Pattern]]
	Lots  *Arena[PatternLotData]
	Lists *Arena[PatternListData]
}

func NewPatterns(capHint uint) *Patterns {
	if capHint == 0 {
		capHint = 1 << 5
	}
	return &Patterns{
		Arena: NewArena[source.Spanned[Pattern]](capHint),
		Lots:  NewArena[PatternLotData](capHint),
		Lists: NewArena[PatternListData](capHint),
	}
}

func (p *Patterns) new(kind PatternKind, span source.Span, payload uint32) PatternID {
	return PatternID(p.Arena.Allocate(source.On(span, Pattern{Kind: kind, Payload: PayloadID(payload)})))
}

func (p *Patterns) Get(id PatternID) *source.Spanned[Pattern] {
	return p.Arena.Get(uint32(id))
}

// NewTrue creates the always-matching pattern.
func (p *Patterns) NewTrue(span source.Span) PatternID {
	return p.new(PatternTrue, span, uint32(NoPayloadID))
}

// NewLot creates a binding pattern; pass a zero label or NoTypeID to omit a part.
func (p *Patterns) NewLot(span source.Span, label source.Spanned[source.Symbol], typ TypeID) PatternID {
	payload := p.Lots.Allocate(PatternLotData{Label: label, Type: typ})
	return p.new(PatternLot, span, payload)
}

// Lot returns the binding data for the given pattern ID.
func (p *Patterns) Lot(id PatternID) (*PatternLotData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Node.Kind != PatternLot {
		return nil, false
	}
	return p.Lots.Get(uint32(pat.Node.Payload)), true
}

// NewOr creates an alternation.
func (p *Patterns) NewOr(span source.Span, alts []PatternID) PatternID {
	payload := p.Lists.Allocate(PatternListData{Items: append([]PatternID(nil), alts...)})
	return p.new(PatternOr, span, payload)
}

// NewAnd creates a conjunction.
func (p *Patterns) NewAnd(span source.Span, parts []PatternID) PatternID {
	payload := p.Lists.Allocate(PatternListData{Items: append([]PatternID(nil), parts...)})
	return p.new(PatternAnd, span, payload)
}

// List returns the sub-patterns of an Or/And pattern.
func (p *Patterns) List(id PatternID) (*PatternListData, bool) {
	pat := p.Get(id)
	if pat == nil || (pat.Node.Kind != PatternOr && pat.Node.Kind != PatternAnd) {
		return nil, false
	}
	return p.Lists.Get(uint32(pat.Node.Payload)), true
}
