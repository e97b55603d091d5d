package source

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ErrCrossFile is returned by TryUnion for spans of different files.
var ErrCrossFile = errors.New("spans belong to different files")

// Span is a half-open byte range [Start, End) inside File.
type Span struct {
	File  SourceFile
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start >= s.End
}

func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Contains reports whether off lies inside [Start, End).
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// String renders the span as path:start..end.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d..%d", s.File, s.Start, s.End)
}

func (s Span) GoString() string {
	return fmt.Sprintf("Span { source: %#v, start: %d, end: %d }", s.File, s.Start, s.End)
}

// Within returns the sub-range [start, end) measured from s.Start.
// The end is clamped to s.End; a start past the clamped end yields the empty
// span at the clamped end rather than an inverted range.
func (s Span) Within(start, end uint32) Span {
	// сначала режем относительные смещения, потом сдвигаем: сумма может переполнить uint32
	width := s.Len()
	end = min(end, width)
	start = min(start, end)
	return Span{File: s.File, Start: s.Start + start, End: s.Start + end}
}

// Union returns the smallest span covering both s and other.
// Both spans must belong to the same file; anything else is a caller bug and panics.
func (s Span) Union(other Span) Span {
	u, err := s.TryUnion(other)
	if err != nil {
		panic(err)
	}
	return u
}

// TryUnion is Union reporting ErrCrossFile instead of panicking.
func (s Span) TryUnion(other Span) (Span, error) {
	if s.File != other.File {
		return Span{}, fmt.Errorf("%w: %s and %s", ErrCrossFile, s, other)
	}
	return Span{
		File:  s.File,
		Start: min(s.Start, other.Start),
		End:   max(s.End, other.End),
	}, nil
}

// ShiftRight moves both offsets n bytes forward.
func (s Span) ShiftRight(n uint32) Span {
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}

func mustU32(n int, what string) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s overflow: %w", what, err))
	}
	return v
}
