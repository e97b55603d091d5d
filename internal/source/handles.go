package source

import (
	"fmt"
	"strconv"
)

// SourceFile is a handle to an interned file path.
// Two SourceFiles are equal iff they name the same path in the same session.
// The zero value means "no file".
type SourceFile struct {
	sess *Session
	id   uint32
}

// IsValid reports whether f was produced by a session.
func (f SourceFile) IsValid() bool { return f.sess != nil }

// Session returns the owning session (nil for the zero value).
func (f SourceFile) Session() *Session { return f.sess }

// Index returns the raw handle inside the owning session.
func (f SourceFile) Index() uint32 { return f.id }

// Path resolves the handle back to its normalized path.
func (f SourceFile) Path() string {
	if f.sess == nil {
		panic("source: Path on zero SourceFile")
	}
	return f.sess.files.Resolve(f.id)
}

// String renders the file as its path.
func (f SourceFile) String() string {
	if f.sess == nil {
		return "<no file>"
	}
	return f.Path()
}

// GoString is the debug form used by %#v.
func (f SourceFile) GoString() string {
	if f.sess == nil {
		return "SourceFile { <none> }"
	}
	return fmt.Sprintf("SourceFile { %s }", strconv.Quote(f.Path()))
}

// Symbol is a handle to an interned identifier, label, lifetime or literal text.
// The zero value means "no symbol".
type Symbol struct {
	sess *Session
	id   uint32
}

func (s Symbol) IsValid() bool { return s.sess != nil }

func (s Symbol) Session() *Session { return s.sess }

func (s Symbol) Index() uint32 { return s.id }

// Ident resolves the symbol to its text.
func (s Symbol) Ident() string {
	if s.sess == nil {
		panic("source: Ident on zero Symbol")
	}
	return s.sess.symbols.Resolve(s.id)
}

// String renders the symbol as its text.
func (s Symbol) String() string {
	if s.sess == nil {
		return ""
	}
	return s.Ident()
}

func (s Symbol) GoString() string {
	if s.sess == nil {
		return "Symbol(<none>)"
	}
	return fmt.Sprintf("Symbol(%s)", strconv.Quote(s.Ident()))
}

// Owns reports whether the handle belongs to s.
func (s *Session) Owns(h interface{ Session() *Session }) bool {
	return h.Session() == s
}

// sameSession panics when a and b come from different non-nil sessions.
func sameSession(what string, a, b *Session) {
	if a != nil && b != nil && a != b {
		panic(fmt.Sprintf("source: %s from different sessions (#%d and #%d)", what, a.id, b.id))
	}
}
