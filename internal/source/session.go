package source

import (
	"sync"
	"sync/atomic"
)

var sessionSeq atomic.Uint32

// Session owns the interning tables of one compilation.
// Handles produced by a session are only meaningful relative to it; mixing
// handles of two sessions panics instead of silently aliasing.
type Session struct {
	id      uint32
	files   *Table[string]
	symbols *Table[string]
}

// NewSession creates a session with empty file and symbol tables.
func NewSession() *Session {
	return &Session{
		id:      sessionSeq.Add(1),
		files:   NewTable[string]("file table"),
		symbols: NewTable[string]("symbol table"),
	}
}

var (
	defaultOnce    sync.Once
	defaultSession *Session
)

// Default returns the process-wide session used by the command line driver.
// Library code should take an explicit *Session instead.
func Default() *Session {
	defaultOnce.Do(func() {
		defaultSession = NewSession()
	})
	return defaultSession
}

// ID returns the session number, unique within the process.
func (s *Session) ID() uint32 {
	return s.id
}

// File interns path and returns its handle. Paths are normalized first, so
// "./a.dust" and "a.dust" name the same file.
func (s *Session) File(path string) SourceFile {
	return SourceFile{sess: s, id: s.files.Intern(normalizePath(path))}
}

// Symbol interns text and returns its handle.
func (s *Session) Symbol(text string) Symbol {
	return Symbol{sess: s, id: s.symbols.Intern(text)}
}

// ParseSymbol is the text-parsing constructor for Symbol. Every string is a
// valid symbol, so the error is always nil; it exists so Symbol fits parsing
// paths shaped like strconv.
func (s *Session) ParseSymbol(text string) (Symbol, error) {
	return s.Symbol(text), nil
}

// FileSpan returns the span covering a whole file of n bytes, interning path.
func (s *Session) FileSpan(path string, n int) Span {
	return Span{File: s.File(path), Start: 0, End: mustU32(n, "file length")}
}

// Stats reports table sizes.
type Stats struct {
	Files   int
	Symbols int
}

func (s *Session) Stats() Stats {
	return Stats{Files: s.files.Len(), Symbols: s.symbols.Len()}
}

// Files returns a copy of all interned paths in handle order.
func (s *Session) Files() []string {
	return s.files.Snapshot()
}

// Symbols returns a copy of all interned symbols in handle order.
func (s *Session) Symbols() []string {
	return s.symbols.Snapshot()
}

// MustParse unwraps a (value, error) pair from a text-parsing constructor and
// panics on error. Intended for literals the lexer already validated.
func MustParse[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
