// Package token defines lexical token kinds and trivia for the dust front end.
// Invariants:
//   - Token.Text is a slice of the original source (no copies, no normalization).
//   - Token.Span matches Text exactly (Start..End).
//   - Token.Sym carries the interned, NFC-normalized identifier for Ident,
//     Lifetime and Label tokens, and the literal text (without suffix) for Number.
//   - Lifetimes ('a) and labels ($x) are single tokens; the sigil is not part of Sym.
//   - Comments and whitespace are leading Trivia and never appear in the token stream.
package token
