package source

import "fmt"

// Spanned pairs a node with the span of text it came from.
type Spanned[T any] struct {
	Span Span
	Node T
}

// On wraps node with sp.
func On[T any](sp Span, node T) Spanned[T] {
	return Spanned[T]{Span: sp, Node: node}
}

// Map applies f to the node and keeps the span.
func Map[T, U any](sn Spanned[T], f func(T) U) Spanned[U] {
	return On(sn.Span, f(sn.Node))
}

// Replace swaps the node for another one at the same position.
func Replace[T, U any](sn Spanned[T], node U) Spanned[U] {
	return On(sn.Span, node)
}

// Pos returns the span.
func (sn Spanned[T]) Pos() Span { return sn.Span }

// Value returns the node.
func (sn Spanned[T]) Value() T { return sn.Node }

// String renders only the node; positions are noise in debug output.
func (sn Spanned[T]) String() string {
	return fmt.Sprint(sn.Node)
}

func (sn Spanned[T]) GoString() string {
	return fmt.Sprintf("%#v", sn.Node)
}
