package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"dust/internal/ast"
	"dust/internal/source"
)

// CheckTree validates a parsed tree rooted at root:
// 1) root span belongs to sf and stays inside its content
// 2) every child span is non-inverted, in the same file, inside its parent's span
// 3) every node has exactly one parent
func CheckTree(b *ast.Builder, root ast.ExprID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	rootNode := b.Exprs.Get(root)
	if rootNode == nil {
		return fmt.Errorf("root expr %d not found", root)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if rootNode.Span.File != sf.ID {
		return fmt.Errorf("root span points to %s, want %s", rootNode.Span.File, sf.ID)
	}
	if rootNode.Span.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", rootNode.Span.End, lenContent)
	}

	c := checker{b: b, seen: make(map[ast.NodeRef]bool)}
	c.check(ast.NodeRef{Expr: root}, rootNode.Span)
	return c.err
}

type checker struct {
	b    *ast.Builder
	seen map[ast.NodeRef]bool
	err  error
}

func (c *checker) check(ref ast.NodeRef, parent source.Span) {
	if c.err != nil {
		return
	}
	if c.seen[ref] {
		c.err = fmt.Errorf("node %+v has more than one parent", ref)
		return
	}
	c.seen[ref] = true

	sp := SpanOf(c.b, ref)
	switch {
	case sp.Start > sp.End:
		c.err = fmt.Errorf("inverted span %s on %+v", sp, ref)
	case sp.File != parent.File:
		c.err = fmt.Errorf("span %s of %+v is in another file than its parent %s", sp, ref, parent)
	case sp.Start < parent.Start || sp.End > parent.End:
		c.err = fmt.Errorf("span %s of %+v escapes parent %s", sp, ref, parent)
	}
	if c.err != nil {
		return
	}
	for _, child := range Children(c.b, ref) {
		c.check(child, sp)
	}
}

// SpanOf returns the span of any node kind.
func SpanOf(b *ast.Builder, ref ast.NodeRef) source.Span {
	switch {
	case ref.Expr.IsValid():
		return b.Exprs.Span(ref.Expr)
	case ref.Type.IsValid():
		if t := b.Types.Get(ref.Type); t != nil {
			return t.Span
		}
	case ref.Pattern.IsValid():
		if p := b.Patterns.Get(ref.Pattern); p != nil {
			return p.Span
		}
	}
	return source.Span{}
}

// Children lists the direct children of ref in source order.
func Children(b *ast.Builder, ref ast.NodeRef) []ast.NodeRef {
	var out []ast.NodeRef
	b.Walk(ref, func(n ast.NodeRef) bool {
		if n == ref {
			return true
		}
		out = append(out, n)
		return false
	})
	return out
}
