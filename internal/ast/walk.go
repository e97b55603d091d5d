package ast

// NodeRef names one node of any arena. Exactly one of the IDs is set.
type NodeRef struct {
	Expr    ExprID
	Type    TypeID
	Pattern PatternID
}

// Walk visits the tree under root in pre-order. Returning false from fn skips
// the children of that node.
func (b *Builder) Walk(root NodeRef, fn func(NodeRef) bool) {
	switch {
	case root.Expr.IsValid():
		b.walkExpr(root.Expr, fn)
	case root.Type.IsValid():
		b.walkType(root.Type, fn)
	case root.Pattern.IsValid():
		b.walkPattern(root.Pattern, fn)
	}
}

func (b *Builder) walkExpr(id ExprID, fn func(NodeRef) bool) {
	if !id.IsValid() || !fn(NodeRef{Expr: id}) {
		return
	}
	kind, _ := b.Exprs.Kind(id)
	switch kind {
	case ExprGuard:
		g, _ := b.Exprs.Guard(id)
		b.walkExpr(g.Value, fn)
		b.walkPattern(g.Pattern, fn)
	case ExprMember:
		m, _ := b.Exprs.Member(id)
		b.walkExpr(m.Target, fn)
	case ExprCall:
		c, _ := b.Exprs.Call(id)
		b.walkExpr(c.Callee, fn)
		for _, arg := range c.Args {
			b.walkExpr(arg, fn)
		}
	case ExprBinop:
		bin, _ := b.Exprs.Binop(id)
		b.walkExpr(bin.Left, fn)
		b.walkExpr(bin.Right, fn)
	case ExprUnop:
		un, _ := b.Exprs.Unop(id)
		b.walkExpr(un.Operand, fn)
	case ExprBlock:
		blk, _ := b.Exprs.Block(id)
		for _, e := range blk.Exprs {
			b.walkExpr(e, fn)
		}
	}
}

func (b *Builder) walkType(id TypeID, fn func(NodeRef) bool) {
	if !id.IsValid() || !fn(NodeRef{Type: id}) {
		return
	}
	if tup, ok := b.Types.Tuple(id); ok {
		for _, elem := range tup.Elems {
			b.walkType(elem, fn)
		}
	}
}

func (b *Builder) walkPattern(id PatternID, fn func(NodeRef) bool) {
	if !id.IsValid() || !fn(NodeRef{Pattern: id}) {
		return
	}
	if lot, ok := b.Patterns.Lot(id); ok {
		b.walkType(lot.Type, fn)
		return
	}
	if list, ok := b.Patterns.List(id); ok {
		for _, item := range list.Items {
			b.walkPattern(item, fn)
		}
	}
}
