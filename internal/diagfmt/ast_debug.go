package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"dust/internal/ast"
)

// FormatExprDebug пишет выражение в однострочном debug-виде:
//
//	Binop { left: Ident(Symbol("a")), op: Add, right: Num { value: Symbol("1"), ty: None } }
//
// Span'ы не печатаются, только узлы.
func FormatExprDebug(w io.Writer, b *ast.Builder, id ast.ExprID) error {
	_, err := io.WriteString(w, ExprDebugString(b, id))
	return err
}

// ExprDebugString is FormatExprDebug into a string.
func ExprDebugString(b *ast.Builder, id ast.ExprID) string {
	p := debugPrinter{b: b}
	p.expr(id)
	return p.sb.String()
}

type debugPrinter struct {
	b  *ast.Builder
	sb strings.Builder
}

func (p *debugPrinter) printf(format string, args ...any) {
	fmt.Fprintf(&p.sb, format, args...)
}

func (p *debugPrinter) expr(id ast.ExprID) {
	node := p.b.Exprs.Get(id)
	if node == nil {
		p.sb.WriteString("<nil>")
		return
	}
	switch node.Node.Kind {
	case ast.ExprIdent:
		d, _ := p.b.Exprs.Ident(id)
		p.printf("Ident(%#v)", d.Name)
	case ast.ExprNum:
		d, _ := p.b.Exprs.Num(id)
		ty := "None"
		if d.Ty.IsValid() {
			ty = fmt.Sprintf("Some(%#v)", d.Ty)
		}
		p.printf("Num { value: %#v, ty: %s }", d.Value, ty)
	case ast.ExprGuard:
		d, _ := p.b.Exprs.Guard(id)
		p.sb.WriteString("Guard { val: ")
		p.expr(d.Value)
		p.sb.WriteString(", pat: ")
		p.pattern(d.Pattern)
		p.sb.WriteString(" }")
	case ast.ExprMember:
		d, _ := p.b.Exprs.Member(id)
		p.sb.WriteString("Member { on: ")
		p.expr(d.Target)
		p.sb.WriteString(", names: [")
		for i, f := range d.Fields {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printf("%#v", f)
		}
		p.sb.WriteString("] }")
	case ast.ExprCall:
		d, _ := p.b.Exprs.Call(id)
		p.sb.WriteString("Call { callee: ")
		p.expr(d.Callee)
		p.sb.WriteString(", args: ")
		p.exprList(d.Args)
		p.sb.WriteString(" }")
	case ast.ExprBinop:
		d, _ := p.b.Exprs.Binop(id)
		p.sb.WriteString("Binop { left: ")
		p.expr(d.Left)
		p.printf(", op: %s, right: ", d.Op.Name())
		p.expr(d.Right)
		p.sb.WriteString(" }")
	case ast.ExprUnop:
		d, _ := p.b.Exprs.Unop(id)
		p.printf("Unop { op: %#v, right: ", d.Op)
		p.expr(d.Operand)
		p.sb.WriteString(" }")
	case ast.ExprBlock:
		d, _ := p.b.Exprs.Block(id)
		p.sb.WriteString("Block(")
		p.exprList(d.Exprs)
		p.sb.WriteString(")")
	case ast.ExprUnit:
		p.sb.WriteString("Unit")
	default:
		p.printf("%s", node.Node.Kind)
	}
}

func (p *debugPrinter) exprList(ids []ast.ExprID) {
	p.sb.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.expr(id)
	}
	p.sb.WriteByte(']')
}

func (p *debugPrinter) pattern(id ast.PatternID) {
	node := p.b.Patterns.Get(id)
	if node == nil {
		p.sb.WriteString("<nil>")
		return
	}
	switch node.Node.Kind {
	case ast.PatternTrue:
		p.sb.WriteString("True")
	case ast.PatternLot:
		d, _ := p.b.Patterns.Lot(id)
		p.sb.WriteString("Lot { label: ")
		if d.HasLabel() {
			p.printf("Some(%#v)", d.Label)
		} else {
			p.sb.WriteString("None")
		}
		p.sb.WriteString(", ty: ")
		if d.Type.IsValid() {
			p.sb.WriteString("Some(")
			p.typ(d.Type)
			p.sb.WriteString(")")
		} else {
			p.sb.WriteString("None")
		}
		p.sb.WriteString(" }")
	case ast.PatternOr, ast.PatternAnd:
		d, _ := p.b.Patterns.List(id)
		if node.Node.Kind == ast.PatternOr {
			p.sb.WriteString("Or([")
		} else {
			p.sb.WriteString("And([")
		}
		for i, it := range d.Items {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.pattern(it)
		}
		p.sb.WriteString("])")
	}
}

func (p *debugPrinter) typ(id ast.TypeID) {
	if path, ok := p.b.Types.Path(id); ok {
		p.printf("Path { abs: %t, path: [", path.Abs)
		for i, seg := range path.Segments {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printf("%#v", seg)
		}
		p.sb.WriteString("] }")
		return
	}
	if tup, ok := p.b.Types.Tuple(id); ok {
		p.sb.WriteString("Tuple([")
		for i, e := range tup.Elems {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.typ(e)
		}
		p.sb.WriteString("])")
		return
	}
	p.sb.WriteString("<nil>")
}
