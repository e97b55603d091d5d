package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/lexer"
	"dust/internal/source"
)

type parsed struct {
	b    *ast.Builder
	root ast.ExprID
	bag  *diag.Bag
	file *source.File
	res  Result
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	return parseWith(t, src, Options{})
}

func parseWith(t *testing.T, src string, opts Options) parsed {
	t.Helper()
	sess := source.NewSession()
	fs := source.NewFileSet(sess)
	file := fs.Get(fs.AddVirtual("test.dust", []byte(src)))
	require.NotNil(t, file)

	bag := diag.NewBag(0)
	rep := &diag.BagReporter{Bag: bag}
	opts.Reporter = rep
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	res := ParseFile(lx, b, opts)
	return parsed{b: b, root: res.Root, bag: bag, file: file, res: res}
}

// exprs возвращает выражения верхнего уровня
func (pr parsed) exprs(t *testing.T) []ast.ExprID {
	t.Helper()
	blk, ok := pr.b.Exprs.Block(pr.root)
	require.True(t, ok, "root must be a block")
	return blk.Exprs
}

// single парсит ровно одно выражение без диагностик и возвращает его s-выражение
func single(t *testing.T, src string) string {
	t.Helper()
	pr := parseSource(t, src)
	require.Zero(t, pr.bag.Len(), "unexpected diagnostics: %s", diagnosticsSummary(pr.bag))
	exprs := pr.exprs(t)
	require.Len(t, exprs, 1)
	return sexpr(pr.b, exprs[0])
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func sexpr(b *ast.Builder, id ast.ExprID) string {
	node := b.Exprs.Get(id)
	if node == nil {
		return "<nil>"
	}
	switch node.Node.Kind {
	case ast.ExprIdent:
		d, _ := b.Exprs.Ident(id)
		return d.Name.Ident()
	case ast.ExprNum:
		d, _ := b.Exprs.Num(id)
		return d.Value.Ident() + d.Ty.String()
	case ast.ExprGuard:
		d, _ := b.Exprs.Guard(id)
		return fmt.Sprintf("(is %s %s)", sexpr(b, d.Value), spat(b, d.Pattern))
	case ast.ExprMember:
		d, _ := b.Exprs.Member(id)
		parts := []string{".", sexpr(b, d.Target)}
		for _, f := range d.Fields {
			parts = append(parts, f.Node.Ident())
		}
		return "(" + strings.Join(parts, " ") + ")"
	case ast.ExprCall:
		d, _ := b.Exprs.Call(id)
		parts := []string{"call", sexpr(b, d.Callee)}
		for _, a := range d.Args {
			parts = append(parts, sexpr(b, a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case ast.ExprBinop:
		d, _ := b.Exprs.Binop(id)
		return fmt.Sprintf("(%s %s %s)", d.Op, sexpr(b, d.Left), sexpr(b, d.Right))
	case ast.ExprUnop:
		d, _ := b.Exprs.Unop(id)
		return fmt.Sprintf("(%s %s)", strings.TrimSpace(d.Op.String()), sexpr(b, d.Operand))
	case ast.ExprBlock:
		d, _ := b.Exprs.Block(id)
		parts := make([]string, len(d.Exprs))
		for i, e := range d.Exprs {
			parts[i] = sexpr(b, e)
		}
		return "{" + strings.Join(parts, "; ") + "}"
	case ast.ExprUnit:
		return "()"
	}
	return "?"
}

func spat(b *ast.Builder, id ast.PatternID) string {
	node := b.Patterns.Get(id)
	if node == nil {
		return "<nil>"
	}
	switch node.Node.Kind {
	case ast.PatternTrue:
		return "true"
	case ast.PatternLot:
		d, _ := b.Patterns.Lot(id)
		var s string
		if d.HasLabel() {
			s = "$" + d.Label.Node.Ident()
		}
		if d.Type.IsValid() {
			if s != "" {
				s += ":"
			}
			s += stype(b, d.Type)
		}
		return s
	case ast.PatternOr, ast.PatternAnd:
		d, _ := b.Patterns.List(id)
		op := "|"
		if node.Node.Kind == ast.PatternAnd {
			op = "&"
		}
		parts := []string{op}
		for _, it := range d.Items {
			parts = append(parts, spat(b, it))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "?"
}

func stype(b *ast.Builder, id ast.TypeID) string {
	if path, ok := b.Types.Path(id); ok {
		segs := make([]string, len(path.Segments))
		for i, s := range path.Segments {
			segs[i] = s.Node.Ident()
		}
		prefix := ""
		if path.Abs {
			prefix = "::"
		}
		return prefix + strings.Join(segs, "::")
	}
	if tup, ok := b.Types.Tuple(id); ok {
		elems := make([]string, len(tup.Elems))
		for i, e := range tup.Elems {
			elems[i] = stype(b, e)
		}
		return "(" + strings.Join(elems, ", ") + ")"
	}
	return "?"
}
