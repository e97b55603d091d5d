package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"dust/internal/ast"
	"dust/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// FormatExprTree печатает дерево с отступами ├─ / └─, у каждого узла span.
// fs может быть nil, тогда span печатается в байтах.
func FormatExprTree(w io.Writer, b *ast.Builder, id ast.ExprID, fs *source.FileSet) error {
	root := buildExprTreeNode(b, id, fs, true)
	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	writeIndented(&sb, root, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatExprGraph рисует то же дерево ASCII-графом (без span'ов).
func FormatExprGraph(w io.Writer, b *ast.Builder, id ast.ExprID) error {
	block := renderTree(buildExprTreeNode(b, id, nil, false))
	var sb strings.Builder
	for _, line := range block.lines {
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeIndented(sb *strings.Builder, node *treeNode, prefix string) {
	for i, child := range node.children {
		branch, next := "├─ ", "│  "
		if i == len(node.children)-1 {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix + branch + child.label + "\n")
		writeIndented(sb, child, prefix+next)
	}
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && span.File.IsValid() && fs.Session().Owns(span.File) && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

type treeBuilder struct {
	b         *ast.Builder
	fs        *source.FileSet
	withSpans bool
}

func buildExprTreeNode(b *ast.Builder, id ast.ExprID, fs *source.FileSet, withSpans bool) *treeNode {
	tb := treeBuilder{b: b, fs: fs, withSpans: withSpans}
	return tb.expr(id)
}

func (tb *treeBuilder) label(text string, span source.Span) string {
	if !tb.withSpans {
		return text
	}
	return fmt.Sprintf("%s (span: %s)", text, formatSpan(span, tb.fs))
}

func (tb *treeBuilder) expr(id ast.ExprID) *treeNode {
	node := tb.b.Exprs.Get(id)
	if node == nil {
		return &treeNode{label: fmt.Sprintf("Expr[%d]: <nil>", id)}
	}
	span := node.Span
	switch node.Node.Kind {
	case ast.ExprIdent:
		d, _ := tb.b.Exprs.Ident(id)
		return &treeNode{label: tb.label("Ident "+d.Name.String(), span)}
	case ast.ExprNum:
		d, _ := tb.b.Exprs.Num(id)
		return &treeNode{label: tb.label("Num "+d.Value.String()+d.Ty.String(), span)}
	case ast.ExprGuard:
		d, _ := tb.b.Exprs.Guard(id)
		return &treeNode{
			label:    tb.label("Guard", span),
			children: []*treeNode{tb.expr(d.Value), tb.pattern(d.Pattern)},
		}
	case ast.ExprMember:
		d, _ := tb.b.Exprs.Member(id)
		var names strings.Builder
		for _, f := range d.Fields {
			names.WriteString("." + f.Node.String())
		}
		return &treeNode{
			label:    tb.label("Member "+names.String(), span),
			children: []*treeNode{tb.expr(d.Target)},
		}
	case ast.ExprCall:
		d, _ := tb.b.Exprs.Call(id)
		out := &treeNode{
			label:    tb.label(fmt.Sprintf("Call (%d args)", len(d.Args)), span),
			children: []*treeNode{tb.expr(d.Callee)},
		}
		for _, arg := range d.Args {
			out.children = append(out.children, tb.expr(arg))
		}
		return out
	case ast.ExprBinop:
		d, _ := tb.b.Exprs.Binop(id)
		return &treeNode{
			label:    tb.label("Binop "+d.Op.String(), span),
			children: []*treeNode{tb.expr(d.Left), tb.expr(d.Right)},
		}
	case ast.ExprUnop:
		d, _ := tb.b.Exprs.Unop(id)
		return &treeNode{
			label:    tb.label("Unop "+strings.TrimSpace(d.Op.String()), span),
			children: []*treeNode{tb.expr(d.Operand)},
		}
	case ast.ExprBlock:
		d, _ := tb.b.Exprs.Block(id)
		out := &treeNode{label: tb.label("Block", span)}
		for _, e := range d.Exprs {
			out.children = append(out.children, tb.expr(e))
		}
		return out
	default:
		return &treeNode{label: tb.label(node.Node.Kind.String(), span)}
	}
}

func (tb *treeBuilder) pattern(id ast.PatternID) *treeNode {
	node := tb.b.Patterns.Get(id)
	if node == nil {
		return &treeNode{label: fmt.Sprintf("Pattern[%d]: <nil>", id)}
	}
	span := node.Span
	switch node.Node.Kind {
	case ast.PatternTrue:
		return &treeNode{label: tb.label("True", span)}
	case ast.PatternLot:
		d, _ := tb.b.Patterns.Lot(id)
		var parts []string
		if d.HasLabel() {
			parts = append(parts, "$"+d.Label.Node.String())
		}
		if d.Type.IsValid() {
			parts = append(parts, formatTypeInline(tb.b, d.Type))
		}
		return &treeNode{label: tb.label("Lot "+strings.Join(parts, ": "), span)}
	default:
		d, _ := tb.b.Patterns.List(id)
		name := "Or"
		if node.Node.Kind == ast.PatternAnd {
			name = "And"
		}
		out := &treeNode{label: tb.label(name, span)}
		for _, it := range d.Items {
			out.children = append(out.children, tb.pattern(it))
		}
		return out
	}
}

// formatTypeInline: ::a::b, (A, B), ()
func formatTypeInline(b *ast.Builder, id ast.TypeID) string {
	if path, ok := b.Types.Path(id); ok {
		segs := make([]string, len(path.Segments))
		for i, s := range path.Segments {
			segs[i] = s.Node.String()
		}
		joined := strings.Join(segs, "::")
		if path.Abs {
			return "::" + joined
		}
		return joined
	}
	if tup, ok := b.Types.Tuple(id); ok {
		elems := make([]string, len(tup.Elems))
		for i, e := range tup.Elems {
			elems[i] = formatTypeInline(b, e)
		}
		if len(elems) == 1 {
			return "(" + elems[0] + ",)"
		}
		return "(" + strings.Join(elems, ", ") + ")"
	}
	return "<nil>"
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// renderTree converts a treeNode into a treeBlock containing an ASCII-art representation.
//
// Widths are display columns (runewidth), so non-ASCII identifiers keep the
// connectors aligned. root is the column of the node's vertical connector.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	shift := childrenCenter - labelWidth/2

	// корень шире детей: сдвигаем детей вправо
	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	}
	rootPos := shift + labelWidth/2
	width := max(totalWidth, shift+labelWidth, rootPos+1)

	rootLine := padRight(strings.Repeat(" ", shift)+label, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	lines := make([]string, 0, 2+maxChildHeight)
	lines = append(lines, rootLine, string(connector))
	for row := 0; row < maxChildHeight; row++ {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(padRight(line, block.width))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		lines = append(lines, padRight(sb.String(), width))
	}

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}
