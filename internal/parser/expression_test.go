package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/source"
	"dust/internal/testkit"
)

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a", "a"},
		{"42", "42"},
		{"7u8", "7u8"},
		{"2.5f64", "2.5f64"},
		{"()", "()"},
		{"(a)", "a"},
		{"a + b * c", "(+ a (* b c))"},
		{"(a + b) * c", "(* (+ a b) c)"},
		{"a - b - c", "(- (- a b) c)"},
		{"a = b = c", "(= a (= b c))"},
		{"a << 1 | b & c ^ d", "(| (<< a 1) (^ (& b c) d))"},
		{"a < b == c >= d", "(== (< a b) (>= c d))"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a % b / c", "(/ (% a b) c)"},
		{"x != y", "(!= x y)"},
		{"c then a else b", "(else (then c a) b)"},
		{"-a", "(- a)"},
		{"!*a", "(! (* a))"},
		{"&a", "(& a)"},
		{"&mut a", "(&mut a)"},
		{"&'a b", "(&'a b)"},
		{"&'a mut b", "(&'a mut b)"},
		{"&&a", "(& (& a))"},
		{"a?", "(? a)"},
		{"-a?", "(- (? a))"},
		{"a.b", "(. a b)"},
		{"a.b.c", "(. a b c)"},
		{"f()", "(call f)"},
		{"f(a, b + 1)", "(call f a (+ b 1))"},
		{"f(a,)", "(call f a)"},
		{"a.b(c).d", "(. (call (. a b) c) d)"},
		{"f(x)?.y", "(. (? (call f x)) y)"},
		{"{}", "{}"},
		{"{a; b}", "{a; b}"},
		{"{a; b;}", "{a; b}"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, single(t, tt.src))
		})
	}
}

func TestParseGuardsAndPatterns(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x is true", "(is x true)"},
		{"x is $y", "(is x $y)"},
		{"x is T", "(is x T)"},
		{"x is $y T", "(is x $y:T)"},
		{"x is $y ::std::Int", "(is x $y:::std::Int)"},
		{"x is $p (A, B)", "(is x $p:(A, B))"},
		{"x is $u ()", "(is x $u:())"},
		{"x is ()", "(is x ())"},
		{"x is $t (A)", "(is x $t:A)"},
		{"x is $t (A,)", "(is x $t:(A))"},
		{"x is A | B", "(is x (| A B))"},
		{"x is A & $b | C", "(is x (| (& A $b) C))"},
		{"x is (A | B) & C", "(is x (& (| A B) C))"},
		{"x is $a then a else b", "(else (then (is x $a) a) b)"},
		{"a + b is T", "(is (+ a b) T)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, single(t, tt.src))
		})
	}
}

func TestParseIfDesugars(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"if c {a}", "(then (is c true) {a})"},
		{"if c {a} else {b}", "(else (then (is c true) {a}) {b})"},
		{"if c {a} else if d {b} else {e}", "(else (then (is c true) {a}) (else (then (is d true) {b}) {e}))"},
		{"if x is $y T {y}", "(then (is x $y:T) {y})"},
		{"if a < b {a; b} else {}", "(else (then (is (< a b) true) {a; b}) {})"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, single(t, tt.src))
		})
	}
}

func TestParseFileIsWholeFileBlock(t *testing.T) {
	src := "a;\n b + 1;\n\n// trailing\n"
	pr := parseSource(t, src)
	require.Zero(t, pr.bag.Len(), diagnosticsSummary(pr.bag))

	root := pr.b.Exprs.Get(pr.root)
	require.NotNil(t, root)
	assert.Equal(t, ast.ExprBlock, root.Node.Kind)
	assert.Equal(t, uint32(0), root.Span.Start)
	assert.Equal(t, uint32(len(src)), root.Span.End)
	assert.Equal(t, pr.file.ID, root.Span.File)
	assert.Len(t, pr.exprs(t), 2)

	require.NoError(t, testkit.CheckTree(pr.b, pr.root, pr.file))
}

func TestParseEmptyFile(t *testing.T) {
	pr := parseSource(t, "")
	assert.Empty(t, pr.exprs(t))
	assert.Zero(t, pr.bag.Len())
	assert.True(t, pr.b.Exprs.Span(pr.root).Empty())
}

func TestParseSpans(t *testing.T) {
	src := "foo.bar(1, x?) + -y"
	pr := parseSource(t, src)
	require.Zero(t, pr.bag.Len(), diagnosticsSummary(pr.bag))
	exprs := pr.exprs(t)
	require.Len(t, exprs, 1)

	text := func(id ast.ExprID) string {
		sp := pr.b.Exprs.Span(id)
		return src[sp.Start:sp.End]
	}
	add, ok := pr.b.Exprs.Binop(exprs[0])
	require.True(t, ok)
	assert.Equal(t, src, text(exprs[0]))
	assert.Equal(t, "foo.bar(1, x?)", text(add.Left))
	assert.Equal(t, "-y", text(add.Right))

	call, ok := pr.b.Exprs.Call(add.Left)
	require.True(t, ok)
	assert.Equal(t, "foo.bar", text(call.Callee))
	assert.Equal(t, "x?", text(call.Args[1]))

	member, ok := pr.b.Exprs.Member(call.Callee)
	require.True(t, ok)
	require.Len(t, member.Fields, 1)
	assert.Equal(t, "bar", src[member.Fields[0].Span.Start:member.Fields[0].Span.End])

	require.NoError(t, testkit.CheckTree(pr.b, pr.root, pr.file))
}

func TestParseParensWidenSpan(t *testing.T) {
	src := "(a + b) * c"
	pr := parseSource(t, src)
	mul, ok := pr.b.Exprs.Binop(pr.exprs(t)[0])
	require.True(t, ok)
	assert.Equal(t, source.Span{File: pr.file.ID, Start: 0, End: 7}, pr.b.Exprs.Span(mul.Left))
	require.NoError(t, testkit.CheckTree(pr.b, pr.root, pr.file))
}

func TestParseTreeInvariantsOnLargerInput(t *testing.T) {
	src := `
// пример
x = if a is $v ::core::Opt | () { f(v, &'a mut w)?.field.inner } else { -1i32 };
{ y; z = (p, q) } ;
g(&&h, !k) << 2u8
`
	pr := parseSource(t, src)
	// (p, q) is not an expression: one error, the rest parses
	require.Equal(t, 1, pr.bag.Len(), diagnosticsSummary(pr.bag))
	require.NoError(t, testkit.CheckTree(pr.b, pr.root, pr.file))
}

func TestParseErrorsRecover(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		codes []diag.Code
		exprs int
	}{
		{"missing semicolon", "a b; c", []diag.Code{diag.SynExpectSemicolon}, 2},
		{"missing operand", "a + ; b", []diag.Code{diag.SynExpectExpression}, 1},
		{"unclosed paren", "f(a; b", []diag.Code{diag.SynUnclosedParen}, 1},
		{"unclosed brace", "{ a; b", []diag.Code{diag.SynUnclosedBrace}, 0},
		{"stray brace", "a; } b", []diag.Code{diag.SynUnexpectedToken}, 2},
		{"stray brace after operator", "a + } b", []diag.Code{diag.SynExpectExpression, diag.SynUnexpectedToken}, 1},
		{"bad field", "a.; b", []diag.Code{diag.SynExpectFieldName}, 1},
		{"bad pattern", "x is +; y", []diag.Code{diag.SynExpectPattern}, 1},
		{"bad type path", "x is ::; y", []diag.Code{diag.SynExpectIdentifier}, 1},
		{"true as expression", "true; a", []diag.Code{diag.SynExpectExpression}, 1},
		{"if without block", "if c d; e", []diag.Code{diag.SynExpectBlock}, 1},
		{"lexer error", "a # b; c", []diag.Code{diag.LexUnknownChar, diag.SynExpectSemicolon}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := parseSource(t, tt.src)
			var codes []diag.Code
			for _, d := range pr.bag.Items() {
				codes = append(codes, d.Code)
			}
			assert.Equal(t, tt.codes, codes, diagnosticsSummary(pr.bag))
			assert.Len(t, pr.exprs(t), tt.exprs)
			assert.NoError(t, testkit.CheckTree(pr.b, pr.root, pr.file))
		})
	}
}

func TestParseUnclosedParenHasNoteAndFix(t *testing.T) {
	pr := parseSource(t, "f(a")
	require.Equal(t, 1, pr.bag.Len())
	d := pr.bag.Items()[0]
	assert.Equal(t, diag.SynUnclosedParen, d.Code)
	require.Len(t, d.Notes, 1)
	assert.Equal(t, uint32(1), d.Notes[0].Span.Start)
	require.Len(t, d.Fixes, 1)
	assert.Equal(t, ")", d.Fixes[0].Edits[0].NewText)
	assert.Equal(t, uint32(3), d.Fixes[0].Edits[0].Span.Start)
}

func TestParseMaxErrors(t *testing.T) {
	pr := parseWith(t, "+; +; +; +; +", Options{MaxErrors: 2})
	var errs, infos int
	for _, d := range pr.bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevInfo:
			infos++
			assert.Equal(t, diag.SynTooManyDiagnostic, d.Code)
		}
	}
	assert.Equal(t, 2, errs)
	assert.Equal(t, 1, infos)
	assert.Equal(t, uint(5), pr.res.Errors, "errors are counted past the limit")
}

func TestNumTy(t *testing.T) {
	assert.Equal(t, ast.NumTy{Kind: ast.NumSigned, Bits: 128}, numTy("i128"))
	assert.Equal(t, ast.NumTy{Kind: ast.NumUnsigned, Bits: 8}, numTy("u8"))
	assert.Equal(t, ast.NumTy{Kind: ast.NumFloat, Bits: 32}, numTy("f32"))
	assert.Equal(t, ast.NumTy{}, numTy("f16"))
	assert.Equal(t, ast.NumTy{}, numTy("u7"))
	assert.Equal(t, ast.NumTy{}, numTy(""))
	assert.Equal(t, ast.NumTy{}, numTy("x8"))
}
