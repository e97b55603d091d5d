package parser

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/lexer"
	"dust/internal/source"
	"dust/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	// Root is a Block spanning the whole file.
	Root   ast.ExprID
	Errors uint
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	b        *ast.Builder
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile: входная точка для разбора одного файла.
// Файл это последовательность выражений через ';', результат: Block на весь файл.
func ParseFile(lx *lexer.Lexer, b *ast.Builder, opts Options) Result {
	p := Parser{
		lx:       lx,
		b:        b,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	exprs := p.parseSequence(token.EOF)
	file := lx.File()
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	whole := source.Span{File: file.ID, Start: 0, End: size}
	root := b.Exprs.NewBlock(whole, exprs)
	return Result{Root: root, Errors: p.opts.CurrentErrors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseSequence разбирает `e; e; e` до closer (RBrace или EOF), не съедая closer.
// Последний ';' необязателен. При ошибке: resync до ';' / closer.
func (p *Parser) parseSequence(closer token.Kind) []ast.ExprID {
	var exprs []ast.ExprID
	for !p.atOr(closer, token.EOF) {
		if closer != token.RBrace && p.at(token.RBrace) {
			// лишняя '}' на верхнем уровне
			p.errAt(diag.SynUnexpectedToken, p.lx.Peek().Span, "unexpected '}'")
			p.advance()
			continue
		}
		if p.at(token.Semicolon) {
			// пустое выражение `;;`
			p.warnAt(diag.SynEmptyExpression, p.lx.Peek().Span, "empty expression")
			p.advance()
			continue
		}
		id, ok := p.parseExpr()
		if !ok {
			p.resync(closer)
			continue
		}
		exprs = append(exprs, id)

		switch {
		case p.at(token.Semicolon):
			p.advance()
		case p.atOr(closer, token.EOF, token.RBrace):
			// '}' вне блока репортится в начале следующей итерации
		default:
			p.expectSemicolon()
			p.resync(closer)
		}
	}
	return exprs
}

func (p *Parser) expectSemicolon() {
	got := p.lx.Peek()
	p.emit(diag.ReportError(p.opts.Reporter, diag.SynExpectSemicolon, got.Span, "expected ';' before "+describe(got)).
		WithFix("insert ';'", diag.FixEdit{Span: p.afterLast(), NewText: ";"}))
}

// resync: восстановление после ошибки: прокручиваем до ';' (съедаем),
// до closer (не съедаем) или EOF. Вложенные {} пропускаются целиком.
func (p *Parser) resync(closer token.Kind) {
	depth := 0
	for {
		switch p.lx.Peek().Kind {
		case token.EOF:
			return
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				if closer == token.RBrace {
					return
				}
				// лишняя '}' на верхнем уровне: её репортит parseSequence
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
