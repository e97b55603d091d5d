package parser

import (
	"fmt"

	"dust/internal/diag"
	"dust/internal/source"
	"dust/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan: span для "ожидали X": на EOF указываем сразу за последним токеном
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.errAt(code, sp, msg+", got "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// expectClosing reports a missing ')' or '}' with a note at the opener and an insertion fix.
func (p *Parser) expectClosing(k token.Kind, open token.Token) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	code, text := diag.SynUnclosedParen, ")"
	if k == token.RBrace {
		code, text = diag.SynUnclosedBrace, "}"
	}
	at := p.afterLast()
	got := p.lx.Peek()
	p.emit(diag.ReportError(p.opts.Reporter, code, p.diagnosticSpan(),
		fmt.Sprintf("expected '%s', got %s", text, describe(got))).
		WithNote(open.Span, fmt.Sprintf("'%s' opened here", open.Text)).
		WithFix("insert '"+text+"'", diag.FixEdit{Span: at, NewText: text}))
	return token.Token{Kind: token.Invalid, Span: at}, false
}

// репортует ошибку на span
func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	if p.report(code, diag.SevError, sp) {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

func (p *Parser) warnAt(code diag.Code, sp source.Span, msg string) {
	if p.report(code, diag.SevWarning, sp) {
		p.opts.Reporter.Report(code, diag.SevWarning, sp, msg, nil, nil)
	}
}

// report считает ошибки и решает, отправлять ли диагностику.
// Когда лимит достигнут, один раз пишем SynTooManyDiagnostic и дальше молчим.
func (p *Parser) report(_ diag.Code, sev diag.Severity, sp source.Span) bool {
	if p.opts.Enough() {
		if sev == diag.SevError {
			p.opts.CurrentErrors++
		}
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError && p.opts.Enough() {
		p.opts.Reporter.Report(diag.SynTooManyDiagnostic, diag.SevInfo, sp,
			fmt.Sprintf("stopping after %d errors", p.opts.MaxErrors), nil, nil)
	}
	return true
}

// emit sends a prepared diagnostic through the same limit as errAt.
func (p *Parser) emit(b *diag.ReportBuilder) {
	d := b.Diagnostic()
	if p.report(d.Code, d.Severity, d.Primary) {
		b.Emit()
	}
}

// afterLast is the empty span right after the last consumed token.
func (p *Parser) afterLast() source.Span {
	return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
}

// describe renders a token for messages: 'foo', end of file.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Invalid:
		if tok.Text == "" {
			return "invalid token"
		}
	}
	return fmt.Sprintf("'%s'", tok.Text)
}
