package lexer

import (
	"dust/internal/diag"
	"dust/internal/source"
)

// maxTokenLength bounds a single token; longer input is reported once and the
// rest of the file is skipped.
const maxTokenLength = 1 << 12

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем (но продолжаем лексить)
	// MaxTokenLen overrides maxTokenLength when positive.
	MaxTokenLen uint32
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

func (lx *Lexer) tokenLimit() uint32 {
	if lx.opts.MaxTokenLen > 0 {
		return lx.opts.MaxTokenLen
	}
	return maxTokenLength
}
