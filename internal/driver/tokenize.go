package driver

import (
	"context"
	"fmt"

	"dust/internal/diag"
	"dust/internal/lexer"
	"dust/internal/source"
	"dust/internal/token"
	"dust/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes path; the token slice always ends with EOF.
func Tokenize(ctx context.Context, sess *source.Session, path string, opts Options) (*TokenizeResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "tokenize")
	defer span.End(path)

	fs := source.NewFileSet(sess)
	fileID, err := loadFile(ctx, fs, path, opts)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	_, lexSpan := trace.BeginFileCtx(ctx, trace.ScopeFile, "lex", path)
	bag := diag.NewBag(opts.MaxDiagnostics)
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	opts.Timer.Add("lex", lexSpan.WithExtra("tokens", fmt.Sprint(len(tokens))).End(path))

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
