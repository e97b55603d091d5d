package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/lexer"
	"dust/internal/observ"
	"dust/internal/parser"
	"dust/internal/source"
	"dust/internal/trace"
)

// Options configures Parse, Tokenize, ParseDir and Check.
type Options struct {
	// MaxDiagnostics limits the diagnostics kept per file; 0 means no limit.
	MaxDiagnostics int
	// Jobs bounds the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int
	// Cache, when set, lets Check reuse the diagnostics of unchanged files.
	Cache *DiskCache
	// Progress receives per-file events; may be nil.
	Progress ProgressSink
	// Timer accumulates per-phase durations; may be nil.
	Timer *observ.Timer
}

func (o Options) maxErrors() uint {
	n, err := safecast.Conv[uint](max(o.MaxDiagnostics, 0))
	if err != nil {
		panic(fmt.Errorf("maxDiagnostics overflow: %w", err))
	}
	return n
}

// ParseResult holds everything produced for one file.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	// Root is the Block spanning the whole file (0 when the file was not parsed).
	Root ast.ExprID
	Bag  *diag.Bag
}

// Parse loads path into a fresh FileSet of sess and parses it.
func Parse(ctx context.Context, sess *source.Session, path string, opts Options) (*ParseResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "parse-file")
	defer span.End(path)

	fs := source.NewFileSet(sess)
	fileID, err := loadFile(ctx, fs, path, opts)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	builder, root, bag := parseFile(ctx, file, opts)

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		Root:    root,
		Bag:     bag,
	}, nil
}

// ParseSource parses in-memory content registered under name.
func ParseSource(ctx context.Context, sess *source.Session, name string, content []byte, opts Options) *ParseResult {
	fs := source.NewFileSet(sess)
	file := fs.Get(fs.AddVirtual(name, content))
	builder, root, bag := parseFile(ctx, file, opts)
	return &ParseResult{FileSet: fs, File: file, Builder: builder, Root: root, Bag: bag}
}

func loadFile(ctx context.Context, fs *source.FileSet, path string, opts Options) (source.SourceFile, error) {
	_, span := trace.BeginFileCtx(ctx, trace.ScopePass, "read", path)
	emit(opts.Progress, path, StageRead, StatusWorking, nil, 0)
	id, err := fs.Load(path)
	elapsed := span.End(path)
	opts.Timer.Add("read", elapsed)
	if err != nil {
		emit(opts.Progress, path, StageRead, StatusError, err, elapsed)
		return source.SourceFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	emit(opts.Progress, path, StageRead, StatusDone, nil, elapsed)
	return id, nil
}

// parseFile лексит и парсит уже загруженный файл.
func parseFile(ctx context.Context, file *source.File, opts Options) (*ast.Builder, ast.ExprID, *diag.Bag) {
	path := file.ID.Path()
	_, span := trace.BeginFileCtx(ctx, trace.ScopeFile, "parse", path)
	emit(opts.Progress, path, StageParse, StatusWorking, nil, 0)

	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{Exprs: hintFor(file)})

	result := parser.ParseFile(lx, builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: opts.maxErrors(),
	})

	exprs, _, _ := builder.Counts()
	elapsed := span.
		WithExtra("exprs", fmt.Sprint(exprs)).
		WithExtra("errors", fmt.Sprint(result.Errors)).
		End(path)
	opts.Timer.Add("parse", elapsed)

	status := StatusDone
	if bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, path, StageParse, status, nil, elapsed)
	return builder, result.Root, bag
}

// hintFor грубо оценивает число выражений: примерно одно на 4 байта.
func hintFor(file *source.File) uint {
	return uint(len(file.Content)/4) + 1
}
