package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/source"
	"dust/internal/trace"
)

// Ext is the source file extension.
const Ext = ".dust"

// FileResult содержит результат обработки одного файла
type FileResult struct {
	Path    string       // путь в том виде, в каком он пришёл из обхода
	File    *source.File // nil, если файл не прочитался
	Builder *ast.Builder // nil для файлов из кэша и непрочитанных
	Root    ast.ExprID
	Bag     *diag.Bag
	Cached  bool
}

// DirResult is the outcome of ParseDir or Check.
type DirResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Bag merges the diagnostics of every file into one sorted bag.
func (r *DirResult) Bag() *diag.Bag {
	out := diag.NewBag(0)
	for i := range r.Files {
		out.Merge(r.Files[i].Bag)
	}
	out.Sort()
	return out
}

// HasErrors reports whether any file has an error diagnostic.
func (r *DirResult) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag != nil && r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// ListFiles возвращает отсортированный список всех *.dust файлов в директории.
// Скрытые каталоги (.git, .cache) пропускаются.
func ListFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ParseDir парсит все *.dust файлы в директории параллельно. Все воркеры
// делят один Session, так что символы одинакового текста совпадают между файлами.
func ParseDir(ctx context.Context, sess *source.Session, dir string, opts Options) (*DirResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "parse-dir")
	defer span.End(dir)

	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	return runFiles(ctx, sess, dir, files, opts, false)
}

// Check parses a file or every file under a directory and keeps only what is
// needed to report diagnostics. With opts.Cache set, files whose content and
// settings did not change since the last check are not reparsed.
func Check(ctx context.Context, sess *source.Session, target string, opts Options) (*DirResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "check")
	defer span.End(target)

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	base := target
	var files []string
	if info.IsDir() {
		if files, err = ListFiles(target); err != nil {
			return nil, err
		}
	} else {
		base = filepath.Dir(target)
		files = []string{target}
	}
	return runFiles(ctx, sess, base, files, opts, true)
}

func runFiles(ctx context.Context, sess *source.Session, base string, files []string, opts Options, useCache bool) (*DirResult, error) {
	fileSet := source.NewFileSet(sess)
	fileSet.SetBaseDir(base)
	res := &DirResult{FileSet: fileSet, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return res, nil
	}

	for _, path := range files {
		emit(opts.Progress, path, StageRead, StatusQueued, nil, 0)
	}

	// FileSet не потокобезопасен на запись: загружаем всё до запуска воркеров
	fileIDs := make([]source.SourceFile, len(files))
	for i, path := range files {
		res.Files[i].Path = path
		id, err := loadFile(ctx, fileSet, path, opts)
		if err != nil {
			bag := diag.NewBag(opts.MaxDiagnostics)
			bag.Add(diag.NewError(diag.IOReadFailed, source.Span{}, "cannot read file: "+err.Error()))
			res.Files[i].Bag = bag
			continue
		}
		fileIDs[i] = id
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i := range files {
		if !fileIDs[i].IsValid() {
			continue
		}
		i := i
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			file := fileSet.Get(fileIDs[i])
			// индекс i уникален для горутины, мьютекс не нужен
			if useCache && opts.Cache != nil {
				res.Files[i] = checkCached(gctx, file, files[i], opts)
				return nil
			}
			builder, root, bag := parseFile(gctx, file, opts)
			res.Files[i] = FileResult{Path: files[i], File: file, Builder: builder, Root: root, Bag: bag}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

// checkCached returns the cached diagnostics of file or parses it and stores them.
func checkCached(ctx context.Context, file *source.File, path string, opts Options) FileResult {
	key := CacheKey(file.Hash, opts.MaxDiagnostics)

	start := time.Now()
	emit(opts.Progress, path, StageCache, StatusWorking, nil, 0)
	var payload DiskPayload
	hit, getErr := opts.Cache.Get(key, &payload)
	elapsed := time.Since(start)
	opts.Timer.Add("cache", elapsed)

	if hit && payload.Hash == Digest(file.Hash) {
		trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-hit", path, trace.CurrentSpan(ctx))
		emit(opts.Progress, path, StageCache, StatusCached, nil, elapsed)
		return FileResult{Path: path, File: file, Bag: payloadToBag(&payload, file.ID, opts.MaxDiagnostics), Cached: true}
	}
	emit(opts.Progress, path, StageCache, StatusDone, getErr, elapsed)

	builder, root, bag := parseFile(ctx, file, opts)
	putErr := opts.Cache.Put(key, bagToPayload(path, Digest(file.Hash), bag))

	// предупреждения о кэше не попадают в сам кэш
	whole := source.Span{File: file.ID}
	if getErr != nil {
		bag.Add(diag.New(diag.SevWarning, diag.IOCacheCorrupt, whole, fmt.Sprintf("ignoring cache entry: %v", getErr)))
	}
	if putErr != nil {
		bag.Add(diag.New(diag.SevWarning, diag.IOCacheWrite, whole, fmt.Sprintf("cannot store cache entry: %v", putErr)))
	}
	return FileResult{Path: path, File: file, Builder: builder, Root: root, Bag: bag}
}
