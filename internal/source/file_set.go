package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// FileSet keeps the content of loaded files of one session and maps spans
// back to line/column positions. It is not safe for concurrent mutation;
// load everything first, then read from as many goroutines as needed.
type FileSet struct {
	sess    *Session
	files   []File
	index   map[SourceFile]int
	baseDir string // базовая директория для относительных путей
}

// NewFileSet creates an empty FileSet bound to sess.
func NewFileSet(sess *Session) *FileSet {
	return &FileSet{
		sess:  sess,
		files: make([]File, 0),
		index: make(map[SourceFile]int),
	}
}

// Session returns the session whose file table names the files.
func (fileSet *FileSet) Session() *Session {
	return fileSet.sess
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the base directory, falling back to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores already normalized content under path and returns its handle.
// Adding the same path again replaces the stored content.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) SourceFile {
	id := fileSet.sess.File(path)
	f := File{
		ID:      id,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
	if idx, ok := fileSet.index[id]; ok {
		fileSet.files[idx] = f
		return id
	}
	fileSet.index[id] = len(fileSet.files)
	fileSet.files = append(fileSet.files, f)
	return id
}

// Load reads a file from disk, strips a UTF-8 BOM, normalizes CRLF and calls Add.
func (fileSet *FileSet) Load(path string) (SourceFile, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return SourceFile{}, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (stdin, test, generated) with FileVirtual set.
func (fileSet *FileSet) AddVirtual(name string, content []byte) SourceFile {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the loaded file for id, or nil if it was never loaded here.
func (fileSet *FileSet) Get(id SourceFile) *File {
	sameSession("file handle and file set", id.sess, fileSet.sess)
	idx, ok := fileSet.index[id]
	if !ok {
		return nil
	}
	return &fileSet.files[idx]
}

// GetByPath looks a loaded file up by path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	f := fileSet.Get(fileSet.sess.File(path))
	return f, f != nil
}

// Len returns the number of loaded files.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Span returns the span covering the whole loaded file.
func (fileSet *FileSet) Span(id SourceFile) Span {
	f := fileSet.Get(id)
	if f == nil {
		panic(fmt.Sprintf("source: file %s is not loaded", id))
	}
	return Span{File: id, Start: 0, End: mustU32(len(f.Content), "file length")}
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text returns the source text under span, clamped to the file content.
func (fileSet *FileSet) Text(span Span) string {
	f := fileSet.Get(span.File)
	if f == nil {
		return ""
	}
	n := mustU32(len(f.Content), "file length")
	start, end := min(span.Start, n), min(span.End, n)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// Path returns the file path.
func (f *File) Path() string {
	return f.ID.Path()
}

// Line returns line lineNum (1-based) without its newline, or "" if absent.
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 || int(lineNum-1) > len(f.LineIdx) {
		return ""
	}
	n := mustU32(len(f.Content), "file length")
	var start uint32
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	end := n
	if int(lineNum-1) < len(f.LineIdx) {
		end = f.LineIdx[lineNum-1]
	}
	if start >= n {
		return ""
	}
	return string(f.Content[start:end])
}

// RuneCol converts a byte column on line into a rune-counted column.
func (f *File) RuneCol(pos LineCol) uint32 {
	text := f.Line(pos.Line)
	byteCol := min(int(pos.Col-1), len(text))
	return mustU32(utf8.RuneCountInString(text[:byteCol])+1, "column")
}

// FormatPath renders the path in one of the modes absolute|relative|basename|auto.
func (f *File) FormatPath(mode, baseDir string) string {
	p := f.Path()
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.ToSlash(abs)
		}
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return p
		}
		if rel, err := filepath.Rel(baseDir, abs); err == nil && !filepath.IsAbs(rel) && rel != ".." && !hasDotDotPrefix(rel) {
			return filepath.ToSlash(rel)
		}
	case "basename":
		return filepath.Base(p)
	case "auto":
		// короткие и относительные пути как есть, длинные абсолютные: basename
		if len(p) >= 40 && filepath.IsAbs(p) {
			return filepath.Base(p)
		}
	}
	return p
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
