package diag

import (
	"fmt"
	"sort"
	"strings"

	"dust/internal/source"
)

type shortLine struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// ShortOptions tunes FormatShort.
type ShortOptions struct {
	Notes    bool
	PathMode string // absolute|relative|basename|auto, "" keeps the interned path
}

// FormatShort renders diagnostics one per line:
//
//	error SYN2002 dir/a.dust:3:7 expected expression
//
// Lines are sorted by path, position, severity, code, message so the output is
// stable for golden tests and for `dust check --format short`.
func FormatShort(diags []Diagnostic, fs *source.FileSet, opts ShortOptions) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortLine, 0, len(diags))
	for i := range diags {
		rendered = appendShort(rendered, &diags[i], fs, opts)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		if d.Path == "" {
			fmt.Fprintf(&b, "%s %s %s", d.Severity, d.Code, d.Message)
		} else {
			fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		}
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendShort(out []shortLine, d *Diagnostic, fs *source.FileSet, opts ShortOptions) []shortLine {
	// нулевой span печатается без позиции, span из незагруженного файла пропускается
	if loc, ok := resolveSpan(fs, d.Primary, opts.PathMode); ok || !d.Primary.File.IsValid() {
		out = append(out, shortLine{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}

	if opts.Notes {
		for _, note := range d.Notes {
			nloc, ok := resolveSpan(fs, note.Span, opts.PathMode)
			if !ok {
				continue
			}
			out = append(out, shortLine{
				Severity: "note",
				Code:     d.Code.ID(),
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}
	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

// resolveSpan maps a span to path:line:col; spans of files this set never
// loaded, or of another session, are skipped.
func resolveSpan(fs *source.FileSet, span source.Span, pathMode string) (resolvedSpan, bool) {
	if !span.File.IsValid() || !fs.Session().Owns(span.File) {
		return resolvedSpan{}, false
	}
	file := fs.Get(span.File)
	if file == nil {
		return resolvedSpan{}, false
	}
	start, _ := fs.Resolve(span)
	path := file.Path()
	if pathMode != "" {
		path = file.FormatPath(pathMode, fs.BaseDir())
	}
	return resolvedSpan{
		Path:   strings.TrimPrefix(path, "./"),
		Line:   start.Line,
		Column: file.RuneCol(start),
	}, true
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
