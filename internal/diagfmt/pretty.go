package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dust/internal/diag"
	"dust/internal/source"
)

type palette struct {
	sev     map[diag.Severity]*color.Color
	code    *color.Color
	path    *color.Color
	gutter  *color.Color
	caret   *color.Color
	note    *color.Color
	fix     *color.Color
	added   *color.Color
	removed *color.Color
}

// newPalette фиксирует цвет явно, не полагаясь на глобальный color.NoColor
func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
		},
		code:    mk(color.Bold),
		path:    mk(color.FgWhite, color.Bold),
		gutter:  mk(color.FgBlue),
		caret:   mk(color.FgRed, color.Bold),
		note:    mk(color.FgCyan),
		fix:     mk(color.FgGreen),
		added:   mk(color.FgGreen),
		removed: mk(color.FgRed),
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sevColor, ok := pal.sev[d.Severity]
	if !ok {
		sevColor = pal.code
	}
	header := fmt.Sprintf("%s %s: %s", sevColor.Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)

	loc, file := locate(fs, d.Primary, opts.PathMode)
	if file == nil {
		fmt.Fprintln(w, header)
	} else {
		fmt.Fprintf(w, "%s: %s\n", pal.path.Sprint(loc), header)
		writeSnippet(w, fs, file, d.Primary, opts.Context, pal)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nloc, nfile := locate(fs, note.Span, opts.PathMode)
			if nfile == nil {
				fmt.Fprintf(w, "  %s: %s\n", pal.note.Sprint("note"), note.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s: %s: %s\n", pal.note.Sprint("note"), pal.path.Sprint(nloc), note.Msg)
			writeSnippet(w, fs, nfile, note.Span, 0, pal)
		}
	}

	if !opts.ShowFixes {
		return
	}
	for _, fix := range d.Fixes {
		fmt.Fprintf(w, "  %s: %s\n", pal.fix.Sprint("fix"), fix.Title)
		if !opts.ShowPreview {
			continue
		}
		for _, edit := range fix.Edits {
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				fmt.Fprintf(w, "    (no preview: %v)\n", err)
				continue
			}
			for _, line := range preview.before {
				writeTrimmed(w, fmt.Sprintf("    %s %s", pal.removed.Sprint("-"), line))
			}
			for _, line := range preview.after {
				writeTrimmed(w, fmt.Sprintf("    %s %s", pal.added.Sprint("+"), line))
			}
		}
	}
}

// locate возвращает "path:line:col" (колонка в рунах) и файл; nil если span не из этого FileSet.
func locate(fs *source.FileSet, span source.Span, mode PathMode) (string, *source.File) {
	if !span.File.IsValid() || !fs.Session().Owns(span.File) {
		return "", nil
	}
	file := fs.Get(span.File)
	if file == nil {
		return "", nil
	}
	start, _ := fs.Resolve(span)
	path := file.FormatPath(mode.String(), fs.BaseDir())
	return fmt.Sprintf("%s:%d:%d", path, start.Line, file.RuneCol(start)), file
}

// writeSnippet печатает строку span'а с context строками выше и подчёркиванием.
// Для многострочного span подчёркивается только первая строка до конца.
func writeSnippet(w io.Writer, fs *source.FileSet, file *source.File, span source.Span, context uint8, pal palette) {
	start, end := fs.Resolve(span)
	first := uint32(1)
	if start.Line > uint32(context) {
		first = start.Line - uint32(context)
	}

	width := len(strconv.FormatUint(uint64(start.Line), 10))
	blank := strings.Repeat(" ", width)
	bar := pal.gutter.Sprint("|")

	writeTrimmed(w, fmt.Sprintf("%s %s", blank, bar))
	for ln := first; ln <= start.Line; ln++ {
		writeTrimmed(w, fmt.Sprintf("%*d %s %s", width, ln, bar, file.Line(ln)))
	}

	text := file.Line(start.Line)
	from := min(int(start.Col)-1, len(text))
	to := len(text)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(text))
	}
	to = max(to, from)

	n := max(runewidth.StringWidth(text[from:to]), 1)
	marks := "^" + strings.Repeat("~", n-1)
	writeTrimmed(w, fmt.Sprintf("%s %s %s%s", blank, bar, caretPadding(text[:from]), pal.caret.Sprint(marks)))
}

// caretPadding повторяет табы как есть, остальное заменяет пробелами по ширине руны
func caretPadding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func writeTrimmed(w io.Writer, line string) {
	fmt.Fprintln(w, strings.TrimRight(line, " "))
}
