package main

import (
	"fmt"
	"io"

	"dust/internal/diag"
	"dust/internal/diagfmt"
	"dust/internal/source"
)

// diagFormats: форматы вывода диагностик для check.
var diagFormats = []string{"pretty", "short", "json"}

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, format string, st settings) error {
	switch format {
	case "pretty":
		if bag.Len() > 0 {
			diagfmt.Pretty(w, bag, fs, st.prettyOpts())
			if bag.Dropped() > 0 {
				fmt.Fprintf(w, "\n... and %d more diagnostic(s) not shown\n", bag.Dropped())
			}
		}
		return nil
	case "short":
		text := diag.FormatShort(bag.Items(), fs, diag.ShortOptions{
			Notes:    true,
			PathMode: st.pathMode.String(),
		})
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, text)
		return err
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         st.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  true,
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
