package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"dust/internal/ast"
	"dust/internal/diagfmt"
	"dust/internal/driver"
	"dust/internal/observ"
	"dust/internal/source"
)

// astFormats: форматы вывода дерева.
var astFormats = []string{"debug", "tree", "graph"}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.dust|directory>",
		Short: "Parse a dust source file or directory and print the syntax tree",
		Long:  `Parse analyzes a dust source file or all *.dust files in a directory and prints their syntax trees`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "debug", "output format (debug|tree|graph)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if !slices.Contains(astFormats, format) {
		return fmt.Errorf("unknown format: %s (expected debug|tree|graph)", format)
	}

	// Проверяем, файл это или директория
	st, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return runParseFile(cmd, args[0], format)
	}
	return runParseDir(cmd, args[0], format)
}

// runParseFile is shared by `dust <file>` and `dust parse <file>`.
func runParseFile(cmd *cobra.Command, path, format string) error {
	st, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	opts := st.driverOptions()
	if st.timings {
		opts.Timer = observ.NewTimer()
	}

	result, err := driver.Parse(cmd.Context(), source.Default(), path, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if err := printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, "pretty", st); err != nil {
		return err
	}
	if err := renderAST(cmd.OutOrStdout(), result.Builder, result.Root, result.FileSet, format); err != nil {
		return err
	}
	if st.timings {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	if result.Bag.HasErrors() {
		return errHasErrors
	}
	return nil
}

func runParseDir(cmd *cobra.Command, dir, format string) error {
	st, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	opts := st.driverOptions()
	if st.timings {
		opts.Timer = observ.NewTimer()
	}

	res, err := driver.ParseDir(cmd.Context(), source.Default(), dir, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag(), res.FileSet, "pretty", st); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for idx, r := range res.Files {
		if r.Builder == nil {
			continue
		}
		if !st.quiet {
			if idx > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "== %s ==\n", r.File.FormatPath(st.pathMode.String(), res.FileSet.BaseDir()))
		}
		if err := renderAST(out, r.Builder, r.Root, res.FileSet, format); err != nil {
			return err
		}
	}
	if st.timings {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	if res.HasErrors() {
		return errHasErrors
	}
	return nil
}

func renderAST(w io.Writer, b *ast.Builder, root ast.ExprID, fs *source.FileSet, format string) error {
	switch format {
	case "debug":
		if err := diagfmt.FormatExprDebug(w, b, root); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	case "tree":
		return diagfmt.FormatExprTree(w, b, root, fs)
	case "graph":
		return diagfmt.FormatExprGraph(w, b, root)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
