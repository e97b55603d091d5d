package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dust/internal/diagfmt"
	"dust/internal/driver"
	"dust/internal/observ"
	"dust/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.dust",
		Short: "Tokenize a dust source file",
		Long:  `Tokenize breaks down a dust source file into its constituent tokens`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	st, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	opts := st.driverOptions()
	if st.timings {
		opts.Timer = observ.NewTimer()
	}

	result, err := driver.Tokenize(cmd.Context(), source.Default(), args[0], opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Диагностика идёт в stderr, токены в stdout
	if err := printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, "pretty", st); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	}
	if err != nil {
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
