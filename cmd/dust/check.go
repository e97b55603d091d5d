package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"dust/internal/diag"
	"dust/internal/driver"
	"dust/internal/observ"
	"dust/internal/source"
	"dust/internal/ui"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file.dust|directory>",
		Short: "Report diagnostics for a dust source file or directory",
		Long: `Check lexes and parses every *.dust file and reports diagnostics.
Results of unchanged files are reused from the cache unless --no-cache is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("format", "", "output format (pretty|short|json); default from dust.toml or pretty")
	cmd.Flags().String("ui", "off", "progress UI for directories (auto|on|off)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the diagnostics cache")
	cmd.Flags().Bool("clear-cache", false, "drop the diagnostics cache before checking")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("stats", false, "print interner table sizes after the check")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]
	st, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = st.format
	}
	if !slices.Contains(diagFormats, format) {
		return fmt.Errorf("unknown format: %s (expected %s)", format, strings.Join(diagFormats, "|"))
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}

	opts := st.driverOptions()
	timer := observ.NewTimer()
	opts.Timer = timer

	if st.cacheEnabled && !noCache {
		cache, cacheErr := driver.OpenDiskCache("dust", st.cacheDir)
		if cacheErr != nil {
			// без кэша проверка всё равно работает
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", cacheErr)
		} else {
			if clearCache {
				if err := cache.DropAll(); err != nil {
					return fmt.Errorf("failed to clear cache: %w", err)
				}
			}
			opts.Cache = cache
		}
	}

	phase := timer.Begin("check")
	res, err := runCheckWithUI(cmd, target, opts, mode, format)
	timer.End(phase, "")
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	bag := res.Bag()
	if st.timings {
		driver.AppendTimings(bag, "check", target, timer.Report())
	}
	if err := printDiagnostics(cmd.OutOrStdout(), bag, res.FileSet, format, st); err != nil {
		return err
	}
	if !st.quiet && format != "json" {
		fmt.Fprintln(cmd.ErrOrStderr(), summary(res))
	}
	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		writeStats(cmd.ErrOrStderr(), source.Default())
	}
	if res.HasErrors() {
		return errHasErrors
	}
	return nil
}

// runCheckWithUI shows the progress view for directories when the UI is on.
func runCheckWithUI(cmd *cobra.Command, target string, opts driver.Options, mode uiMode, format string) (*driver.DirResult, error) {
	ctx := cmd.Context()
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() || format == "json" || !shouldUseTUI(mode, cmd.OutOrStdout()) {
		return driver.Check(ctx, source.Default(), target, opts)
	}

	files, err := driver.ListFiles(target)
	if err != nil {
		return nil, err
	}
	// на файл приходит не больше семи событий, канал не заблокирует воркеров
	events := make(chan driver.Event, len(files)*7+1)
	opts.Progress = driver.ChannelSink{Ch: events}

	type outcome struct {
		res *driver.DirResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := driver.Check(ctx, source.Default(), target, opts)
		close(events)
		done <- outcome{res, err}
	}()

	uiErr := ui.Run(ctx, cmd.OutOrStdout(), "checking "+target, files, events)
	out := <-done
	if out.err != nil {
		return nil, out.err
	}
	if uiErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: progress view failed: %v\n", uiErr)
	}
	return out.res, nil
}

func summary(res *driver.DirResult) string {
	var cached int
	var errs, warns uint32
	for _, f := range res.Files {
		if f.Cached {
			cached++
		}
		if f.Bag != nil {
			errs += f.Bag.Count(diag.SevError)
			warns += f.Bag.Count(diag.SevWarning)
		}
	}
	return fmt.Sprintf("checked %s (%d cached): %s, %s",
		plural(len(res.Files), "file"), cached,
		plural(int(errs), "error"), plural(int(warns), "warning"))
}

// statsSymbolLimit: сколько символов показывать в --stats.
const statsSymbolLimit = 10

// writeStats печатает размеры таблиц, все пути и первые символы в порядке интернирования.
func writeStats(w io.Writer, sess *source.Session) {
	stats := sess.Stats()
	fmt.Fprintf(w, "interned: %s, %s\n", plural(stats.Files, "path"), plural(stats.Symbols, "symbol"))
	for _, path := range sess.Files() {
		fmt.Fprintf(w, "  path %s\n", path)
	}
	symbols := sess.Symbols()
	if len(symbols) == 0 {
		return
	}
	shown := symbols[:min(len(symbols), statsSymbolLimit)]
	line := strings.Join(shown, ", ")
	if rest := len(symbols) - len(shown); rest > 0 {
		line = fmt.Sprintf("%s (+%d more)", line, rest)
	}
	fmt.Fprintf(w, "  symbols %s\n", line)
}
