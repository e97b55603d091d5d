package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dust/internal/version"
)

// errHasErrors: диагностики уже напечатаны, нужен только ненулевой код выхода.
var errHasErrors = errors.New("errors reported")

const usageHint = "missing input file\nusage: dust <file.dust>\n\nrun 'dust --help' for the other commands"

// newRootCmd собирает дерево команд; отдельная функция, чтобы тесты получали чистые флаги.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dust [file.dust]",
		Short: "Dust language front end",
		Long: `Dust parses source files into a syntax tree and reports diagnostics.
Called with a single file it prints the parsed tree in debug form.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupProfiling(cmd); err != nil {
				return err
			}
			return setupTracing(cmd)
		},
	}
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = no limit)")
	pf.String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")

	pf.String("trace", "", "trace output file ('-' for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval listing files in progress (0 disables)")

	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")
	return rootCmd
}

// main runs the CLI and exits with status 1 on any error.
func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:]))
}

func execute(rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	// трейсер закрываем и при ошибке команды
	teardownTracing(rootCmd.ErrOrStderr(), err)
	stopProfiling(rootCmd.ErrOrStderr())
	if err == nil {
		return 0
	}
	if !errors.Is(err, errHasErrors) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "error: %v\n", err)
	}
	return 1
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New(usageHint)
	}
	return runParseFile(cmd, args[0], "debug")
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
