package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dust/internal/prof"
)

var activeProfiler *prof.Profiler

// setupProfiling inspects persistent profiling flags and enables the
// corresponding profilers until stopProfiling.
func setupProfiling(cmd *cobra.Command) error {
	root := cmd.Root()

	var opts prof.Options
	var err error
	if opts.CPU, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	p, err := prof.Start(opts)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	activeProfiler = p
	return nil
}

func stopProfiling(errOut io.Writer) {
	p := activeProfiler
	activeProfiler = nil
	if err := p.Stop(); err != nil {
		fmt.Fprintf(errOut, "profile: %v\n", err)
	}
}
