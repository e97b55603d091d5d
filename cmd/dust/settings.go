package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dust/internal/diagfmt"
	"dust/internal/driver"
	"dust/internal/project"
)

// settings: итоговые значения: dust.toml поверх умолчаний, флаги поверх файла.
type settings struct {
	format         string
	maxDiagnostics int
	jobs           int
	cacheEnabled   bool
	cacheDir       string
	color          bool
	quiet          bool
	timings        bool
	pathMode       diagfmt.PathMode
}

// loadProjectConfig finds dust.toml above the working directory.
func loadProjectConfig() (project.Config, error) {
	manifest, ok, err := project.Discover(".")
	if err != nil {
		return project.Config{}, err
	}
	if !ok {
		return project.Default(), nil
	}
	return manifest.Config, nil
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	cfg, err := loadProjectConfig()
	if err != nil {
		return settings{}, err
	}
	st := settings{
		format:         cfg.Parse.Format,
		maxDiagnostics: cfg.Parse.MaxDiagnostics,
		jobs:           cfg.Parse.Jobs,
		cacheEnabled:   cfg.Cache.Enabled,
		cacheDir:       cfg.Cache.Dir,
	}

	root := cmd.Root().PersistentFlags()
	if root.Changed("max-diagnostics") {
		if st.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return settings{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if st.quiet, err = root.GetBool("quiet"); err != nil {
		return settings{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if st.timings, err = root.GetBool("timings"); err != nil {
		return settings{}, fmt.Errorf("failed to get timings flag: %w", err)
	}

	colorFlag, err := root.GetString("color")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		st.color = true
	case "off":
		st.color = false
	case "auto":
		st.color = isTerminal(cmd.ErrOrStderr())
	default:
		return settings{}, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	pathMode, err := root.GetString("path-mode")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	st.pathMode = diagfmt.ParsePathMode(pathMode)
	if st.pathMode.String() != pathMode {
		return settings{}, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", pathMode)
	}

	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		if st.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return settings{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if st.jobs < 0 {
		return settings{}, fmt.Errorf("--jobs must not be negative")
	}
	if st.maxDiagnostics < 0 {
		return settings{}, fmt.Errorf("--max-diagnostics must not be negative")
	}
	return st, nil
}

func (st settings) driverOptions() driver.Options {
	return driver.Options{MaxDiagnostics: st.maxDiagnostics, Jobs: st.jobs}
}

func (st settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     st.color,
		Context:   2,
		PathMode:  st.pathMode,
		ShowNotes: true,
		ShowFixes: true,
	}
}
