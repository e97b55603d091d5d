package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"dust/internal/trace"
)

// Formats accepted by [parse].format.
var Formats = []string{"pretty", "short", "json"}

// Config mirrors dust.toml. Every section is optional.
type Config struct {
	Parse ParseConfig `toml:"parse"`
	Cache CacheConfig `toml:"cache"`
	Trace TraceConfig `toml:"trace"`
}

type ParseConfig struct {
	Format         string `toml:"format"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

// Default returns the settings used without a manifest.
func Default() Config {
	return Config{
		Parse: ParseConfig{Format: "pretty", MaxDiagnostics: 100},
		Cache: CacheConfig{Enabled: true},
		Trace: TraceConfig{Level: "off"},
	}
}

// Manifest is a loaded dust.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Discover finds and loads the nearest dust.toml above startDir.
// ok is false when there is none; the caller then uses Default().
func Discover(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Load(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// Load reads path on top of Default(). Keys that are not set keep their
// default; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("parse", "format") && !slices.Contains(Formats, cfg.Parse.Format) {
		return Config{}, fmt.Errorf("%s: [parse].format must be one of %s, got %q", path, strings.Join(Formats, "|"), cfg.Parse.Format)
	}
	if cfg.Parse.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [parse].max_diagnostics must not be negative", path)
	}
	if cfg.Parse.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [parse].jobs must not be negative", path)
	}
	if meta.IsDefined("trace", "level") {
		if _, err := trace.ParseLevel(cfg.Trace.Level); err != nil {
			return Config{}, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
	}
	// относительный каталог кэша считаем от манифеста, а не от cwd
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	return cfg, nil
}
