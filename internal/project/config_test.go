package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dust/internal/project"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, project.ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[parse]\njobs = 3\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	m, ok, err := project.Discover(nested)
	require.NoError(t, err)
	require.True(t, ok)
	wantRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, m.Root)
	assert.Equal(t, 3, m.Config.Parse.Jobs)
	// остальное берётся из Default
	assert.Equal(t, "pretty", m.Config.Parse.Format)
	assert.Equal(t, 100, m.Config.Parse.MaxDiagnostics)
	assert.True(t, m.Config.Cache.Enabled)

	gotRoot, ok, err := project.FindProjectRoot(nested)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, wantRoot, gotRoot)
}

func TestDiscoverWithoutManifest(t *testing.T) {
	// TempDir лежит вне любого проекта с dust.toml
	m, ok, err := project.Discover(t.TempDir())
	require.NoError(t, err)
	if ok {
		t.Skipf("a %s above the temp dir: %s", project.ManifestName, m.Path)
	}
	assert.Nil(t, m)
}

func TestLoadFullConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[parse]
format = "json"
max_diagnostics = 7
jobs = 2

[cache]
enabled = false
dir = ".dust-cache"

[trace]
level = "detail"
output = "trace.ndjson"
`)
	cfg, err := project.Load(path)
	require.NoError(t, err)
	assert.Equal(t, project.ParseConfig{Format: "json", MaxDiagnostics: 7, Jobs: 2}, cfg.Parse)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(dir, ".dust-cache"), cfg.Cache.Dir)
	assert.Equal(t, project.TraceConfig{Level: "detail", Output: "trace.ndjson"}, cfg.Trace)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[parse\n", "failed to parse TOML"},
		{"unknown key", "[parse]\ncolour = true\n", "unknown keys: parse.colour"},
		{"unknown section", "[run]\nmain = \"x\"\n", "unknown keys"},
		{"bad format", "[parse]\nformat = \"xml\"\n", "[parse].format must be one of pretty|short|json"},
		{"negative limit", "[parse]\nmax_diagnostics = -1\n", "max_diagnostics must not be negative"},
		{"negative jobs", "[parse]\njobs = -4\n", "jobs must not be negative"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"wrong type", "[cache]\nenabled = \"yes\"\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := project.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoadAbsoluteCacheDirKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "cache")
	path := writeManifest(t, t.TempDir(), "[cache]\ndir = '"+abs+"'\n")
	cfg, err := project.Load(path)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Cache.Dir)
}
