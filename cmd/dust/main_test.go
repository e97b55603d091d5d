package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dust/internal/source"
	"dust/internal/trace"
)

// runCLI выполняет команду в пустой временной директории.
func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	code = execute(cmd, args)
	return code, out.String(), errOut.String()
}

func inTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestMissingInputPrintsUsage(t *testing.T) {
	inTempDir(t, nil)
	code, stdout, stderr := runCLI(t)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "missing input file")
	assert.Contains(t, stderr, "usage: dust <file.dust>")
}

func TestRootPrintsDebugTree(t *testing.T) {
	inTempDir(t, map[string]string{"a.dust": "a + b"})
	code, stdout, stderr := runCLI(t, "--color", "off", "a.dust")
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "Block("), stdout)
	assert.Contains(t, stdout, `Binop { left: Ident(Symbol("a")), op: Add, right: Ident(Symbol("b")) }`)
	assert.True(t, strings.HasSuffix(stdout, "\n"))
	assert.Empty(t, stderr)
}

func TestRootReportsSyntaxErrors(t *testing.T) {
	inTempDir(t, map[string]string{"bad.dust": "a +; b"})
	code, stdout, stderr := runCLI(t, "--color", "off", "bad.dust")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "SYN2002")
	assert.NotContains(t, stderr, "error: errors reported")
	assert.NotEmpty(t, stdout, "the recovered tree is still printed")
}

func TestParseFormats(t *testing.T) {
	inTempDir(t, map[string]string{"a.dust": "a + b"})

	code, stdout, stderr := runCLI(t, "parse", "--format", "tree", "a.dust")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Ident a")
	assert.Contains(t, stdout, "Ident b")

	code, stdout, stderr = runCLI(t, "parse", "--format", "graph", "a.dust")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Ident a")

	code, _, stderr = runCLI(t, "parse", "--format", "json", "a.dust")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown format: json")
}

func TestParseDirectoryPrintsHeaders(t *testing.T) {
	inTempDir(t, map[string]string{
		"src/one.dust": "x",
		"src/two.dust": "y",
	})
	code, stdout, stderr := runCLI(t, "parse", "--path-mode", "basename", "src")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "== one.dust ==")
	assert.Contains(t, stdout, "== two.dust ==")
	assert.Less(t, strings.Index(stdout, "one.dust"), strings.Index(stdout, "two.dust"))

	code, stdout, _ = runCLI(t, "--quiet", "parse", "src")
	require.Equal(t, 0, code)
	assert.NotContains(t, stdout, "==")
}

func TestTokenizeJSON(t *testing.T) {
	inTempDir(t, map[string]string{"t.dust": "x.y"})
	code, stdout, stderr := runCLI(t, "tokenize", "--format", "json", "t.dust")
	require.Equal(t, 0, code, stderr)

	var toks []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &toks))
	require.GreaterOrEqual(t, len(toks), 4)
	assert.Equal(t, []string{"x", ".", "y"}, []string{toks[0].Text, toks[1].Text, toks[2].Text})
}

func TestCheckShortWithoutCache(t *testing.T) {
	inTempDir(t, map[string]string{
		"ok.dust":  "a",
		"bad.dust": "a +; b",
	})
	code, stdout, stderr := runCLI(t, "check", "--no-cache", "--format", "short", "--path-mode", "basename", ".")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "error SYN2002 bad.dust:1:")
	assert.True(t, strings.HasSuffix(stdout, "\n"))
	assert.Contains(t, stderr, "checked 2 files (0 cached)")
}

func TestCheckJSONUsesProjectCache(t *testing.T) {
	dir := inTempDir(t, map[string]string{
		"dust.toml": "[parse]\nformat = \"json\"\n\n[cache]\ndir = \"cache\"\n",
		"bad.dust":  "a +; b",
	})

	var first struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	code, stdout, stderr := runCLI(t, "check", "bad.dust")
	assert.Equal(t, 1, code, stderr)
	require.NoError(t, json.Unmarshal([]byte(stdout), &first))
	require.NotZero(t, first.Count)
	assert.Equal(t, "SYN2002", first.Diagnostics[0].Code)
	assert.Empty(t, stderr, "json mode prints no summary")

	entries, err := os.ReadDir(filepath.Join(dir, "cache", "diags"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	code, _, stderr = runCLI(t, "check", "--format", "short", "bad.dust")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "(1 cached)")

	code, _, stderr = runCLI(t, "check", "--clear-cache", "--format", "short", "bad.dust")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "(0 cached)")
}

func TestCheckTimingsAddsInfoDiagnostic(t *testing.T) {
	inTempDir(t, map[string]string{"ok.dust": "a"})
	code, stdout, stderr := runCLI(t, "--timings", "check", "--no-cache", "--format", "json", "ok.dust")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"code": "OBS4001"`)
	assert.Contains(t, stdout, "timings (check)")
}

func TestCheckRejectsBadFlags(t *testing.T) {
	inTempDir(t, map[string]string{"ok.dust": "a"})

	code, _, stderr := runCLI(t, "--color", "sometimes", "check", "ok.dust")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid --color value")

	code, _, stderr = runCLI(t, "check", "--ui", "maybe", "ok.dust")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid --ui value")

	code, _, stderr = runCLI(t, "check", "--format", "xml", "ok.dust")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown format: xml")
}

func TestProjectConfigUnknownKey(t *testing.T) {
	inTempDir(t, map[string]string{
		"dust.toml": "[parse]\nmax_errors = 3\n",
		"ok.dust":   "a",
	})
	code, _, stderr := runCLI(t, "check", "ok.dust")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown keys")
}

func TestVersionJSON(t *testing.T) {
	inTempDir(t, nil)
	code, stdout, stderr := runCLI(t, "version", "--format", "json")
	require.Equal(t, 0, code, stderr)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "dust", payload.Tool)
	assert.NotEmpty(t, payload.Version)

	code, stdout, _ = runCLI(t, "--color", "off", "version")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "dust "), stdout)
}

func TestTraceToStderr(t *testing.T) {
	inTempDir(t, map[string]string{"a.dust": "a"})
	code, _, stderr := runCLI(t, "--trace", "-", "parse", "a.dust")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "dust parse")
}

func TestUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	var buf bytes.Buffer
	assert.False(t, shouldUseTUI(uiModeAuto, &buf))
	assert.True(t, shouldUseTUI(uiModeOn, &buf))
	assert.False(t, shouldUseTUI(uiModeOff, &buf))
}

func TestProfilingFlags(t *testing.T) {
	dir := inTempDir(t, map[string]string{"a.dust": "a"})
	code, _, stderr := runCLI(t, "--cpu-profile", "cpu.pprof", "--mem-profile", "mem.pprof", "parse", "a.dust")
	require.Equal(t, 0, code, stderr)
	for _, name := range []string{"cpu.pprof", "mem.pprof"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestCheckStats(t *testing.T) {
	inTempDir(t, map[string]string{"s.dust": "alpha + beta"})
	code, _, stderr := runCLI(t, "--quiet", "check", "--no-cache", "--stats", "s.dust")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "interned: ")
	assert.Contains(t, stderr, "  path s.dust")
	assert.Contains(t, stderr, "  symbols ")
}

func TestWriteStatsListsTables(t *testing.T) {
	sess := source.NewSession()
	sess.File("a.dust")
	sess.File("dir/b.dust")
	for i := 0; i < 12; i++ {
		sess.Symbol(fmt.Sprintf("s%d", i))
	}

	var buf bytes.Buffer
	writeStats(&buf, sess)
	out := buf.String()
	assert.Contains(t, out, "interned: 2 paths, 12 symbols")
	assert.Contains(t, out, "  path a.dust\n  path dir/b.dust\n")
	assert.Contains(t, out, "  symbols s0, s1, s2, s3, s4, s5, s6, s7, s8, s9 (+2 more)\n")

	buf.Reset()
	writeStats(&buf, source.NewSession())
	assert.Equal(t, "interned: 0 paths, 0 symbols\n", buf.String())
}

func TestWriteUnfinishedNamesFiles(t *testing.T) {
	var buf bytes.Buffer
	writeUnfinished(&buf, nil)
	assert.Empty(t, buf.String())

	writeUnfinished(&buf, []trace.Event{
		{Kind: trace.KindSpanBegin, Name: "dust check"},
		{Kind: trace.KindSpanBegin, Name: "parse", Extra: map[string]string{"file": "src/a.dust"}},
	})
	assert.Equal(t, "trace: unfinished spans:\n  dust check\n  parse src/a.dust\n", buf.String())
}
