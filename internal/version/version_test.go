package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestVersion_ColoredPlain(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		withVersion(t, tt.in, "", "")
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q", tt.in, got)
		}
	}
}

func TestVersion_Info(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	withVersion(t, "1.0.0", "abc123", "2024-01-15")
	if got, want := Info(), "dust 1.0.0 (abc123) built 2024-01-15"; got != want {
		t.Errorf("Info = %q, want %q", got, want)
	}
	withVersion(t, "1.0.0", "", "")
	if got := Info(); got != "dust 1.0.0" {
		t.Errorf("Info = %q", got)
	}
}
