package version

import (
	"strings"
	"testing"
)

func withBuild(t *testing.T, v, commit, date string) {
	t.Helper()
	origV, origC, origD := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origV, origC, origD })
}

func TestBanner(t *testing.T) {
	tests := []struct {
		name            string
		v, commit, date string
		want            string
	}{
		{"dev", "0.1.0-dev", "", "", "uclint 0.1.0-dev"},
		{"commit is shortened", "1.2.3", "abc123def4567890", "", "uclint 1.2.3 (abc123def456)"},
		{"date", "1.2.3", "", "2026-01-15T10:30:00Z", "uclint 1.2.3 built 2026-01-15T10:30:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuild(t, tt.v, tt.commit, tt.date)
			if got := Banner(false); got != tt.want {
				t.Fatalf("Banner = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColored(t *testing.T) {
	withBuild(t, "1.2.3-rc1", "", "")
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc1") {
		t.Fatalf("Colored = %q", got)
	}
	if Colored(false) != "1.2.3-rc1" {
		t.Fatal("plain rendering must equal Version")
	}

	withBuild(t, "weird", "", "")
	if Colored(true) != "weird" {
		t.Fatal("non-semver versions are printed as is")
	}
}
