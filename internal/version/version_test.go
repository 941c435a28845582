package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func override(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	assert.NotEmpty(t, Version)
}

func TestLine(t *testing.T) {
	tests := []struct {
		name, version, commit, date string
		want                        string
	}{
		{"bare", "1.2.3", "", "", "treant 1.2.3"},
		{"commit", "0.1.0-dev", "abc123", "", "treant 0.1.0-dev (commit abc123)"},
		{"long commit and date", "1.0.0", "1234567890abcdef1234", "2024-01-15", "treant 1.0.0 (commit 1234567890ab, built 2024-01-15)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			override(t, tt.version, tt.commit, tt.date)
			assert.Equal(t, tt.want, Line(false))
		})
	}
}

func TestColored(t *testing.T) {
	assert.Equal(t, "1.2.3-rc.1", Colored("1.2.3-rc.1", false))
	assert.Equal(t, "nightly", Colored("nightly", true))

	out := Colored("1.2.3-rc.1", true)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "-rc.1")
}
