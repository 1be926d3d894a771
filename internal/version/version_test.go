package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuildInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	SetBuildInfo(version, commit, date)
	t.Cleanup(func() { SetBuildInfo(origVersion, origCommit, origDate) })
}

func TestGetInfo(t *testing.T) {
	withBuildInfo(t, "1.2.3", "abcdef1234567", "2026-01-02")

	info, err := GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, uint64(1), info.SemVer.Major())
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestGetInfo_Invalid(t *testing.T) {
	withBuildInfo(t, "not-a-version", "unknown", "unknown")

	_, err := GetInfo()
	assert.Error(t, err)
	assert.Equal(t, "magicsh vnot-a-version (invalid version)", GetFormattedVersion())
}

func TestGetFormattedVersion(t *testing.T) {
	tests := []struct {
		name     string
		commit   string
		date     string
		expected string
	}{
		{"development", "unknown", "unknown", "magicsh v0.3.0"},
		{"with commit", "abcdef1234567", "unknown", "magicsh v0.3.0, commit abcdef1"},
		{"full", "abc", "2026-01-02", "magicsh v0.3.0, commit abc, built 2026-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, "0.3.0", tt.commit, tt.date)
			assert.Equal(t, tt.expected, GetFormattedVersion())
		})
	}
}

func TestGetDetailedVersion(t *testing.T) {
	withBuildInfo(t, "0.3.0", "abc", "2026-01-02")

	lines := strings.Split(GetDetailedVersion(), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "magicsh v0.3.0", lines[0])
	assert.Equal(t, "Git Commit: abc", lines[1])
}

func TestIsPrerelease(t *testing.T) {
	withBuildInfo(t, "1.0.0-rc.1", "unknown", "unknown")
	assert.True(t, IsPrerelease())

	SetBuildInfo("1.0.0", "unknown", "unknown")
	assert.False(t, IsPrerelease())

	SetBuildInfo("bogus", "unknown", "unknown")
	assert.False(t, IsPrerelease())
}

func TestIsDevelopment(t *testing.T) {
	withBuildInfo(t, "1.0.0", "unknown", "2026-01-02")
	assert.True(t, IsDevelopment())

	SetBuildInfo("1.0.0", "abc", "2026-01-02")
	assert.False(t, IsDevelopment())
}

func TestSatisfies(t *testing.T) {
	withBuildInfo(t, "0.4.2", "unknown", "unknown")

	ok, err := Satisfies(">= 0.4, < 1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Satisfies("^1.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Satisfies("not a constraint")
	assert.Error(t, err)
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2   string
		expected int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.0.0-alpha", "1.0.0", -1},
	}
	for _, tt := range tests {
		t.Run(tt.v1+"_vs_"+tt.v2, func(t *testing.T) {
			got, err := CompareVersions(tt.v1, tt.v2)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := CompareVersions("x", "1.0.0")
	assert.Error(t, err)
	_, err = CompareVersions("1.0.0", "y")
	assert.Error(t, err)
}
