// Package version holds build information for magicsh.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Build information, set at compile time via -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info is the full build description.
type Info struct {
	Version   string          `json:"version" yaml:"version"`
	GitCommit string          `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string          `json:"buildDate" yaml:"buildDate"`
	GoVersion string          `json:"goVersion" yaml:"goVersion"`
	Platform  string          `json:"platform" yaml:"platform"`
	SemVer    *semver.Version `json:"-" yaml:"-"`
}

// GetInfo parses Version and returns the build description.
func GetInfo() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}
	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SemVer:    sv,
	}, nil
}

// GetFormattedVersion returns a one-line version string.
func GetFormattedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("magicsh v%s (invalid version)", Version)
	}

	parts := []string{fmt.Sprintf("magicsh v%s", info.Version)}
	if info.GitCommit != "unknown" && info.GitCommit != "" {
		short := info.GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		parts = append(parts, "commit "+short)
	}
	if info.BuildDate != "unknown" && info.BuildDate != "" {
		parts = append(parts, "built "+info.BuildDate)
	}
	return strings.Join(parts, ", ")
}

// GetDetailedVersion returns a multi-line description for debugging.
func GetDetailedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("magicsh v%s (error: %v)", Version, err)
	}
	return strings.Join([]string{
		"magicsh v" + info.Version,
		"Git Commit: " + info.GitCommit,
		"Build Date: " + info.BuildDate,
		"Go Version: " + info.GoVersion,
		"Platform: " + info.Platform,
	}, "\n")
}

// IsPrerelease reports whether Version carries a prerelease suffix.
func IsPrerelease() bool {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return false
	}
	return sv.Prerelease() != ""
}

// IsDevelopment reports whether build information was not injected.
func IsDevelopment() bool {
	return GitCommit == "unknown" || BuildDate == "unknown"
}

// Satisfies reports whether Version meets a constraint such as ">= 0.1, < 1".
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint '%s': %w", constraint, err)
	}
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return false, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}
	return c.Check(sv), nil
}

// CompareVersions returns -1, 0 or 1 as v1 is less than, equal to or
// greater than v2.
func CompareVersions(v1, v2 string) (int, error) {
	sv1, err := semver.NewVersion(v1)
	if err != nil {
		return 0, fmt.Errorf("invalid version v1 '%s': %w", v1, err)
	}
	sv2, err := semver.NewVersion(v2)
	if err != nil {
		return 0, fmt.Errorf("invalid version v2 '%s': %w", v2, err)
	}
	return sv1.Compare(sv2), nil
}

// SetBuildInfo overrides the build information.
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}
