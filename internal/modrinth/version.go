package modrinth

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b. Handles a leading "v".
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, err
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, err
	}
	return av.Compare(bv), nil
}

// IsOlderThan reports whether this version's number is semantically older
// than installed. ok is false when either side is not a parseable version,
// which is common for mods that embed the game version in theirs.
func (v *Version) IsOlderThan(installed string) (older, ok bool) {
	if installed == "" || v.VersionNumber == "" {
		return false, false
	}
	cmp, err := CompareVersions(v.VersionNumber, installed)
	if err != nil {
		return false, false
	}
	return cmp < 0, true
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
