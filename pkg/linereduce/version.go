package linereduce

import (
	"fmt"

	"golang.org/x/mod/semver"
)

const Version = "v0.1.0"

// IsCompatibleVersion checks if a record written by version other can be read by version current.
// Compatibility rules:
// - Major version must match exactly.
// - Minor and patch versions can differ.
func IsCompatibleVersion(other, current string) (bool, error) {
	if !semver.IsValid(other) {
		return false, fmt.Errorf("invalid version: %s", other)
	}
	if !semver.IsValid(current) {
		return false, fmt.Errorf("invalid version: %s", current)
	}

	return semver.Major(other) == semver.Major(current), nil
}
