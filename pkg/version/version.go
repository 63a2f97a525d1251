// Package version models the diagram schema version and the compatibility
// gate that decides whether a loaded document needs migration.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the schema version this build reads and writes. Documents
// declaring a compatible version are decoded as-is; everything else goes
// through the migration pipeline.
var Current = Version{Major: 3, Minor: 5}

// ErrMalformedVersion is wrapped when a version field is missing or not
// parseable as a major.minor pair.
var ErrMalformedVersion = errors.New("malformed version")

// Version is an ordered (major, minor) pair.
type Version struct {
	Major int
	Minor int
}

// Parse reads a "major.minor" string. A trailing ".patch" component, as
// written by some historical releases, is accepted and discarded.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil || minor < 0 {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
		}
	}
	return Version{Major: major, Minor: minor}, nil
}

// String renders the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible reports whether a document declaring version v can be decoded
// by an engine at version current without rewriting. Versions sharing a
// major number describe the same structural schema; minor releases only
// add element kinds.
func (v Version) Compatible(current Version) bool {
	return v.Major == current.Major
}

// NeedsMigration reports whether a document declaring version declared
// must run the migration pipeline before decoding at version current.
func NeedsMigration(declared, current Version) bool {
	return !declared.Compatible(current)
}
