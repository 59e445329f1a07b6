// Package release implements release installation and rollback: the
// timestamped release directory tree under releases/ and the "current"
// symlink that names the active release.
package release

import "time"

// idFormat is the release identifier layout: 14 digits of UTC time at
// second resolution. Fixed width means lexicographic order equals
// chronological order.
const idFormat = "20060102150405"

// NewID computes a release identifier from the given instant
func NewID(now time.Time) string {
	return now.UTC().Format(idFormat)
}

// IsID reports whether name looks like a release identifier
func IsID(name string) bool {
	if len(name) != len(idFormat) {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
