// Package version stamps the in-memory heap layout with a semantic version
// and lets tools declare which layouts they understand.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// LayoutVersion is the semantic version of the on-disk/in-memory block
// layout this package understands: the class table size, the reserved
// word's meaning, and the prologue/epilogue shapes in internal/heap.
const LayoutVersion = "1.0.0"

var layout = semver.MustParse(LayoutVersion)

// Word packs LayoutVersion's major/minor/patch components (each clamped to
// a byte) into the 32-bit tag internal/heap stores in its reserved word.
func Word() uint32 {
	clamp := func(v uint64) uint32 {
		if v > 0xFF {
			return 0xFF
		}
		return uint32(v)
	}
	return clamp(layout.Major())<<16 | clamp(layout.Minor())<<8 | clamp(layout.Patch())
}

// Parse unpacks a tag written by Word back into a semver.Version.
func Parse(word uint32) (*semver.Version, error) {
	major := (word >> 16) & 0xFF
	minor := (word >> 8) & 0xFF
	patch := word & 0xFF
	return semver.NewVersion(fmt.Sprintf("%d.%d.%d", major, minor, patch))
}

// Satisfies reports whether the version tagged in word satisfies the given
// semver constraint string, e.g. ">= 1.0.0, < 2.0.0".
func Satisfies(word uint32, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("version: invalid constraint %q: %w", constraint, err)
	}
	v, err := Parse(word)
	if err != nil {
		return false, fmt.Errorf("version: tag %#x is not a valid version: %w", word, err)
	}
	return c.Check(v), nil
}
