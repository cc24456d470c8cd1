package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the three-part version recorded in a plugin manifest.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ParseVersion parses a dot-separated version string. Strings with fewer
// than three components collapse to 0.0.0, matching how registries publish
// placeholder tags. The major component tolerates a leading non-digit
// prefix such as "v" or "ver".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 3 {
		return Version{}, nil
	}

	major, err := strconv.ParseUint(stripPrefix(parts[0]), 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("invalid major component %q: %w", parts[0], err)
	}
	minor, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor component %q: %w", parts[1], err)
	}
	patch, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("invalid patch component %q: %w", parts[2], err)
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// stripPrefix drops leading non-digit characters from the major component.
func stripPrefix(s string) string {
	for i, r := range s {
		if r >= '0' && r <= '9' {
			return s[i:]
		}
	}
	return s
}

// Compare returns -1, 0 or 1 ordering v against other by lexicographic
// triple comparison.
func (v Version) Compare(other Version) int {
	if c := compareUint(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareUint(v.Minor, other.Minor); c != 0 {
		return c
	}
	return compareUint(v.Patch, other.Patch)
}

// Equal reports whether both versions name the same triple.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
