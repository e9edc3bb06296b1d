// Package version compares toolchain version strings as reported by
// installed executables and vendor release metadata.
//
// Parsing is deliberately lenient: a known language prefix is stripped, the
// remainder is split on "." and any component that is not a non-negative
// integer is dropped. "1.2.x" therefore parses as [1 2].
package version

import (
	"strconv"
	"strings"
)

// Ordering is the three-way result of Compare.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// knownPrefixes are stripped (repeatedly) before splitting.
var knownPrefixes = []string{"go", "node", "jdk-", "v"}

// Parse normalizes a version string into its integer components.
func Parse(v string) []int {
	v = trimKnownPrefixes(strings.TrimSpace(v))
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ".")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || strings.HasPrefix(part, "+") {
			continue
		}
		result = append(result, n)
	}
	return result
}

func trimKnownPrefixes(v string) string {
	for {
		trimmed := v
		for _, prefix := range knownPrefixes {
			trimmed = strings.TrimPrefix(trimmed, prefix)
		}
		if trimmed == v {
			return v
		}
		v = trimmed
	}
}

// Compare compares an installed version against the latest published one.
// Sequences are compared element-wise; when one is a prefix of the other the
// shorter one sorts first, so "go1.20" is Less than "go1.20.0".
func Compare(installed, latest string) Ordering {
	return compareParts(Parse(installed), Parse(latest))
}

func compareParts(a, b []int) Ordering {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return Less
		}
		if a[i] > b[i] {
			return Greater
		}
	}
	switch {
	case len(a) < len(b):
		return Less
	case len(a) > len(b):
		return Greater
	default:
		return Equal
	}
}

// IsNumeric reports whether v yields at least one integer component.
// Channel names such as "stable" or "nightly" are not numeric.
func IsNumeric(v string) bool {
	return len(Parse(v)) > 0
}

// Max returns the greatest of the given versions, or "" for an empty slice.
func Max(versions []string) string {
	best := ""
	for i, v := range versions {
		if i == 0 || Compare(v, best) == Greater {
			best = v
		}
	}
	return best
}
