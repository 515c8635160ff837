package matcher

import "strings"

// Match reports whether name satisfies pattern. "*" matches everything, a
// trailing "*" matches by prefix, anything else must be equal.
func Match(pattern, name string) bool {
	switch {
	case pattern == "*":
		return true
	case pattern == "":
		return false
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(name, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == name
}

// IsPattern reports whether pattern can match more than one name.
func IsPattern(pattern string) bool {
	return strings.HasSuffix(pattern, "*")
}
