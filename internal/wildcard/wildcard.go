// Package wildcard implements the glob-style matcher used for route lists
// (plain-text passthrough routes and condensed-link routes).
//
// Only '*' is special. It matches any run of characters, including the empty
// run and runs containing '/'.
package wildcard

import "strings"

// Match reports whether candidate matches pattern.
//
// A pattern without '*' must equal the candidate. Otherwise the fragments
// between stars are matched left to right: a leading fragment anchors the
// start, a trailing fragment anchors the end, and interior fragments must
// appear in order without overlapping.
func Match(pattern, candidate string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == candidate
	}

	fragments := strings.Split(pattern, "*")
	last := len(fragments) - 1
	cursor := 0

	if !strings.HasPrefix(pattern, "*") {
		if !strings.HasPrefix(candidate, fragments[0]) {
			return false
		}
		cursor = len(fragments[0])
	}

	for _, fragment := range fragments[1:last] {
		if fragment == "" {
			continue
		}
		idx := strings.Index(candidate[cursor:], fragment)
		if idx < 0 {
			return false
		}
		cursor += idx + len(fragment)
	}

	if !strings.HasSuffix(pattern, "*") {
		return strings.HasSuffix(candidate[cursor:], fragments[last])
	}
	return true
}

// MatchPath matches a request path, also trying the path with a single
// trailing slash removed so "/feed" and "/feed/" are treated alike.
func MatchPath(pattern, path string) bool {
	if Match(pattern, path) {
		return true
	}
	if trimmed, ok := strings.CutSuffix(path, "/"); ok {
		return Match(pattern, trimmed)
	}
	return false
}

// MatchAny reports whether any of the patterns matches path via MatchPath.
func MatchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if MatchPath(p, path) {
			return true
		}
	}
	return false
}
