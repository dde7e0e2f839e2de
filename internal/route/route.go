// Package route classifies inbound request paths into a serving mode and the
// gemini:// URL they address.
package route

import (
	"net/url"
	"strings"

	"github.com/gemrest/september/internal/foundation/errors"
)

// Scheme is the source protocol's URL scheme.
const Scheme = "gemini"

// Mode is the serving mode derived from a request path.
type Mode int

const (
	// ModeDirect serves the configured root capsule.
	ModeDirect Mode = iota
	// ModeProxy serves an arbitrary capsule under /proxy.
	ModeProxy
	// ModeProxyShort is the /x alias of ModeProxy.
	ModeProxyShort
	// ModeRaw returns the capsule body verbatim.
	ModeRaw
	// ModeNoCSS renders without stylesheets or injections.
	ModeNoCSS
)

// IsProxy reports whether the mode serves a capsule named in the path.
func (m Mode) IsProxy() bool { return m != ModeDirect }

// IsRaw reports whether the capsule body is returned unconverted.
func (m Mode) IsRaw() bool { return m == ModeRaw }

// IsNoCSS reports whether the page is rendered bare.
func (m Mode) IsNoCSS() bool { return m == ModeNoCSS }

// RewritePrefix is the path segment proxied links are rewritten under.
func (m Mode) RewritePrefix() string {
	if m == ModeNoCSS {
		return "nocss"
	}
	return "proxy"
}

func (m Mode) String() string {
	switch m {
	case ModeProxy:
		return "proxy"
	case ModeProxyShort:
		return "x"
	case ModeRaw:
		return "raw"
	case ModeNoCSS:
		return "nocss"
	default:
		return "direct"
	}
}

// Target is a classified request.
type Target struct {
	URL  *url.URL
	Mode Mode
}

// prefixes in precedence order.
var prefixes = []struct {
	segment string
	mode    Mode
}{
	{"proxy", ModeProxy},
	{"x", ModeProxyShort},
	{"raw", ModeRaw},
	{"nocss", ModeNoCSS},
}

// Classify derives the mode and capsule URL for path. path may carry a
// "?query" suffix. When fallback is set a trailing slash is added to the
// URL path. root is the capsule used for Direct mode.
func Classify(path string, fallback bool, root string) (Target, error) {
	mode, rest, matched := matchPrefix(path)

	var raw string
	if matched {
		raw = Scheme + "://" + rest
	} else {
		mode = ModeDirect
		raw = root + path
	}
	if fallback {
		raw = withTrailingSlash(raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, errors.WrapError(err, errors.CategoryValidation, "invalid capsule URL").
			WithContext("path", path).
			Build()
	}
	if u.Host == "" {
		return Target{}, errors.ValidationError("capsule URL has no host").
			WithContext("path", path).
			WithContext("url", raw).
			Build()
	}
	return Target{URL: u, Mode: mode}, nil
}

// IsBarePrefix reports whether path is a route prefix with nothing after it.
func IsBarePrefix(path string) bool {
	for _, p := range prefixes {
		lead := "/" + p.segment
		if path == lead || path == lead+"/" {
			return true
		}
	}
	return false
}

// matchPrefix removes the leading /<prefix>/ segment, once. The prefix must
// be a whole segment, so "/xkcd.gmi" does not match "/x".
func matchPrefix(path string) (Mode, string, bool) {
	for _, p := range prefixes {
		lead := "/" + p.segment
		if path == lead {
			return p.mode, "", true
		}
		if rest, ok := strings.CutPrefix(path, lead+"/"); ok {
			return p.mode, rest, true
		}
	}
	return ModeDirect, path, false
}

// withTrailingSlash appends "/" to the path part of raw, keeping any query.
func withTrailingSlash(raw string) string {
	base, query, hasQuery := strings.Cut(raw, "?")
	base += "/"
	if hasQuery {
		return base + "?" + query
	}
	return base
}
