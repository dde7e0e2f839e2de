package render

import (
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/gemrest/september/internal/route"
)

// ErrMissingHost aborts a render whose base URL has no host.
var ErrMissingHost = errors.New("render: base URL has no host")

// Override records which direct-link rule replaced a gateway href.
type Override int

const (
	OverrideNone Override = iota
	OverrideExact
	OverrideDomain
)

func (o Override) String() string {
	switch o {
	case OverrideExact:
		return "exact"
	case OverrideDomain:
		return "domain"
	default:
		return "none"
	}
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

// Link is a resolved link.
type Link struct {
	// Href is the final attribute value, unescaped.
	Href string
	// Label is the display text, unescaped.
	Label string
	// Surface links use a non-gemini scheme and are left untouched.
	Surface bool
	// Canonical is the absolute gemini:// form; empty for surface links.
	Canonical string
	Override  Override
	// Image is set when the link is embedded as an <img>.
	Image bool
}

// Resolver resolves link targets against a document's base URL.
type Resolver struct {
	ctx *Context
}

// NewResolver returns a Resolver for ctx.
func NewResolver(ctx *Context) Resolver {
	return Resolver{ctx: ctx}
}

// Resolve turns a link line into its final href. label may be nil.
func (r Resolver) Resolve(target string, label *string) (Link, error) {
	link := Link{Href: target, Label: target}
	if label != nil {
		link.Label = *label
	}

	ref, err := url.Parse(target)
	if err != nil {
		// Unparseable targets cannot be rewritten.
		link.Surface = true
		return link, nil
	}
	if ref.Scheme != "" && !strings.EqualFold(ref.Scheme, route.Scheme) {
		link.Surface = true
		return link, nil
	}

	base := r.ctx.Base
	if base == nil || base.Host == "" {
		return Link{}, ErrMissingHost
	}

	canonical := canonicalize(base.ResolveReference(ref), base)
	link.Canonical = canonical.String()
	link.Href = r.rewrite(canonical)

	if isRootRelative(link.Href) {
		switch {
		case r.ctx.ExactOverrides.Has(link.Canonical):
			link.Href = link.Canonical
			link.Override = OverrideExact
		case r.ctx.DomainOverrides.Has(base.Host):
			link.Href = link.Canonical
			link.Override = OverrideDomain
		}
	}

	if r.ctx.EmbedImages.Enabled() && imageExtensions[strings.ToLower(path.Ext(canonical.Path))] {
		link.Image = true
	}
	return link, nil
}

// rewrite applies the proxy rule to a canonical URL.
func (r Resolver) rewrite(u *url.URL) string {
	if !r.ctx.ProxyEnabled {
		return u.String()
	}
	tail := pathQueryFragment(u)
	if r.ctx.Mode.IsProxy() || !strings.EqualFold(u.Host, r.ctx.Base.Host) {
		return "/" + r.ctx.Mode.RewritePrefix() + "/" + u.Host + tail
	}
	return tail
}

// canonicalize forces the gemini scheme, fills a missing host from base and
// collapses runs of '/' in the path.
func canonicalize(u, base *url.URL) *url.URL {
	out := *u
	out.Scheme = route.Scheme
	out.Opaque = ""
	out.User = nil
	if out.Host == "" {
		out.Host = base.Host
	}
	if strings.Contains(out.Path, "//") {
		out.Path = collapseSlashes(out.Path)
		out.RawPath = ""
	}
	if out.RawPath != "" && strings.Contains(out.RawPath, "//") {
		out.RawPath = collapseSlashes(out.RawPath)
	}
	return &out
}

func collapseSlashes(p string) string {
	var b strings.Builder
	b.Grow(len(p))
	prev := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// pathQueryFragment returns the root-relative form of u. An empty path is "/".
func pathQueryFragment(u *url.URL) string {
	rel := url.URL{Path: u.Path, RawPath: u.RawPath, RawQuery: u.RawQuery, Fragment: u.Fragment, RawFragment: u.RawFragment}
	s := rel.String()
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return s
}

func isRootRelative(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}
