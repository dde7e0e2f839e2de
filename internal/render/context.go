// Package render converts gemtext documents to HTML.
//
// Render is pure: it performs no I/O and keeps its condensation state local
// to one call, so a Context may be shared by concurrent requests.
package render

import (
	"net/url"

	"github.com/gemrest/september/internal/config"
	"github.com/gemrest/september/internal/route"
	"github.com/gemrest/september/internal/util/sets"
)

// Context is the per-document rendering configuration.
type Context struct {
	// Base is the URL the document was fetched from.
	Base *url.URL
	// ProxyEnabled rewrites gemini links to gateway paths.
	ProxyEnabled bool
	// Mode is the mode of the current request.
	Mode route.Mode
	// CondenseAll joins every run of consecutive links into one paragraph.
	CondenseAll bool
	// HeadingTriggers are headings after which link runs are condensed.
	HeadingTriggers sets.Set[string]
	// ExactOverrides are gemini URLs that are always linked directly.
	ExactOverrides sets.Set[string]
	// DomainOverrides are hosts whose links are always linked directly.
	DomainOverrides sets.Set[string]
	EmbedImages     config.EmbedMode
}
