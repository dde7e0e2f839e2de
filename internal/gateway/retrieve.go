package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/gemrest/september/internal/gemini"
	"github.com/gemrest/september/internal/logfields"
	"github.com/gemrest/september/internal/observability"
	"github.com/gemrest/september/internal/route"
)

// Retrieval is the outcome of fetching a classified path.
type Retrieval struct {
	// Target is the request target; its URL is the one that produced
	// Response after any fallback or redirect.
	Target     route.Target
	Response   *gemini.Response
	Elapsed    time.Duration
	Fallback   bool
	Redirected bool
}

// Retrieve fetches target. An empty success body is retried once with a
// trailing slash, and one redirect hop is followed. path is the request path
// target was classified from, used to build the fallback URL.
func (g *Gateway) Retrieve(ctx context.Context, path string, target route.Target) (*Retrieval, error) {
	span := observability.StartSpan(ctx, "capsule.fetch")
	ret := &Retrieval{Target: target}

	err := g.retrieve(ctx, path, ret)
	span.RecordError(err)
	ret.Elapsed = span.End()
	g.recorder.ObserveFetchDuration(ret.Elapsed, err == nil)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (g *Gateway) retrieve(ctx context.Context, path string, ret *Retrieval) error {
	resp, err := g.fetcher.Fetch(ctx, ret.Target.URL)
	if err != nil {
		return err
	}

	if resp.Status == gemini.StatusSuccess && len(resp.Body) == 0 {
		if fallback, cerr := route.Classify(path, true, g.cfg.Root); cerr == nil {
			g.recorder.IncFallbackFetch()
			observability.DebugContext(ctx, "Empty response, retrying with trailing slash",
				logfields.Target(fallback.URL.String()))

			resp, err = g.fetcher.Fetch(ctx, fallback.URL)
			if err != nil {
				return err
			}
			ret.Target = fallback
			ret.Fallback = true
		}
	}

	if resp.IsRedirect() {
		if next, ok := redirectURL(ret.Target.URL, resp.Meta); ok {
			g.recorder.IncRedirectFollowed()
			observability.DebugContext(ctx, "Following redirect",
				logfields.GeminiStatus(resp.Code),
				logfields.Target(next.String()))

			redirected, err := g.fetcher.Fetch(ctx, next)
			if err != nil {
				return err
			}
			resp = redirected
			ret.Target.URL = next
			ret.Redirected = true
		}
	}

	ret.Response = resp
	return nil
}

// redirectURL resolves a redirect meta against the URL that returned it.
// Redirects off the gemini scheme are not followed.
func redirectURL(from *url.URL, meta string) (*url.URL, bool) {
	ref, err := url.Parse(meta)
	if err != nil || meta == "" {
		return nil, false
	}
	next := from.ResolveReference(ref)
	if next.Scheme != route.Scheme || next.Host == "" {
		return nil, false
	}
	return next, true
}
