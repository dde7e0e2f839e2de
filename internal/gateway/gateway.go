// Package gateway serves capsule content to web browsers.
//
// A request is classified into a route mode, the capsule is fetched (with a
// trailing-slash fallback and one redirect hop), and the response is either
// passed through or rendered into an HTML page.
package gateway

import (
	"bytes"
	"context"
	stderrors "errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gemrest/september/internal/config"
	"github.com/gemrest/september/internal/foundation/errors"
	"github.com/gemrest/september/internal/gemini"
	"github.com/gemrest/september/internal/gemtext"
	"github.com/gemrest/september/internal/logfields"
	"github.com/gemrest/september/internal/metrics"
	"github.com/gemrest/september/internal/observability"
	"github.com/gemrest/september/internal/render"
	"github.com/gemrest/september/internal/route"
	"github.com/gemrest/september/internal/util/sets"
	"github.com/gemrest/september/internal/wildcard"
)

// Gateway is the HTTP handler for capsule requests.
type Gateway struct {
	cfg          *config.Config
	fetcher      gemini.Fetcher
	recorder     metrics.Recorder
	errorAdapter *errors.HTTPErrorAdapter

	triggers sets.Set[string]
	exact    sets.Set[string]
	domain   sets.Set[string]
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Gateway) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithLogger sets the logger used for error responses.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.errorAdapter = errors.NewHTTPErrorAdapter(l) }
}

// New returns a Gateway. cfg must not be modified afterwards.
func New(cfg *config.Config, fetcher gemini.Fetcher, opts ...Option) *Gateway {
	g := &Gateway{
		cfg:          cfg,
		fetcher:      fetcher,
		recorder:     metrics.NoopRecorder{},
		errorAdapter: errors.NewHTTPErrorAdapter(nil),
		triggers:     sets.FromList(cfg.Links.CondenseAtHeadings),
		exact:        sets.FromList(cfg.Links.KeepGeminiExact),
		domain:       sets.FromList(cfg.Links.KeepGeminiDomain),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RenderContext builds the rendering context for a target requested at path.
func (g *Gateway) RenderContext(target route.Target, path string) *render.Context {
	return &render.Context{
		Base:            target.URL,
		ProxyEnabled:    g.cfg.ProxyByDefault,
		Mode:            target.Mode,
		CondenseAll:     wildcard.MatchAny(g.cfg.Routes.CondenseLinks, path),
		HeadingTriggers: g.triggers,
		ExactOverrides:  g.exact,
		DomainOverrides: g.domain,
		EmbedImages:     g.cfg.Links.EmbedImages,
	}
}

// ServeHTTP implements http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	path := r.URL.EscapedPath()

	if r.Method == http.MethodPost {
		g.submitInput(w, r)
		return
	}

	if route.IsBarePrefix(path) {
		g.recorder.IncRequest("usage", metrics.ResultUsage)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = usageTemplate.Execute(w, usageText)
		return
	}

	full := path
	if r.URL.RawQuery != "" || r.URL.ForceQuery {
		full += "?" + r.URL.RawQuery
	}

	target, err := route.Classify(full, false, g.cfg.Root)
	if err != nil {
		g.recorder.IncRequest(route.ModeDirect.String(), metrics.ResultBadRequest)
		g.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	mode := target.Mode.String()
	ctx = observability.WithMode(ctx, mode)
	ctx = observability.WithTarget(ctx, target.URL.String())

	ret, err := g.Retrieve(ctx, full, target)
	if err != nil {
		g.recorder.IncRequest(mode, metrics.ResultFetchFailed)
		observability.WarnContext(ctx, "Capsule fetch failed", logfields.Error(err))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(g.errorAdapter.Body(err)))
		return
	}
	resp := ret.Response

	switch {
	case wildcard.MatchAny(g.cfg.Routes.PlainText, r.URL.Path):
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(resp.Content()))
	case target.Mode.IsRaw():
		meta := resp.MediaType()
		w.Header().Set("Content-Type", meta.MediaType+"; charset="+meta.Charset())
		_, _ = w.Write(resp.Body)
	case resp.Status == gemini.StatusSuccess && !resp.MediaType().IsGemtext():
		w.Header().Set("Content-Type", resp.Meta)
		_, _ = w.Write(resp.Body)
	default:
		if err := g.writePage(ctx, w, r.URL.Path, ret); err != nil {
			g.recorder.IncRequest(mode, metrics.ResultError)
			if stderrors.Is(err, render.ErrMissingHost) {
				err = errors.GatewayError("cannot resolve links").
					WithCause(err).
					WithURL(ret.Target.URL).
					Build()
			}
			g.errorAdapter.WriteErrorResponse(w, r.WithContext(ctx), err)
			return
		}
	}

	g.recorder.IncRequest(mode, metrics.ResultSuccess)
	observability.InfoContext(ctx, "Served capsule",
		logfields.GeminiStatus(resp.Code),
		logfields.Meta(resp.Meta),
		logfields.BodyBytes(len(resp.Body)),
		logfields.Duration(ret.Elapsed))
}

// writePage renders a gemtext, input or status response as HTML.
func (g *Gateway) writePage(ctx context.Context, w http.ResponseWriter, path string, ret *Retrieval) error {
	resp := ret.Response
	span := observability.StartSpan(ctx, "render")

	data := pageData{Lang: resp.MediaType().Lang()}
	var content bytes.Buffer

	switch {
	case resp.Status == gemini.StatusSuccess:
		res, err := render.Render(gemtext.Parse(resp.Content()), g.RenderContext(ret.Target, path))
		if err != nil {
			return err
		}
		data.Title = res.Title
		content.WriteString(res.Body)
	case resp.IsInput():
		data.Title = resp.Meta
		if err := renderInput(&content, resp); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to render input form").Build()
		}
	default:
		content.WriteString("<p>" + template.HTMLEscapeString(resp.Meta) + "</p>\n")
	}
	data.Content = template.HTML(content.String()) // #nosec G203 -- produced by the renderer

	convert := span.End()
	g.recorder.ObserveRenderDuration(convert)

	if !ret.Target.Mode.IsNoCSS() {
		g.applyAppearance(&data)
		data.Footer = newFooter(ret, convert)
	}

	var page bytes.Buffer
	if err := executePage(&page, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := w.Write(page.Bytes())
	return err
}

// RenderDocument writes text, a gemtext document served at path, as a
// complete page. There is no capsule response, so the page has no footer.
func (g *Gateway) RenderDocument(w io.Writer, text string, target route.Target, path string) error {
	res, err := render.Render(gemtext.Parse(text), g.RenderContext(target, path))
	if err != nil {
		return err
	}
	data := pageData{
		Title:   res.Title,
		Content: template.HTML(res.Body), // #nosec G203 -- produced by the renderer
	}
	if !target.Mode.IsNoCSS() {
		g.applyAppearance(&data)
	}
	return executePage(w, data)
}

func (g *Gateway) applyAppearance(data *pageData) {
	a := g.cfg.Appearance
	data.Stylesheets = a.Stylesheets
	data.Favicon = a.Favicon
	data.PrimaryColour = a.PrimaryColour
	data.MathJax = a.MathJax
	data.MathJaxSrc = mathJaxSrc
	data.Head = template.HTML(a.Head)     // #nosec G203 -- operator supplied
	data.Header = template.HTML(a.Header) // #nosec G203 -- operator supplied
}

// submitInput answers an input form post with a redirect carrying the
// escaped answer as the query string.
func (g *Gateway) submitInput(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		g.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "invalid form").Build())
		return
	}
	answer := strings.ReplaceAll(url.QueryEscape(r.PostForm.Get("input")), "+", "%20")
	http.Redirect(w, r, r.URL.EscapedPath()+"?"+answer, http.StatusSeeOther)
}
