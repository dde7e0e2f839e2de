package gateway

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/gemrest/september/internal/foundation/errors"
	"github.com/gemrest/september/internal/gemini"
	"github.com/gemrest/september/internal/version"
)

const mathJaxSrc = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js"

// usageText answers a bare route prefix.
const usageText = `This is a proxy path. Please specify a Gemini URL without the "gemini://" to proxy.

For example: to proxy "gemini://fuwn.me/uptime", visit "/proxy/fuwn.me/uptime".`

type pageData struct {
	Lang          string
	Title         string
	Stylesheets   []string
	Favicon       string
	PrimaryColour string
	MathJax       bool
	MathJaxSrc    string
	Head          template.HTML
	Header        template.HTML
	Content       template.HTML
	Footer        *footerData
}

type footerData struct {
	URL        template.URL
	Status     string
	Meta       string
	ResponseMS string
	ConvertMS  string
	SourceURL  string
	Commit     string
}

type inputData struct {
	Prompt    string
	Sensitive bool
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html{{if .Lang}} lang="{{.Lang}}"{{end}}>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{- range .Stylesheets}}
<link rel="stylesheet" type="text/css" href="{{.}}">
{{- end}}
{{- if .Favicon}}
<link rel="icon" type="image/x-icon" href="{{.Favicon}}">
{{- end}}
{{- if .PrimaryColour}}
<meta name="theme-color" content="{{.PrimaryColour}}">
{{- end}}
{{- if .MathJax}}
<script type="text/javascript" id="MathJax-script" async src="{{.MathJaxSrc}}"></script>
{{- end}}
{{- if .Head}}
{{.Head}}
{{- end}}
<title>{{.Title}}</title>
</head>
<body>
{{- if .Header}}
{{.Header}}
{{- end}}
{{.Content}}
{{- with .Footer}}
<details>
<summary>Proxy information</summary>
<dl>
<dt>Original URL</dt><dd><a href="{{.URL}}">{{.URL}}</a></dd>
<dt>Status code</dt><dd>{{.Status}}</dd>
<dt>Meta</dt><dd>{{.Meta}}</dd>
<dt>Capsule response time</dt><dd>{{.ResponseMS}} milliseconds</dd>
<dt>Gemini-to-HTML time</dt><dd>{{.ConvertMS}} milliseconds</dd>
</dl>
<p>This content has been proxied by <a href="{{.SourceURL}}">September ({{.Commit}})</a>.</p>
</details>
{{- end}}
</body>
</html>
`))

var inputTemplate = template.Must(template.New("input").Parse(`<form method="post">
<p><label for="input">{{.Prompt}}</label></p>
<p><input type="{{if .Sensitive}}password{{else}}text{{end}}" id="input" name="input" autofocus>
<button type="submit">Submit</button></p>
</form>`))

var usageTemplate = template.Must(template.New("usage").Parse(`<pre>{{.}}</pre>`))

func newFooter(ret *Retrieval, convert time.Duration) *footerData {
	resp := ret.Response
	return &footerData{
		URL:        template.URL(ret.Target.URL.String()), // #nosec G203 -- built by url.URL
		Status:     fmt.Sprintf("%d (%s)", resp.Code, resp.Status),
		Meta:       resp.Meta,
		ResponseMS: milliseconds(ret.Elapsed),
		ConvertMS:  milliseconds(convert),
		SourceURL:  version.SourceURL(),
		Commit:     version.ShortCommit(),
	}
}

func milliseconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", float64(d.Nanoseconds())/float64(time.Millisecond))
}

func executePage(w io.Writer, data pageData) error {
	if err := pageTemplate.Execute(w, data); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to render page").Build()
	}
	return nil
}

func renderInput(w io.Writer, resp *gemini.Response) error {
	return inputTemplate.Execute(w, inputData{
		Prompt:    resp.Meta,
		Sensitive: resp.Status == gemini.StatusSensitiveInput,
	})
}
