// Package responses defines the JSON bodies served on the admin listener.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	Uptime    float64   `json:"uptime"`
}

// ConfigResponse represents the configuration API response.
type ConfigResponse struct {
	Status    string        `json:"status"`
	Config    ConfigSummary `json:"config"`
	Timestamp time.Time     `json:"timestamp"`
}

// ConfigSummary represents a sanitized view of the configuration.
type ConfigSummary struct {
	Root               string   `json:"root"`
	Port               int      `json:"port"`
	ProxyByDefault     bool     `json:"proxy_by_default"`
	Stylesheets        []string `json:"stylesheets,omitempty"`
	MathJax            bool     `json:"mathjax"`
	HasHead            bool     `json:"has_head"`
	HasHeader          bool     `json:"has_header"`
	PlainTextRoutes    []string `json:"plain_text_routes,omitempty"`
	CondenseLinks      []string `json:"condense_links,omitempty"`
	CondenseAtHeadings []string `json:"condense_links_at_headings,omitempty"`
	KeepGeminiExact    []string `json:"keep_gemini_exact,omitempty"`
	KeepGeminiDomain   []string `json:"keep_gemini_domain,omitempty"`
	EmbedImages        string   `json:"embed_images"`
	HTTP09             bool     `json:"http09"`
	HTTP09Port         int      `json:"http09_port,omitempty"`
	FetchTimeout       string   `json:"fetch_timeout"`
	MaxBodyBytes       int64    `json:"max_body_bytes"`
}
