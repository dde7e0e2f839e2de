// Package config loads the gateway configuration.
//
// Configuration is assembled once at startup (defaults, then an optional YAML
// file, then environment variables) and treated as read-only afterwards.
package config

import (
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gemrest/september/internal/foundation/errors"
)

// DefaultRoot is served when no root capsule is configured.
const DefaultRoot = "gemini://fuwn.me"

// Config is the complete gateway configuration.
type Config struct {
	// Root is the capsule served for Direct mode paths.
	Root string `yaml:"root"`
	// Port is the HTTP listener port.
	Port int `yaml:"port"`
	// ProxyByDefault enables proxy rewriting of links.
	ProxyByDefault bool `yaml:"proxy_by_default"`

	Appearance AppearanceConfig `yaml:"appearance"`
	Routes     RoutesConfig     `yaml:"routes"`
	Links      LinksConfig      `yaml:"links"`
	HTTP09     HTTP09Config     `yaml:"http09"`
	Admin      AdminConfig      `yaml:"admin"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AppearanceConfig controls what full pages inject into <head> and <body>.
type AppearanceConfig struct {
	Stylesheets   []string `yaml:"stylesheets"`
	Favicon       string   `yaml:"favicon"`
	PrimaryColour string   `yaml:"primary_colour"`
	MathJax       bool     `yaml:"mathjax"`
	Head          string   `yaml:"head"`
	Header        string   `yaml:"header"`
}

// RoutesConfig holds wildcard route lists.
type RoutesConfig struct {
	// PlainText routes are served as text/plain without conversion.
	PlainText []string `yaml:"plain_text"`
	// CondenseLinks routes render every run of links as one paragraph.
	CondenseLinks []string `yaml:"condense_links"`
}

// LinksConfig controls link rewriting.
type LinksConfig struct {
	CondenseAtHeadings []string  `yaml:"condense_at_headings"`
	KeepGeminiExact    []string  `yaml:"keep_gemini_exact"`
	KeepGeminiDomain   []string  `yaml:"keep_gemini_domain"`
	EmbedImages        EmbedMode `yaml:"embed_images"`
}

// HTTP09Config configures the optional HTTP/0.9 listener.
type HTTP09Config struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// AdminConfig configures the health and metrics listener. Port 0 disables it.
type AdminConfig struct {
	Port int `yaml:"port"`
}

// FetchConfig bounds capsule fetches.
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables are used.
func Load(path string) (*Config, error) {
	if loaded, err := loadEnvFile(); err == nil {
		slog.Debug("Loaded environment file", slog.String("file", loaded))
	}

	cfg := Defaults()
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return errors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return errors.ConfigError("failed to parse config file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
