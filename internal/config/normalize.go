package config

import (
	"log/slog"
	"strings"
)

// Normalize canonicalises list entries and the root URL in place.
func Normalize(cfg *Config) {
	if strings.TrimSpace(cfg.Root) == "" {
		slog.Warn("No root capsule configured, using default", slog.String("root", DefaultRoot))
		cfg.Root = DefaultRoot
	}
	cfg.Root = strings.TrimSuffix(strings.TrimSpace(cfg.Root), "/")

	cfg.Appearance.Stylesheets = cleanList(cfg.Appearance.Stylesheets)
	cfg.Routes.PlainText = cleanList(cfg.Routes.PlainText)
	cfg.Routes.CondenseLinks = cleanList(cfg.Routes.CondenseLinks)
	cfg.Links.CondenseAtHeadings = cleanList(cfg.Links.CondenseAtHeadings)
	cfg.Links.KeepGeminiExact = cleanList(cfg.Links.KeepGeminiExact)
	cfg.Links.KeepGeminiDomain = cleanList(cfg.Links.KeepGeminiDomain)

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
