package config

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gemrest/september/internal/foundation/errors"
	"github.com/gemrest/september/internal/foundation/normalization"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads the first readable .env file. Variables already present
// in the process environment are not overwritten.
func loadEnvFile() (string, error) {
	var lastErr error
	for _, name := range envFiles {
		if err := godotenv.Load(name); err != nil {
			lastErr = err
			continue
		}
		return name, nil
	}
	return "", lastErr
}

// boolNormalizer accepts the switch spellings EMBED_IMAGES accepts for
// off and on, plus yes/no.
var boolNormalizer = normalization.NewNormalizer(map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"on":    true,
	"yes":   true,
	"y":     true,
	"false": false,
	"f":     false,
	"0":     false,
	"off":   false,
	"no":    false,
	"n":     false,
}, false)

type lookupFunc func(key string) (string, bool)

// applyEnv overlays environment variables on cfg. Malformed legacy values
// (ports, booleans) are logged and ignored; malformed fetch limits are errors.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	env := envReader{lookup: lookup}

	env.str("ROOT", &cfg.Root)
	env.port("PORT", &cfg.Port)
	env.boolean("PROXY_BY_DEFAULT", &cfg.ProxyByDefault)

	env.list("CSS_EXTERNAL", &cfg.Appearance.Stylesheets)
	env.str("FAVICON_EXTERNAL", &cfg.Appearance.Favicon)
	env.str("PRIMARY_COLOUR", &cfg.Appearance.PrimaryColour)
	env.boolean("MATHJAX", &cfg.Appearance.MathJax)
	env.str("HEAD", &cfg.Appearance.Head)
	env.str("HEADER", &cfg.Appearance.Header)

	env.list("PLAIN_TEXT_ROUTE", &cfg.Routes.PlainText)
	env.list("CONDENSE_LINKS", &cfg.Routes.CondenseLinks)

	env.list("CONDENSE_LINKS_AT_HEADINGS", &cfg.Links.CondenseAtHeadings)
	env.list("KEEP_GEMINI", &cfg.Links.KeepGeminiExact)
	env.list("KEEP_GEMINI_EXACT", &cfg.Links.KeepGeminiExact)
	env.list("KEEP_GEMINI_DOMAIN", &cfg.Links.KeepGeminiDomain)
	if v, ok := lookup("EMBED_IMAGES"); ok {
		mode, known := ParseEmbedMode(v)
		if !known {
			slog.Warn("Unrecognised EMBED_IMAGES value, embedding disabled", slog.String("value", v))
		}
		cfg.Links.EmbedImages = mode
	}

	env.boolean("HTTP09", &cfg.HTTP09.Enabled)
	env.port("HTTP09_PORT", &cfg.HTTP09.Port)
	env.port("ADMIN_PORT", &cfg.Admin.Port)

	if v, ok := lookup("FETCH_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return errors.ConfigError("invalid FETCH_TIMEOUT").
				WithCause(err).
				WithContext("value", v).
				Build()
		}
		cfg.Fetch.Timeout = d
	}
	if v, ok := lookup("MAX_BODY_BYTES"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return errors.ConfigError("invalid MAX_BODY_BYTES").
				WithCause(err).
				WithContext("value", v).
				Build()
		}
		cfg.Fetch.MaxBodyBytes = n
	}

	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Logging.Level = NormalizeLogLevel(v)
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.Logging.Format = NormalizeLogFormat(v)
	}
	return nil
}

type envReader struct {
	lookup lookupFunc
}

func (e envReader) str(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e envReader) list(key string, dst *[]string) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	*dst = splitList(v)
}

func (e envReader) boolean(key string, dst *bool) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	b, known := boolNormalizer.Lookup(v)
	if !known {
		slog.Warn("Ignoring malformed boolean", slog.String("key", key), slog.String("value", v))
		return
	}
	*dst = b
}

func (e envReader) port(key string, dst *int) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("Ignoring malformed port", slog.String("key", key), slog.String("value", v), slog.Int("default", *dst))
		return
	}
	*dst = n
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return strings.Split(v, ",")
}
