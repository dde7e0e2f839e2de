package config

import (
	"net/url"

	"github.com/gemrest/september/internal/foundation/errors"
)

// Validate checks the configuration after normalisation.
func Validate(cfg *Config) error {
	if err := validateRoot(cfg.Root); err != nil {
		return err
	}

	ports := []struct {
		name  string
		value int
	}{
		{"port", cfg.Port},
		{"http09.port", cfg.HTTP09.Port},
		{"admin.port", cfg.Admin.Port},
	}
	for _, p := range ports {
		if p.value < 0 || p.value > 65535 {
			return errors.ValidationError("port out of range").
				WithContext("field", p.name).
				WithContext("value", p.value).
				Build()
		}
	}

	if cfg.HTTP09.Enabled && cfg.HTTP09.Port == 0 {
		return errors.ValidationError("http09 is enabled but has no port").
			WithContext("field", "http09.port").
			Build()
	}
	if cfg.Fetch.Timeout < 0 {
		return errors.ValidationError("fetch timeout must not be negative").
			WithContext("field", "fetch.timeout").
			WithContext("value", cfg.Fetch.Timeout.String()).
			Build()
	}
	if cfg.Fetch.MaxBodyBytes < 0 {
		return errors.ValidationError("fetch body cap must not be negative").
			WithContext("field", "fetch.max_body_bytes").
			WithContext("value", cfg.Fetch.MaxBodyBytes).
			Build()
	}
	return nil
}

func validateRoot(root string) error {
	u, err := url.Parse(root)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "root is not a valid URL").
			WithContext("field", "root").
			UserAction().
			Build()
	}
	if u.Scheme != "gemini" || u.Host == "" {
		return errors.ValidationError("root must be a gemini:// URL with a host").
			WithContext("field", "root").
			WithContext("value", root).
			Build()
	}
	return nil
}
