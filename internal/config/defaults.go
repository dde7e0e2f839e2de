package config

import "time"

const (
	defaultPort         = 80
	defaultHTTP09Port   = 90
	defaultAdminPort    = 9090
	defaultFetchTimeout = 30 * time.Second
	defaultMaxBodyBytes = 16 << 20
)

// Defaults returns a configuration with every field at its default. Root is
// left empty; Normalize fills it with DefaultRoot.
func Defaults() *Config {
	return &Config{
		Port:           defaultPort,
		ProxyByDefault: true,
		Appearance: AppearanceConfig{
			MathJax: true,
		},
		HTTP09: HTTP09Config{
			Port: defaultHTTP09Port,
		},
		Admin: AdminConfig{
			Port: defaultAdminPort,
		},
		Fetch: FetchConfig{
			Timeout:      defaultFetchTimeout,
			MaxBodyBytes: defaultMaxBodyBytes,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}
