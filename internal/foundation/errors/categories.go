package errors

import (
	"log/slog"
	"maps"
	"slices"
)

// ErrorCategory is the broad class of an error. Adapters route on it.
type ErrorCategory string

const (
	// Client input and operator configuration.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Talking to a capsule.
	CategoryNetwork ErrorCategory = "network"
	CategoryGemini  ErrorCategory = "gemini"

	// Turning a fetched document into a response.
	CategoryGateway ErrorCategory = "gateway"
	CategoryRender  ErrorCategory = "render"

	// Listeners and process lifecycle.
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // stops the process
	SeverityError   ErrorSeverity = "error"   // fails the current request
	SeverityWarning ErrorSeverity = "warning" // client mistake or degraded response
	SeverityInfo    ErrorSeverity = "info"
)

// Level maps the severity onto a slog level.
func (s ErrorSeverity) Level() slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// RetryStrategy hints whether repeating the operation can help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// ContextURL is the context key for the capsule URL an error concerns.
const ContextURL = "url"

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value, allocating a nil context.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	str, ok := c[key].(string)
	return str, ok
}

// Keys returns the context keys in lexical order.
func (c ErrorContext) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Merge returns a new context holding c and other, other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
