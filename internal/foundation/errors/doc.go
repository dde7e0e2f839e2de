// Package errors provides the classified error primitives shared by the gateway.
//
// A ClassifiedError carries a category (config, validation, network, gemini, gateway, ...),
// a severity, a retry hint and structured context. The HTTP adapter maps categories to status
// codes and writes a plain-text body suited to browser clients; the CLI adapter maps them to
// process exit codes.
//
// Example usage:
//
//	err := errors.WrapError(parseErr, errors.CategoryValidation, "invalid target URL").
//		WithContext("path", r.URL.Path).
//		Build()
package errors
