// Package handlers contains the admin HTTP handlers: health and a sanitized
// configuration summary.
//
// Handlers report failures through the foundation/errors HTTPErrorAdapter and
// encode bodies with the server/responses types.
package handlers
