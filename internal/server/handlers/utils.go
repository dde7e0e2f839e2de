package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gemrest/september/internal/logfields"
)

// writeJSON encodes v and writes it with status. The body is marshalled
// before any header is sent, so an encode error leaves w untouched for the
// caller's error adapter. "?pretty=1" or "?pretty=true" indents the output.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	var (
		body []byte
		err  error
	)
	switch r.URL.Query().Get("pretty") {
	case "1", "true":
		body, err = json.MarshalIndent(v, "", "  ")
	default:
		body, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.WarnContext(r.Context(), "client went away during JSON response",
			logfields.Path(r.URL.Path), logfields.Error(err))
	}
	return nil
}
