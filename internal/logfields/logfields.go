package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyMethod       = "method"
	KeyPath         = "path"
	KeyStatus       = "status"
	KeyUserAgent    = "user_agent"
	KeyRemoteAddr   = "remote_addr"
	KeyRequestID    = "request_id"
	KeyMode         = "mode"
	KeyTarget       = "target"
	KeyGeminiStatus = "gemini_status"
	KeyMeta         = "meta"
	KeyBodyBytes    = "body_bytes"
	KeyDurationMS   = "duration_ms"
	KeyAddr         = "addr"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Target(u string) slog.Attr       { return slog.String(KeyTarget, u) }
func GeminiStatus(c int) slog.Attr    { return slog.Int(KeyGeminiStatus, c) }
func Meta(m string) slog.Attr         { return slog.String(KeyMeta, m) }
func BodyBytes(n int) slog.Attr       { return slog.Int(KeyBodyBytes, n) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Duration records d in fractional milliseconds under the duration_ms key.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Nanoseconds()) / float64(time.Millisecond))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
