package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySlug       = "slug"
	KeySource     = "source"
	KeyPath       = "path"
	KeyDirectory  = "directory"
	KeyCount      = "count"
	KeyField      = "field"
	KeyTier       = "tier"
	KeyView       = "view"
	KeyTag        = "tag"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyURL        = "url"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyRequestID  = "request_id"
	KeyAttempt    = "attempt"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Source(name string) slog.Attr     { return slog.String(KeySource, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Directory(d string) slog.Attr     { return slog.String(KeyDirectory, d) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Field(f string) slog.Attr         { return slog.String(KeyField, f) }
func Tier(name string) slog.Attr       { return slog.String(KeyTier, name) }
func View(v string) slog.Attr          { return slog.String(KeyView, v) }
func Tag(t string) slog.Attr           { return slog.String(KeyTag, t) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Attempt(n int) slog.Attr          { return slog.Int(KeyAttempt, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
