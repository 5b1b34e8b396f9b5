package xslog

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	groupRequest   = "request"
	groupResponse  = "response"
	groupError     = "error"
	groupRateLimit = "rate_limit"
)

const (
	keyHost       = "host"
	keyQuery      = "query"
	keyStatusText = "status_text"
	keyDurationMS = "duration_ms"
	keyMessage    = "message"
	keyType       = "type"
	keyLimit      = "limit"
	keyRemaining  = "remaining"
	keyReset      = "reset"
)

// RequestGroup describes an outbound request. Headers are never logged.
func RequestGroup(r *http.Request) slog.Attr {
	attrs := []slog.Attr{
		Method(r.Method),
		Path(r.URL.Path),
		slog.String(keyHost, r.URL.Host),
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String(keyQuery, r.URL.RawQuery))
	}
	return slog.GroupAttrs(groupRequest, attrs...)
}

func ResponseGroup(status int, duration time.Duration) slog.Attr {
	return slog.Group(groupResponse,
		HTTPStatus(status),
		slog.String(keyStatusText, http.StatusText(status)),
		Duration(duration),
		slog.Int64(keyDurationMS, duration.Milliseconds()),
	)
}

func ErrorGroup(err error) slog.Attr {
	if err == nil {
		return slog.Group(groupError)
	}
	return slog.Group(groupError,
		slog.String(keyMessage, err.Error()),
		slog.String(keyType, fmt.Sprintf("%T", err)),
	)
}

func RateLimitGroup(limit, remaining int, reset time.Duration) slog.Attr {
	return slog.Group(groupRateLimit,
		slog.Int(keyLimit, limit),
		slog.Int(keyRemaining, remaining),
		slog.Duration(keyReset, reset),
	)
}
