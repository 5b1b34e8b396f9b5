package xslog

import (
	"log/slog"
	"time"

	"github.com/garrettladley/whoopy/internal/version"
)

const (
	keyError = "error"
)

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func Method(method string) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, method)
}

func Path(path string) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, path)
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func Resource(kind string) slog.Attr {
	const resourceKey = "resource"
	return slog.String(resourceKey, kind)
}

func Page(n int) slog.Attr {
	const pageKey = "page"
	return slog.Int(pageKey, n)
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func Start(t time.Time) slog.Attr {
	const startKey = "start"
	return slog.Time(startKey, t)
}

func End(t time.Time) slog.Attr {
	const endKey = "end"
	return slog.Time(endKey, t)
}

func Expiry(t time.Time) slog.Attr {
	const expiryKey = "expires_at"
	return slog.Time(expiryKey, t)
}

func Store(kind string) slog.Attr {
	const storeKey = "store"
	return slog.String(storeKey, kind)
}

func Attempt(n int) slog.Attr {
	const attemptKey = "attempt"
	return slog.Int(attemptKey, n)
}

func Command(path string) slog.Attr {
	const commandKey = "command"
	return slog.String(commandKey, path)
}
