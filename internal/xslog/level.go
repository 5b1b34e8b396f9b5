package xslog

import (
	"encoding"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Level is a log level as it is written in config and on the command line.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var (
	_ fmt.Stringer             = LevelInfo
	_ encoding.TextUnmarshaler = (*Level)(nil)
)

var slogLevels = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

func Parse(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := slogLevels[level]; !ok {
		return "", fmt.Errorf("invalid log level: %q (valid: debug, info, warn, error)", s)
	}
	return level, nil
}

func (l *Level) UnmarshalText(text []byte) error {
	level, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// ToSlog maps l onto slog. Unknown levels log at info.
func (l Level) ToSlog() slog.Level {
	if level, ok := slogLevels[l]; ok {
		return level
	}
	return slog.LevelInfo
}

func (l Level) String() string {
	return string(l)
}

// NewLogger writes JSON records at level and above to w.
func NewLogger(w io.Writer, level Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level.ToSlog(),
	}))
}
