package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/turbot/flowpipe-form/internal/constants"
	"github.com/turbot/flowpipe-form/internal/sanitize"
)

func FormLogger() *slog.Logger {
	handlerOptions := &slog.HandlerOptions{
		Level: GetLogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			sanitized := sanitize.Instance.SanitizeKeyValue(a.Key, a.Value.Any())

			return slog.Attr{
				Key:   a.Key,
				Value: slog.AnyValue(sanitized),
			}
		},
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, handlerOptions))
}

func FormLoggerWithLevelAndWriter(level slog.Leveler, w io.Writer) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			sanitized := sanitize.Instance.SanitizeKeyValue(a.Key, a.Value.Any())

			return slog.Attr{
				Key:   a.Key,
				Value: slog.AnyValue(sanitized),
			}
		},
	}

	return slog.New(slog.NewJSONHandler(w, handlerOptions))
}

func SetDefaultLogger() {
	slog.SetDefault(FormLogger())
}

func GetLogLevel() slog.Leveler {
	levelEnv := os.Getenv(constants.EnvLogLevel)

	switch strings.ToLower(levelEnv) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	case "off":
		return slog.Level(100)
	default:
		return slog.LevelWarn
	}
}
