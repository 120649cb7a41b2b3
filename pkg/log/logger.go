// Package log wires up structured logging for electnet. Records are emitted
// as JSON through log/slog; errors built with pkg/errors get their
// cockroachdb stack traces attached as a dedicated attribute.
package log

import (
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	"github.com/voteworks/electnet/pkg/errors"
)

// Setup installs the process-wide slog logger and routes pkg/errors warnings
// through a zerolog writer so warning objects keep their structured fields.
func Setup(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stderr, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))

	warnLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			warnLogger.Warn().Object("warning", obj).Msg(warning.Error())
			return
		}
		warnLogger.Warn().Err(warning).Msg("warning")
	})
}

// ToLogLevel maps a level name to a slog.Level. Unrecognized names fall
// back to info; the value arrives straight from the --log-level flag, so a
// typo must not take the process down.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
