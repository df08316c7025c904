package logger

import (
	"context"
	"strings"

	"github.com/asticode/go-astiav"
)

func LevelToAstiav(level Level) astiav.LogLevel {
	switch level {
	case LevelUndefined:
		return astiav.LogLevelQuiet
	case LevelFatal:
		return astiav.LogLevelFatal
	case LevelPanic:
		return astiav.LogLevelPanic
	case LevelError:
		return astiav.LogLevelError
	case LevelWarning:
		return astiav.LogLevelWarning
	case LevelInfo:
		return astiav.LogLevelInfo
	case LevelDebug:
		return astiav.LogLevelVerbose
	case LevelTrace:
		return astiav.LogLevelDebug
	}
	return astiav.LogLevelWarning
}

func LevelFromAstiav(level astiav.LogLevel) Level {
	switch {
	case level <= astiav.LogLevelPanic:
		return LevelPanic
	case level <= astiav.LogLevelFatal:
		return LevelFatal
	case level <= astiav.LogLevelError:
		return LevelError
	case level <= astiav.LogLevelWarning:
		return LevelWarning
	case level <= astiav.LogLevelInfo:
		return LevelInfo
	case level <= astiav.LogLevelVerbose:
		return LevelDebug
	}
	return LevelTrace
}

// RouteAstiav redirects libav's own log output into the logger of ctx.
func RouteAstiav(ctx context.Context) {
	astiav.SetLogLevel(LevelToAstiav(FromCtx(ctx).Level()))
	astiav.SetLogCallback(func(c astiav.Classer, level astiav.LogLevel, fmt, msg string) {
		var cs string
		if c != nil {
			if cl := c.Class(); cl != nil {
				cs = " - class: " + cl.String()
			}
		}
		Logf(ctx, LevelFromAstiav(level), "%s%s", strings.TrimSpace(msg), cs)
	})
}
