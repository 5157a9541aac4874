// Package logger provides a printf-style wrapper around zap for the archiver.
// Diagnostics go to stderr so the user-facing report on stdout stays clean.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = build(zapcore.InfoLevel)

// Initialize reconfigures the global logger with the given level.
// Unknown level strings fall back to info.
// Call once at startup, before any goroutines log.
func Initialize(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	log = build(lvl)
}

func build(lvl zapcore.Level) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		lvl,
	)
	return zap.New(core).Sugar()
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) { log.Debugf(format, args...) }

// Info logs a formatted message at info level.
func Info(format string, args ...any) { log.Infof(format, args...) }

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) { log.Warnf(format, args...) }

// Error logs a formatted message at error level.
func Error(format string, args ...any) { log.Errorf(format, args...) }

// Fatal logs a formatted message at fatal level and exits the process.
func Fatal(format string, args ...any) { log.Fatalf(format, args...) }
