package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level names accepted by NewLogger. LevelOff disables tracing.
const (
	LevelOff   = "off"
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger wraps zap.Logger to provide key/value diagnostic tracing
type Logger struct {
	*zap.Logger
}

// NewLogger creates a console logger writing to stderr at the given level
func NewLogger(level string) (*Logger, error) {
	var lvl zapcore.Level
	switch level {
	case "", LevelOff:
		return NewNopLogger(), nil
	case LevelDebug:
		lvl = zap.DebugLevel
	case LevelInfo:
		lvl = zap.InfoLevel
	case LevelWarn:
		lvl = zap.WarnLevel
	case LevelError:
		lvl = zap.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	l, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &Logger{Logger: l}, nil
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Error logs a message at Error level
func (l *Logger) Error(msg string, args ...interface{}) {
	l.Logger.Error(msg, argsToFields(args...)...)
}

// Warn logs a message at Warn level
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Logger.Warn(msg, argsToFields(args...)...)
}

// Info logs a message at Info level
func (l *Logger) Info(msg string, args ...interface{}) {
	l.Logger.Info(msg, argsToFields(args...)...)
}

// Debug logs a message at Debug level
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.Logger.Debug(msg, argsToFields(args...)...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

// argsToFields converts variadic args to zap fields
func argsToFields(args ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			key, ok := args[i].(string)
			if !ok {
				continue
			}
			fields = append(fields, zap.Any(key, args[i+1]))
		}
	}
	return fields
}
