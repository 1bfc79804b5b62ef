package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log   *zap.Logger
	level zap.AtomicLevel
)

func init() {
	// Usable default until InitLogger runs, tests rely on this
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	log = zap.NewNop()
}

// InitLogger initializes the global Zap logger for the given environment
func InitLogger(environment string) error {
	switch environment {
	case "production":
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	stdoutCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)
	stderrCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		zapcore.ErrorLevel,
	)

	log = zap.New(
		zapcore.NewTee(stdoutCore, stderrCore),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	return nil
}

// GetLogger returns the structured logger
func GetLogger() *zap.Logger {
	return log
}

// ShouldLog reports whether the given level is currently enabled
func ShouldLog(l zapcore.Level) bool {
	return level.Enabled(l)
}

// Sync flushes buffered logs (call before the application exits)
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

// LogRequest logs HTTP request information
func LogRequest(method, path string, statusCode int, durationMs int64, clientIP, userAgent string) {
	log.Info("HTTP request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", durationMs),
		zap.String("client_ip", clientIP),
		zap.String("user_agent", userAgent),
	)
}

// LogPanic logs a recovered panic with its stack
func LogPanic(recovered interface{}) {
	log.Error("Panic recovered",
		zap.Any("panic", recovered),
		zap.Stack("stack"),
	)
}
