package logger

import (
	"context"
	"time"

	ctxutil "github.com/crewhub/accounts/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogBuilder accumulates fields for a single context-aware log entry.
// Usage: logger.InfoWithContext(ctx, "msg").String("k", "v").Log()
type LogBuilder struct {
	ctx       context.Context
	level     zapcore.Level
	message   string
	fields    []zap.Field
	shouldLog bool
}

func newBuilder(ctx context.Context, level zapcore.Level, message string) *LogBuilder {
	b := &LogBuilder{
		ctx:       ctx,
		level:     level,
		message:   message,
		shouldLog: ShouldLog(level),
	}
	if b.shouldLog {
		b.fields = make([]zap.Field, 0, 8)
		b.extractContextFields()
	}
	return b
}

// extractContextFields pulls request tracking metadata out of the context
func (b *LogBuilder) extractContextFields() {
	if b.ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(b.ctx); requestID != "" {
		b.fields = append(b.fields, zap.String("request_id", requestID))
	}
	if clientIP := ctxutil.GetClientIP(b.ctx); clientIP != "" {
		b.fields = append(b.fields, zap.String("client_ip", clientIP))
	}
	if module := ctxutil.GetModule(b.ctx); module != "" {
		b.fields = append(b.fields, zap.String("module", module))
	}
	if function := ctxutil.GetFunction(b.ctx); function != "" {
		b.fields = append(b.fields, zap.String("function", function))
	}
	if userID, ok := ctxutil.GetUserID(b.ctx); ok {
		b.fields = append(b.fields, zap.Uint("auth_user_id", userID))
	}
}

func (b *LogBuilder) String(key, value string) *LogBuilder {
	if b.shouldLog {
		b.fields = append(b.fields, zap.String(key, value))
	}
	return b
}

func (b *LogBuilder) Int(key string, value int) *LogBuilder {
	if b.shouldLog {
		b.fields = append(b.fields, zap.Int(key, value))
	}
	return b
}

func (b *LogBuilder) Int64(key string, value int64) *LogBuilder {
	if b.shouldLog {
		b.fields = append(b.fields, zap.Int64(key, value))
	}
	return b
}

func (b *LogBuilder) Uint(key string, value uint) *LogBuilder {
	if b.shouldLog {
		b.fields = append(b.fields, zap.Uint(key, value))
	}
	return b
}

func (b *LogBuilder) Bool(key string, value bool) *LogBuilder {
	if b.shouldLog {
		b.fields = append(b.fields, zap.Bool(key, value))
	}
	return b
}

func (b *LogBuilder) Duration(value time.Duration) *LogBuilder {
	if b.shouldLog {
		b.fields = append(b.fields, zap.Duration("duration", value))
	}
	return b
}

func (b *LogBuilder) Err(err error) *LogBuilder {
	if b.shouldLog && err != nil {
		b.fields = append(b.fields, zap.Error(err))
	}
	return b
}

func (b *LogBuilder) Any(key string, value interface{}) *LogBuilder {
	if b.shouldLog {
		b.fields = append(b.fields, zap.Any(key, value))
	}
	return b
}

// Log writes the accumulated entry
func (b *LogBuilder) Log() {
	if !b.shouldLog {
		return
	}

	switch b.level {
	case zapcore.DebugLevel:
		log.Debug(b.message, b.fields...)
	case zapcore.InfoLevel:
		log.Info(b.message, b.fields...)
	case zapcore.WarnLevel:
		log.Warn(b.message, b.fields...)
	case zapcore.ErrorLevel:
		log.Error(b.message, b.fields...)
	}
}

func DebugWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.DebugLevel, message)
}

func InfoWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.InfoLevel, message)
}

func WarnWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.WarnLevel, message)
}

func ErrorWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.ErrorLevel, message)
}
