package config

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger is a zap logger wrapped with otelzap so every entry carries the
// active trace and span ids.
type AppLogger struct {
	Logger      *otelzap.Logger
	serviceName string
}

func NewAppLogger(serviceName string, production bool) (*AppLogger, error) {
	var zapConfig zap.Config

	if production {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return &AppLogger{
		Logger:      otelzap.New(zapLogger),
		serviceName: serviceName,
	}, nil
}

// NewNopLogger discards everything; used by tests.
func NewNopLogger() *AppLogger {
	return &AppLogger{
		Logger:      otelzap.New(zap.NewNop()),
		serviceName: "taskapp-test",
	}
}

func (l *AppLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *AppLogger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Info(msg, append(fields, zap.String("service", l.serviceName))...)
}

func (l *AppLogger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Error(msg, append(fields, zap.String("service", l.serviceName))...)
}

func (l *AppLogger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Warn(msg, append(fields, zap.String("service", l.serviceName))...)
}
