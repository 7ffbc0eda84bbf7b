package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Init builds the process logger. "production" gets JSON at info level,
// everything else gets the console encoder at debug level.
func Init(env string) {
	var (
		base *zap.Logger
		err  error
	)

	if env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		base, err = cfg.Build(zap.AddCallerSkip(1))
	} else {
		base, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	}
	if err != nil {
		return
	}

	sugar = base.Sugar()
}

// Use swaps the process logger, mostly for tests that want to observe output.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func Debug(msg string, kv ...any) { sugar.Debugw(msg, kv...) }

func Info(msg string, kv ...any) { sugar.Infow(msg, kv...) }

func Warn(msg string, kv ...any) { sugar.Warnw(msg, kv...) }

func Error(msg string, kv ...any) { sugar.Errorw(msg, kv...) }

func Fatal(msg string, kv ...any) { sugar.Fatalw(msg, kv...) }

// Sync flushes buffered entries; call it before exit.
func Sync() error {
	return sugar.Sync()
}
