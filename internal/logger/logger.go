package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var instance *zap.Logger = func() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}()

// L returns the shared logger.
func L() *zap.Logger {
	return instance
}

// SetLevel changes the minimum level of the shared logger. Unknown levels leave it unchanged.
func SetLevel(lvl string) error {
	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return err
	}
	level.SetLevel(parsed)
	return nil
}

func Fatal(msg string, err error, fields ...zap.Field) {
	instance.Fatal(msg, append(fields, zap.Error(err))...)
}

func Error(msg string, err error, fields ...zap.Field) {
	instance.Error(msg, append(fields, zap.Error(err))...)
}

func Warn(msg string, fields ...zap.Field) {
	instance.Warn(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	instance.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	instance.Debug(msg, fields...)
}

func Sync() {
	_ = instance.Sync()
}
