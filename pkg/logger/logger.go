package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a LOG_LEVEL value onto a zap level. Unknown values fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds the service logger: JSON lines written to writer.
func New(writer io.Writer, level string) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.LevelKey = "level"
	encoderCfg.MessageKey = "message"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(ParseLevel(level)),
	)
	return zap.New(core, zap.AddCaller())
}

// NewConsole builds the client logger. An empty level means silent, the
// terminal belongs to the UI.
func NewConsole(writer io.Writer, level string) (*zap.Logger, error) {
	if strings.TrimSpace(level) == "" {
		return zap.NewNop(), nil
	}
	if writer == nil {
		return nil, fmt.Errorf("logger: nil writer for level %q", level)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(ParseLevel(level)),
	)
	return zap.New(core), nil
}

// NewConsoleFile is NewConsole appending to the file at path. The file is only
// opened when level is set, closeFn is always safe to call.
func NewConsoleFile(path, level string) (log *zap.Logger, closeFn func() error, err error) {
	noop := func() error { return nil }
	if strings.TrimSpace(level) == "" {
		return zap.NewNop(), noop, nil
	}
	if strings.TrimSpace(path) == "" {
		return nil, noop, fmt.Errorf("logger: no log file for level %q", level)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("logger: open %s: %w", path, err)
	}
	log, err = NewConsole(f, level)
	if err != nil {
		_ = f.Close()
		return nil, noop, err
	}
	return log, f.Close, nil
}
