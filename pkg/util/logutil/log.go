package logutil

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/gmodb/rwdb/pkg/config"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

var globalLogger atomic.Value

func init() {
	lg, err := NewLogger(&config.Log{})
	if err != nil {
		lg = zap.NewNop()
	}
	globalLogger.Store(lg)
}

// BgLogger returns the process wide logger.
func BgLogger() *zap.Logger {
	return globalLogger.Load().(*zap.Logger)
}

// ReplaceLogger swaps the process wide logger and returns a function restoring the previous one.
func ReplaceLogger(lg *zap.Logger) func() {
	prev := BgLogger()
	globalLogger.Store(lg)
	return func() { globalLogger.Store(prev) }
}

// InitLogger builds a logger from cfg and installs it as the process wide logger.
func InitLogger(cfg *config.Log) error {
	lg, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	globalLogger.Store(lg)
	return nil
}

func NewLogger(cfg *config.Log) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	levelName := cfg.Level
	if levelName == "" {
		levelName = DefaultLogLevel
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(levelName))); err != nil {
		return nil, errors.WithMessage(err, "invalid log level")
	}

	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, newWriteSyncer(&cfg.LogFile), level)
	return zap.New(core, zap.AddCaller()), nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	switch strings.ToLower(format) {
	case "", LogFormatConsole:
		return zapcore.NewConsoleEncoder(encCfg), nil
	case LogFormatJSON:
		return zapcore.NewJSONEncoder(encCfg), nil
	default:
		return nil, errors.Errorf("invalid log format: %s", format)
	}
}

func newWriteSyncer(cfg *config.LogFile) zapcore.WriteSyncer {
	if cfg.Filename == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	})
}
