package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const name = "feexpay"

var log *zap.Logger

// New builds a logger for env. Production writes JSON to stdout; every other
// env writes colored console lines to stderr so the CLI keeps stdout for its
// results. An empty level means info in production and debug elsewhere.
func New(env, level string) (*zap.Logger, error) {
	prod := strings.EqualFold(env, "production")

	var cfg zap.Config
	if prod {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.OutputPaths = []string{"stderr"}
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Named(name), nil
}

// Init sets the global logger. A bad level is reported and ignored.
func Init(env, level string) {
	l, err := New(env, level)
	if err != nil && level != "" {
		l, _ = New(env, "")
		if l != nil {
			l.Warn("ignoring LOG_LEVEL", zap.Error(err))
		}
	}
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}

// Set replaces the global logger; tests plug observer cores in here.
func Set(l *zap.Logger) {
	log = l
}

func L() *zap.Logger {
	if log == nil {
		Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	}
	return log
}

func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
