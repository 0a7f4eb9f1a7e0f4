// Package logger wraps a process-wide zap logger. Packages that get a logger
// injected (the pipeline Session) use *zap.Logger directly; the printf-style
// helpers serve the CLI layer.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global *zap.Logger
)

// New builds a JSON zap logger writing to stderr and any extra output paths.
// Level accepts debug, info, warn or error; anything else falls back to info.
func New(level string, outputs ...string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = append([]string{"stderr"}, outputs...)
	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// InitLogger replaces the global logger; filename, when set, receives a copy
// of every entry.
func InitLogger(filename string, level string) error {
	var outputs []string
	if filename != "" {
		outputs = append(outputs, filename)
	}
	l, err := New(level, outputs...)
	if err != nil {
		return err
	}
	mu.Lock()
	global = l
	mu.Unlock()
	return nil
}

// L returns the global logger, initializing an info-level one on first use.
func L() *zap.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		l, err := New("info")
		if err != nil {
			l = zap.NewNop()
		}
		global = l
	}
	return global
}

// Set installs l as the global logger. Tests use it with zaptest or zap.NewNop.
func Set(l *zap.Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

func Close() {
	_ = L().Sync()
}

func Debugf(format string, v ...interface{}) { L().Sugar().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { L().Sugar().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { L().Sugar().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { L().Sugar().Errorf(format, v...) }
