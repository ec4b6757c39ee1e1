package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Fatalf(template string, args ...any)

	Sync() error
}

type LoggerConfig struct {
	FilePath string
	Encoding string
	Level    string
	Logger   string
}

// NewLogger builds the backend named by cfg.Logger. Output goes to stdout, and
// additionally to a size-rotated file when FilePath is set.
func NewLogger(cfg *LoggerConfig) (Logger, error) {
	w, err := newWriter(cfg.FilePath)
	if err != nil {
		return nil, err
	}

	switch cfg.Logger {
	case "", "zap":
		return newZapLogger(cfg, w), nil
	case "zerolog":
		return newZeroLogger(cfg, w), nil
	}

	return nil, fmt.Errorf("logger not supported: %q: supported loggers: [zap, zerolog]", cfg.Logger)
}

func newWriter(filePath string) (io.Writer, error) {
	if filePath == "" {
		return os.Stdout, nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     7, // days
		Compress:   true,
	}

	return io.MultiWriter(os.Stdout, rotating), nil
}
