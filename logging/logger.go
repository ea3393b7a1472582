// Package logging provides structured logging for the canvas mode tools.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures NewLogger.
type Options struct {
	// Development selects the coloured console encoder; otherwise the console gets JSON.
	Development bool

	// Level is the minimum level written to every sink.
	Level zapcore.Level

	// FilePath is the rotating log file. Empty disables file output.
	FilePath string

	// File tunes rotation of FilePath. Zero fields use defaults.
	File FileWriterConfig

	// Console receives console output. Nil means os.Stdout.
	Console zapcore.WriteSyncer
}

// Logger wraps zap.Logger with the console and file sinks used by the CLI.
//
// Example:
//
//	logger, err := NewLogger(Options{Development: true, Level: DebugLevel, FilePath: "canvasmode.log"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("classified", zap.String("mode", "img2img"))
type Logger struct {
	zap         *zap.Logger
	logFilePath string
}

// NewLogger creates a Logger from opts.
func NewLogger(opts Options) (*Logger, error) {
	console := opts.Console
	if console == nil {
		console = zapcore.Lock(os.Stdout)
	}

	var file zapcore.WriteSyncer
	if opts.FilePath != "" {
		if err := ensureLogDir(opts.FilePath); err != nil {
			return nil, fmt.Errorf("failed to prepare log file: %w", err)
		}
		file = NewFileWriter(opts.FilePath, opts.File)
	}

	core := NewCore(opts.Level, console, file, opts.Development)
	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1), // skip this wrapper
	)

	return &Logger{
		zap:         zapLogger,
		logFilePath: opts.FilePath,
	}, nil
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, fields...)
}

// With creates a child logger carrying fields on every entry.
//
// Example:
//
//	runLogger := logger.With(zap.String("run_id", id))
//	runLogger.Info("classifying")
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{
		zap:         l.zap.With(fields...),
		logFilePath: l.logFilePath,
	}
}

// Named adds a sub-logger name, e.g. "patchmatch".
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		zap:         l.zap.Named(name),
		logFilePath: l.logFilePath,
	}
}

// Zap returns a zap.Logger for packages that accept one directly.
// The wrapper's caller skip is removed so call sites stay accurate.
func (l *Logger) Zap() *zap.Logger {
	return l.zap.WithOptions(zap.AddCallerSkip(-1))
}

// LogFilePath returns the path to the log file, empty when file output is off.
func (l *Logger) LogFilePath() string {
	return l.logFilePath
}
