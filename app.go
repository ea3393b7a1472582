package main

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"canvasmode/core"
	"canvasmode/genmode"
	"canvasmode/logging"
	"canvasmode/patchmatch"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	dev        bool
	logFile    string
	logLevel   string
}

// app holds the components built once per invocation.
type app struct {
	config     *core.Config
	logger     *logging.Logger
	classifier *genmode.Classifier
	patchmatch *patchmatch.Loader
}

// newApp runs the startup sequence: .env, configuration, logger, classifier, patchmatch.
// Flags override configuration values when set.
func newApp(opts globalOptions, logOutput io.Writer, probe patchmatch.Probe) (*app, error) {
	// A missing .env file is the normal case
	_ = godotenv.Load()

	cfg, err := core.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dev {
		cfg.DevMode = true
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger, err := logging.NewLogger(logging.Options{
		Development: cfg.DevMode,
		Level:       logging.ParseLevel(cfg.LogLevel, logging.InfoLevel),
		FilePath:    cfg.LogFile,
		File:        logging.DefaultFileWriterConfig(),
		Console:     zapcore.AddSync(logOutput),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.LogLevel != "" && !logging.IsValidLevel(cfg.LogLevel) {
		logger.Warn("Unknown log level, using info", zap.String("log_level", cfg.LogLevel))
	}
	if path := logger.LogFilePath(); path != "" {
		logger.Info("Logging to file", zap.String("path", path))
	}
	logger.Debug("Configuration loaded", zap.Stringer("config", cfg))

	classifier, err := genmode.NewClassifier(cfg.GenmodeConfig(), logger.Named("genmode").Zap())
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	loader := patchmatch.NewLoader(cfg.TryPatchmatch, probe, logger.Named("patchmatch").Zap())
	// Available resolves the backend, so only ask when the answer is logged
	if logger.Zap().Core().Enabled(zapcore.DebugLevel) {
		logger.Debug("Patchmatch backend",
			zap.Bool("available", loader.Available()),
			zap.String("backend", patchmatch.BackendInfo()),
		)
	}

	return &app{
		config:     cfg,
		logger:     logger,
		classifier: classifier,
		patchmatch: loader,
	}, nil
}

// close flushes the logger.
func (a *app) close() {
	if a == nil {
		return
	}
	_ = a.logger.Sync()
}
