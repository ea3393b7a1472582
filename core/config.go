package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"canvasmode/genmode"
)

// Environment variable names read by LoadConfig.
const (
	EnvResample      = genmode.EnvResample
	EnvLogLevel      = "CANVASMODE_LOG_LEVEL"
	EnvLogFile       = "CANVASMODE_LOG_FILE"
	EnvDevMode       = "CANVASMODE_DEV_MODE"
	EnvTryPatchmatch = "CANVASMODE_TRY_PATCHMATCH"
)

// Config holds all configuration values
type Config struct {
	Resample      string `yaml:"resample"`       // Mask resample method (nearest, approxbilinear, bilinear, catmullrom)
	LogLevel      string `yaml:"log_level"`      // debug, info, warn, error
	LogFile       string `yaml:"log_file"`       // Optional rotating log file path
	DevMode       bool   `yaml:"dev_mode"`       // Human-readable console output
	TryPatchmatch bool   `yaml:"try_patchmatch"` // Probe the patchmatch backend at startup
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Resample:      string(genmode.DefaultResample),
		LogLevel:      "info",
		LogFile:       "",
		DevMode:       false,
		TryPatchmatch: true,
	}
}

// LoadConfig builds the configuration from defaults, then the optional YAML
// file at path, then environment variables. Environment always wins.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ErrConfigFileUnreadable(path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return ErrConfigFileInvalid(path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Resample = GetEnvOrDefault(EnvResample, c.Resample)
	c.LogLevel = GetEnvOrDefault(EnvLogLevel, c.LogLevel)
	c.LogFile = GetEnvOrDefault(EnvLogFile, c.LogFile)
	c.DevMode = ParseBoolEnv(EnvDevMode, c.DevMode)
	c.TryPatchmatch = ParseBoolEnv(EnvTryPatchmatch, c.TryPatchmatch)
}

// Validate checks values that cannot be silently defaulted.
func (c *Config) Validate() error {
	r, err := genmode.ParseResample(c.Resample)
	if err != nil {
		return ErrInvalidResample(c.Resample, err)
	}
	c.Resample = string(r)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return nil
}

// GenmodeConfig returns the classifier configuration. Call after Validate.
func (c *Config) GenmodeConfig() genmode.Config {
	r, err := genmode.ParseResample(c.Resample)
	if err != nil {
		return genmode.DefaultConfig()
	}
	return genmode.Config{Resample: r}
}

// String renders the configuration for startup logging.
func (c *Config) String() string {
	logFile := c.LogFile
	if logFile == "" {
		logFile = "(console only)"
	}
	return fmt.Sprintf("resample=%s log_level=%s log_file=%s dev_mode=%t try_patchmatch=%t",
		c.Resample, c.LogLevel, logFile, c.DevMode, c.TryPatchmatch)
}
