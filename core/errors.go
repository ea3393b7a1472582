package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
	Err     error  // Underlying cause, may be nil
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Error codes for configuration errors
const (
	ErrCodeConfigFileUnreadable = "CONFIG_FILE_UNREADABLE"
	ErrCodeConfigFileInvalid    = "CONFIG_FILE_INVALID"
	ErrCodeInvalidResample      = "INVALID_RESAMPLE"
)

// ErrConfigFileUnreadable returns an error for a config file that cannot be read
func ErrConfigFileUnreadable(path string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeConfigFileUnreadable,
		Message: fmt.Sprintf("Cannot read configuration file %s: %v", path, cause),
		Action:  "Check the --config path and file permissions",
		Err:     cause,
	}
}

// ErrConfigFileInvalid returns an error for a config file that is not valid YAML
func ErrConfigFileInvalid(path string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeConfigFileInvalid,
		Message: fmt.Sprintf("Invalid configuration file %s: %v", path, cause),
		Action:  "Fix the YAML syntax; see config.example.yaml for the expected keys",
		Err:     cause,
	}
}

// ErrInvalidResample returns an error for an unknown mask resample method
func ErrInvalidResample(value string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidResample,
		Message: fmt.Sprintf("Invalid %s '%s'", EnvResample, value),
		Action:  "Use one of: nearest, approxbilinear, bilinear, catmullrom",
		Err:     cause,
	}
}

// IsConfigError checks if an error is or wraps a ConfigError and returns it if so
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
