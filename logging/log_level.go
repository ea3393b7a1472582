package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Log level constants for convenience
const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// ParseLevel parses a level name case-insensitively, accepting "warning" as
// an alias of "warn". Empty or unknown names return defaultLevel.
func ParseLevel(name string, defaultLevel zapcore.Level) zapcore.Level {
	level, ok := lookupLevel(name)
	if !ok {
		return defaultLevel
	}
	return level
}

// IsValidLevel reports whether ParseLevel recognises name.
// The empty string is not a level.
func IsValidLevel(name string) bool {
	_, ok := lookupLevel(name)
	return ok
}

func lookupLevel(name string) (zapcore.Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		// zapcore treats "" as info
		return zapcore.InfoLevel, false
	case "warning":
		name = "warn"
	}

	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, false
	}
	return level, true
}
