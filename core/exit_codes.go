package core

// Exit codes for the canvasmode CLI.
const (
	// ExitCodeSuccess indicates the command completed (exit code 0)
	ExitCodeSuccess = 0

	// ExitCodeError indicates a runtime error such as an unreadable image (exit code 1)
	ExitCodeError = 1

	// ExitCodeConfig indicates invalid configuration (exit code 2)
	ExitCodeConfig = 2

	// ExitCodeSelftestFailed indicates at least one selftest scenario disagreed (exit code 3)
	ExitCodeSelftestFailed = 3
)

// ExitCodeName returns a human-readable name for an exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitCodeSuccess:
		return "success"
	case ExitCodeError:
		return "error"
	case ExitCodeConfig:
		return "configuration error"
	case ExitCodeSelftestFailed:
		return "selftest failed"
	default:
		return "unknown"
	}
}

// ExitCodeFor maps an error returned by a command to an exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if _, ok := IsConfigError(err); ok {
		return ExitCodeConfig
	}
	return ExitCodeError
}
