package exitcode

import (
	"os"
	"strings"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ExtractionFailed indicates the plan had no usable task sections
	ExtractionFailed = 3

	// AuthError indicates an authentication or authorization failure
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// Interrupted indicates the run was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
// Coded errors win over message heuristics.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch crewerrors.CodeOf(err) {
	case crewerrors.ErrCodeSectionsMissing:
		return ExtractionFailed
	case crewerrors.ErrCodeProviderAuth, crewerrors.ErrCodeConfigMissingKey:
		return AuthError
	case crewerrors.ErrCodeProviderNotFound, crewerrors.ErrCodeConfigInvalid:
		return UsageError
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}
	if strings.Contains(errMsg, "api key") || strings.Contains(errMsg, "invalid_api_key") {
		return AuthError
	}

	if strings.Contains(errMsg, "network") || strings.Contains(errMsg, "connection") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts at most") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ExtractionFailed:
		return "No task sections could be extracted from the plan"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
