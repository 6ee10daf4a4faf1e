package exitcode

import (
	"errors"
	"fmt"
	"testing"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"ExtractionFailed", ExtractionFailed, 3},
		{"AuthError", AuthError, 5},
		{"NetworkError", NetworkError, 6},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			expected: Success,
		},
		{
			name:     "sections missing",
			err:      crewerrors.NewSectionsMissingError("Frontend Tasks", "Backend Tasks"),
			expected: ExtractionFailed,
		},
		{
			name:     "wrapped sections missing",
			err:      fmt.Errorf("run: %w", crewerrors.NewSectionsMissingError("Backend Tasks")),
			expected: ExtractionFailed,
		},
		{
			name:     "missing key",
			err:      crewerrors.NewConfigMissingKeyError("openai", "OPENAI_API_KEY"),
			expected: AuthError,
		},
		{
			name:     "unknown provider",
			err:      crewerrors.NewProviderNotFoundError("mystery"),
			expected: UsageError,
		},
		{
			name:     "unauthorized message",
			err:      errors.New("openai error: Unauthorized"),
			expected: AuthError,
		},
		{
			name:     "connection refused",
			err:      errors.New("send request: dial tcp: connection refused"),
			expected: NetworkError,
		},
		{
			name:     "timeout",
			err:      errors.New("context deadline exceeded (Client.Timeout exceeded)"),
			expected: NetworkError,
		},
		{
			name:     "unknown flag",
			err:      errors.New("unknown command \"bogus\" for \"crewgen\""),
			expected: UsageError,
		},
		{
			name:     "generic error",
			err:      errors.New("something broke"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	if got := GetExitCodeDescription(ExtractionFailed); got == "Unknown error" {
		t.Errorf("ExtractionFailed should have a description")
	}
	if got := GetExitCodeDescription(99); got != "Unknown error" {
		t.Errorf("GetExitCodeDescription(99) = %q", got)
	}
}
