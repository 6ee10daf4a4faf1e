package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Brief errors (BRIEF-001 to BRIEF-099)
	ErrCodeBriefEmpty ErrorCode = "BRIEF-001"

	// Plan errors (PLAN-001 to PLAN-099)
	ErrCodeSectionsMissing ErrorCode = "PLAN-001"

	// Path errors (PATH-001 to PATH-099)
	ErrCodePathEscapesBase ErrorCode = "PATH-001"
	ErrCodePathEmpty       ErrorCode = "PATH-002"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigLoad       ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG-002"
	ErrCodeConfigMissingKey ErrorCode = "CONFIG-003"

	// Provider errors (PROVIDER-001 to PROVIDER-099)
	ErrCodeProviderNotFound ErrorCode = "PROVIDER-001"
	ErrCodeProviderConfig   ErrorCode = "PROVIDER-002"
	ErrCodeProviderAuth     ErrorCode = "PROVIDER-003"
	ErrCodeProviderAPI      ErrorCode = "PROVIDER-004"
	ErrCodeProviderNoChoice ErrorCode = "PROVIDER-005"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileMarshal     ErrorCode = "IO-005"
)

// CrewError is an error with a stable code, optional suggestions and a cause
type CrewError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *CrewError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *CrewError) Unwrap() error {
	return e.Cause
}

// New creates a new CrewError
func New(code ErrorCode, message string) *CrewError {
	return &CrewError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new CrewError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *CrewError {
	return &CrewError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CrewError) WithSuggestion(suggestion string) *CrewError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *CrewError) WithSuggestions(suggestions ...string) *CrewError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *CrewError) WithDocs(url string) *CrewError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the first CrewError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var crewErr *CrewError
	if stderrors.As(err, &crewErr) {
		return crewErr.Code
	}
	return ""
}

// HasCode reports whether err's chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewBriefEmptyError creates an empty project brief error
func NewBriefEmptyError() *CrewError {
	return New(ErrCodeBriefEmpty, "project brief is empty").
		WithSuggestion("Pass the brief as an argument: crewgen run \"store name and email, display them\"").
		WithSuggestion("Or read it from a file with --brief-file")
}

// NewSectionsMissingError creates an error for a plan with no usable task sections
func NewSectionsMissingError(sections ...string) *CrewError {
	return New(ErrCodeSectionsMissing,
		fmt.Sprintf("could not extract %s from coordinator output", quoteJoin(sections))).
		WithSuggestion("Ensure the coordinator returns JSON keyed by section name, or markdown headings").
		WithSuggestion("Inspect the plan with 'crewgen extract --in <plan file> --section <name>'")
}

// NewPathEscapesBaseError creates an error for a generated path outside the base directory
func NewPathEscapesBaseError(path, base string) *CrewError {
	return New(ErrCodePathEscapesBase, fmt.Sprintf("path %q escapes base directory %s", path, base)).
		WithSuggestion("Generated file paths must be relative and stay inside the base directory")
}

// NewConfigMissingKeyError creates an error for a provider with no credential
func NewConfigMissingKeyError(provider, envVar string) *CrewError {
	return New(ErrCodeConfigMissingKey, fmt.Sprintf("no API key configured for provider: %s", provider)).
		WithSuggestion(fmt.Sprintf("Set the %s environment variable or add it to .env", envVar)).
		WithSuggestion("Use --provider scripted --script <file> for offline runs")
}

// NewProviderNotFoundError creates an unknown provider error
func NewProviderNotFoundError(name string) *CrewError {
	return New(ErrCodeProviderNotFound, fmt.Sprintf("unknown provider: %s", name)).
		WithSuggestion("Use one of: openai, anthropic, scripted")
}

// NewProviderAuthError creates a provider authentication error
func NewProviderAuthError(provider string) *CrewError {
	return New(ErrCodeProviderAuth, fmt.Sprintf("authentication failed for provider: %s", provider)).
		WithSuggestion(fmt.Sprintf("Set the %s_API_KEY environment variable", strings.ToUpper(provider))).
		WithSuggestion("Check if your API key is valid and not expired")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *CrewError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileWriteError creates a file write error
func NewFileWriteError(path string, cause error) *CrewError {
	return Wrap(ErrCodeFileWriteFailed, fmt.Sprintf("failed to write file: %s", path), cause)
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("'%s'", item)
	}
	return strings.Join(quoted, " or ")
}
