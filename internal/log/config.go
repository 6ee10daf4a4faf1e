package log

import (
	"io"
	"os"
	"strings"
)

// Format selects the slog handler
type Format int

const (
	// FormatText writes key=value lines, the default for an interactive CLI
	FormatText Format = iota
	// FormatJSON writes one JSON object per record
	FormatJSON
)

// String returns the flag spelling of the format
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ParseFormat parses a --log-format value. Unknown values fall back to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum level written
	Level Level

	Format Format

	// Writer receives log records. Nil means stderr, so stdout stays free
	// for command output such as extracted sections.
	Writer io.Writer

	// AddSource includes file:line in records
	AddSource bool

	// Attributes attached to every record
	ServiceName    string
	ServiceVersion string
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stderr
	}
	return c.Writer
}

// DefaultConfig logs warnings and above as text on stderr
func DefaultConfig() Config {
	return Config{
		Level:       LevelWarn,
		Format:      FormatText,
		ServiceName: "crewgen",
	}
}

// VerboseConfig logs everything down to debug with source locations
func VerboseConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = LevelDebug
	cfg.AddSource = true
	return cfg
}
