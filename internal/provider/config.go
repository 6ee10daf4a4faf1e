package provider

import (
	"net/http"
	"time"
)

// Provider names
const (
	NameOpenAI    = "openai"
	NameAnthropic = "anthropic"
	NameScripted  = "scripted"
)

// KeysURL returns the page where an API key for the named provider is issued,
// or "" for providers that take no key.
func KeysURL(name string) string {
	switch name {
	case NameOpenAI:
		return "https://platform.openai.com/api-keys"
	case NameAnthropic:
		return "https://console.anthropic.com/settings/keys"
	default:
		return ""
	}
}

// Config selects and configures a completion client.
type Config struct {
	// Name is one of openai, anthropic or scripted
	Name string `yaml:"name"`

	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	// MaxTokens caps completions; Anthropic requires a value so it defaults there
	MaxTokens int `yaml:"max_tokens"`

	// ScriptPath is the canned-response file for the scripted provider
	ScriptPath string `yaml:"script"`

	// HTTPClient overrides the client built from Timeout
	HTTPClient *http.Client `yaml:"-"`
}
