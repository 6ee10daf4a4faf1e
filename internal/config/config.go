// Package config builds the run configuration once at startup from defaults,
// crewgen.yaml, .env and the environment. Flags are applied by the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/crewgen/internal/agent"
	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
	"github.com/felixgeelhaar/crewgen/internal/output"
	"github.com/felixgeelhaar/crewgen/internal/provider"
)

// DefaultFile is read from the working directory when no path is given
const DefaultFile = "crewgen.yaml"

// Config is the complete configuration of a run.
type Config struct {
	Provider provider.Config `yaml:"provider"`

	// Agents overrides model and temperature per role, keyed by role name
	Agents map[string]AgentConfig `yaml:"agents"`

	Output OutputConfig `yaml:"output"`

	// Parallel runs the frontend and backend agents concurrently
	Parallel bool `yaml:"parallel"`

	// FencedJSON also looks for the task sections inside a ```json fence
	FencedJSON bool `yaml:"fenced_json"`

	Log LogConfig `yaml:"log"`
}

// AgentConfig overrides one role's profile. Empty fields keep the default.
type AgentConfig struct {
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	RunFile      string `yaml:"run_file"`
	FrontendFile string `yaml:"frontend_file"`
	BackendFile  string `yaml:"backend_file"`
	BackendDir   string `yaml:"backend_dir"`
	Tree         bool   `yaml:"tree"`
}

// LogConfig mirrors the --log-level and --log-format flags.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: provider.Config{
			Name:    provider.NameOpenAI,
			Timeout: provider.DefaultTimeout,
		},
		Agents: map[string]AgentConfig{},
		Output: OutputConfig{
			Dir:          ".",
			RunFile:      output.DefaultRunFile,
			FrontendFile: output.DefaultFrontendFile,
			BackendFile:  output.DefaultBackendFile,
			BackendDir:   output.DefaultBackendDir,
			Tree:         true,
		},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// LoadOptions says where to look for configuration sources.
type LoadOptions struct {
	// Path is an explicit config file; it must exist. Empty means DefaultFile
	// if present.
	Path string

	// EnvFile is loaded into the process environment without overriding
	// variables that are already set. Empty means ".env" if present.
	EnvFile string
}

// Load assembles the configuration. The .env file is loaded first so that
// ${VAR} references in the YAML file can use it.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	path, required := opts.Path, true
	if path == "" {
		path, required = DefaultFile, false
	}
	if err := cfg.mergeFile(path, required); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return crewerrors.NewFileNotFoundError(path)
	}
	if err := godotenv.Load(path); err != nil {
		return crewerrors.Wrap(crewerrors.ErrCodeConfigLoad, "failed to load env file "+path, err)
	}
	return nil
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		if os.IsNotExist(err) {
			return crewerrors.NewFileNotFoundError(path)
		}
		return crewerrors.Wrap(crewerrors.ErrCodeConfigLoad, "failed to read config "+path, err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return crewerrors.Wrap(crewerrors.ErrCodeConfigLoad, "failed to parse config "+path, err)
	}
	if c.Agents == nil {
		c.Agents = map[string]AgentConfig{}
	}
	return nil
}

// applyEnv overlays CREWGEN_* variables and fills the API key from the
// provider's conventional variable when none is configured.
func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"CREWGEN_PROVIDER":   &c.Provider.Name,
		"CREWGEN_BASE_URL":   &c.Provider.BaseURL,
		"CREWGEN_SCRIPT":     &c.Provider.ScriptPath,
		"CREWGEN_OUTPUT_DIR": &c.Output.Dir,
		"CREWGEN_LOG_LEVEL":  &c.Log.Level,
		"CREWGEN_LOG_FORMAT": &c.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("CREWGEN_PARALLEL"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return crewerrors.Wrap(crewerrors.ErrCodeConfigInvalid, "CREWGEN_PARALLEL must be a boolean", err)
		}
		c.Parallel = b
	}
	if v, ok := os.LookupEnv("CREWGEN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return crewerrors.Wrap(crewerrors.ErrCodeConfigInvalid, "CREWGEN_TIMEOUT must be a duration such as 90s", err)
		}
		c.Provider.Timeout = d
	}

	for _, role := range agent.Roles() {
		if v := os.Getenv("CREWGEN_MODEL_" + strings.ToUpper(role.String())); v != "" {
			ac := c.Agents[role.String()]
			ac.Model = v
			c.Agents[role.String()] = ac
		}
	}

	if c.Provider.APIKey == "" {
		if envVar := APIKeyEnv(c.Provider.Name); envVar != "" {
			c.Provider.APIKey = os.Getenv(envVar)
		}
	}
	return nil
}

// APIKeyEnv names the variable holding the credential for a provider, or ""
// for providers without one.
func APIKeyEnv(providerName string) string {
	switch providerName {
	case provider.NameOpenAI:
		return "OPENAI_API_KEY"
	case provider.NameAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// SetModel overrides the model for role.
func (c *Config) SetModel(role agent.Role, model string) {
	ac := c.Agents[role.String()]
	ac.Model = model
	c.Agents[role.String()] = ac
}

// Validate reports the first problem that would make a run fail.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case provider.NameOpenAI, provider.NameAnthropic:
		if c.Provider.APIKey == "" {
			return crewerrors.NewConfigMissingKeyError(c.Provider.Name, APIKeyEnv(c.Provider.Name)).
				WithDocs(provider.KeysURL(c.Provider.Name))
		}
	case provider.NameScripted:
		if c.Provider.ScriptPath == "" {
			return crewerrors.New(crewerrors.ErrCodeConfigInvalid, "scripted provider needs a script file").
				WithSuggestion("Pass --script <file> or set provider.script in crewgen.yaml")
		}
	default:
		return crewerrors.NewProviderNotFoundError(c.Provider.Name)
	}

	for name, ac := range c.Agents {
		if _, err := agent.ParseRole(name); err != nil {
			return crewerrors.Wrap(crewerrors.ErrCodeConfigInvalid, "invalid agents entry", err).
				WithSuggestion("Use coordinator, frontend or backend")
		}
		if ac.Temperature != nil && (*ac.Temperature < 0 || *ac.Temperature > 2) {
			return crewerrors.New(crewerrors.ErrCodeConfigInvalid,
				fmt.Sprintf("temperature for %s must be between 0 and 2, got %g", name, *ac.Temperature))
		}
	}

	if c.Output.Dir == "" {
		return crewerrors.New(crewerrors.ErrCodeConfigInvalid, "output directory must not be empty")
	}
	if c.Provider.Timeout < 0 {
		return crewerrors.New(crewerrors.ErrCodeConfigInvalid, "provider timeout must not be negative")
	}
	return nil
}

// AgentOptions turns the per-role overrides into agent options.
func (c *Config) AgentOptions() []agent.Option {
	defaults := agent.DefaultProfiles()

	var opts []agent.Option
	for _, role := range agent.Roles() {
		ac, ok := c.Agents[role.String()]
		if !ok {
			continue
		}
		p := defaults[role]
		if ac.Model != "" {
			p.Model = ac.Model
		}
		if ac.Temperature != nil {
			p.Temperature = ac.Temperature
		}
		opts = append(opts, agent.WithProfile(p))
	}
	return opts
}

// Store builds the output store described by the configuration.
func (c *Config) Store() *output.Store {
	s := output.NewStore(c.Output.Dir)
	s.Tree = c.Output.Tree
	if c.Output.RunFile != "" {
		s.RunFile = c.Output.RunFile
	}
	if c.Output.FrontendFile != "" {
		s.FrontendFile = c.Output.FrontendFile
	}
	if c.Output.BackendFile != "" {
		s.BackendFile = c.Output.BackendFile
	}
	if c.Output.BackendDir != "" {
		s.BackendDir = c.Output.BackendDir
	}
	return s
}
