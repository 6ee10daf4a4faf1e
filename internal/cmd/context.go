package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/crewgen/internal/config"
	"github.com/felixgeelhaar/crewgen/internal/log"
	"github.com/felixgeelhaar/crewgen/internal/version"
)

// CommandContext holds the persistent flags and the writers of one command
// invocation. Commands build it in RunE instead of reading globals.
type CommandContext struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	LogFormat  string
	Verbose    bool

	Out    io.Writer
	ErrOut io.Writer

	Logger *log.Logger
}

// NewCommandContext extracts command context from cobra.Command flags and
// installs the process logger:
//
//	func runCommand(cmd *cobra.Command, args []string) error {
//		cctx, err := NewCommandContext(cmd)
//		if err != nil {
//			return err
//		}
//		// Use cctx.Out, cctx.Logger, cctx.LoadConfig()
//	}
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	envFile, err := flags.GetString("env-file")
	if err != nil {
		return nil, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, err
	}
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return nil, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}

	cctx := &CommandContext{
		ConfigPath: configPath,
		EnvFile:    envFile,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		Verbose:    verbose,
		Out:        cmd.OutOrStdout(),
		ErrOut:     cmd.ErrOrStderr(),
	}
	cctx.configureLogger(os.Getenv("CREWGEN_LOG_LEVEL"), os.Getenv("CREWGEN_LOG_FORMAT"))
	return cctx, nil
}

// LoadConfig loads the configuration named by the flags. The config file's
// log settings apply unless a flag already set them.
func (c *CommandContext) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{Path: c.ConfigPath, EnvFile: c.EnvFile})
	if err != nil {
		return nil, err
	}
	c.configureLogger(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

// configureLogger builds the logger from flags, falling back to the given
// level and format.
func (c *CommandContext) configureLogger(level, format string) {
	cfg := log.DefaultConfig()
	if c.Verbose {
		cfg = log.VerboseConfig()
	}

	if c.LogLevel != "" {
		level = c.LogLevel
	}
	if level != "" && !c.Verbose {
		cfg.Level = log.ParseLevel(level)
	}

	if c.LogFormat != "" {
		format = c.LogFormat
	}
	if format != "" {
		cfg.Format = log.ParseFormat(format)
	}

	cfg.ServiceVersion = version.Version
	cfg.Writer = c.ErrOut
	c.Logger = log.New(cfg)
	log.SetDefaultLogger(c.Logger)
}
