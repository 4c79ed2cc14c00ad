package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/specialistvlad/buildgrid/internal/tracing"
)

// Output formats of a rendered plan.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// DefaultBuildFile is looked up when File names a directory.
const DefaultBuildFile = "build.hcl"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	File             string // root descriptor file or its directory
	Target           string // target quintet, empty for the workspace defaults
	DefaultBuildFile string
	BuiltinDir       string

	Output    string
	LogFormat string
	LogLevel  string
	Workers   int

	Trace     string // none, stdout or file
	TraceFile string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.File == "" {
		return nil, errors.New("File is a required configuration field and cannot be empty")
	}
	if cfg.Target != "" {
		if _, err := quintet.Parse(cfg.Target); err != nil {
			return nil, fmt.Errorf("invalid target: %w", err)
		}
	}
	if cfg.DefaultBuildFile == "" {
		cfg.DefaultBuildFile = DefaultBuildFile
	}

	if cfg.Output == "" {
		cfg.Output = OutputText
	}
	switch cfg.Output {
	case OutputText, OutputYAML, OutputJSON:
	default:
		return nil, fmt.Errorf("invalid output %q: must be 'text', 'yaml' or 'json'", cfg.Output)
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	if cfg.Trace == "" {
		cfg.Trace = tracing.ExporterNone
	}
	switch cfg.Trace {
	case tracing.ExporterNone, tracing.ExporterStdout:
	case tracing.ExporterFile:
		if cfg.TraceFile == "" {
			return nil, errors.New("TraceFile is required when Trace is 'file'")
		}
	default:
		return nil, fmt.Errorf("invalid trace %q: must be 'none', 'stdout' or 'file'", cfg.Trace)
	}

	return &cfg, nil
}
