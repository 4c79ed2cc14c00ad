package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/specialistvlad/buildgrid/internal/ctxlog"
	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/hcl_adapter"
	"github.com/specialistvlad/buildgrid/internal/loader"
	"github.com/specialistvlad/buildgrid/internal/registry"
	"github.com/specialistvlad/buildgrid/internal/tracing"
	"github.com/specialistvlad/buildgrid/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	config   *Config
	logger   *slog.Logger
	runID    string
	handlers *registry.Registry
	loader   *loader.Loader
	tracing  *tracing.Provider
}

// Parsers returns the descriptor parsers keyed by file extension.
func Parsers() descriptor.Parsers {
	yamlParser := yaml_adapter.NewParser()
	return descriptor.Parsers{
		".hcl":  hcl_adapter.NewParser(),
		".yaml": yamlParser,
		".yml":  yamlParser,
	}
}

// NewApp is the constructor for the main application. Plans are written to
// outW, logs and stdout traces to logW. With no modules the core handlers
// are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	handlers := registry.NewWith(modules...)
	logger.Debug("Package-manager handlers registered.", "handlers", handlers.Handlers())

	provider, err := tracing.NewProvider(tracing.Config{
		Exporter: cfg.Trace,
		FilePath: cfg.TraceFile,
		Writer:   logW,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	return &App{
		outW:     outW,
		config:   cfg,
		logger:   logger,
		runID:    runID,
		handlers: handlers,
		loader:   loader.New(Parsers(), handlers, cfg.Workers),
		tracing:  provider,
	}, nil
}

// RunID identifies the runs of this App in logs and plans.
func (a *App) RunID() string {
	return a.runID
}

// Registry returns the application's handler registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.handlers
}

// Close flushes pending traces.
func (a *App) Close(ctx context.Context) error {
	return a.tracing.Shutdown(ctx)
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// rootFile resolves the configured file, descending into a directory to its
// default build file.
func (a *App) rootFile() (string, error) {
	path, err := filepath.Abs(a.config.File)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read build file: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, a.config.DefaultBuildFile)
	}
	return path, nil
}
