package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/buildgrid/internal/ctxlog"
	"github.com/specialistvlad/buildgrid/internal/external"
	"github.com/specialistvlad/buildgrid/internal/fsutil"
	"github.com/specialistvlad/buildgrid/internal/loader"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/resolver"
	"github.com/specialistvlad/buildgrid/internal/steps"
	"github.com/specialistvlad/buildgrid/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Run plans the configured tree and writes the rendered plan.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	plan, err := a.Plan(ctx)
	if err != nil {
		return err
	}
	if err := Render(a.outW, plan, a.config.Output); err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Order loads and resolves the tree and returns the absolute target labels
// in build order.
func (a *App) Order(ctx context.Context) ([]string, error) {
	ctx = a.context(ctx)
	var order []string
	err := tracing.Phase(ctx, a.tracing.Tracer(), tracing.SpanRun, func(ctx context.Context) error {
		root, err := a.load(ctx)
		if err != nil {
			return err
		}
		targets, _, err := a.order(ctx, root)
		if err != nil {
			return err
		}
		order = labels(targets)
		return nil
	}, attribute.String("run_id", a.runID))
	return order, err
}

// Plan runs the whole pipeline and returns its result.
func (a *App) Plan(ctx context.Context) (*Plan, error) {
	ctx = a.context(ctx)
	var plan *Plan
	err := tracing.Phase(ctx, a.tracing.Tracer(), tracing.SpanRun, func(ctx context.Context) error {
		var err error
		plan, err = a.plan(ctx)
		return err
	}, attribute.String("run_id", a.runID))
	return plan, err
}

func (a *App) plan(ctx context.Context) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	tracer := a.tracing.Tracer()

	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	order, result, err := a.order(ctx, root)
	if err != nil {
		return nil, err
	}

	var missing []external.Missing
	err = tracing.Phase(ctx, tracer, tracing.SpanResolveExternal, func(ctx context.Context) error {
		var err error
		missing, err = external.NewResolver().Resolve(ctx, root)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve external dependencies: %w", err)
	}

	err = tracing.Phase(ctx, tracer, tracing.SpanSynthesize, func(ctx context.Context) error {
		return steps.New(fsutil.Glob{}).Synthesize(ctx, order, result.Quintet)
	}, attribute.Int("targets", len(order)))
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize build steps: %w", err)
	}

	plan := newPlan(a.runID, root, result.Quintet, order, missing)
	logger.Info("Build plan ready.", "targets", len(plan.Targets), "warnings", len(plan.Warnings))
	return plan, nil
}

func (a *App) load(ctx context.Context) (*model.Workspace, error) {
	filename, err := a.rootFile()
	if err != nil {
		return nil, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		a.logger.Debug("No home directory.", "error", err)
	}

	var root *model.Workspace
	err = tracing.Phase(ctx, a.tracing.Tracer(), tracing.SpanLoad, func(ctx context.Context) error {
		var err error
		root, err = a.loader.Load(ctx, loader.Input{
			Filename:   filename,
			Target:     a.config.Target,
			BuiltinDir: a.config.BuiltinDir,
			HomeDir:    home,
		})
		return err
	}, attribute.String("file", filename))
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return root, nil
}

func (a *App) order(ctx context.Context, root *model.Workspace) ([]*model.Target, *resolver.Result, error) {
	tracer := a.tracing.Tracer()

	var result *resolver.Result
	err := tracing.Phase(ctx, tracer, tracing.SpanResolveInternal, func(ctx context.Context) error {
		var err error
		result, err = resolver.Resolve(ctx, root)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve targets: %w", err)
	}

	var order []*model.Target
	err = tracing.Phase(ctx, tracer, tracing.SpanOrder, func(ctx context.Context) error {
		var err error
		order, err = result.BuildOrder()
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to order targets: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Build order computed.", "targets", labels(order))
	return order, result, nil
}

func labels(targets []*model.Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.AbsoluteName().String())
	}
	return out
}
