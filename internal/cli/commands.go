package cli

import (
	"context"
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/app"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/spf13/cobra"
)

func (c *command) newPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [FILE]",
		Short: "Print the build plan of a workspace tree",
		Long: `Loads the workspace tree rooted at FILE (a descriptor file, or a directory
holding the default build file; default: the current directory), resolves it
for the target quintet and prints every target with its build steps.`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			return c.withApp(cmd.Context(), a, func(ctx context.Context, bg *app.App) error {
				return bg.Run(ctx)
			})
		},
	}
}

func (c *command) newOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order [FILE]",
		Short: "Print the build order of a workspace tree",
		Args:  args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			return c.withApp(cmd.Context(), a, func(ctx context.Context, bg *app.App) error {
				order, err := bg.Order(ctx)
				if err != nil {
					return err
				}
				return app.RenderOrder(c.outW, order)
			})
		},
	}
}

func (c *command) newMatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match QUINTET QUINTET",
		Short: "Report whether two quintets match",
		Long: `Prints "true" when the two quintets match on every axis, "*" matching
anything, and "false" otherwise.`,
		Args: args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, a []string) error {
			left, err := quintet.Parse(a[0])
			if err != nil {
				return usageError("%s", err)
			}
			right, err := quintet.Parse(a[1])
			if err != nil {
				return usageError("%s", err)
			}
			_, err = fmt.Fprintln(c.outW, quintet.Match(left, right))
			return err
		},
	}
}

func (c *command) newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [FILE]",
		Short: "Re-print the build plan whenever a descriptor changes",
		Args:  args(cobra.MaximumNArgs(1)),
	}
	debounce := cmd.Flags().Duration("debounce", 0, "quiet period before re-planning (default 200ms)")
	cmd.RunE = func(cmd *cobra.Command, a []string) error {
		return c.withApp(cmd.Context(), a, func(ctx context.Context, bg *app.App) error {
			return bg.Watch(ctx, *debounce)
		})
	}
	return cmd
}

// withApp builds the app configuration from the layered settings and the
// optional FILE argument and runs fn against a fresh App.
func (c *command) withApp(ctx context.Context, a []string, fn func(context.Context, *app.App) error) error {
	file := "."
	if len(a) > 0 {
		file = a[0]
	}
	cfg, err := app.NewConfig(app.Config{
		File:             file,
		Target:           c.v.GetString(keyTarget),
		DefaultBuildFile: c.v.GetString(keyBuildFile),
		BuiltinDir:       c.v.GetString(keyBuiltinDir),
		Output:           c.v.GetString(keyOutput),
		LogFormat:        c.v.GetString(keyLogFormat),
		LogLevel:         c.v.GetString(keyLogLevel),
		Workers:          c.v.GetInt(keyWorkers),
		Trace:            c.v.GetString(keyTrace),
		TraceFile:        c.v.GetString(keyTraceFile),
	})
	if err != nil {
		return usageError("%s", err)
	}

	bg, err := app.NewApp(c.outW, c.errW, cfg)
	if err != nil {
		return usageError("%s", err)
	}
	defer func() {
		if err := bg.Close(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(c.errW, "failed to flush traces: %v\n", err)
		}
	}()
	return fn(ctx, bg)
}
