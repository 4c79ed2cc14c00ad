package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultConfigFile is read from the current directory when --config is not
// given.
const DefaultConfigFile = ".buildgrid.yaml"

// EnvPrefix prefixes the environment variables that override the config
// file, e.g. BUILDGRID_LOG_LEVEL.
const EnvPrefix = "BUILDGRID"

// Configuration keys, shared by flags, the config file and the environment.
const (
	keyTarget     = "target"
	keyBuildFile  = "build-file"
	keyBuiltinDir = "builtin-dir"
	keyOutput     = "output"
	keyLogFormat  = "log-format"
	keyLogLevel   = "log-level"
	keyWorkers    = "workers"
	keyTrace      = "trace"
	keyTraceFile  = "trace-file"
)

// command holds the state of one invocation.
type command struct {
	outW    io.Writer
	errW    io.Writer
	v       *viper.Viper
	cfgFile string
}

// NewRootCommand builds the buildgrid command tree. Plans go to outW, logs
// and diagnostics to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	c := &command{outW: outW, errW: errW, v: viper.New()}

	root := &cobra.Command{
		Use:   "buildgrid",
		Short: "buildgrid - a cross-platform build configuration engine",
		Long: `buildgrid reads a tree of workspace descriptors, resolves target and
external dependencies for one target quintet and prints the resulting build
plan without running any tool.`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initConfig(cmd)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%s", err)
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&c.cfgFile, "config", "c", "", "config file (default: ./"+DefaultConfigFile+")")
	flags.StringP(keyTarget, "t", "", "target quintet, e.g. linux:gcc:*:amd64:debug (default: workspace defaults)")
	flags.String(keyBuildFile, "build.hcl", "build file looked up when a directory is given")
	flags.String(keyBuiltinDir, "", "directory builtin:// paths resolve against")
	flags.StringP(keyOutput, "o", "text", "plan output format: 'text', 'yaml' or 'json'")
	flags.String(keyLogFormat, "text", "log output format: 'text' or 'json'")
	flags.String(keyLogLevel, "warn", "logging level: 'debug', 'info', 'warn' or 'error'")
	flags.IntP(keyWorkers, "w", 4, "number of concurrent component loaders")
	flags.String(keyTrace, "none", "trace exporter: 'none', 'stdout' or 'file'")
	flags.String(keyTraceFile, "", "JSONL output of the file trace exporter")

	root.AddCommand(
		c.newPlanCommand(),
		c.newOrderCommand(),
		c.newMatchCommand(),
		c.newWatchCommand(),
	)
	return root
}

// initConfig layers defaults, the config file and the environment under the
// command's flags.
func (c *command) initConfig(cmd *cobra.Command) error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else if _, err := os.Stat(DefaultConfigFile); err == nil {
		c.v.SetConfigFile(DefaultConfigFile)
	}
	if c.v.ConfigFileUsed() != "" {
		if err := c.v.ReadInConfig(); err != nil {
			return usageError("failed to read config file: %s", err)
		}
	}

	c.v.SetEnvPrefix(EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}
		bindErr = errors.Join(bindErr, c.v.BindPFlag(f.Name, f))
	})
	if bindErr != nil {
		return bindErr
	}
	slog.Debug("Configuration layered.", "config_file", c.v.ConfigFileUsed())
	return nil
}

// Execute runs the command tree with args and maps any failure to an
// *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return exitError(err)
	}
	return nil
}
