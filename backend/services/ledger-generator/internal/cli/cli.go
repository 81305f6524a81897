package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lremanager/backend/services/ledger-generator/internal/app"
	"lremanager/backend/services/ledger-generator/internal/config"
)

// ErrPurgeNotConfirmed is returned by purge without --yes.
var ErrPurgeNotConfirmed = errors.New("purge deletes ledger entries; pass --yes to confirm")

const defaultRunsLimit = 10

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	version string
	stdout  io.Writer
	logger  *zap.Logger

	configPath string
	noColor    bool
}

// NewCLIApp builds the command tree. stdout receives the report; logs go to logger.
func NewCLIApp(version string, stdout io.Writer, logger *zap.Logger) *CLIApp {
	c := &CLIApp{version: version, stdout: stdout, logger: logger}

	rootCmd := &cobra.Command{
		Use:           "ledger-generator",
		Short:         "Seed a ledger API with synthetic transactions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runSeed,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetVersionTemplate("ledger-generator {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to a YAML, TOML or JSON config file (default $CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable coloured output")
	addSeedFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and submit transactions (default command)",
		Args:  cobra.NoArgs,
		RunE:  c.runSeed,
	}
	addSeedFlags(runCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Count stored ledger entries per configured program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Verify(ctx)
			})
		},
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete stored ledger entries of configured programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return ErrPurgeNotConfirmed
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Purge(ctx)
			})
		},
	}
	purgeCmd.Flags().Bool("yes", false, "Confirm deletion")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent journaled runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Runs(ctx, limit)
			})
		},
	}
	runsCmd.Flags().Int("limit", defaultRunsLimit, "Maximum number of runs to list")

	rootCmd.AddCommand(runCmd, verifyCmd, purgeCmd, runsCmd)
	c.rootCmd = rootCmd
	return c
}

func addSeedFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	cmd.Flags().Int("workers", 1, "Concurrent submissions per program")
	cmd.Flags().Bool("dry-run", false, "Print records as JSON lines instead of sending them")
	cmd.Flags().String("base-url", config.DefaultBaseURL, "Ledger API base URL")
}

// SetArgs overrides os.Args, for tests.
func (c *CLIApp) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// Execute runs the CLI application.
func (c *CLIApp) Execute(ctx context.Context) error {
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLIApp) runSeed(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q", args[0])
	}
	return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
		summary, err := a.Seed(ctx)
		if err != nil {
			return err
		}
		attempted, created, failed := summary.Totals()
		c.logger.Info("run complete",
			zap.String("run_id", summary.RunID),
			zap.Uint64("seed", summary.Seed),
			zap.Int("attempted", attempted),
			zap.Int("created", created),
			zap.Int("failed", failed),
		)
		return nil
	})
}

func (c *CLIApp) withApp(cmd *cobra.Command, fn func(context.Context, *app.App) error) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	a := app.New(cfg, c.logger, c.stdout, !c.noColor && !color.NoColor)
	defer a.Close()
	return fn(cmd.Context(), a)
}

// loadConfig applies explicitly set flags over file and env values.
func (c *CLIApp) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Lookup("seed") == nil {
		return cfg, nil
	}
	if flags.Changed("seed") {
		cfg.Generator.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("workers") {
		cfg.Generator.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("dry-run") {
		cfg.Generator.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("base-url") {
		cfg.API.BaseURL, _ = flags.GetString("base-url")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
