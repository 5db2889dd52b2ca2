package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/padconv/internal/importer"
	"github.com/roach88/padconv/internal/layout"
	"github.com/roach88/padconv/internal/metrics"
	"github.com/roach88/padconv/internal/runner"
	"github.com/roach88/padconv/internal/sensor"
	"github.com/roach88/padconv/internal/store"
)

// Environment fallbacks for convert flags.
const (
	EnvSourceDir = "PADCONV_SOURCE_DIR"
	EnvHostCmd   = "PADCONV_HOST_CMD"
)

// ConvertOptions holds flags for the convert and config commands.
type ConvertOptions struct {
	*RootOptions
	SourceDir   string
	Asset       string
	Profile     string
	ProfilesDir string
	HostCmd     string
	Database    string
	MetricsFile string

	// Launcher overrides the host launcher (for testing).
	// If nil, an ExecLauncher is built from HostCmd.
	Launcher importer.Launcher
	// Now and NewID override the run clock and ID generator (for testing).
	Now   func() time.Time
	NewID func() string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	return newConvertCommand(&ConvertOptions{RootOptions: rootOpts})
}

func newConvertCommand(opts *ConvertOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Import the URDF, export USD and write the sensor config",
		Long: `Import <asset>/urdf/inspire_hand_processed_with_pads.urdf through the
import host, export the stage to <asset>/usd/ and write the contact-sensor
configuration for the selected profile to <asset>/config/.

The host is started from --host-cmd (or $PADCONV_HOST_CMD), split on
whitespace, and driven over a JSON-lines bridge on stdin/stdout.

Example:
  padconv convert --source-dir ~/hands --host-cmd "/opt/isaac/python.sh bridge.py"
  padconv convert --profile little2 --db ./padconv.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, cmd, false)
		},
	}
	addConvertFlags(cmd, opts)
	return cmd
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return newConfigCommand(&ConvertOptions{RootOptions: rootOpts})
}

func newConfigCommand(opts *ConvertOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the sensor config without importing",
		Long: `Write the contact-sensor configuration for the selected profile without
starting the import host. The USD path in the config points at where
convert would export it; the USD file itself is not required.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, cmd, true)
		},
	}
	addLayoutFlags(cmd, opts)
	return cmd
}

func addLayoutFlags(cmd *cobra.Command, opts *ConvertOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.SourceDir, "source-dir", envOr(EnvSourceDir, "."), "directory holding the asset (env "+EnvSourceDir+")")
	f.StringVar(&opts.Asset, "asset", layout.DefaultAsset, "asset directory name under --source-dir")
	f.StringVar(&opts.Profile, "profile", sensor.DefaultProfile, "sensor pad profile")
	f.StringVar(&opts.ProfilesDir, "profiles-dir", "", "directory of extra CUE profiles")
	f.StringVar(&opts.Database, "db", "", "record the run in this SQLite ledger")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
}

func addConvertFlags(cmd *cobra.Command, opts *ConvertOptions) {
	addLayoutFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.HostCmd, "host-cmd", os.Getenv(EnvHostCmd), "import host command line (env "+EnvHostCmd+")")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runConvert(opts *ConvertOptions, cmd *cobra.Command, skipImport bool) error {
	logger := configureLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)

	profile, cliErr := loadProfile(opts.ProfilesDir, opts.Profile)
	if cliErr != nil {
		return formatter.report(ExitCommandError, cliErr)
	}
	l := layout.Resolve(opts.SourceDir, opts.Asset, "")
	formatter.VerboseLog("Profile %s: %d contact points across %d sensors", profile.Name, profile.TotalPads(), len(profile.Groups))

	cfg := runner.Config{
		Layout:     l,
		Profile:    profile,
		SkipImport: skipImport,
		Now:        opts.Now,
		NewID:      opts.NewID,
		Logger:     logger,
	}

	if opts.Database != "" {
		logger.Debug("opening run ledger", "path", opts.Database)
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.report(ExitCommandError, &CLIError{Code: ErrCodeLedger, Message: err.Error()})
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing run ledger", "error", closeErr)
			}
		}()
		cfg.Ledger = st
	}

	if opts.MetricsFile != "" {
		cfg.Metrics = metrics.New()
	}

	if !skipImport {
		launcher := opts.Launcher
		if launcher == nil {
			launcher = &importer.ExecLauncher{
				Command: importer.ParseCommand(opts.HostCmd),
				Stderr:  cmd.ErrOrStderr(),
				Logger:  logger,
			}
		}
		cfg.Converter = importer.New(launcher, importer.WithLogger(logger))
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep := runner.New(cfg).Run(ctx)

	if cfg.Metrics != nil {
		if err := cfg.Metrics.WriteTextfile(opts.MetricsFile); err != nil {
			logger.Warn("metrics not written", "error", err)
		}
	}

	if !rep.OK() {
		return outputRunFailure(formatter, rep)
	}
	return outputRunSuccess(formatter, rep)
}

func outputRunSuccess(f *OutputFormatter, rep *runner.Report) error {
	if f.Format == "json" {
		return f.Success(rep)
	}

	w := f.Writer
	fmt.Fprintf(w, "✓ Conversion complete (%s)\n", rep.Profile)
	if rep.USDBytes > 0 {
		fmt.Fprintf(w, "  USD:  %s (%s)\n", rep.USDPath, formatMB(rep.USDBytes))
	} else {
		fmt.Fprintf(w, "  USD:  %s (not exported)\n", rep.USDPath)
	}
	fmt.Fprintf(w, "  YAML: %s (%s)\n", rep.YAMLPath, formatKB(rep.YAMLBytes))
	fmt.Fprintf(w, "  Contact points: %d across %d sensors\n", rep.TotalPads, rep.Groups)
	if rep.Unchanged {
		fmt.Fprintln(w, "  Config unchanged since the last recorded run")
	}
	fmt.Fprintf(w, "  Run: %s\n", rep.RunID)
	return nil
}

func outputRunFailure(f *OutputFormatter, rep *runner.Report) error {
	e := &CLIError{
		Code:    runErrorCode(rep.Err),
		Message: rep.Error,
		Details: map[string]any{"run_id": rep.RunID, "state": rep.State},
	}
	return f.report(ExitFailure, e)
}
