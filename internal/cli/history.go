package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/padconv/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
	Limit    int
}

// RunHistory is the output of "history --run".
type RunHistory struct {
	Run         store.Run          `json:"run"`
	Transitions []store.Transition `json:"transitions"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded conversion runs",
		Long: `List the runs recorded in a ledger, newest first. With --run, show one
run and its state transitions in order.

Example:
  padconv history --db ./padconv.db
  padconv history --db ./padconv.db --run 0192f0c4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite run ledger (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	if _, err := os.Stat(opts.Database); err != nil {
		return formatter.report(ExitCommandError, &CLIError{Code: ErrCodeLedger, Message: fmt.Sprintf("run ledger not found: %s", opts.Database)})
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.report(ExitCommandError, &CLIError{Code: ErrCodeLedger, Message: err.Error()})
	}
	defer st.Close()

	if opts.RunID != "" {
		run, err := st.GetRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			return formatter.report(ExitCommandError, &CLIError{Code: ErrCodeRunNotFound, Message: err.Error()})
		}
		if err != nil {
			return formatter.report(ExitCommandError, &CLIError{Code: ErrCodeLedger, Message: err.Error()})
		}
		trs, err := st.ListTransitions(ctx, opts.RunID)
		if err != nil {
			return formatter.report(ExitCommandError, &CLIError{Code: ErrCodeLedger, Message: err.Error()})
		}
		return outputRunHistory(formatter, RunHistory{Run: run, Transitions: trs})
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.report(ExitCommandError, &CLIError{Code: ErrCodeLedger, Message: err.Error()})
	}
	if opts.Format == "json" {
		if runs == nil {
			runs = []store.Run{}
		}
		return formatter.Success(runs)
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}
	fmt.Fprintf(w, "%-36s  %-19s  %-10s  %-16s  %s\n", "RUN", "STARTED", "PROFILE", "STATE", "PADS")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-19s  %-10s  %-16s  %d\n",
			r.ID, r.StartedAt.UTC().Format(time.DateTime), r.Profile, r.State, r.TotalPads)
	}
	return nil
}

func outputRunHistory(f *OutputFormatter, h RunHistory) error {
	if f.Format == "json" {
		return f.Success(h)
	}

	w := f.Writer
	r := h.Run
	fmt.Fprintf(w, "Run %s (%s)\n", r.ID, r.Profile)
	fmt.Fprintf(w, "  state:   %s\n", r.State)
	if r.Error != "" {
		fmt.Fprintf(w, "  error:   %s\n", r.Error)
	}
	fmt.Fprintf(w, "  urdf:    %s\n", r.URDFPath)
	fmt.Fprintf(w, "  usd:     %s (%s)\n", r.USDPath, formatMB(r.USDBytes))
	fmt.Fprintf(w, "  yaml:    %s (%s)\n", r.YAMLPath, formatKB(r.YAMLBytes))
	if r.YAMLHash != "" {
		fmt.Fprintf(w, "  hash:    %s\n", r.YAMLHash)
	}
	fmt.Fprintf(w, "  started: %s\n", r.StartedAt.UTC().Format(time.DateTime))
	if !r.FinishedAt.IsZero() {
		fmt.Fprintf(w, "  elapsed: %s\n", r.FinishedAt.Sub(r.StartedAt))
	}
	fmt.Fprintln(w)
	for _, tr := range h.Transitions {
		fmt.Fprintf(w, "  %3d  %-16s -> %s\n", tr.Seq, tr.From, tr.To)
	}
	return nil
}
