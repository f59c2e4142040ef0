package cli

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database  string
	UserAgent string // optional - filter to one environment
}

// RunSummary is one recorded probe run.
type RunSummary struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Key         string `json:"key"`
	Environment string `json:"environment"`
	Source      string `json:"source"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded probe runs",
		Long: `List the probe runs recorded in the capability store, oldest first.
With --user-agent only runs for that environment are listed.

Examples:
  focusnav runs --db ./capabilities.db
  focusnav runs --user-agent "Mozilla/5.0 ..." --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the capability store (default database.path)")
	cmd.Flags().StringVar(&opts.UserAgent, "user-agent", "", "only list runs for this environment")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	dbPath := firstNonEmpty(opts.Database, opts.Config.Database.Path)
	if dbPath == "" {
		return reportError(formatter, &cliError{code: ErrCodeStore, msg: "no capability store: pass --db or set database.path"})
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return reportError(formatter, &cliError{code: ErrCodeStore, msg: "failed to open capability store", err: err})
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	envKey := ""
	if opts.UserAgent != "" {
		envKey = platform.Parse(opts.UserAgent).Key()
	}
	runs, err := st.Runs(commandContext(cmd), envKey)
	if err != nil {
		return reportError(formatter, &cliError{code: ErrCodeStore, msg: "failed to read probe runs", err: err})
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, RunSummary{
			ID:          r.ID,
			Seq:         r.Seq,
			Key:         r.EnvKey,
			Environment: r.Descriptor.String(),
			Source:      r.Source,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No probe runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tENVIRONMENT\tSOURCE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Seq, s.ID, s.Environment, s.Source)
	}
	return tw.Flush()
}
