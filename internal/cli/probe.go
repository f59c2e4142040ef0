package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/focusnav/internal/browser"
	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/store"
	"github.com/roach88/focusnav/internal/supports"
)

// ProbeHost is a live engine that can run capability probes.
type ProbeHost interface {
	supports.Host
	UserAgent(ctx context.Context) (string, error)
	Close() error
}

// ProbeOptions holds flags for the probe command.
type ProbeOptions struct {
	*RootOptions
	Engine   string
	Headful  bool
	Database string

	// Launch allows overriding how the browser is started (for testing).
	// If nil, defaults to browser.Launch.
	Launch func(browser.Options) (ProbeHost, error)

	// IDs allows overriding the run id generator (for testing).
	// If nil, the store generates UUIDv7 ids.
	IDs store.IDGenerator
}

// ProbeReport summarizes a recorded probe run.
type ProbeReport struct {
	RunID        string              `json:"run_id"`
	Seq          int64               `json:"seq"`
	Descriptor   platform.Descriptor `json:"descriptor"`
	Key          string              `json:"key"`
	Source       string              `json:"source"`
	Capabilities map[string]bool     `json:"capabilities"`
}

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProbeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe a real browser and record its capabilities",
		Long: `Launch a browser through playwright, run every capability probe in it and
record the results in the capability store, keyed by the fingerprint of the
browser's user agent. Later commands given the same --user-agent read the
recorded table.

Example:
  focusnav probe --engine firefox --db ./capabilities.db
  focusnav probe --engine webkit --headful`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Engine, "engine", "", "browser engine: chromium, firefox or webkit (default browser.engine)")
	cmd.Flags().BoolVar(&opts.Headful, "headful", false, "show the browser window")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the capability store (default database.path)")

	return cmd
}

func runProbe(opts *ProbeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	engine, err := browser.ParseEngine(firstNonEmpty(opts.Engine, opts.Config.Browser.Engine))
	if err != nil {
		return reportError(formatter, err)
	}
	dbPath := firstNonEmpty(opts.Database, opts.Config.Database.Path)
	if dbPath == "" {
		return reportError(formatter, &cliError{code: ErrCodeStore, msg: "no capability store: pass --db or set database.path"})
	}
	headless := !opts.Headful
	if !cmd.Flags().Changed("headful") {
		headless = opts.Config.Browser.Headless
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, aborting probes", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	launch := opts.Launch
	if launch == nil {
		launch = func(o browser.Options) (ProbeHost, error) {
			return browser.Launch(o)
		}
	}
	host, err := launch(browser.Options{Engine: engine, Headless: headless})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to launch browser", err)
	}
	defer func() {
		if closeErr := host.Close(); closeErr != nil {
			slog.Error("error closing browser", "error", closeErr)
		}
	}()

	ua, err := host.UserAgent(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to identify browser", err)
	}
	d := platform.Parse(ua)
	slog.Info("probing environment", "environment", d.String(), "probes", len(supports.Probes()))

	caps := supports.NewCache(host).Set(ctx)
	if ctx.Err() != nil {
		// aborted probes read as unsupported; don't record a partial table
		return WrapExitError(ExitFailure, "probe interrupted", ctx.Err())
	}

	var storeOpts []store.Option
	if opts.IDs != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDs))
	}
	slog.Info("opening database", "path", dbPath)
	st, err := store.Open(dbPath, storeOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	source := "browser:" + string(engine)
	run, err := st.SaveRun(ctx, d, source, caps)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to record probe run", err)
	}
	slog.Info("probe run recorded", "run", run.ID, "seq", run.Seq, "supported", len(caps.Supported()))

	report := ProbeReport{
		RunID:        run.ID,
		Seq:          run.Seq,
		Descriptor:   d,
		Key:          run.EnvKey,
		Source:       source,
		Capabilities: make(map[string]bool, len(caps)),
	}
	for c, v := range caps {
		report.Capabilities[string(c)] = v
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s recorded run %s for %s\n", statusMark(true), run.ID, d.String())
	for _, c := range caps.Names() {
		fmt.Fprintf(w, "  %s %s\n", statusMark(caps[c]), c)
	}
	return nil
}
