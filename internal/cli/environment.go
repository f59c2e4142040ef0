package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/focus"
	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/profile"
	"github.com/roach88/focusnav/internal/store"
	"github.com/roach88/focusnav/internal/supports"
)

// Error codes for environment resolution.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNoEnvironment = "E002" // neither profile nor user agent given
	ErrCodeConflict      = "E003" // mutually exclusive flags
	ErrCodeStore         = "E004" // capability store unavailable
	ErrCodeNotFound      = "E005" // Path not found
)

// EnvironmentFlags select the environment a command evaluates against.
type EnvironmentFlags struct {
	Profile     string
	UserAgent   string
	ProfilesDir string
	Database    string
}

// addEnvironmentFlags registers the shared environment flags on cmd.
func addEnvironmentFlags(cmd *cobra.Command, f *EnvironmentFlags) {
	cmd.Flags().StringVarP(&f.Profile, "profile", "p", "", "built-in or user profile name")
	cmd.Flags().StringVar(&f.UserAgent, "user-agent", "", "user agent string; capabilities come from the store")
	cmd.Flags().StringVar(&f.ProfilesDir, "profiles-dir", "", "directory of user CUE profiles")
	cmd.Flags().StringVar(&f.Database, "db", "", "capability store used with --user-agent")
}

// ResolvedEnvironment is an environment and where its capabilities came from.
type ResolvedEnvironment struct {
	Environment focus.Environment
	Source      string // "profile:<name>", "store:<run id>" or "none"
}

// loadRegistry returns the built-in profiles, overlaid with dir when set.
func loadRegistry(dir string) (*profile.Registry, error) {
	registry := profile.Builtin()
	if dir == "" {
		return registry, nil
	}
	user, err := profile.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded user profiles", "dir", dir, "count", len(user.Names()))
	return registry.Merge(user), nil
}

// resolveEnvironment turns the flags, falling back to configuration, into
// an environment.
func resolveEnvironment(ctx context.Context, opts *RootOptions, f EnvironmentFlags) (ResolvedEnvironment, error) {
	if f.Profile != "" && f.UserAgent != "" {
		return ResolvedEnvironment{}, &cliError{code: ErrCodeConflict, msg: "--profile and --user-agent are mutually exclusive"}
	}

	if f.UserAgent != "" {
		return environmentFromStore(ctx, platform.Parse(f.UserAgent), firstNonEmpty(f.Database, opts.Config.Database.Path))
	}

	name := firstNonEmpty(f.Profile, opts.Config.Profiles.Default)
	if name == "" {
		return ResolvedEnvironment{}, &cliError{code: ErrCodeNoEnvironment, msg: "one of --profile or --user-agent is required (or set profiles.default)"}
	}
	registry, err := loadRegistry(firstNonEmpty(f.ProfilesDir, opts.Config.Profiles.Dir))
	if err != nil {
		return ResolvedEnvironment{}, err
	}
	p, err := registry.Get(name)
	if err != nil {
		return ResolvedEnvironment{}, err
	}
	return ResolvedEnvironment{
		Environment: focus.NewEnvironment(p.Descriptor(), p.Capabilities),
		Source:      "profile:" + p.Name,
	}, nil
}

// environmentFromStore reads the capability table recorded for d. Without
// a recorded table every capability is unsupported.
func environmentFromStore(ctx context.Context, d platform.Descriptor, dbPath string) (ResolvedEnvironment, error) {
	if dbPath == "" {
		slog.Warn("no capability store configured, assuming no capabilities", "environment", d.String())
		return ResolvedEnvironment{Environment: focus.NewEnvironment(d, nil), Source: "none"}, nil
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return ResolvedEnvironment{}, &cliError{code: ErrCodeStore, msg: "failed to open capability store", err: err}
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	runs, err := st.Runs(ctx, d.Key())
	if err != nil {
		return ResolvedEnvironment{}, &cliError{code: ErrCodeStore, msg: "failed to read probe runs", err: err}
	}
	if len(runs) == 0 {
		slog.Warn("no recorded capabilities for environment, assuming none", "environment", d.String(), "db", dbPath)
		return ResolvedEnvironment{Environment: focus.NewEnvironment(d, nil), Source: "none"}, nil
	}

	host, err := st.Host(ctx, d.Key())
	if err != nil {
		return ResolvedEnvironment{}, &cliError{code: ErrCodeStore, msg: "failed to load capabilities", err: err}
	}
	latest := runs[len(runs)-1]
	return ResolvedEnvironment{
		Environment: focus.EnvironmentFromCache(ctx, d, supports.NewCache(host)),
		Source:      "store:" + latest.ID,
	}, nil
}

// cliError carries an error code for formatted output.
type cliError struct {
	code string
	msg  string
	err  error
}

func (e *cliError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *cliError) Unwrap() error {
	return e.err
}

// errorCode maps an error to the code reported in formatted output.
func errorCode(err error) string {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	var le *profile.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	if dom.IsInvalidContext(err) {
		return dom.ErrCodeInvalidContext
	}
	return ErrCodeGeneric
}

// newFormatter builds the formatter for a command's output.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// reportError writes err through the formatter and returns the exit error
// for it.
func reportError(formatter *OutputFormatter, err error) error {
	if outErr := formatter.Error(errorCode(err), err.Error(), nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, "command failed", err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
