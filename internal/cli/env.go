package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/focusnav/internal/platform"
)

// EnvOptions holds flags for the env command.
type EnvOptions struct {
	*RootOptions
	EnvironmentFlags
}

// EnvReport describes a resolved environment.
type EnvReport struct {
	Descriptor   platform.Descriptor `json:"descriptor"`
	Key          string              `json:"key"`
	Source       string              `json:"source"`
	Quirks       []string            `json:"quirks"`
	Capabilities []string            `json:"capabilities"` // supported only
}

// NewEnvCommand creates the env command.
func NewEnvCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EnvOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Describe a browser environment",
		Long: `Describe the environment selected by --profile or --user-agent: the parsed
platform descriptor, its fingerprint, the engine quirks that apply to it and
the capabilities it supports.

Examples:
  focusnav env --profile ie11
  focusnav env --user-agent "Mozilla/5.0 ..." --db ./capabilities.db
  focusnav env --profile firefox52 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv(opts, cmd)
		},
	}

	addEnvironmentFlags(cmd, &opts.EnvironmentFlags)

	return cmd
}

func runEnv(opts *EnvOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	resolved, err := resolveEnvironment(commandContext(cmd), opts.RootOptions, opts.EnvironmentFlags)
	if err != nil {
		return reportError(formatter, err)
	}
	env := resolved.Environment

	report := EnvReport{
		Descriptor:   env.Platform,
		Key:          env.Platform.Key(),
		Source:       resolved.Source,
		Quirks:       []string{},
		Capabilities: []string{},
	}
	for _, q := range env.Quirks.Active() {
		report.Quirks = append(report.Quirks, string(q))
	}
	for _, c := range env.Caps.Supported() {
		report.Capabilities = append(report.Capabilities, string(c))
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, headingColor.Sprint(report.Descriptor.String()))
	fmt.Fprintf(w, "  key:          %s\n", report.Key)
	fmt.Fprintf(w, "  source:       %s\n", report.Source)
	if report.Descriptor.UserAgent != "" {
		fmt.Fprintf(w, "  user agent:   %s\n", report.Descriptor.UserAgent)
	}
	fmt.Fprintf(w, "  quirks:       %s\n", listOrNone(report.Quirks))
	fmt.Fprintf(w, "  capabilities: %s\n", listOrNone(report.Capabilities))
	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return subtleColor.Sprint("(none)")
	}
	return strings.Join(items, ", ")
}
