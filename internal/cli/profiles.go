package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ProfilesOptions holds flags for the profiles command.
type ProfilesOptions struct {
	*RootOptions
	Dir string
}

// ProfileSummary is one row of the profiles listing.
type ProfileSummary struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Environment  string `json:"environment"`
	Capabilities int    `json:"capabilities"` // supported count
	Source       string `json:"source"`
}

// NewProfilesCommand creates the profiles command.
func NewProfilesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfilesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List environment profiles",
		Long: `List the built-in environment profiles and, with --dir or profiles.dir,
the user profiles loaded from a directory of CUE files. A user profile
replaces a built-in profile of the same name.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfiles(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "directory of user CUE profiles")

	return cmd
}

func runProfiles(opts *ProfilesOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	registry, err := loadRegistry(firstNonEmpty(opts.Dir, opts.Config.Profiles.Dir))
	if err != nil {
		return reportError(formatter, err)
	}

	summaries := []ProfileSummary{}
	for _, p := range registry.Profiles() {
		summaries = append(summaries, ProfileSummary{
			Name:         p.Name,
			Description:  p.Description,
			Environment:  p.Descriptor().String(),
			Capabilities: len(p.Capabilities.Supported()),
			Source:       p.Source,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tENVIRONMENT\tCAPABILITIES\tSOURCE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.Name, s.Environment, s.Capabilities, s.Source)
	}
	return tw.Flush()
}
