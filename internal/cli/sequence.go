package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/focus"
	"github.com/roach88/focusnav/internal/sequence"
)

// SequenceOptions holds flags for the sequence command.
type SequenceOptions struct {
	*RootOptions
	EnvironmentFlags
	Context        string
	IncludeContext bool
	OnlyTabbable   bool
	Strategy       string
}

// SequenceStop is one position in the tab sequence.
type SequenceStop struct {
	Position int    `json:"position"`
	Element  string `json:"element"`
	Tabindex int    `json:"tabindex"`
}

// SequenceReport holds an ordered tab sequence.
type SequenceReport struct {
	Environment string         `json:"environment"`
	Source      string         `json:"source"`
	Document    string         `json:"document"` // sha256 of the file
	Context     string         `json:"context,omitempty"`
	Strategy    string         `json:"strategy"`
	Sequence    []SequenceStop `json:"sequence"`
}

// NewSequenceCommand creates the sequence command.
func NewSequenceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SequenceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sequence <file.html>",
		Short: "Print the order in which Tab visits elements",
		Long: `Compute the tab sequence of an HTML file in the selected environment:
positive tabindex values first in ascending order, then document order, with
image map areas and shadow tree contents placed where the engine puts them.

Strategies:
  quick   only elements that commonly take focus (default)
  strict  every element, decided by the classifier
  all     every element, keeping hidden and disabled ones

Examples:
  focusnav sequence page.html --profile safari10
  focusnav sequence page.html --context "//*[@id='dialog']" --include-context`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSequence(opts, args[0], cmd)
		},
	}

	addEnvironmentFlags(cmd, &opts.EnvironmentFlags)
	cmd.Flags().StringVar(&opts.Context, "context", "", "XPath of the element whose subtree is sequenced")
	cmd.Flags().BoolVar(&opts.IncludeContext, "include-context", false, "put the context element first when it is tabbable")
	cmd.Flags().BoolVar(&opts.OnlyTabbable, "only-tabbable", false, "keep elements Tab reaches but script cannot focus")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", string(dom.Quick), "candidate query: quick, strict or all")

	return cmd
}

func runSequence(opts *SequenceOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	strategy, err := dom.ParseStrategy(opts.Strategy)
	if err != nil {
		return reportError(formatter, &cliError{code: ErrCodeGeneric, msg: err.Error()})
	}
	resolved, err := resolveEnvironment(commandContext(cmd), opts.RootOptions, opts.EnvironmentFlags)
	if err != nil {
		return reportError(formatter, err)
	}
	doc, fingerprint, err := loadDocument(path)
	if err != nil {
		return reportError(formatter, err)
	}

	var ctx dom.Context
	if opts.Context != "" {
		ctx = doc.Selector(opts.Context)
	}

	classifier := focus.New(resolved.Environment)
	elements, err := sequence.NewBuilder(classifier, doc).TabSequence(ctx, sequence.Options{
		IncludeContext:      opts.IncludeContext,
		IncludeOnlyTabbable: opts.OnlyTabbable,
		Strategy:            strategy,
	})
	if err != nil {
		return reportError(formatter, err)
	}

	report := SequenceReport{
		Environment: resolved.Environment.Platform.String(),
		Source:      resolved.Source,
		Document:    fingerprint,
		Context:     opts.Context,
		Strategy:    string(strategy),
		Sequence:    make([]SequenceStop, 0, len(elements)),
	}
	for i, el := range elements {
		report.Sequence = append(report.Sequence, SequenceStop{
			Position: i + 1,
			Element:  dom.Label(el),
			Tabindex: classifier.EffectiveTabindex(el),
		})
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (%s)\n", headingColor.Sprint(report.Environment), report.Source)
	if len(report.Sequence) == 0 {
		fmt.Fprintln(w, subtleColor.Sprint("  no tabbable elements"))
		return nil
	}
	for _, s := range report.Sequence {
		fmt.Fprintf(w, "  %3d  %s %s\n", s.Position, s.Element, subtleColor.Sprintf("tabindex=%d", s.Tabindex))
	}
	return nil
}
