package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/focus"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	EnvironmentFlags
	Select string
	Except []string
}

// ElementCheck is the classification of one element.
type ElementCheck struct {
	Element  string `json:"element"`
	Tag      string `json:"tag"`
	Result   string `json:"result"`
	Tabindex int    `json:"tabindex"`
}

// CheckReport holds every classified element.
type CheckReport struct {
	Environment string         `json:"environment"`
	Source      string         `json:"source"`
	Document    string         `json:"document"` // sha256 of the file
	Elements    []ElementCheck `json:"elements"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file.html>",
		Short: "Classify elements as tabbable, focus-only or not focusable",
		Long: `Classify every element matched by an XPath selector in an HTML file.

Results:
  tabbable       reachable with the Tab key
  focus-only     focusable by script or pointer, skipped by Tab
  not-focusable  cannot take focus

Exceptions (--except) disable individual rules: flexbox, scrollable,
shadow, visible, only-tabbable, disabled.

Examples:
  focusnav check page.html --select "//button" --profile ie11
  focusnav check page.html --select "//*[@id='menu']" --except visible`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	addEnvironmentFlags(cmd, &opts.EnvironmentFlags)
	cmd.Flags().StringVarP(&opts.Select, "select", "s", "//*", "XPath selecting the elements to classify")
	cmd.Flags().StringSliceVar(&opts.Except, "except", nil, "rules to disable (comma separated)")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	ex, err := parseExceptions(opts.Except)
	if err != nil {
		return reportError(formatter, err)
	}
	resolved, err := resolveEnvironment(commandContext(cmd), opts.RootOptions, opts.EnvironmentFlags)
	if err != nil {
		return reportError(formatter, err)
	}
	doc, fingerprint, err := loadDocument(path)
	if err != nil {
		return reportError(formatter, err)
	}
	elements, err := doc.Select(opts.Select)
	if err != nil {
		return reportError(formatter, err)
	}
	if len(elements) == 0 {
		return reportError(formatter, &dom.ContextError{
			Code:    dom.ErrCodeInvalidContext,
			Label:   "check",
			Message: fmt.Sprintf("%s matched no element", opts.Select),
		})
	}

	classifier := focus.New(resolved.Environment)
	report := CheckReport{
		Environment: resolved.Environment.Platform.String(),
		Source:      resolved.Source,
		Document:    fingerprint,
		Elements:    make([]ElementCheck, 0, len(elements)),
	}
	results := make([]focus.Result, 0, len(elements))
	for _, el := range elements {
		r := classifier.Classify(el, ex)
		results = append(results, r)
		report.Elements = append(report.Elements, ElementCheck{
			Element:  dom.Label(el),
			Tag:      el.Tag(),
			Result:   r.String(),
			Tabindex: classifier.EffectiveTabindex(el),
		})
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (%s)\n", headingColor.Sprint(report.Environment), report.Source)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, e := range report.Elements {
		fmt.Fprintf(tw, "  %s\t%s\ttabindex=%d\n", e.Element, resultLabel(results[i]), e.Tabindex)
	}
	return tw.Flush()
}

// parseExceptions converts --except names into focus.Exceptions.
func parseExceptions(names []string) (focus.Exceptions, error) {
	var ex focus.Exceptions
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "flexbox":
			ex.Flexbox = true
		case "scrollable":
			ex.Scrollable = true
		case "shadow":
			ex.Shadow = true
		case "visible":
			ex.Visible = true
		case "only-tabbable", "onlytabbable":
			ex.OnlyTabbable = true
		case "disabled":
			ex.Disabled = true
		case "":
		default:
			return ex, &cliError{code: ErrCodeGeneric, msg: fmt.Sprintf("unknown exception %q: must be one of flexbox, scrollable, shadow, visible, only-tabbable, disabled", name)}
		}
	}
	return ex, nil
}
