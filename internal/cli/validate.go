package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/focusnav/internal/harness"
	"github.com/roach88/focusnav/internal/profile"
)

// ErrCodeInvalidScenario marks a scenario file that failed to load.
const ErrCodeInvalidScenario = "E006"

// ValidationError is one problem found by validate.
type ValidationError struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Profiles  int               `json:"profiles"`
	Scenarios int               `json:"scenarios"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate profiles and scenarios without running them",
		Long: `Validate the CUE profiles and YAML scenarios found in a directory.

CUE files are loaded together as one profile set and checked against the
profile schema. Every YAML file is loaded as a scenario, and the profile it
names must exist among the built-in profiles or the ones in the directory.

Examples:
  focusnav validate ./profiles
  focusnav validate ./testdata --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("directory not found: %s", dir))
	}

	result, err := ValidateDir(dir)
	if err != nil {
		return outputValidateError(formatter, ErrCodeGeneric, err.Error())
	}
	formatter.VerboseLog("Checked %d profile(s) and %d scenario(s) in %s", result.Profiles, result.Scenarios, dir)

	if result.Profiles == 0 && result.Scenarios == 0 && len(result.Errors) == 0 {
		return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("no CUE profiles or YAML scenarios found in %s", dir))
	}
	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// ValidateDir checks every profile and scenario below dir.
func ValidateDir(dir string) (ValidationResult, error) {
	cueFiles, yamlFiles, err := collectFiles(dir)
	if err != nil {
		return ValidationResult{}, err
	}

	result := ValidationResult{}
	registry := profile.Builtin()
	if len(cueFiles) > 0 {
		user, err := profile.LoadDir(dir)
		if err != nil {
			result.Errors = append(result.Errors, profileValidationError(err))
		} else {
			result.Profiles = len(user.Names())
			registry = registry.Merge(user)
		}
	}

	for _, path := range yamlFiles {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				File:    path,
				Code:    ErrCodeInvalidScenario,
				Message: err.Error(),
			})
			continue
		}
		result.Scenarios++
		if scenario.Profile == "" {
			continue
		}
		if _, err := registry.Get(scenario.Profile); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				File:    path,
				Code:    profile.ErrCodeUnknownName,
				Message: err.Error(),
			})
		}
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// collectFiles lists the CUE files directly in dir and the YAML files
// anywhere below it, sorted.
func collectFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".cue":
			if filepath.Dir(path) == filepath.Clean(dir) {
				cueFiles = append(cueFiles, path)
			}
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, path)
		}
		return nil
	})
	sort.Strings(cueFiles)
	sort.Strings(yamlFiles)
	return cueFiles, yamlFiles, err
}

func profileValidationError(err error) ValidationError {
	var le *profile.LoadError
	if !errors.As(err, &le) {
		return ValidationError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	ve := ValidationError{Code: le.Code, Message: le.Message}
	if le.Pos.IsValid() {
		ve.File = le.Pos.Filename()
		ve.Line = le.Pos.Line()
	}
	return ve
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s All valid (%d profile(s), %d scenario(s))\n", statusMark(true), result.Profiles, result.Scenarios)
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Validation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintf(formatter.Writer, "%s Validation failed\n", statusMark(false))
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		switch {
		case err.File != "" && err.Line > 0:
			fmt.Fprintf(formatter.Writer, "%s:%d\n", err.File, err.Line)
		case err.File != "":
			fmt.Fprintln(formatter.Writer, err.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
