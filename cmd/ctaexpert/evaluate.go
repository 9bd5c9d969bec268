package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/cta-expert/internal/analysis"
	"github.com/ZanzyTHEbar/cta-expert/internal/facts"
	"github.com/ZanzyTHEbar/cta-expert/internal/knowledge"
)

// errInvalidFacts is returned after the offending fields have been printed
var errInvalidFacts = errors.New("input failed validation")

func newEvaluateCmd() *cobra.Command {
	var (
		format  string
		overall string
	)

	cmd := &cobra.Command{
		Use:   "evaluate [file|-]",
		Short: "Evaluate CTA measurements from a JSON or YAML file",
		Long: `Evaluate reads one object holding the seventeen CTA measurements and
prints the scores, the rules that fired and the recommendations.

The input is read from the named file, or from stdin when the argument is
"-" or omitted. Files ending in .json, or input starting with "{", are
parsed as JSON; anything else as YAML.

Examples:
  ctaexpert evaluate design.yaml
  ctaexpert evaluate design.json --format json
  ctaexpert evaluate - --overall derived < design.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := analysis.ParseOverallMode(overall)
			if !ok {
				return fmt.Errorf("invalid --overall %q (want explicit or derived)", overall)
			}
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid --format %q (want text or json)", format)
			}

			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			raw, err := readFacts(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}

			cat, err := knowledge.Default()
			if err != nil {
				return err
			}

			result, err := analysis.NewAnalyzer(cat, analysis.WithOverallMode(mode)).Analyze(raw)
			if err != nil {
				var verr *facts.ValidationError
				if errors.As(err, &verr) {
					printValidation(cmd.ErrOrStderr(), verr)
					return errInvalidFacts
				}
				return err
			}

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&overall, "overall", string(analysis.OverallExplicit), "Overall certainty: explicit or derived")
	return cmd
}

// readFacts loads one fact object from name, or from stdin when name is "-"
func readFacts(stdin io.Reader, name string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read facts: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("no facts provided")
	}

	var raw map[string]any
	if strings.EqualFold(filepath.Ext(name), ".json") || trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON facts: %w", err)
		}
	} else if err := yaml.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML facts: %w", err)
	}

	if raw == nil {
		return nil, errors.New("facts must be an object")
	}
	return raw, nil
}

func printValidation(w io.Writer, verr *facts.ValidationError) {
	fields := verr.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(w, "%s Invalid CTA facts:\n", red("✗"))
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, fields[name])
	}
}

func statusColor(s analysis.Status) *color.Color {
	switch s {
	case analysis.StatusExcellent:
		return color.New(color.FgGreen, color.Bold)
	case analysis.StatusGood:
		return color.New(color.FgGreen)
	case analysis.StatusMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func printResult(w io.Writer, r *analysis.EvaluationResult) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	status := statusColor(r.Summary.StatusEmoji).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", bold("Status:"), status(strings.ToUpper(string(r.Summary.StatusEmoji))))
	fmt.Fprintf(w, "  %s\n\n", r.Summary.OverallStatus)
	fmt.Fprintf(w, "  Visibility:        %5.1f / 100  (%s)\n", r.VisibilityScore, r.Summary.VisibilityStatus)
	fmt.Fprintf(w, "  Clickability:      %5.1f / 100  (%s)\n", r.ClickabilityScore, r.Summary.ClickabilityStatus)
	fmt.Fprintf(w, "  Overall certainty: %5.2f        (%s)\n", r.OverallCertainty, r.Summary.CertaintyLevel)

	if len(r.ActivatedRules) == 0 {
		fmt.Fprintf(w, "\nNo rules fired.\n")
	} else {
		fmt.Fprintf(w, "\n%s\n", bold("Rules fired:"))
		for _, a := range r.ActivatedRules {
			fmt.Fprintf(w, "  %s %6s  %s\n", cyan(fmt.Sprintf("%-4s", a.RuleID)), signedCF(a.CFApplied), a.RenderedExplanation)
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintf(w, "\n%s\n", bold("Recommendations:"))
		for i, rec := range r.Recommendations {
			fmt.Fprintf(w, "  %s %s\n", yellow(fmt.Sprintf("%d.", i+1)), rec)
		}
	}

	fmt.Fprintf(w, "\nCatalog %s\n", r.CatalogVersion)
}
