package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:   "ctaexpert",
		Short: "Rate the visibility and clickability of a call-to-action",
		Long: `ctaexpert runs the certainty-factor rule catalog over CTA measurements
and explains which rules fired and what to fix.

Examples:
  # Evaluate a fact file
  ctaexpert evaluate design.json

  # Evaluate facts from stdin and print the full result as JSON
  cat design.yaml | ctaexpert evaluate - --format json

  # List the rule catalog
  ctaexpert rules`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newEvaluateCmd(), newRulesCmd(), newVersionCmd())
	return root
}
