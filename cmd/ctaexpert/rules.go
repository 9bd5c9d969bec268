package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/cta-expert/internal/knowledge"
)

func newRulesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := knowledge.Default()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Version string           `json:"catalog_version"`
					Rules   []knowledge.Rule `json:"rules"`
				}{cat.Version(), cat.Rules()})
			}

			cyan := color.New(color.FgCyan).SprintFunc()
			fmt.Fprintf(out, "Rule catalog %s (%d rules)\n\n", cat.Version(), cat.Len())
			cat.Each(func(r knowledge.Rule) {
				fmt.Fprintf(out, "%s %-13s %6s  %s\n", cyan(fmt.Sprintf("%-4s", r.ID)), r.Target, signedCF(r.CertaintyFactor), r.Conclusion)
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full catalog as JSON")
	return cmd
}

func signedCF(cf float64) string {
	s := strconv.FormatFloat(cf, 'f', 2, 64)
	if cf >= 0 {
		return "+" + s
	}
	return s
}
