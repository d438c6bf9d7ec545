package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rplan/retirement-planner/internal/config"
	"github.com/rplan/retirement-planner/internal/output"
)

var flagCompareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare <plan.yaml>",
	Short: "Compare all scenarios in a plan file side by side",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&flagCompareJSON, "json", false, "Emit the full comparison as JSON")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(_ *cobra.Command, args []string) error {
	plan, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return err
	}

	result, err := newEngine().Compare(plan.Scenarios, &plan.Profile, time.Now())
	if err != nil {
		return err
	}

	if flagCompareJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	names := make([]string, 0, len(result.ComparisonSummary))
	for name := range result.ComparisonSummary {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-30s %18s %18s %12s\n", "Scenario", "Final Portfolio", "Total SS", "Depletes")
	for _, name := range names {
		summary := result.ComparisonSummary[name]
		depletes := "never"
		if summary.YearsUntilDepletion != nil {
			depletes = fmt.Sprintf("year %d", *summary.YearsUntilDepletion)
		}
		fmt.Printf("%-30s %18s %18s %12s\n", name,
			output.FormatCurrency(summary.FinalPortfolio),
			output.FormatCurrency(summary.TotalSSReceived),
			depletes)
	}
	return nil
}
