package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rplan/retirement-planner/internal/calculation"
	"github.com/rplan/retirement-planner/internal/config"
	"github.com/rplan/retirement-planner/internal/output"
)

var (
	flagFormat   string
	flagScenario string
	flagToFile   bool
)

var projectCmd = &cobra.Command{
	Use:   "project <plan.yaml>",
	Short: "Run projections for the scenarios in a plan file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProject,
}

func init() {
	projectCmd.Flags().StringVarP(&flagFormat, "format", "f", "console",
		fmt.Sprintf("Output format (%s)", strings.Join(output.AvailableFormatterNames(), ", ")))
	projectCmd.Flags().StringVarP(&flagScenario, "scenario", "s", "", "Project only the named scenario")
	projectCmd.Flags().BoolVar(&flagToFile, "to-file", false, "Write output to a timestamped file instead of stdout")
	rootCmd.AddCommand(projectCmd)
}

func runProject(_ *cobra.Command, args []string) error {
	plan, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return err
	}

	formatter := output.GetFormatterByName(flagFormat)
	if formatter == nil {
		return fmt.Errorf("unknown format %q, available: %s", flagFormat,
			strings.Join(output.AvailableFormatterNames(), ", "))
	}

	engine := newEngine()
	now := time.Now()
	matched := false
	for i := range plan.Scenarios {
		scenario := &plan.Scenarios[i]
		if flagScenario != "" && scenario.Name != flagScenario {
			continue
		}
		matched = true

		result, err := engine.Project(calculation.ProjectionInput{
			Scenario: scenario,
			Snapshot: &plan.Profile,
			Now:      now,
		})
		if err != nil {
			return fmt.Errorf("projecting %q: %w", scenario.Name, err)
		}

		if flagToFile {
			filename, err := output.WriteFormatted(formatter, result, fileExtension(formatter.Name()))
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", filename)
			continue
		}
		data, err := formatter.Format(result)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	}

	if !matched {
		return fmt.Errorf("no scenario named %q in %s", flagScenario, args[0])
	}
	return nil
}

func fileExtension(formatName string) string {
	if formatName == "console" {
		return "txt"
	}
	return formatName
}
