package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rplan/retirement-planner/internal/config"
)

var exampleCmd = &cobra.Command{
	Use:   "example [file]",
	Short: "Write an example plan file to get started",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExample,
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}

func runExample(_ *cobra.Command, args []string) error {
	filename := "example_plan.yaml"
	if len(args) == 1 {
		filename = args[0]
	}
	if err := config.SaveExampleToFile(filename); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", filename)
	return nil
}
