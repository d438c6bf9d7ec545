package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rplan/retirement-planner/internal/config"
	"github.com/rplan/retirement-planner/internal/store"
)

var flagDefaultSave bool

var defaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Synthesize a baseline scenario from the stored profile",
	Long: `Builds a scenario from the profile database: claim at full retirement age,
allocation derived from current holdings, stored spending and inflation
defaults. Prints the scenario as JSON; --save persists it.`,
	Args: cobra.NoArgs,
	RunE: runDefault,
}

func init() {
	defaultCmd.Flags().BoolVar(&flagDefaultSave, "save", false, "Persist the synthesized scenario")
	rootCmd.AddCommand(defaultCmd)
}

func runDefault(_ *cobra.Command, _ []string) error {
	st, err := store.OpenWithOptions(store.Options{DBPath: flagDBPath, Logger: newLogger()})
	if err != nil {
		return err
	}
	defer st.Close()

	snapshot, err := st.Snapshot()
	if err != nil {
		return err
	}
	scenario, err := config.SynthesizeDefaultScenario(snapshot, time.Now())
	if err != nil {
		return err
	}

	if flagDefaultSave {
		existing, err := st.ListScenarios()
		if err != nil {
			return err
		}
		saved := false
		for _, sc := range existing {
			if sc.Name == config.DefaultScenarioName {
				scenario.ID = sc.ID
				if err := st.UpdateScenario(scenario); err != nil {
					return err
				}
				saved = true
				break
			}
		}
		if !saved {
			if err := st.CreateScenario(scenario); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stderr, "Saved scenario %q (%s)\n", scenario.Name, scenario.ID)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(scenario)
}
