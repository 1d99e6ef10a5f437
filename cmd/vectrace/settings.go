package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/vectrace/internal/config"
)

// scenarioFlags override the scenario section of the configuration.
type scenarioFlags struct {
	scenario string
	appSlot  string
	attacker int
	label    string
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "Network module name (default DoSScenario)")
	cmd.Flags().StringVar(&f.appSlot, "app-slot", "", "Application submodule of each node (default app[0])")
	cmd.Flags().IntVar(&f.attacker, "attacker", 0, "Node id of the attacker")
	cmd.Flags().StringVar(&f.label, "label", "", "Label for attack traffic (default ATTACK)")
}

func (f *scenarioFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("scenario") {
		cfg.Scenario.Name = f.scenario
	}
	if cmd.Flags().Changed("app-slot") {
		cfg.Scenario.AppSlot = f.appSlot
	}
	if cmd.Flags().Changed("attacker") {
		cfg.Scenario.AttackerID = f.attacker
	}
	if cmd.Flags().Changed("label") {
		cfg.Scenario.Label = f.label
	}
}

// loadConfig resolves environment, then the --config file, then flags.
func loadConfig(cmd *cobra.Command, g *globals, overlay func(*config.Config)) (config.Config, error) {
	cfg := config.Load()
	if g.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(g.configPath, cfg); err != nil {
			return cfg, err
		}
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if overlay != nil {
		overlay(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
