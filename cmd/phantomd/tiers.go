package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show the difficulty tier table",
	RunE: func(cmd *cobra.Command, args []string) error {
		tiers, err := config.LoadTiers(flagTierConfig)
		if err != nil {
			return err
		}

		fmt.Printf("%-5s %-8s %-8s %-11s %-9s %-9s %-7s %-9s %-9s\n",
			"tier", "scatter", "chase", "frightened", "enforcer", "patterns", "coord", "external", "cadence")
		for _, t := range tiers.Tiers {
			scatter := fmt.Sprintf("%d", t.ScatterTicks)
			if t.PermanentChase {
				scatter = "-"
			}
			fmt.Printf("%-5d %-8s %-8d %-11d %-9v %-9v %-7v %-9v %-9d\n",
				t.Tier, scatter, t.ChaseTicks, t.FrightenedTicks,
				t.EnforcerBoost, t.PatternRecognition, t.Coordination,
				t.ExternalStrategy, t.StrategyInterval)
		}
		return nil
	},
}
