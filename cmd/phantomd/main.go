// phantomd is the headless driver for the pursuit engine.
//
// Usage:
//
//	phantomd run                 - Run a headless simulation
//	phantomd arena               - Run concurrent scheduled sessions
//	phantomd verify <artifact>   - Verify a replay artifact
//	phantomd tiers               - Print the difficulty tier table
//
// Global flags:
//
//	--engine-config <path>  - Engine config YAML (default: embedded)
//	--tier-config <path>    - Tier table YAML (default: embedded)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagEngineConfig string
	flagTierConfig   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "phantomd",
	Short: "Phantom Arena - deterministic pursuit simulation engine",
	Long: `phantomd runs deterministic grid-maze pursuit simulations and produces
verifiable replay artifacts.

Available commands:
  run      - Run a headless simulation and print its outcome
  arena    - Run concurrent sessions on fixed-rate timers
  verify   - Decompress and verify a replay artifact
  tiers    - Show the difficulty tier table

Examples:
  phantomd run --tier 3 --seed 42 --ticks 3600 --out match.replay
  phantomd arena --sessions 8 --tier 4 --timeout 2m
  phantomd verify match.replay
  phantomd tiers`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEngineConfig, "engine-config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagTierConfig, "tier-config", "", "Path to tier table YAML")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(arenaCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(tiersCmd)
}
