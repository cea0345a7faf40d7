package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/ai"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/replay"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

var (
	flagTier    int
	flagSeed    int64
	flagVariant string
	flagTicks   int
	flagOut     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless simulation",
	Long: `Run a single session without timers, as fast as the machine allows,
and print the final score and the replay artifact digest. The run is fully
deterministic: the same tier, seed and variant always produce the same
digest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.New(os.Stderr)

		engineCfg, err := config.LoadEngine(flagEngineConfig)
		if err != nil {
			return err
		}
		tiers, err := config.LoadTiers(flagTierConfig)
		if err != nil {
			return err
		}
		tierCfg, ok := tiers.ByOrdinal(flagTier)
		if !ok {
			return fmt.Errorf("unknown tier %d", flagTier)
		}
		variant, err := maze.ParseVariant(flagVariant)
		if err != nil {
			return err
		}
		board, err := maze.Build(variant, flagSeed)
		if err != nil {
			return err
		}

		ctrl := ai.NewController(engineCfg, tierCfg, rand.New(rand.NewSource(flagSeed)), nil)
		defer ctrl.Close()
		orch := sim.New(engineCfg, tierCfg, board, ctrl)

		matchID := uuid.NewString()
		rlog := replay.NewLog()
		rlog.Start(matchID, []string{"headless"}, string(variant), flagSeed)

		started := time.Now()
		var snap sim.Snapshot
		for i := 0; i < flagTicks; i++ {
			snap = orch.Tick(maze.None)
			rlog.Record(snap.Tick, nil, snap.Fingerprint)
			if snap.GameOver {
				break
			}
		}
		rlog.Stop([]int{snap.Score})

		data, err := rlog.Compress()
		if err != nil {
			return err
		}
		digest, err := rlog.Hash()
		if err != nil {
			return err
		}

		logger.Info("run complete",
			"match", matchID,
			"ticks", snap.Tick,
			"score", snap.Score,
			"lives", snap.Lives,
			"round", snap.Round,
			"gameOver", snap.GameOver,
			"elapsed", time.Since(started).Round(time.Millisecond),
		)
		fmt.Printf("digest: %x\n", digest)

		if flagOut != "" {
			if err := os.WriteFile(flagOut, data, 0o644); err != nil {
				return fmt.Errorf("write artifact: %w", err)
			}
			logger.Info("artifact written", "path", flagOut, "bytes", len(data))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&flagTier, "tier", 1, "Difficulty tier (1-5)")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 42, "Simulation seed")
	runCmd.Flags().StringVar(&flagVariant, "variant", "classic", "Board variant")
	runCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "Maximum ticks to simulate")
	runCmd.Flags().StringVar(&flagOut, "out", "", "Write the compressed replay artifact to this file")
}
