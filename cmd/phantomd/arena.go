package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/replay"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/scheduler"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

var (
	flagArenaSessions int
	flagArenaTier     int
	flagArenaSeed     int64
	flagArenaVariant  string
	flagArenaTimeout  time.Duration
)

var arenaCmd = &cobra.Command{
	Use:   "arena",
	Short: "Run concurrent scheduled sessions",
	Long: `Run several sessions at once on the scheduler's fixed-rate timers and
print each session's outcome and replay digest. Sessions run until game over
or until the timeout elapses. Seeds are assigned sequentially from --seed,
so a given invocation is reproducible session by session.`,
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

		sched := scheduler.New(engineCfg, tiers, nil, logger)
		defer sched.Shutdown()

		// Buffered to the session count: each session reports game over
		// at most once, so the callback never blocks a tick loop.
		finished := make(chan string, flagArenaSessions)
		sched.RegisterObserver(scheduler.Observer{
			OnGameOver: func(id string, snap sim.Snapshot) {
				finished <- id
			},
		})

		ids := make([]string, 0, flagArenaSessions)
		for i := 0; i < flagArenaSessions; i++ {
			id, err := sched.Create("", flagArenaVariant, flagArenaSeed+int64(i), flagArenaTier, nil)
			if err != nil {
				return err
			}
			if err := sched.Start(id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		logger.Info("arena started", "sessions", len(ids), "tier", flagArenaTier)

		deadline := time.After(flagArenaTimeout)
		remaining := len(ids)
		for remaining > 0 {
			select {
			case <-finished:
				remaining--
			case <-deadline:
				logger.Warn("timeout reached, stopping remaining sessions", "remaining", remaining)
				remaining = 0
			}
		}

		for _, id := range ids {
			sched.Stop(id)
			snap, err := sched.State(id)
			if err != nil {
				return err
			}
			data, err := sched.ReplayBytes(id)
			if err != nil {
				return err
			}
			logger.Info("session result",
				"id", id,
				"ticks", snap.Tick,
				"score", snap.Score,
				"round", snap.Round,
				"gameOver", snap.GameOver,
			)
			fmt.Printf("%s %x\n", id, replay.Digest(data))
		}
		return nil
	},
}

func init() {
	arenaCmd.Flags().IntVar(&flagArenaSessions, "sessions", 4, "Number of concurrent sessions")
	arenaCmd.Flags().IntVar(&flagArenaTier, "tier", 1, "Difficulty tier (1-5)")
	arenaCmd.Flags().Int64Var(&flagArenaSeed, "seed", 42, "Base seed; session i uses seed+i")
	arenaCmd.Flags().StringVar(&flagArenaVariant, "variant", "classic", "Board variant")
	arenaCmd.Flags().DurationVar(&flagArenaTimeout, "timeout", 5*time.Minute, "Stop sessions still running after this long")
}
