package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/replay"
)

var flagExpectDigest string

var verifyCmd = &cobra.Command{
	Use:   "verify <artifact>",
	Short: "Verify a replay artifact",
	Long: `Decompress a replay artifact, validate its structure and print its
metadata. With --digest, additionally check the artifact against an expected
outcome commitment.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read artifact: %w", err)
		}

		meta, ticks, err := replay.Decompress(data)
		if err != nil {
			return err
		}
		if uint64(len(ticks)) != meta.TotalTicks {
			return fmt.Errorf("artifact inconsistent: metadata says %d ticks, found %d", meta.TotalTicks, len(ticks))
		}

		digest := replay.Digest(data)
		if flagExpectDigest != "" {
			want, err := hex.DecodeString(flagExpectDigest)
			if err != nil {
				return fmt.Errorf("invalid --digest: %w", err)
			}
			if string(want) != string(digest[:]) {
				return fmt.Errorf("digest mismatch: artifact hashes to %x", digest)
			}
		}

		fmt.Printf("match:        %s\n", meta.MatchID)
		fmt.Printf("participants: %v\n", meta.Participants)
		fmt.Printf("variant:      %s (seed %d)\n", meta.Variant, meta.Seed)
		fmt.Printf("ticks:        %d\n", meta.TotalTicks)
		fmt.Printf("final scores: %v\n", meta.FinalScores)
		fmt.Printf("digest:       %x\n", digest)
		if len(ticks) > 0 {
			fmt.Printf("final state:  %s\n", ticks[len(ticks)-1].Fingerprint)
		}
		fmt.Println("artifact OK")
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&flagExpectDigest, "digest", "", "Expected hex-encoded Keccak-256 digest")
}
