package sim_test

import (
	"math/rand"
	"testing"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/ai"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

func newSession(t *testing.T, tierOrdinal int, seed int64) (*sim.Orchestrator, *ai.Controller) {
	t.Helper()
	cfg := config.DefaultEngineConfig()
	tier, ok := config.DefaultTiers().ByOrdinal(tierOrdinal)
	if !ok {
		t.Fatalf("tier %d missing from defaults", tierOrdinal)
	}
	m, err := maze.Build(maze.VariantClassic, seed)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctrl := ai.NewController(cfg, tier, rand.New(rand.NewSource(seed)), nil)
	return sim.New(cfg, tier, m, ctrl), ctrl
}

func TestFreshSessionBaseline(t *testing.T) {
	o, ctrl := newSession(t, 1, 42)
	defer ctrl.Close()

	var snap sim.Snapshot
	for i := 0; i < 10; i++ {
		snap = o.Tick(maze.None)
	}
	if snap.Tick != 10 {
		t.Fatalf("tick = %d, want 10", snap.Tick)
	}
	if snap.Lives != 3 {
		t.Fatalf("lives = %d, want 3", snap.Lives)
	}
}

// Two sessions with the same seed, tier and input script must emit identical
// fingerprints on every tick. This covers the AI stack end to end: scatter
// and chase targeting and the pattern buffer draw only on seeded state.
func TestSessionsReplayIdentically(t *testing.T) {
	for _, tier := range []int{1, 3, 5} {
		a, actrl := newSession(t, tier, 42)
		b, bctrl := newSession(t, tier, 42)

		script := []maze.Direction{
			maze.Left, maze.Left, maze.Up, maze.Up, maze.None,
			maze.Right, maze.Down, maze.None, maze.Left, maze.Up,
		}
		for i := 0; i < 600; i++ {
			in := script[i%len(script)]
			sa := a.Tick(in)
			sb := b.Tick(in)
			if sa.Fingerprint != sb.Fingerprint {
				t.Fatalf("tier %d: fingerprints diverged at tick %d", tier, sa.Tick)
			}
			if sa.Score != sb.Score || sa.Lives != sb.Lives {
				t.Fatalf("tier %d: score/lives diverged at tick %d", tier, sa.Tick)
			}
		}

		actrl.Close()
		bctrl.Close()
	}
}

// On the sparse variant the seed picks which pellets are thinned, so two
// seeds must disagree from the very first fingerprint.
func TestSeedChangesSparseBoard(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	tier, _ := config.DefaultTiers().ByOrdinal(1)

	build := func(seed int64) (*sim.Orchestrator, *ai.Controller) {
		m, err := maze.Build(maze.VariantSparse, seed)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		ctrl := ai.NewController(cfg, tier, rand.New(rand.NewSource(seed)), nil)
		return sim.New(cfg, tier, m, ctrl), ctrl
	}

	a, actrl := build(1)
	defer actrl.Close()
	b, bctrl := build(2)
	defer bctrl.Close()

	if a.Snapshot().Fingerprint == b.Snapshot().Fingerprint {
		t.Fatal("different sparse seeds produced identical boards")
	}
}
