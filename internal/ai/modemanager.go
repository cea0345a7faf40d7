package ai

import (
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

// ModeManager runs the scatter/chase clock for one session and gates the
// tier capabilities: the enforcer boost, pattern recognition, coordination
// and the external-strategy cadence.
type ModeManager struct {
	tier config.TierConfig

	mode      sim.Mode
	ticksLeft int

	history *directionRing

	strategyRequested bool
	lastStrategyTick  uint64
}

// NewModeManager creates a manager for the tier. A permanent-chase tier
// starts and stays in chase; everything else starts in scatter.
func NewModeManager(tier config.TierConfig, historySize int) *ModeManager {
	m := &ModeManager{
		tier:    tier,
		history: newDirectionRing(historySize),
	}
	m.reset()
	return m
}

func (m *ModeManager) reset() {
	if m.tier.PermanentChase {
		m.mode = sim.ModeChase
		m.ticksLeft = m.tier.ChaseTicks
		return
	}
	m.mode = sim.ModeScatter
	m.ticksLeft = m.tier.ScatterTicks
}

// Reset restarts the scatter/chase clock, used on round and life resets.
func (m *ModeManager) Reset() {
	m.reset()
}

// Tick advances the clock one tick and records the player's last committed
// direction in the pattern buffer.
func (m *ModeManager) Tick(playerDir maze.Direction) {
	if playerDir != maze.None {
		m.history.push(playerDir)
	}

	if m.tier.PermanentChase {
		return
	}
	m.ticksLeft--
	if m.ticksLeft > 0 {
		return
	}
	if m.mode == sim.ModeScatter {
		m.mode = sim.ModeChase
		m.ticksLeft = m.tier.ChaseTicks
	} else {
		m.mode = sim.ModeScatter
		m.ticksLeft = m.tier.ScatterTicks
	}
}

// Mode returns the current base mode, scatter or chase.
func (m *ModeManager) Mode() sim.Mode {
	return m.mode
}

// Tier returns the tier ordinal.
func (m *ModeManager) Tier() int {
	return m.tier.Tier
}

// EnforcerBoost reports whether the enforcer speed escalation is active.
func (m *ModeManager) EnforcerBoost() bool {
	return m.tier.EnforcerBoost
}

// RecognizesPatterns reports whether the pattern buffer feeds predictions.
func (m *ModeManager) RecognizesPatterns() bool {
	return m.tier.PatternRecognition
}

// Coordinates reports whether multi-adversary coordination is active.
func (m *ModeManager) Coordinates() bool {
	return m.tier.Coordination
}

// UsesExternalStrategy reports whether the external strategy channel is
// enabled for this tier.
func (m *ModeManager) UsesExternalStrategy() bool {
	return m.tier.ExternalStrategy && m.tier.StrategyInterval > 0
}

// PermanentChase reports whether this tier never leaves chase.
func (m *ModeManager) PermanentChase() bool {
	return m.tier.PermanentChase
}

// PredictNext returns the most frequent direction in the pattern buffer,
// breaking ties in favor of the direction seen first, or None when the tier
// does not recognize patterns or the buffer is empty.
func (m *ModeManager) PredictNext() maze.Direction {
	if !m.RecognizesPatterns() {
		return maze.None
	}
	return m.history.mostFrequent()
}

// RecentMoves returns the buffered player directions, oldest first.
func (m *ModeManager) RecentMoves() []maze.Direction {
	return m.history.contents()
}

// StrategyDue reports whether an external-strategy request may be issued at
// this tick. It consumes the cadence slot: true at most once per interval.
func (m *ModeManager) StrategyDue(tick uint64) bool {
	if !m.UsesExternalStrategy() {
		return false
	}
	if m.strategyRequested && tick-m.lastStrategyTick < uint64(m.tier.StrategyInterval) {
		return false
	}
	m.strategyRequested = true
	m.lastStrategyTick = tick
	return true
}

// directionRing is a bounded FIFO of recent player directions.
type directionRing struct {
	buf   []maze.Direction
	start int
	count int
}

func newDirectionRing(capacity int) *directionRing {
	if capacity < 1 {
		capacity = 1
	}
	return &directionRing{buf: make([]maze.Direction, capacity)}
}

func (r *directionRing) push(d maze.Direction) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = d
		r.count++
		return
	}
	// Full: overwrite the oldest.
	r.buf[r.start] = d
	r.start = (r.start + 1) % len(r.buf)
}

func (r *directionRing) contents() []maze.Direction {
	out := make([]maze.Direction, 0, r.count)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

func (r *directionRing) mostFrequent() maze.Direction {
	if r.count == 0 {
		return maze.None
	}
	counts := map[maze.Direction]int{}
	for _, d := range r.contents() {
		counts[d]++
	}
	// Scanning the ring in insertion order with a strict > keeps the
	// direction whose first occurrence is earliest on a tie.
	best := maze.None
	for _, d := range r.contents() {
		if best == maze.None {
			best = d
			continue
		}
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
