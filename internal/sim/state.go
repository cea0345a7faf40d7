package sim

import "github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"

// Mode is an adversary's behavioral state.
type Mode int

const (
	ModeScatter Mode = iota
	ModeChase
	ModeFrightened
	ModeEaten
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeScatter:
		return "scatter"
	case ModeChase:
		return "chase"
	case ModeFrightened:
		return "frightened"
	case ModeEaten:
		return "eaten"
	default:
		return "unknown"
	}
}

// AdversaryCount is the fixed number of pursuing adversaries.
const AdversaryCount = 4

// Adversary is one pursuer: its entity plus its behavioral mode.
type Adversary struct {
	Entity Entity
	Mode   Mode
}

// Bonus is the optional bonus item on the board.
type Bonus struct {
	Tile           maze.Tile
	Value          int
	RemainingTicks int
}

// State is the live game state. The orchestrator owns and mutates it; every
// other component sees read-only views or detached snapshots.
type State struct {
	Tick  uint64
	Round int
	Score int
	Lives int

	Player      Entity
	Adversaries [AdversaryCount]Adversary

	Maze *maze.Maze

	PowerActive bool
	PowerTicks  int
	ComboIndex  int // next capture's slot in the combo table

	Bonus *Bonus

	ExtraLifeGranted bool
	GameOver         bool

	// PlayerDir is the player's last committed direction, fed back to the
	// difficulty manager's pattern buffer.
	PlayerDir maze.Direction
}

// Snapshot is a detached copy of the observable game state, safe to hand to
// callers and to hash. It never aliases live orchestrator state.
type Snapshot struct {
	Tick  uint64
	Round int
	Score int
	Lives int

	Player      Entity
	Adversaries [AdversaryCount]Adversary

	PowerActive bool
	PowerTicks  int

	PelletsRemaining int
	Bonus            *Bonus

	GameOver    bool
	Fingerprint [32]byte
}

// snapshot builds a detached snapshot of the state with the given
// fingerprint.
func (s *State) snapshot(fp [32]byte) Snapshot {
	snap := Snapshot{
		Tick:             s.Tick,
		Round:            s.Round,
		Score:            s.Score,
		Lives:            s.Lives,
		Player:           s.Player,
		Adversaries:      s.Adversaries,
		PowerActive:      s.PowerActive,
		PowerTicks:       s.PowerTicks,
		PelletsRemaining: s.Maze.PelletsRemaining(),
		GameOver:         s.GameOver,
		Fingerprint:      fp,
	}
	if s.Bonus != nil {
		b := *s.Bonus
		snap.Bonus = &b
	}
	return snap
}

// FullSync is a complete board sync for late joiners/observers: the snapshot
// plus the board topology and pellet bitmap.
type FullSync struct {
	Snapshot Snapshot

	Width, Height int
	Walls         []bool
	Pellets       []bool
	PowerTiles    []maze.Tile
	Restricted    maze.Rect
}
