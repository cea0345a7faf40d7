package sim

import (
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
)

// Director is the per-tick adversary brain. The orchestrator owns the state;
// the director only reads it and answers direction/speed queries. The
// concrete implementation lives in the ai package.
type Director interface {
	// Advance steps the director's clocks once per tick, before any
	// entity moves. It observes the player's last committed direction
	// through the state.
	Advance(s *State)
	// BaseMode reports the scatter/chase mode adversaries resume when
	// frightened or eaten states end.
	BaseMode() Mode
	// Direct returns the direction adversary i should take this tick.
	Direct(i int, s *State) maze.Direction
	// SpeedMultiplier returns adversary i's pursuit speed multiplier.
	SpeedMultiplier(i int, s *State) float64
	// Reset restarts the director's clocks after a life or round reset.
	Reset()
}

// Orchestrator owns one session's live state and runs the fixed-timestep
// tick pipeline: AI, motion, pickup, collisions, power-mode bookkeeping,
// round and life accounting, fingerprint. It is not safe for concurrent
// use; the scheduler serializes access per session.
type Orchestrator struct {
	cfg      config.EngineConfig
	tier     config.TierConfig
	director Director

	st State

	pelletsEaten int // this round
	bonusSpawned bool

	last Snapshot
}

// New creates an orchestrator over a freshly built maze. The maze must not
// be shared with another session.
func New(cfg config.EngineConfig, tier config.TierConfig, m *maze.Maze, director Director) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		tier:     tier,
		director: director,
	}
	o.st = State{
		Round: 1,
		Lives: cfg.Scoring.StartingLives,
		Maze:  m,
	}
	o.resetPositions()
	o.last = o.st.snapshot(Fingerprint(&o.st))
	return o
}

// resetPositions puts every entity back on its spawn tile. Adversaries
// resume the director's base mode.
func (o *Orchestrator) resetPositions() {
	m := o.st.Maze
	o.st.Player = Entity{
		Tile:  m.PlayerSpawn,
		Dir:   maze.Left,
		Speed: o.cfg.Speeds.Player,
	}
	o.st.PlayerDir = maze.Left
	base := o.director.BaseMode()
	for i := range o.st.Adversaries {
		o.st.Adversaries[i] = Adversary{
			Entity: Entity{
				Tile:  m.AdversarySpawns[i],
				Dir:   maze.Left,
				Speed: o.cfg.Speeds.Adversary,
			},
			Mode: base,
		}
	}
}

// Snapshot returns the latest detached snapshot without advancing.
func (o *Orchestrator) Snapshot() Snapshot {
	return o.last
}

// FullSync returns the snapshot plus the board topology and pellet state.
func (o *Orchestrator) FullSync() FullSync {
	m := o.st.Maze
	return FullSync{
		Snapshot:   o.last,
		Width:      m.Width,
		Height:     m.Height,
		Walls:      m.WallBitmap(),
		Pellets:    m.PelletBitmap(),
		PowerTiles: m.PowerRemaining(),
		Restricted: m.RestrictedZone(),
	}
}

// Tick advances the simulation one step under the given player input (None
// means no input this tick) and returns the resulting snapshot. After
// game over, Tick is a no-op returning the terminal snapshot.
func (o *Orchestrator) Tick(input maze.Direction) Snapshot {
	if o.st.GameOver {
		return o.last
	}
	s := &o.st
	s.Tick++

	// 1–2: the director steps the mode clock, feeds the pattern buffer
	// and may fire a non-blocking external-strategy request.
	o.director.Advance(s)

	// Scatter/chase flips propagate to every adversary not frightened
	// or eaten.
	base := o.director.BaseMode()
	for i := range s.Adversaries {
		if m := s.Adversaries[i].Mode; m == ModeScatter || m == ModeChase {
			s.Adversaries[i].Mode = base
		}
	}

	// 3: adversary directions.
	for i := range s.Adversaries {
		adv := &s.Adversaries[i]
		adv.Entity.Speed = o.adversarySpeed(i)
		if d := o.director.Direct(i, s); d != maze.None {
			adv.Entity.Request(d)
		}
	}
	if input != maze.None {
		s.Player.Request(input)
	}

	// 4: motion.
	s.Player.Speed = o.cfg.Speeds.Player
	s.Player.Advance(s.Maze, o.cfg.Timing.TickRate, MoveOptions{})
	s.PlayerDir = s.Player.Dir
	for i := range s.Adversaries {
		adv := &s.Adversaries[i]
		opt := MoveOptions{AllowRestricted: adv.Mode == ModeEaten}
		if adv.Mode != ModeEaten {
			opt.TunnelFactor = o.cfg.Speeds.TunnelFactor
		}
		adv.Entity.Advance(s.Maze, o.cfg.Timing.TickRate, opt)
	}

	// 5: pellet and bonus pickup.
	o.resolvePickup()

	// 6: collisions.
	o.resolveCollisions()

	// 7: power-mode countdown and eaten respawns.
	o.tickPower()

	// 8: round advance on pellet exhaustion.
	if !s.GameOver && s.Maze.PelletsRemaining() == 0 {
		o.advanceRound()
	}

	// One-shot extra life.
	if !s.ExtraLifeGranted && s.Score >= o.cfg.Scoring.ExtraLifeScore {
		s.Lives++
		s.ExtraLifeGranted = true
	}

	o.last = s.snapshot(Fingerprint(s))
	return o.last
}

func (o *Orchestrator) adversarySpeed(i int) float64 {
	switch o.st.Adversaries[i].Mode {
	case ModeFrightened:
		return o.cfg.Speeds.Frightened
	case ModeEaten:
		return o.cfg.Speeds.Eaten
	default:
		return o.cfg.Speeds.Adversary * o.director.SpeedMultiplier(i, &o.st)
	}
}

func (o *Orchestrator) resolvePickup() {
	s := &o.st
	t := s.Player.Tile
	switch {
	case s.Maze.PowerTile(t):
		s.Maze.EatPellet(t)
		s.Score += o.cfg.Scoring.PowerPellet
		o.pelletsEaten++
		o.armPower()
	case s.Maze.EatPellet(t):
		s.Score += o.cfg.Scoring.Pellet
		o.pelletsEaten++
	}

	if !o.bonusSpawned && o.pelletsEaten >= o.cfg.Bonus.PelletTrigger && o.cfg.Bonus.PelletTrigger > 0 {
		o.bonusSpawned = true
		value := o.cfg.Bonus.BaseValue * s.Round
		if value > o.cfg.Bonus.MaxValue {
			value = o.cfg.Bonus.MaxValue
		}
		s.Bonus = &Bonus{
			Tile:           s.Maze.BonusTile,
			Value:          value,
			RemainingTicks: o.cfg.Bonus.DurationTicks,
		}
	}
	if s.Bonus != nil {
		if s.Player.Tile == s.Bonus.Tile {
			s.Score += s.Bonus.Value
			s.Bonus = nil
		} else {
			s.Bonus.RemainingTicks--
			if s.Bonus.RemainingTicks <= 0 {
				s.Bonus = nil
			}
		}
	}
}

// armPower starts a power window: the combo table rewinds and every
// non-eaten adversary turns frightened.
func (o *Orchestrator) armPower() {
	s := &o.st
	s.PowerActive = true
	s.PowerTicks = o.tier.FrightenedTicks
	s.ComboIndex = 0
	for i := range s.Adversaries {
		if s.Adversaries[i].Mode != ModeEaten {
			s.Adversaries[i].Mode = ModeFrightened
		}
	}
}

func (o *Orchestrator) resolveCollisions() {
	s := &o.st
	for i := range s.Adversaries {
		adv := &s.Adversaries[i]
		if adv.Mode == ModeEaten {
			continue
		}
		if !Collides(&s.Player, &adv.Entity, s.Maze) {
			continue
		}
		if s.PowerActive {
			adv.Mode = ModeEaten
			combo := o.cfg.Scoring.CaptureCombo
			idx := s.ComboIndex
			if idx >= len(combo) {
				idx = len(combo) - 1
			}
			s.Score += combo[idx]
			s.ComboIndex++
			continue
		}
		o.loseLife()
		return
	}
}

func (o *Orchestrator) loseLife() {
	s := &o.st
	s.Lives--
	s.PowerActive = false
	s.PowerTicks = 0
	s.ComboIndex = 0
	s.Bonus = nil
	o.bonusSpawned = false
	o.director.Reset()
	o.resetPositions()
	if s.Lives <= 0 {
		s.Lives = 0
		s.GameOver = true
	}
}

func (o *Orchestrator) tickPower() {
	s := &o.st
	base := o.director.BaseMode()

	// Eaten adversaries reaching home respawn immediately in the base
	// mode.
	for i := range s.Adversaries {
		adv := &s.Adversaries[i]
		if adv.Mode == ModeEaten && adv.Entity.Tile == s.Maze.HomeTile {
			adv.Entity = Entity{
				Tile:  s.Maze.AdversarySpawns[i],
				Dir:   maze.Left,
				Speed: o.cfg.Speeds.Adversary,
			}
			adv.Mode = base
		}
	}

	if !s.PowerActive {
		return
	}
	s.PowerTicks--
	if s.PowerTicks > 0 {
		return
	}
	s.PowerActive = false
	s.PowerTicks = 0
	for i := range s.Adversaries {
		if s.Adversaries[i].Mode == ModeFrightened {
			s.Adversaries[i].Mode = base
		}
	}
}

func (o *Orchestrator) advanceRound() {
	s := &o.st
	s.Round++
	s.Maze.ResetPellets()
	s.PowerActive = false
	s.PowerTicks = 0
	s.ComboIndex = 0
	s.Bonus = nil
	o.bonusSpawned = false
	o.pelletsEaten = 0
	o.director.Reset()
	o.resetPositions()
}
