// Package ai drives the four adversaries: personality targeting, tier-gated
// coordination, the scatter/chase mode manager and the per-tick controller,
// including the asynchronous external-strategy channel.
package ai

import (
	"math/rand"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

// Personality identifies one of the four fixed adversary archetypes. The
// set is closed; dispatch is an exhaustive switch, never subclassing.
type Personality int

const (
	// Stalker pursues the player's tile directly. It is also the
	// designated enforcer whose speed escalates as pellets run out.
	Stalker Personality = iota
	// Ambusher aims ahead of the player along its heading.
	Ambusher
	// Flanker reflects the Stalker through a pivot ahead of the player.
	Flanker
	// Wanderer pursues at range but retreats to its corner up close.
	Wanderer
)

// String returns the archetype name.
func (p Personality) String() string {
	switch p {
	case Stalker:
		return "stalker"
	case Ambusher:
		return "ambusher"
	case Flanker:
		return "flanker"
	case Wanderer:
		return "wanderer"
	default:
		return "unknown"
	}
}

// scatterCorners are the fixed per-personality scatter targets, clamped to
// the board on use.
var scatterCorners = [sim.AdversaryCount]maze.Tile{
	Stalker:  {X: 25, Y: 0},
	Ambusher: {X: 2, Y: 0},
	Flanker:  {X: 27, Y: 30},
	Wanderer: {X: 0, Y: 30},
}

// ScatterTarget returns the personality's fixed corner.
func (p Personality) ScatterTarget(m *maze.Maze) maze.Tile {
	return m.ClampTile(scatterCorners[p])
}

// project returns the tile n steps from t along d. The "up" case keeps the
// historical diagonal: up projects n up and n left.
func project(t maze.Tile, d maze.Direction, n int) maze.Tile {
	switch d {
	case maze.Up:
		return maze.Tile{X: t.X - n, Y: t.Y - n}
	case maze.Down:
		return maze.Tile{X: t.X, Y: t.Y + n}
	case maze.Left:
		return maze.Tile{X: t.X - n, Y: t.Y}
	case maze.Right:
		return maze.Tile{X: t.X + n, Y: t.Y}
	default:
		return t
	}
}

// ChaseTarget computes the personality's chase-mode target, clamped to the
// board bounds.
func (p Personality) ChaseTarget(self *sim.Entity, player *sim.Entity, all *[sim.AdversaryCount]sim.Adversary, m *maze.Maze, pelletsRemaining int, cfg config.AIConfig) maze.Tile {
	switch p {
	case Stalker:
		return player.Tile
	case Ambusher:
		return m.ClampTile(project(player.Tile, player.Dir, cfg.AmbushLead))
	case Flanker:
		pivot := project(player.Tile, player.Dir, cfg.PincerLead)
		anchor := all[Stalker].Entity.Tile
		return m.ClampTile(maze.Tile{
			X: 2*pivot.X - anchor.X,
			Y: 2*pivot.Y - anchor.Y,
		})
	case Wanderer:
		if self.Tile.ManhattanTo(player.Tile) > cfg.ErraticThreshold {
			return player.Tile
		}
		return p.ScatterTarget(m)
	default:
		return player.Tile
	}
}

// FrightenedDirection picks the frightened adversary's next move: at a tile
// boundary, a uniformly random legal direction that avoids reversing unless
// the tile is a dead end. Between tiles it returns None (keep going). The
// rng is the session's seeded source, so frightened wandering replays
// identically.
func FrightenedDirection(e *sim.Entity, m *maze.Maze, rng *rand.Rand) maze.Direction {
	if e.Progress != 0 {
		return maze.None
	}
	var legal []maze.Direction
	for _, d := range maze.Directions {
		if d == e.Dir.Opposite() {
			continue
		}
		if m.Open(m.Step(e.Tile, d), false) {
			legal = append(legal, d)
		}
	}
	if len(legal) == 0 {
		return e.Dir.Opposite()
	}
	return legal[rng.Intn(len(legal))]
}

// EnforcerMultiplier returns the designated adversary's speed multiplier for
// the remaining pellet count: >1.0 below each escalating threshold, 1.0
// otherwise.
func EnforcerMultiplier(cfg config.EnforcerConfig, pelletsRemaining int) float64 {
	switch {
	case pelletsRemaining < cfg.SecondThreshold:
		return cfg.SecondBoost
	case pelletsRemaining < cfg.FirstThreshold:
		return cfg.FirstBoost
	default:
		return 1.0
	}
}
