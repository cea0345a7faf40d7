// Package sim implements the deterministic fixed-timestep simulation: entity
// motion, the per-tick orchestrator pipeline and the state fingerprint.
package sim

import "github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"

// Entity is a moving actor: the tile it is leaving, its fractional progress
// toward the next tile, its committed direction and an optional queued turn.
// Progress is always in [0, 1); each tick the entity either advances or
// stays.
type Entity struct {
	Tile     maze.Tile
	Progress float64
	Dir      maze.Direction
	Queued   maze.Direction
	Speed    float64 // tiles per second
}

// MoveOptions tunes one Advance call.
type MoveOptions struct {
	// AllowRestricted lets the entity traverse the adversary house
	// (eaten adversaries returning home).
	AllowRestricted bool
	// TunnelFactor scales effective speed inside a tunnel's outer zone.
	// Zero means no scaling.
	TunnelFactor float64
}

// tunnelOuterSpan is how many columns at each board edge count as the
// tunnel's outer zone.
const tunnelOuterSpan = 6

// Request queues a direction change. A request opposite the current
// direction is applied by the next Advance immediately, mirroring progress;
// any other request waits for a tile boundary or a cornering pre-commit.
// Re-requesting the current heading queues nothing and cancels any pending
// turn, so a steady stream of same-direction requests never triggers the
// cornering pre-commit.
func (e *Entity) Request(d maze.Direction) {
	if d == maze.None {
		return
	}
	if d == e.Dir {
		e.Queued = maze.None
		return
	}
	e.Queued = d
}

// Advance moves the entity by one tick. It returns true when the entity
// committed to a new tile this tick.
func (e *Entity) Advance(m *maze.Maze, tickRate int, opt MoveOptions) bool {
	e.applyReverse(m)

	if e.Dir == maze.None {
		// Parked. A queued legal direction starts movement.
		if e.Queued != maze.None && m.Open(m.Step(e.Tile, e.Queued), opt.AllowRestricted) {
			e.Dir = e.Queued
			e.Queued = maze.None
		} else {
			return false
		}
	}

	if e.Progress == 0 {
		e.commitQueued(m, opt)
		if !m.Open(m.Step(e.Tile, e.Dir), opt.AllowRestricted) {
			// Illegal move: pinned in place.
			return false
		}
	}

	step := e.Speed / float64(tickRate)
	if opt.TunnelFactor != 0 && e.inTunnelOuterZone(m) {
		step *= opt.TunnelFactor
	}
	e.Progress += step

	// Cornering: past the halfway point with a queued turn that is legal
	// from the next tile, commit early.
	if e.Progress < 1 && e.Progress >= 0.5 && e.Queued != maze.None {
		next := m.Step(e.Tile, e.Dir)
		if m.Open(next, opt.AllowRestricted) && m.Open(m.Step(next, e.Queued), opt.AllowRestricted) {
			e.Tile = next
			e.Dir = e.Queued
			e.Queued = maze.None
			e.Progress = 0
			return true
		}
	}

	if e.Progress < 1 {
		return false
	}

	// Tile boundary: commit, carrying the fractional remainder exactly.
	raw := e.Tile.Add(e.Dir)
	wrapped := m.TunnelRow(raw.Y) && (raw.X < 0 || raw.X >= m.Width)
	e.Tile = m.Step(e.Tile, e.Dir)
	if wrapped {
		e.Progress = 0
	} else {
		e.Progress -= 1
	}

	e.commitQueued(m, opt)
	if !m.Open(m.Step(e.Tile, e.Dir), opt.AllowRestricted) {
		e.Progress = 0
	}
	return true
}

// applyReverse handles an immediate reversal request: direction flips and
// progress mirrors to 1−p, re-anchoring on the tile the entity was moving
// toward.
func (e *Entity) applyReverse(m *maze.Maze) {
	if e.Queued == maze.None || e.Dir == maze.None || e.Queued != e.Dir.Opposite() {
		return
	}
	if e.Progress > 0 {
		e.Tile = m.Step(e.Tile, e.Dir)
		e.Progress = 1 - e.Progress
	}
	e.Dir = e.Queued
	e.Queued = maze.None
}

func (e *Entity) commitQueued(m *maze.Maze, opt MoveOptions) {
	if e.Queued == maze.None || e.Queued == e.Dir {
		e.Queued = maze.None
		return
	}
	if m.Open(m.Step(e.Tile, e.Queued), opt.AllowRestricted) {
		e.Dir = e.Queued
		e.Queued = maze.None
	}
}

func (e *Entity) inTunnelOuterZone(m *maze.Maze) bool {
	if !m.TunnelRow(e.Tile.Y) {
		return false
	}
	return e.Tile.X < tunnelOuterSpan || e.Tile.X >= m.Width-tunnelOuterSpan
}

// Collides reports whether two entities occupy the same tile, or sit on
// adjacent tiles moving toward each other with both at least halfway across.
func Collides(a, b *Entity, m *maze.Maze) bool {
	if a.Tile == b.Tile {
		return true
	}
	if a.Progress >= 0.5 && b.Progress >= 0.5 {
		if m.Step(a.Tile, a.Dir) == b.Tile && m.Step(b.Tile, b.Dir) == a.Tile {
			return true
		}
	}
	return false
}
