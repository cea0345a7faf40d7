package ai

import (
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

// CoordinationKind names the active multi-adversary maneuver.
type CoordinationKind int

const (
	CoordinationNone CoordinationKind = iota
	// CoordinationPincer sends the stalker ahead of the player and the
	// flanker behind it.
	CoordinationPincer
	// CoordinationFormation rings the player at a fixed radius with equal
	// angular spacing.
	CoordinationFormation
	// CoordinationAreaDenial parks each adversary on the nearest
	// unclaimed power pellet.
	CoordinationAreaDenial
)

// CoordinationPlan holds per-adversary target overrides. Adversaries
// without an override fall back to their personality target.
type CoordinationPlan struct {
	Kind    CoordinationKind
	Targets [sim.AdversaryCount]maze.Tile
	Has     [sim.AdversaryCount]bool
}

// formationOffsets places the four adversaries at 90° spacing. Scaled by
// the configured radius; integer offsets keep the plan float-free.
var formationOffsets = [sim.AdversaryCount]maze.Tile{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

// PlanCoordination selects the highest-priority applicable maneuver:
// area-denial, then ring formation, then pincer-by-two, then none (each
// adversary keeps its personality target).
//
// Activation rules: area-denial needs at least two uneaten power pellets to
// guard; the formation closes in once the board is nearly cleared; the
// pincer engages when the stalker is already near the player.
func PlanCoordination(s *sim.State, cfg config.AIConfig) CoordinationPlan {
	if plan, ok := planAreaDenial(s); ok {
		return plan
	}
	if plan, ok := planFormation(s, cfg); ok {
		return plan
	}
	if plan, ok := planPincer(s, cfg); ok {
		return plan
	}
	return CoordinationPlan{Kind: CoordinationNone}
}

func planAreaDenial(s *sim.State) (CoordinationPlan, bool) {
	power := s.Maze.PowerRemaining()
	if len(power) < 2 {
		return CoordinationPlan{}, false
	}
	plan := CoordinationPlan{Kind: CoordinationAreaDenial}
	claimed := make([]bool, len(power))
	for i := 0; i < sim.AdversaryCount; i++ {
		self := s.Adversaries[i].Entity.Tile
		bestIdx, bestDist := -1, 0
		for j, p := range power {
			if claimed[j] {
				continue
			}
			d := self.ManhattanTo(p)
			if bestIdx < 0 || d < bestDist {
				bestIdx, bestDist = j, d
			}
		}
		if bestIdx < 0 {
			break
		}
		claimed[bestIdx] = true
		plan.Targets[i] = power[bestIdx]
		plan.Has[i] = true
	}
	return plan, true
}

func planFormation(s *sim.State, cfg config.AIConfig) (CoordinationPlan, bool) {
	if s.Maze.PelletsRemaining() > s.Maze.PelletTotal()/3 {
		return CoordinationPlan{}, false
	}
	plan := CoordinationPlan{Kind: CoordinationFormation}
	for i := 0; i < sim.AdversaryCount; i++ {
		off := formationOffsets[i]
		plan.Targets[i] = s.Maze.ClampTile(maze.Tile{
			X: s.Player.Tile.X + off.X*cfg.FormationRadius,
			Y: s.Player.Tile.Y + off.Y*cfg.FormationRadius,
		})
		plan.Has[i] = true
	}
	return plan, true
}

func planPincer(s *sim.State, cfg config.AIConfig) (CoordinationPlan, bool) {
	anchor := s.Adversaries[Stalker].Entity.Tile
	if anchor.ManhattanTo(s.Player.Tile) > 2*cfg.ErraticThreshold {
		return CoordinationPlan{}, false
	}
	lead := 2 * cfg.PincerLead
	plan := CoordinationPlan{Kind: CoordinationPincer}
	plan.Targets[Stalker] = s.Maze.ClampTile(project(s.Player.Tile, s.Player.Dir, lead))
	plan.Has[Stalker] = true
	plan.Targets[Flanker] = s.Maze.ClampTile(project(s.Player.Tile, s.Player.Dir.Opposite(), lead))
	plan.Has[Flanker] = true
	return plan, true
}
