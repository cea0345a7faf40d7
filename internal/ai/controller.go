package ai

import (
	"context"
	"math/rand"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/nav"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

// strategyStaleTicks bounds how long a cached external-strategy result keeps
// overriding targets before the synchronous fallbacks take over again.
const strategyStaleTicks = 120

// Controller resolves one direction per adversary per tick. It implements
// the orchestrator's Director contract and owns the session's mode manager,
// the frightened-move RNG and the external-strategy mailbox.
type Controller struct {
	cfg     config.EngineConfig
	manager *ModeManager
	rng     *rand.Rand

	provider StrategyProvider
	box      strategyMailbox
	cached   *StrategyResponse
	cachedAt uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// NewController creates the per-session controller. The rng must be the
// session's seeded source; provider may be nil to disable the external
// strategy channel regardless of tier.
func NewController(cfg config.EngineConfig, tier config.TierConfig, rng *rand.Rand, provider StrategyProvider) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg:      cfg,
		manager:  NewModeManager(tier, cfg.AI.HistorySize),
		rng:      rng,
		provider: provider,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Manager exposes the mode manager for the orchestrator's power-mode
// bookkeeping and for tests.
func (c *Controller) Manager() *ModeManager {
	return c.manager
}

// Close cancels any in-flight strategy request. Idempotent.
func (c *Controller) Close() {
	c.cancel()
}

// Advance runs once per tick before any entity moves: it steps the mode
// clock with the player's prior direction, collects a landed strategy
// result, and possibly fires the next request. The request itself runs
// outside the tick pipeline and its failure is discarded silently.
func (c *Controller) Advance(s *sim.State) {
	c.manager.Tick(s.PlayerDir)

	if resp, tick, ok := c.box.take(); ok {
		c.cached = &resp
		c.cachedAt = tick
	}
	if c.cached != nil && s.Tick-c.cachedAt > strategyStaleTicks {
		c.cached = nil
	}

	if c.provider == nil || !c.manager.StrategyDue(s.Tick) {
		return
	}
	req := c.buildRequest(s)
	go func() {
		resp, err := c.provider.Propose(c.ctx, req)
		if err != nil {
			return
		}
		c.box.put(resp, req.Tick)
	}()
}

func (c *Controller) buildRequest(s *sim.State) StrategyRequest {
	req := StrategyRequest{
		PlayerPosition:    s.Player.Tile,
		PlayerDirection:   s.Player.Dir,
		RecentPlayerMoves: c.manager.RecentMoves(),
		PelletsRemaining:  s.Maze.PelletsRemaining(),
		Tick:              s.Tick,
	}
	for i := range s.Adversaries {
		req.AdversaryPositions[i] = s.Adversaries[i].Entity.Tile
	}
	return req
}

// BaseMode returns the mode adversaries resume after frightened or eaten
// states end.
func (c *Controller) BaseMode() sim.Mode {
	return c.manager.Mode()
}

// Direct resolves adversary i's direction for this tick. Every resolution
// path ends in one pathfinder call except frightened, which delegates to
// the personality's randomized choice.
func (c *Controller) Direct(i int, s *sim.State) maze.Direction {
	adv := &s.Adversaries[i]
	p := Personality(i)

	switch adv.Mode {
	case sim.ModeEaten:
		return nav.DirectionTo(adv.Entity.Tile, s.Maze.HomeTile, s.Maze, true)
	case sim.ModeFrightened:
		return FrightenedDirection(&adv.Entity, s.Maze, c.rng)
	case sim.ModeChase:
		return c.steerTo(adv.Entity.Tile, c.chaseTarget(i, p, s), s.Maze)
	default: // scatter
		return c.steerTo(adv.Entity.Tile, p.ScatterTarget(s.Maze), s.Maze)
	}
}

// chaseTarget picks adversary i's chase target: an external-strategy
// override when one is cached, then the coordination plan when the tier
// coordinates, then the personality default. The ambusher aims along the
// predicted player direction when the tier recognizes patterns.
func (c *Controller) chaseTarget(i int, p Personality, s *sim.State) maze.Tile {
	if c.cached != nil {
		if t, ok := c.cached.TargetsByAdversary[i]; ok {
			return s.Maze.ClampTile(t)
		}
	}
	if c.manager.Coordinates() {
		plan := PlanCoordination(s, c.cfg.AI)
		if plan.Has[i] {
			return plan.Targets[i]
		}
	}
	if p == Ambusher {
		if predicted := c.manager.PredictNext(); predicted != maze.None {
			return s.Maze.ClampTile(project(s.Player.Tile, predicted, c.cfg.AI.AmbushLead))
		}
	}
	return p.ChaseTarget(&s.Adversaries[i].Entity, &s.Player, &s.Adversaries, s.Maze, s.Maze.PelletsRemaining(), c.cfg.AI)
}

// steerTo snaps the target onto an open tile and reduces the path to its
// first-step direction.
func (c *Controller) steerTo(from, target maze.Tile, m *maze.Maze) maze.Direction {
	snapped, ok := nav.ClosestOpen(target, m, false)
	if !ok {
		return maze.None
	}
	return nav.DirectionTo(from, snapped, m, false)
}

// SpeedMultiplier returns the enforcer multiplier for adversary i, or 1.0.
// Only the stalker escalates, only while pursuing, and only when the tier
// enables the boost.
func (c *Controller) SpeedMultiplier(i int, s *sim.State) float64 {
	if Personality(i) != Stalker || !c.manager.EnforcerBoost() {
		return 1.0
	}
	mode := s.Adversaries[i].Mode
	if mode != sim.ModeChase && mode != sim.ModeScatter {
		return 1.0
	}
	return EnforcerMultiplier(c.cfg.Enforcer, s.Maze.PelletsRemaining())
}

// Reset restarts the mode clock after a life loss or round change.
func (c *Controller) Reset() {
	c.manager.Reset()
}
