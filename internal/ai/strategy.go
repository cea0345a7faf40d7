package ai

import (
	"context"
	"sync"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

// StrategyRequest is the payload sent to the external strategy collaborator.
type StrategyRequest struct {
	PlayerPosition     maze.Tile
	PlayerDirection    maze.Direction
	AdversaryPositions [sim.AdversaryCount]maze.Tile
	RecentPlayerMoves  []maze.Direction
	PelletsRemaining   int
	Tick               uint64
}

// StrategyResponse is the collaborator's answer. Only TargetsByAdversary is
// consumed; the label and confidence travel through to observers untouched.
type StrategyResponse struct {
	TargetsByAdversary map[int]maze.Tile
	Label              string
	Confidence         float64
}

// StrategyProvider computes augmented adversary targets out of band. A
// provider may be slow, may fail, and may be arbitrarily stale; the
// controller never waits on it inside the tick pipeline.
type StrategyProvider interface {
	Propose(ctx context.Context, req StrategyRequest) (StrategyResponse, error)
}

// strategyMailbox is a single-slot, latest-result-wins mailbox between the
// background strategy request and the tick pipeline.
type strategyMailbox struct {
	mu   sync.Mutex
	resp *StrategyResponse
	tick uint64 // the tick the request was issued at
}

func (b *strategyMailbox) put(resp StrategyResponse, tick uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resp != nil && b.tick > tick {
		// A newer result already landed.
		return
	}
	b.resp = &resp
	b.tick = tick
}

// take removes and returns the pending response, if any.
func (b *strategyMailbox) take() (StrategyResponse, uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resp == nil {
		return StrategyResponse{}, 0, false
	}
	resp, tick := *b.resp, b.tick
	b.resp = nil
	return resp, tick, true
}
