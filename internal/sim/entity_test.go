package sim

import (
	"testing"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
)

const testTickRate = 60

func classicBoard(t *testing.T) *maze.Maze {
	t.Helper()
	m, err := maze.Build(maze.VariantClassic, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// At 7.5 tiles/s and 60 ticks/s each tick adds exactly 0.125 progress, so
// eight ticks must land exactly on a tile boundary with zero remainder.
func TestAdvanceConservesDistance(t *testing.T) {
	m := classicBoard(t)
	e := Entity{Tile: maze.Tile{X: 1, Y: 5}, Dir: maze.Right, Speed: 7.5}

	for tick := 0; tick < 40; tick++ {
		e.Advance(m, testTickRate, MoveOptions{})
	}
	if e.Tile != (maze.Tile{X: 6, Y: 5}) {
		t.Fatalf("tile = %v, want (6,5)", e.Tile)
	}
	if e.Progress != 0 {
		t.Fatalf("progress = %v, want exactly 0", e.Progress)
	}

	// A steady stream of same-direction requests must not change the sum:
	// re-requesting the heading is a no-op, never a cornering pre-commit.
	e = Entity{Tile: maze.Tile{X: 1, Y: 5}, Dir: maze.Right, Speed: 7.5}
	for tick := 0; tick < 40; tick++ {
		e.Request(maze.Right)
		e.Advance(m, testTickRate, MoveOptions{})
	}
	if e.Tile != (maze.Tile{X: 6, Y: 5}) {
		t.Fatalf("with re-requests: tile = %v, want (6,5)", e.Tile)
	}
	if e.Progress != 0 {
		t.Fatalf("with re-requests: progress = %v, want exactly 0", e.Progress)
	}
}

func TestSameDirectionRequestCancelsQueuedTurn(t *testing.T) {
	m := classicBoard(t)
	e := Entity{Tile: maze.Tile{X: 5, Y: 5}, Dir: maze.Right, Speed: 7.5}
	e.Request(maze.Down)
	e.Request(maze.Right)

	for tick := 0; tick < 8; tick++ {
		e.Advance(m, testTickRate, MoveOptions{})
	}
	if e.Dir != maze.Right {
		t.Fatalf("dir = %v, want Right after the turn was cancelled", e.Dir)
	}
	if e.Tile != (maze.Tile{X: 6, Y: 5}) || e.Progress != 0 {
		t.Fatalf("tile=%v progress=%v, want (6,5) and 0", e.Tile, e.Progress)
	}
}

func TestAdvanceCarriesRemainder(t *testing.T) {
	m := classicBoard(t)
	// 9 tiles/s at 60 ticks/s is 0.15/tick: the seventh tick crosses the
	// boundary at 1.05 and must carry 0.05 into the next tile.
	e := Entity{Tile: maze.Tile{X: 1, Y: 5}, Dir: maze.Right, Speed: 9}
	for tick := 0; tick < 7; tick++ {
		e.Advance(m, testTickRate, MoveOptions{})
	}
	if e.Tile != (maze.Tile{X: 2, Y: 5}) {
		t.Fatalf("tile = %v, want (2,5)", e.Tile)
	}
	if e.Progress <= 0.049 || e.Progress >= 0.051 {
		t.Fatalf("progress = %v, want the 0.05 remainder", e.Progress)
	}
}

func TestIllegalMovePins(t *testing.T) {
	m := classicBoard(t)
	e := Entity{Tile: maze.Tile{X: 1, Y: 1}, Dir: maze.Up, Speed: 7.5}
	if e.Advance(m, testTickRate, MoveOptions{}) {
		t.Fatal("entity committed a tile against a wall")
	}
	if e.Progress != 0 {
		t.Fatalf("pinned entity accumulated progress %v", e.Progress)
	}
	if e.Tile != (maze.Tile{X: 1, Y: 1}) {
		t.Fatalf("pinned entity moved to %v", e.Tile)
	}
}

func TestParkedEntityStays(t *testing.T) {
	m := classicBoard(t)
	e := Entity{Tile: maze.Tile{X: 1, Y: 1}, Dir: maze.None, Speed: 7.5}
	if e.Advance(m, testTickRate, MoveOptions{}) {
		t.Fatal("parked entity moved without a direction")
	}
	e.Request(maze.Down)
	e.Advance(m, testTickRate, MoveOptions{})
	if e.Dir != maze.Down || e.Progress != 0.125 {
		t.Fatalf("queued start: dir=%v progress=%v", e.Dir, e.Progress)
	}
}

func TestReverseMirrorsProgress(t *testing.T) {
	m := classicBoard(t)
	e := Entity{Tile: maze.Tile{X: 1, Y: 5}, Dir: maze.Right, Speed: 7.5}
	for tick := 0; tick < 3; tick++ {
		e.Advance(m, testTickRate, MoveOptions{})
	}
	if e.Progress != 0.375 {
		t.Fatalf("setup progress = %v, want 0.375", e.Progress)
	}

	e.Request(maze.Left)
	e.Advance(m, testTickRate, MoveOptions{})
	// Re-anchored on (2,5) with mirrored progress 0.625, plus this tick's
	// 0.125 step.
	if e.Dir != maze.Left {
		t.Fatalf("dir = %v, want Left", e.Dir)
	}
	if e.Tile != (maze.Tile{X: 2, Y: 5}) {
		t.Fatalf("tile = %v, want (2,5)", e.Tile)
	}
	if e.Progress != 0.75 {
		t.Fatalf("progress = %v, want 0.75", e.Progress)
	}
}

func TestCorneringCommitsEarly(t *testing.T) {
	m := classicBoard(t)
	e := Entity{Tile: maze.Tile{X: 5, Y: 5}, Dir: maze.Right, Speed: 7.5}
	e.Request(maze.Down)

	// The turn at (6,5) into the downward corridor commits at the halfway
	// point of the approach, on the fourth tick.
	for tick := 0; tick < 4; tick++ {
		e.Advance(m, testTickRate, MoveOptions{})
	}
	if e.Tile != (maze.Tile{X: 6, Y: 5}) {
		t.Fatalf("tile = %v, want (6,5)", e.Tile)
	}
	if e.Dir != maze.Down {
		t.Fatalf("dir = %v, want Down", e.Dir)
	}
	if e.Progress != 0 {
		t.Fatalf("progress = %v, want 0 after early commit", e.Progress)
	}
}

func TestTunnelWrapResetsProgress(t *testing.T) {
	m := classicBoard(t)
	e := Entity{Tile: maze.Tile{X: 0, Y: 14}, Dir: maze.Left, Speed: 7.5}
	for tick := 0; tick < 8; tick++ {
		e.Advance(m, testTickRate, MoveOptions{})
	}
	if e.Tile != (maze.Tile{X: 27, Y: 14}) {
		t.Fatalf("tile = %v, want (27,14)", e.Tile)
	}
	if e.Progress != 0 {
		t.Fatalf("progress = %v, want 0 after wrap", e.Progress)
	}
}

func TestTunnelFactorSlowsOuterZone(t *testing.T) {
	m := classicBoard(t)
	e := Entity{Tile: maze.Tile{X: 1, Y: 14}, Dir: maze.Left, Speed: 7.5}
	opt := MoveOptions{TunnelFactor: 0.5}
	for tick := 0; tick < 8; tick++ {
		e.Advance(m, testTickRate, opt)
	}
	// Half speed: eight ticks cover half a tile.
	if e.Tile != (maze.Tile{X: 1, Y: 14}) {
		t.Fatalf("tile = %v, want (1,14)", e.Tile)
	}
	if e.Progress != 0.5 {
		t.Fatalf("progress = %v, want 0.5", e.Progress)
	}
}

func TestCollides(t *testing.T) {
	m := classicBoard(t)
	a := &Entity{Tile: maze.Tile{X: 3, Y: 5}, Dir: maze.Right}
	b := &Entity{Tile: maze.Tile{X: 3, Y: 5}, Dir: maze.Left}
	if !Collides(a, b, m) {
		t.Fatal("same tile should collide")
	}

	b.Tile = maze.Tile{X: 4, Y: 5}
	if Collides(a, b, m) {
		t.Fatal("adjacent facing entities below halfway should not collide")
	}
	a.Progress, b.Progress = 0.5, 0.5
	if !Collides(a, b, m) {
		t.Fatal("adjacent facing entities past halfway should collide")
	}

	// Moving the same way never counts as facing.
	b.Dir = maze.Right
	if Collides(a, b, m) {
		t.Fatal("entities moving apart should not collide")
	}
}
