// Package maze provides the static board model for the pursuit engine:
// walls, pellets, tunnel rows and the restricted adversary house. It contains
// no external dependencies to keep the simulation core pure and testable.
package maze

import "fmt"

// Tile is a discrete cell on the board grid.
type Tile struct {
	X, Y int
}

// Add returns the tile one step from t in direction d without wrapping.
func (t Tile) Add(d Direction) Tile {
	dx, dy := d.Delta()
	return Tile{X: t.X + dx, Y: t.Y + dy}
}

// ManhattanTo returns the Manhattan distance between two tiles.
func (t Tile) ManhattanTo(o Tile) int {
	return abs(t.X-o.X) + abs(t.Y-o.Y)
}

// Direction is one of the four cardinal movement directions, or None.
type Direction int

const (
	None Direction = iota
	Up
	Left
	Down
	Right
)

// Delta returns the (dx, dy) step for the direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Left:
		return -1, 0
	case Down:
		return 0, 1
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction. None reverses to None.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Directions lists the four cardinal directions in the engine's canonical
// order. Neighbor generation and tie-breaking everywhere in the engine use
// this order so that searches are reproducible.
var Directions = [4]Direction{Up, Left, Down, Right}

// Rect is an axis-aligned tile rectangle, used for the restricted zone.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the tile lies inside the rectangle.
func (r Rect) Contains(t Tile) bool {
	return t.X >= r.X && t.X < r.X+r.W && t.Y >= r.Y && t.Y < r.Y+r.H
}

// Maze is one session's board: immutable topology plus mutable pellet state.
// Templates produced by Build are cloned per session; the walls, tunnel rows
// and zone geometry are never mutated after construction.
type Maze struct {
	Width  int
	Height int

	walls   []bool // row-major, Height*Width
	pellets []bool // row-major, mutated as pellets are eaten
	power   []Tile // power pellet tiles, fixed order
	tunnels map[int]bool

	restricted Rect

	variant Variant
	seed    int64

	pelletTotal     int
	pelletRemaining int

	// Spawn geometry.
	PlayerSpawn     Tile
	AdversarySpawns [4]Tile
	HomeTile        Tile
	BonusTile       Tile
}

func (m *Maze) index(t Tile) int {
	return t.Y*m.Width + t.X
}

// InBounds reports whether the tile lies on the grid.
func (m *Maze) InBounds(t Tile) bool {
	return t.X >= 0 && t.X < m.Width && t.Y >= 0 && t.Y < m.Height
}

// Wall reports whether the tile is a wall. Out-of-bounds tiles are walls
// unless they sit on a tunnel row.
func (m *Maze) Wall(t Tile) bool {
	if !m.InBounds(t) {
		return !m.tunnels[t.Y]
	}
	return m.walls[m.index(t)]
}

// Open reports whether an entity may occupy the tile. Restricted-zone tiles
// are closed unless allowRestricted is set (eaten adversaries returning home).
func (m *Maze) Open(t Tile, allowRestricted bool) bool {
	if m.Wall(t) {
		return false
	}
	if !allowRestricted && m.InBounds(t) && m.restricted.Contains(t) {
		return false
	}
	return true
}

// Restricted reports whether the tile lies inside the adversary house zone.
func (m *Maze) Restricted(t Tile) bool {
	return m.InBounds(t) && m.restricted.Contains(t)
}

// TunnelRow reports whether row y wraps horizontally.
func (m *Maze) TunnelRow(y int) bool {
	return m.tunnels[y]
}

// WrapX normalizes an x coordinate onto [0, Width) for tunnel rows.
func (m *Maze) WrapX(x int) int {
	x %= m.Width
	if x < 0 {
		x += m.Width
	}
	return x
}

// Step advances t one tile in direction d, wrapping across tunnel rows.
func (m *Maze) Step(t Tile, d Direction) Tile {
	n := t.Add(d)
	if m.tunnels[n.Y] {
		n.X = m.WrapX(n.X)
	}
	return n
}

// Pellet reports whether the tile still holds a pellet.
func (m *Maze) Pellet(t Tile) bool {
	return m.InBounds(t) && m.pellets[m.index(t)]
}

// EatPellet removes the pellet on t, reporting whether one was present.
func (m *Maze) EatPellet(t Tile) bool {
	if !m.Pellet(t) {
		return false
	}
	m.pellets[m.index(t)] = false
	m.pelletRemaining--
	return true
}

// PowerTile reports whether t is a power-pellet tile that still holds its
// pellet.
func (m *Maze) PowerTile(t Tile) bool {
	if !m.Pellet(t) {
		return false
	}
	for _, p := range m.power {
		if p == t {
			return true
		}
	}
	return false
}

// PowerRemaining returns the uneaten power-pellet tiles in template order.
func (m *Maze) PowerRemaining() []Tile {
	out := make([]Tile, 0, len(m.power))
	for _, p := range m.power {
		if m.Pellet(p) {
			out = append(out, p)
		}
	}
	return out
}

// PelletsRemaining returns how many pellets (including power pellets) are
// still on the board.
func (m *Maze) PelletsRemaining() int {
	return m.pelletRemaining
}

// PelletTotal returns the number of pellets the board starts with.
func (m *Maze) PelletTotal() int {
	return m.pelletTotal
}

// PelletBitmap returns a copy of the pellet grid, row-major.
func (m *Maze) PelletBitmap() []bool {
	out := make([]bool, len(m.pellets))
	copy(out, m.pellets)
	return out
}

// WallBitmap returns a copy of the wall grid, row-major.
func (m *Maze) WallBitmap() []bool {
	out := make([]bool, len(m.walls))
	copy(out, m.walls)
	return out
}

// RestrictedZone returns the house rectangle.
func (m *Maze) RestrictedZone() Rect {
	return m.restricted
}

// Clone returns an independent copy sharing no mutable state.
func (m *Maze) Clone() *Maze {
	c := *m
	c.walls = append([]bool(nil), m.walls...)
	c.pellets = append([]bool(nil), m.pellets...)
	c.power = append([]Tile(nil), m.power...)
	c.tunnels = make(map[int]bool, len(m.tunnels))
	for y := range m.tunnels {
		c.tunnels[y] = true
	}
	return &c
}

// ResetPellets restores every pellet from the template, used when a round is
// cleared.
func (m *Maze) ResetPellets() {
	t, err := Build(m.variant, m.seed)
	if err != nil {
		// The variant was validated when the maze was first built.
		panic(fmt.Sprintf("maze: reset with invalid variant %q", m.variant))
	}
	copy(m.pellets, t.pellets)
	m.pelletRemaining = t.pelletRemaining
}

// ClampTile clamps a tile onto the grid bounds.
func (m *Maze) ClampTile(t Tile) Tile {
	return Tile{X: clamp(t.X, 0, m.Width-1), Y: clamp(t.Y, 0, m.Height-1)}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
