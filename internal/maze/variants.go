package maze

import "fmt"

// Variant selects a board topology. Variants are deterministic: the same
// variant and seed always build the same board.
type Variant string

const (
	// VariantClassic is the standard 28×31 board.
	VariantClassic Variant = "classic"
	// VariantInverted is the classic board flipped vertically.
	VariantInverted Variant = "inverted"
	// VariantSparse is the classic board with a seed-chosen subset of
	// pellets removed, for shorter rounds.
	VariantSparse Variant = "sparse"
)

// Variants lists the supported board variants.
var Variants = []Variant{VariantClassic, VariantInverted, VariantSparse}

// Board dimensions. The motion model and pathfinder assume nothing beyond
// what the Maze reports, but the bundled layouts are all 28×31.
const (
	BoardWidth  = 28
	BoardHeight = 31
)

// classicLayout encodes the standard board, one string per row.
//
//	#  wall
//	.  pellet
//	o  power pellet
//	-  house door (restricted, no pellet)
//	' ' open corridor without a pellet
//
// Row 14 is the tunnel row: both edge columns are open and wrap.
var classicLayout = [BoardHeight]string{
	"############################",
	"#............##............#",
	"#.####.#####.##.#####.####.#",
	"#o####.#####.##.#####.####o#",
	"#.####.#####.##.#####.####.#",
	"#..........................#",
	"#.####.##.########.##.####.#",
	"#.####.##.########.##.####.#",
	"#......##....##....##......#",
	"######.##### ## #####.######",
	"######.##### ## #####.######",
	"######.##          ##.######",
	"######.## ###--### ##.######",
	"######.## #      # ##.######",
	"      .   #      #   .      ",
	"######.## #      # ##.######",
	"######.## ######## ##.######",
	"######.##          ##.######",
	"######.## ######## ##.######",
	"######.## ######## ##.######",
	"#............##............#",
	"#.####.#####.##.#####.####.#",
	"#.####.#####.##.#####.####.#",
	"#o..##.......  .......##..o#",
	"###.##.##.########.##.##.###",
	"###.##.##.########.##.##.###",
	"#......##....##....##......#",
	"#.##########.##.##########.#",
	"#.##########.##.##########.#",
	"#..........................#",
	"############################",
}

// House geometry for the classic layout. The restricted zone covers the
// interior and the door approach; eaten adversaries are the only entities
// allowed inside.
var classicHouse = Rect{X: 10, Y: 12, W: 8, H: 4}

// ParseVariant validates a variant name. The empty string selects classic.
func ParseVariant(name string) (Variant, error) {
	if name == "" {
		return VariantClassic, nil
	}
	for _, v := range Variants {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("maze: unknown variant %q", name)
}

// Build constructs the board for a variant. The seed only matters for
// variants that derive topology from it; classic ignores it.
func Build(variant Variant, seed int64) (*Maze, error) {
	switch variant {
	case "", VariantClassic:
		m := fromLayout(classicLayout, classicHouse)
		m.variant = VariantClassic
		m.seed = seed
		return m, nil
	case VariantInverted:
		m := fromLayout(flipLayout(classicLayout), flipRect(classicHouse))
		m.variant = VariantInverted
		m.seed = seed
		m.PlayerSpawn = flipTile(m.PlayerSpawn)
		for i, t := range m.AdversarySpawns {
			m.AdversarySpawns[i] = flipTile(t)
		}
		m.HomeTile = flipTile(m.HomeTile)
		m.BonusTile = flipTile(m.BonusTile)
		return m, nil
	case VariantSparse:
		m := fromLayout(classicLayout, classicHouse)
		m.variant = VariantSparse
		m.seed = seed
		thinPellets(m, seed)
		return m, nil
	default:
		return nil, fmt.Errorf("maze: unknown variant %q", variant)
	}
}

func fromLayout(layout [BoardHeight]string, house Rect) *Maze {
	m := &Maze{
		Width:      BoardWidth,
		Height:     BoardHeight,
		walls:      make([]bool, BoardWidth*BoardHeight),
		pellets:    make([]bool, BoardWidth*BoardHeight),
		tunnels:    make(map[int]bool),
		restricted: house,

		PlayerSpawn: Tile{X: 13, Y: 23},
		AdversarySpawns: [4]Tile{
			{X: 13, Y: 11},
			{X: 14, Y: 11},
			{X: 12, Y: 11},
			{X: 15, Y: 11},
		},
		HomeTile:  Tile{X: 13, Y: 14},
		BonusTile: Tile{X: 13, Y: 17},
	}

	for y, row := range layout {
		for x := 0; x < BoardWidth; x++ {
			t := Tile{X: x, Y: y}
			switch row[x] {
			case '#':
				m.walls[m.index(t)] = true
			case '.':
				m.pellets[m.index(t)] = true
			case 'o':
				m.pellets[m.index(t)] = true
				m.power = append(m.power, t)
			}
		}
		// A row whose edge columns are open wraps horizontally.
		if row[0] != '#' && row[BoardWidth-1] != '#' {
			m.tunnels[y] = true
		}
	}

	m.pelletTotal = 0
	for _, p := range m.pellets {
		if p {
			m.pelletTotal++
		}
	}
	m.pelletRemaining = m.pelletTotal
	return m
}

func flipLayout(layout [BoardHeight]string) [BoardHeight]string {
	var out [BoardHeight]string
	for y := range layout {
		out[y] = layout[BoardHeight-1-y]
	}
	return out
}

func flipRect(r Rect) Rect {
	return Rect{X: r.X, Y: BoardHeight - r.Y - r.H, W: r.W, H: r.H}
}

func flipTile(t Tile) Tile {
	return Tile{X: t.X, Y: BoardHeight - 1 - t.Y}
}

// thinPellets removes roughly one pellet in five, chosen by a seed-keyed
// linear hash so the same seed always thins the same tiles. Power pellets
// are never removed.
func thinPellets(m *Maze, seed int64) {
	for y := 0; y < m.Height; y++ {
	next:
		for x := 0; x < m.Width; x++ {
			t := Tile{X: x, Y: y}
			if !m.Pellet(t) {
				continue
			}
			for _, p := range m.power {
				if p == t {
					continue next
				}
			}
			h := uint64(seed)*2654435761 + uint64(y*BoardWidth+x)*40503
			if h%5 == 0 {
				m.pellets[m.index(t)] = false
				m.pelletRemaining--
				m.pelletTotal--
			}
		}
	}
}
