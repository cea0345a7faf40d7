package maze

import "testing"

func TestClassicDimensions(t *testing.T) {
	m, err := Build(VariantClassic, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Width != 28 || m.Height != 31 {
		t.Fatalf("board is %dx%d, want 28x31", m.Width, m.Height)
	}
	for _, row := range classicLayout {
		if len(row) != BoardWidth {
			t.Fatalf("layout row %q has %d columns, want %d", row, len(row), BoardWidth)
		}
	}
	if len(m.PowerRemaining()) != 4 {
		t.Fatalf("power pellets = %d, want 4", len(m.PowerRemaining()))
	}
}

func TestTunnelRowWraps(t *testing.T) {
	m, _ := Build(VariantClassic, 0)
	if !m.TunnelRow(14) {
		t.Fatal("row 14 should be a tunnel row")
	}
	if m.TunnelRow(5) {
		t.Fatal("row 5 should not be a tunnel row")
	}

	left := m.Step(Tile{X: 0, Y: 14}, Left)
	if left != (Tile{X: 27, Y: 14}) {
		t.Fatalf("left wrap = %v, want (27,14)", left)
	}
	right := m.Step(Tile{X: 27, Y: 14}, Right)
	if right != (Tile{X: 0, Y: 14}) {
		t.Fatalf("right wrap = %v, want (0,14)", right)
	}
	// Off-tunnel rows do not wrap: stepping out of bounds is a wall.
	if !m.Wall(Tile{X: -1, Y: 5}) {
		t.Fatal("out of bounds off the tunnel row should be a wall")
	}
}

func TestRestrictedZone(t *testing.T) {
	m, _ := Build(VariantClassic, 0)
	home := m.HomeTile
	if !m.Restricted(home) {
		t.Fatalf("home tile %v should be restricted", home)
	}
	if m.Open(home, false) {
		t.Fatal("restricted tile open without permission")
	}
	if !m.Open(home, true) {
		t.Fatal("restricted tile closed with permission")
	}
	for _, spawn := range m.AdversarySpawns {
		if !m.Open(spawn, false) {
			t.Fatalf("adversary spawn %v not open", spawn)
		}
	}
	if !m.Open(m.PlayerSpawn, false) {
		t.Fatalf("player spawn %v not open", m.PlayerSpawn)
	}
}

func TestPelletLifecycle(t *testing.T) {
	m, _ := Build(VariantClassic, 0)
	total := m.PelletTotal()
	if total == 0 {
		t.Fatal("classic board has no pellets")
	}
	if m.PelletsRemaining() != total {
		t.Fatalf("fresh board remaining = %d, want %d", m.PelletsRemaining(), total)
	}

	p := Tile{X: 1, Y: 1}
	if !m.Pellet(p) {
		t.Fatalf("expected pellet at %v", p)
	}
	if !m.EatPellet(p) {
		t.Fatal("EatPellet returned false for a present pellet")
	}
	if m.EatPellet(p) {
		t.Fatal("EatPellet returned true for an eaten pellet")
	}
	if m.PelletsRemaining() != total-1 {
		t.Fatalf("remaining = %d, want %d", m.PelletsRemaining(), total-1)
	}

	m.ResetPellets()
	if m.PelletsRemaining() != total {
		t.Fatalf("after reset remaining = %d, want %d", m.PelletsRemaining(), total)
	}
}

// Every open tile outside the restricted zone must be reachable from the
// player spawn; an unreachable pellet would make rounds unfinishable.
func TestClassicFullyConnected(t *testing.T) {
	m, _ := Build(VariantClassic, 0)

	seen := map[Tile]bool{m.PlayerSpawn: true}
	queue := []Tile{m.PlayerSpawn}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			n := m.Step(cur, d)
			if !m.Open(n, false) || seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			tile := Tile{X: x, Y: y}
			if m.Open(tile, false) && !seen[tile] {
				t.Errorf("open tile %v unreachable from player spawn", tile)
			}
		}
	}
}

func TestVariantsDeterministic(t *testing.T) {
	for _, v := range Variants {
		a, err := Build(v, 99)
		if err != nil {
			t.Fatalf("Build(%s): %v", v, err)
		}
		b, _ := Build(v, 99)
		if a.PelletTotal() != b.PelletTotal() {
			t.Errorf("%s: pellet totals differ for the same seed", v)
		}
		bb := b.PelletBitmap()
		for i, p := range a.PelletBitmap() {
			if p != bb[i] {
				t.Errorf("%s: pellet grids differ for the same seed", v)
				break
			}
		}
	}

	sparse1, _ := Build(VariantSparse, 1)
	sparse2, _ := Build(VariantSparse, 2)
	if sparse1.PelletTotal() == 0 || sparse2.PelletTotal() == 0 {
		t.Fatal("sparse variant removed all pellets")
	}
	classic, _ := Build(VariantClassic, 1)
	if sparse1.PelletTotal() >= classic.PelletTotal() {
		t.Error("sparse variant did not thin pellets")
	}
}

func TestInvertedVariantGeometry(t *testing.T) {
	m, err := Build(VariantInverted, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !m.TunnelRow(BoardHeight - 1 - 14) {
		t.Fatalf("inverted tunnel row should be %d", BoardHeight-1-14)
	}
	if !m.Restricted(m.HomeTile) {
		t.Fatal("inverted home tile should stay inside the restricted zone")
	}
	if !m.Open(m.PlayerSpawn, false) {
		t.Fatal("inverted player spawn should be open")
	}
}

func TestParseVariant(t *testing.T) {
	if v, err := ParseVariant(""); err != nil || v != VariantClassic {
		t.Fatalf("empty variant = (%v, %v), want classic", v, err)
	}
	if _, err := ParseVariant("moebius"); err == nil {
		t.Fatal("unknown variant should be rejected")
	}
}

func TestDirectionHelpers(t *testing.T) {
	for _, d := range Directions {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v: double opposite is not identity", d)
		}
		dx, dy := d.Delta()
		if abs(dx)+abs(dy) != 1 {
			t.Errorf("%v: delta is not a unit step", d)
		}
	}
	if None.Opposite() != None {
		t.Error("None should reverse to None")
	}
}
