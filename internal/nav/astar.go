// Package nav provides the grid pathfinder used by the adversary AI. It is
// pure: every function depends only on its arguments and produces the same
// path for the same board, which the replay fingerprints rely on.
package nav

import "github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"

// node is one entry in the open set. Ordering is total: f-score first, then
// heuristic, then insertion sequence, so equal-cost frontiers always expand
// in the same order.
type node struct {
	tile   maze.Tile
	g, h   int
	seq    int
	parent int // index into the arena, -1 for the start node
}

func (a node) less(b node) bool {
	fa, fb := a.g+a.h, b.g+b.h
	if fa != fb {
		return fa < fb
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

// openHeap is an array-backed binary min-heap over arena indices.
type openHeap struct {
	arena []node
	heap  []int
}

func (q *openHeap) push(i int) {
	q.heap = append(q.heap, i)
	j := len(q.heap) - 1
	for j > 0 {
		p := (j - 1) / 2
		if !q.arena[q.heap[j]].less(q.arena[q.heap[p]]) {
			break
		}
		q.heap[j], q.heap[p] = q.heap[p], q.heap[j]
		j = p
	}
}

func (q *openHeap) pop() int {
	top := q.heap[0]
	last := len(q.heap) - 1
	q.heap[0] = q.heap[last]
	q.heap = q.heap[:last]
	j := 0
	for {
		l, r := 2*j+1, 2*j+2
		smallest := j
		if l < last && q.arena[q.heap[l]].less(q.arena[q.heap[smallest]]) {
			smallest = l
		}
		if r < last && q.arena[q.heap[r]].less(q.arena[q.heap[smallest]]) {
			smallest = r
		}
		if smallest == j {
			return top
		}
		q.heap[j], q.heap[smallest] = q.heap[smallest], q.heap[j]
		j = smallest
	}
}

func (q *openHeap) empty() bool { return len(q.heap) == 0 }

// heuristic is the Manhattan distance with tunnel wrap: the shorter of the
// direct and the wrapped horizontal span. Admissible and consistent on unit
// edges.
func heuristic(a, b maze.Tile, m *maze.Maze) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	if wrapped := m.Width - dx; wrapped < dx {
		dx = wrapped
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Path returns the tile sequence from the first step after start up to and
// including goal, or nil when the goal is unreachable or equals start.
// Restricted-zone tiles are excluded unless allowRestricted is set.
func Path(start, goal maze.Tile, m *maze.Maze, allowRestricted bool) []maze.Tile {
	if start == goal {
		return nil
	}
	if !m.Open(goal, allowRestricted) {
		return nil
	}

	q := &openHeap{}
	q.arena = append(q.arena, node{tile: start, g: 0, h: heuristic(start, goal, m), seq: 0, parent: -1})
	q.push(0)
	seq := 1

	best := map[maze.Tile]int{start: 0}
	closed := map[maze.Tile]bool{}

	for !q.empty() {
		ci := q.pop()
		cur := q.arena[ci]
		if closed[cur.tile] {
			continue
		}
		closed[cur.tile] = true

		if cur.tile == goal {
			return reconstruct(q.arena, ci)
		}

		for _, d := range maze.Directions {
			next := m.Step(cur.tile, d)
			if !m.Open(next, allowRestricted) {
				continue
			}
			if closed[next] {
				continue
			}
			g := cur.g + 1
			if prev, seen := best[next]; seen && g >= prev {
				continue
			}
			best[next] = g
			q.arena = append(q.arena, node{
				tile:   next,
				g:      g,
				h:      heuristic(next, goal, m),
				seq:    seq,
				parent: ci,
			})
			q.push(len(q.arena) - 1)
			seq++
		}
	}
	return nil
}

func reconstruct(arena []node, end int) []maze.Tile {
	var rev []maze.Tile
	for i := end; arena[i].parent >= 0; i = arena[i].parent {
		rev = append(rev, arena[i].tile)
	}
	out := make([]maze.Tile, len(rev))
	for i, t := range rev {
		out[len(rev)-1-i] = t
	}
	return out
}

// DirectionTo returns the direction of the first step on the path from start
// to goal, or None when no path exists. Horizontal deltas are normalized
// across tunnel wrap so a wrapping first step points toward the near edge.
func DirectionTo(start, goal maze.Tile, m *maze.Maze, allowRestricted bool) maze.Direction {
	path := Path(start, goal, m, allowRestricted)
	if len(path) == 0 {
		return maze.None
	}
	return StepDirection(start, path[0], m)
}

// StepDirection reduces one tile step to a direction, normalizing dx across
// tunnel wrap.
func StepDirection(from, to maze.Tile, m *maze.Maze) maze.Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if m.TunnelRow(from.Y) && dx != 0 {
		// A wrapped step shows up as a near-full-width delta; fold it
		// back to a unit step in the other direction.
		if dx > 1 {
			dx = -1
		} else if dx < -1 {
			dx = 1
		}
	}
	switch {
	case dy < 0:
		return maze.Up
	case dy > 0:
		return maze.Down
	case dx < 0:
		return maze.Left
	case dx > 0:
		return maze.Right
	default:
		return maze.None
	}
}

// ClosestOpen returns the open tile nearest to t by breadth-first search in
// canonical direction order, used to snap unreachable AI targets onto the
// board. Returns t unchanged when it is already open.
func ClosestOpen(t maze.Tile, m *maze.Maze, allowRestricted bool) (maze.Tile, bool) {
	t = m.ClampTile(t)
	if m.Open(t, allowRestricted) {
		return t, true
	}
	seen := map[maze.Tile]bool{t: true}
	queue := []maze.Tile{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range maze.Directions {
			n := cur.Add(d)
			if !m.InBounds(n) || seen[n] {
				continue
			}
			seen[n] = true
			if m.Open(n, allowRestricted) {
				return n, true
			}
			queue = append(queue, n)
		}
	}
	return t, false
}
