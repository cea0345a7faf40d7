package sim

import (
	"encoding/binary"
	"hash"
	"math"

	"golang.org/x/crypto/sha3"
)

// Fingerprint computes the canonical Keccak-256 digest of the full state.
// Two simulations with the same seed and input sequence produce byte-equal
// fingerprints every tick; the digest feeds the replay log and the external
// settlement commitment.
func Fingerprint(s *State) [32]byte {
	h := sha3.NewLegacyKeccak256()

	writeU64(h, s.Tick)
	writeU64(h, uint64(s.Round))
	writeU64(h, uint64(s.Score))
	writeU64(h, uint64(s.Lives))
	writeBool(h, s.PowerActive)
	writeU64(h, uint64(s.PowerTicks))
	writeU64(h, uint64(s.ComboIndex))
	writeBool(h, s.ExtraLifeGranted)
	writeBool(h, s.GameOver)
	writeU64(h, uint64(s.PlayerDir))

	writeEntity(h, &s.Player)
	for i := range s.Adversaries {
		writeEntity(h, &s.Adversaries[i].Entity)
		writeU64(h, uint64(s.Adversaries[i].Mode))
	}

	// Pellet grid, packed row-major, eight tiles per byte.
	var acc byte
	var n int
	for _, p := range s.Maze.PelletBitmap() {
		acc <<= 1
		if p {
			acc |= 1
		}
		n++
		if n == 8 {
			h.Write([]byte{acc})
			acc, n = 0, 0
		}
	}
	if n > 0 {
		h.Write([]byte{acc << (8 - n)})
	}

	if s.Bonus != nil {
		writeBool(h, true)
		writeU64(h, uint64(int64(s.Bonus.Tile.X)))
		writeU64(h, uint64(int64(s.Bonus.Tile.Y)))
		writeU64(h, uint64(s.Bonus.Value))
		writeU64(h, uint64(s.Bonus.RemainingTicks))
	} else {
		writeBool(h, false)
	}

	var out [32]byte
	h.Sum(out[:0])
	return out
}

func writeEntity(h hash.Hash, e *Entity) {
	writeU64(h, uint64(int64(e.Tile.X)))
	writeU64(h, uint64(int64(e.Tile.Y)))
	writeU64(h, math.Float64bits(e.Progress))
	writeU64(h, uint64(e.Dir))
	writeU64(h, uint64(e.Queued))
	writeU64(h, math.Float64bits(e.Speed))
}

func writeU64(h hash.Hash, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func writeBool(h hash.Hash, b bool) {
	if b {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
}
