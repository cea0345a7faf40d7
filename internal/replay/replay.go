// Package replay records one session's per-tick inputs and fingerprints and
// packages them into a compressed, tamper-evident artifact. The artifact's
// digest is the externally consumed proof of the session's outcome.
package replay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/sha3"
)

// ErrCorrupt is returned by Decompress for artifacts that cannot be
// decoded.
var ErrCorrupt = errors.New("replay: corrupt artifact")

// Metadata describes one recorded match.
type Metadata struct {
	MatchID      string    `json:"matchId"`
	Participants []string  `json:"participants"`
	Variant      string    `json:"variant"`
	Seed         int64     `json:"seed"`
	StartedAt    time.Time `json:"startedAt"`
	StoppedAt    time.Time `json:"stoppedAt"`
	TotalTicks   uint64    `json:"totalTicks"`
	FinalScores  []int     `json:"finalScores"`
}

// Input is one participant's action for a tick. Ticks with no input record
// an empty input list.
type Input struct {
	ParticipantIndex int    `json:"participantIndex"`
	Direction        string `json:"direction"`
}

// TickRecord is the per-tick log entry.
type TickRecord struct {
	Tick        uint64  `json:"tick"`
	Inputs      []Input `json:"inputs"`
	Fingerprint string  `json:"fingerprint"` // hex-encoded Keccak-256
}

// Artifact is the uncompressed replay document.
type Artifact struct {
	Metadata Metadata     `json:"metadata"`
	Ticks    []TickRecord `json:"ticks"`
}

// Log is an append-only per-tick recorder for one session. Start, Record,
// Stop and Compress must be called in order; calling them out of order is
// a programmer error and panics.
type Log struct {
	active  bool
	stopped bool

	meta  Metadata
	ticks []TickRecord

	compressed []byte
}

// NewLog returns an idle recorder.
func NewLog() *Log {
	return &Log{}
}

// Start opens a recording session. Starting twice panics.
func (l *Log) Start(matchID string, participants []string, variant string, seed int64) {
	if l.active || l.stopped {
		panic("replay: Start on a used log")
	}
	l.active = true
	l.meta = Metadata{
		MatchID:      matchID,
		Participants: append([]string(nil), participants...),
		Variant:      variant,
		Seed:         seed,
		StartedAt:    time.Now().UTC(),
	}
}

// Record appends one tick. Recording without an active session panics.
func (l *Log) Record(tick uint64, inputs []Input, fingerprint [32]byte) {
	if !l.active {
		panic("replay: Record without an active session")
	}
	l.ticks = append(l.ticks, TickRecord{
		Tick:        tick,
		Inputs:      append([]Input(nil), inputs...),
		Fingerprint: fmt.Sprintf("%x", fingerprint),
	})
}

// Stop closes the session with the final scores. Stopping a log that was
// never started panics.
func (l *Log) Stop(finalScores []int) {
	if !l.active {
		panic("replay: Stop without an active session")
	}
	l.active = false
	l.stopped = true
	l.meta.StoppedAt = time.Now().UTC()
	l.meta.TotalTicks = uint64(len(l.ticks))
	l.meta.FinalScores = append([]int(nil), finalScores...)
}

// Ticks returns how many ticks have been recorded.
func (l *Log) Ticks() int {
	return len(l.ticks)
}

// Compress serializes and compresses the stopped log. Compressing before
// Stop panics; the result is cached, so repeated calls are cheap.
func (l *Log) Compress() ([]byte, error) {
	if !l.stopped {
		panic("replay: Compress before Stop")
	}
	if l.compressed != nil {
		return l.compressed, nil
	}
	plain, err := json.Marshal(Artifact{Metadata: l.meta, Ticks: l.ticks})
	if err != nil {
		return nil, fmt.Errorf("replay: encode artifact: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("replay: init compressor: %w", err)
	}
	l.compressed = enc.EncodeAll(plain, nil)
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("replay: close compressor: %w", err)
	}
	return l.compressed, nil
}

// Hash returns the Keccak-256 digest of the compressed artifact. It is a
// pure function of the bytes Compress returns.
func (l *Log) Hash() ([32]byte, error) {
	data, err := l.Compress()
	if err != nil {
		return [32]byte{}, err
	}
	return Digest(data), nil
}

// Digest computes the Keccak-256 digest of a compressed artifact.
func Digest(compressed []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(compressed)
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// Decompress decodes a compressed artifact. Corrupt or truncated input
// yields ErrCorrupt.
func Decompress(data []byte) (Metadata, []TickRecord, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("replay: init decompressor: %w", err)
	}
	defer dec.Close()
	plain, err := dec.DecodeAll(data, nil)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var a Artifact
	decoder := json.NewDecoder(bytes.NewReader(plain))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&a); err != nil {
		return Metadata{}, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return a.Metadata, a.Ticks, nil
}
