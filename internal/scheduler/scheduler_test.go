package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/replay"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	cfg := config.DefaultEngineConfig()
	cfg.Timing.TickRate = 200 // keep the timer tests short
	s := New(cfg, config.DefaultTiers(), nil, nil)
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func waitForTick(t *testing.T, s *Scheduler, id string, tick uint64) sim.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		snap, err := s.State(id)
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if snap.Tick >= tick {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("session %s stuck at tick %d, want %d", id, snap.Tick, tick)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestScheduler(t)

	id, err := s.Create("", "classic", 42, 1, []string{"p1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty id was not generated")
	}

	if _, err := s.Create(id, "classic", 42, 1, nil); !errors.Is(err, ErrDuplicateSession) {
		t.Fatalf("duplicate id error = %v, want ErrDuplicateSession", err)
	}
	if _, err := s.Create("t", "classic", 42, 9, nil); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("unknown tier error = %v, want ErrUnknownTier", err)
	}
	if _, err := s.Create("v", "moebius", 42, 1, nil); err == nil {
		t.Fatal("unknown variant accepted")
	}
	if got := s.SessionCount(); got != 1 {
		t.Fatalf("session count = %d, want 1", got)
	}
}

func TestStateBeforeStart(t *testing.T) {
	s := newTestScheduler(t)
	id, _ := s.Create("idle", "classic", 42, 1, nil)

	snap, err := s.State(id)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if snap.Tick != 0 || snap.Lives != 3 {
		t.Fatalf("fresh snapshot: tick=%d lives=%d", snap.Tick, snap.Lives)
	}

	sync, err := s.FullSync(id)
	if err != nil {
		t.Fatalf("FullSync: %v", err)
	}
	if sync.Width != 28 || sync.Height != 31 {
		t.Fatalf("board is %dx%d, want 28x31", sync.Width, sync.Height)
	}
	if len(sync.Walls) != sync.Width*sync.Height {
		t.Fatalf("wall bitmap has %d cells", len(sync.Walls))
	}

	if _, err := s.ReplayBytes(id); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("replay of a live session = %v, want ErrSessionActive", err)
	}
	if _, err := s.State("ghost"); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("unknown session error = %v, want ErrUnknownSession", err)
	}
}

func TestRunStopAndReplay(t *testing.T) {
	s := newTestScheduler(t)
	id, _ := s.Create("run", "classic", 42, 1, []string{"p1"})

	if err := s.Start(id); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Starting a running session is a no-op.
	if err := s.Start(id); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	waitForTick(t, s, id, 10)
	s.Stop(id)
	s.Stop(id) // idempotent
	final, _ := s.State(id)

	data, err := s.ReplayBytes(id)
	if err != nil {
		t.Fatalf("ReplayBytes: %v", err)
	}
	meta, ticks, err := replay.Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if meta.MatchID != id || meta.Variant != "classic" || meta.Seed != 42 {
		t.Fatalf("metadata mangled: %+v", meta)
	}
	if meta.TotalTicks != uint64(len(ticks)) {
		t.Fatalf("meta claims %d ticks, log holds %d", meta.TotalTicks, len(ticks))
	}
	if len(ticks) < 10 {
		t.Fatalf("log holds %d ticks, want at least 10", len(ticks))
	}
	// A timer fire already pending at Stop is discarded, so the snapshot
	// never runs ahead of the sealed log.
	if final.Tick != uint64(len(ticks)) {
		t.Fatalf("log holds %d ticks, session snapshot says %d", len(ticks), final.Tick)
	}
	for i, rec := range ticks {
		if rec.Tick != uint64(i+1) {
			t.Fatalf("tick %d recorded out of order as %d", i+1, rec.Tick)
		}
	}
}

func TestInjectInputLastWriterWins(t *testing.T) {
	s := newTestScheduler(t)
	id, _ := s.Create("input", "classic", 42, 1, []string{"p1"})

	s.InjectInput(id, "p1", maze.Left)
	s.InjectInput(id, "p1", maze.Up)
	sess, err := s.get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	sess.mu.Lock()
	got := sess.input
	sess.mu.Unlock()
	if got != maze.Up {
		t.Fatalf("pending input = %v, want the last write", got)
	}

	// Unknown participants and sessions are dropped silently.
	s.InjectInput(id, "ghost", maze.Down)
	sess.mu.Lock()
	got = sess.input
	sess.mu.Unlock()
	if got != maze.Up {
		t.Fatalf("unknown participant overwrote the input: %v", got)
	}
	s.InjectInput("ghost", "p1", maze.Down)
}

func TestRemove(t *testing.T) {
	s := newTestScheduler(t)
	id, _ := s.Create("rm", "classic", 42, 1, nil)
	if err := s.Start(id); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForTick(t, s, id, 1)

	s.Remove(id)
	if _, err := s.State(id); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("state after remove = %v, want ErrUnknownSession", err)
	}
	s.Remove(id) // absent: silent no-op
	if got := s.SessionCount(); got != 0 {
		t.Fatalf("session count = %d, want 0", got)
	}
}

func TestObserverSeesState(t *testing.T) {
	s := newTestScheduler(t)
	states := make(chan sim.Snapshot, 1)
	s.RegisterObserver(Observer{
		OnState: func(sessionID string, snap sim.Snapshot) {
			select {
			case states <- snap:
			default:
			}
		},
	})

	id, _ := s.Create("obs", "classic", 42, 1, nil)
	if err := s.Start(id); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case snap := <-states:
		if snap.Tick == 0 {
			t.Fatal("observer saw a pre-tick snapshot")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("observer never notified")
	}
}

func TestShutdown(t *testing.T) {
	s := newTestScheduler(t)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Create(id, "classic", 42, 1, nil); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
		if err := s.Start(id); err != nil {
			t.Fatalf("Start %s: %v", id, err)
		}
	}
	waitForTick(t, s, "a", 1)

	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := s.SessionCount(); got != 0 {
		t.Fatalf("session count after shutdown = %d, want 0", got)
	}
	if _, err := s.Create("late", "classic", 42, 1, nil); !errors.Is(err, ErrShutDown) {
		t.Fatalf("create after shutdown = %v, want ErrShutDown", err)
	}
	if err := s.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}
