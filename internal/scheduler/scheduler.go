// Package scheduler runs many independent pursuit simulations on fixed-rate
// timers: one orchestrator plus one replay log per session, created and
// destroyed together. Sessions share no mutable state; correctness rests on
// per-session ordering, not cross-session locks.
package scheduler

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tmdry4530/Phantom-Arena-sub001/internal/ai"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/config"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/maze"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/replay"
	"github.com/tmdry4530/Phantom-Arena-sub001/internal/sim"
)

// Caller errors. Missing sessions on required operations and duplicate
// creation are misuse and surface immediately; stop/remove on an absent
// session is a deliberate silent no-op for idempotent teardown.
var (
	ErrDuplicateSession = errors.New("scheduler: duplicate session id")
	ErrUnknownSession   = errors.New("scheduler: unknown session id")
	ErrUnknownTier      = errors.New("scheduler: unknown difficulty tier")
	ErrSessionActive    = errors.New("scheduler: session still running")
	ErrShutDown         = errors.New("scheduler: shut down")
)

// Observer receives session notifications. Callbacks run on the session's
// tick goroutine and must not block.
type Observer struct {
	OnState       func(sessionID string, snap sim.Snapshot)
	OnRoundChange func(sessionID string, round int)
	OnGameOver    func(sessionID string, snap sim.Snapshot)
}

type session struct {
	id           string
	participants []string

	orch *sim.Orchestrator
	ctrl *ai.Controller
	rlog *replay.Log

	mu        sync.Mutex
	input     maze.Direction
	running   bool
	finalized bool
	lastRound int

	done     chan struct{}
	doneOnce sync.Once
}

// Scheduler owns the session registry. All methods are safe for concurrent
// use.
type Scheduler struct {
	cfg      config.EngineConfig
	tiers    config.Tiers
	provider ai.StrategyProvider
	logger   *log.Logger

	mu        sync.RWMutex
	sessions  map[string]*session
	observers []Observer
	shutdown  bool
}

// New creates a scheduler. The provider may be nil to disable the external
// strategy channel; the logger may be nil for a silent scheduler.
func New(cfg config.EngineConfig, tiers config.Tiers, provider ai.StrategyProvider, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scheduler{
		cfg:      cfg,
		tiers:    tiers,
		provider: provider,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// RegisterObserver adds a notification sink for every session.
func (s *Scheduler) RegisterObserver(obs Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// Create builds a new session and returns its id. An empty id gets a
// generated one. Duplicate ids, unknown tiers and unknown variants are
// caller errors.
func (s *Scheduler) Create(id, variant string, seed int64, tier int, participants []string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	tierCfg, ok := s.tiers.ByOrdinal(tier)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownTier, tier)
	}
	v, err := maze.ParseVariant(variant)
	if err != nil {
		return "", err
	}
	board, err := maze.Build(v, seed)
	if err != nil {
		return "", err
	}

	ctrl := ai.NewController(s.cfg, tierCfg, rand.New(rand.NewSource(seed)), s.provider)
	orch := sim.New(s.cfg, tierCfg, board, ctrl)

	rlog := replay.NewLog()
	rlog.Start(id, participants, string(v), seed)

	sess := &session{
		id:           id,
		participants: append([]string(nil), participants...),
		orch:         orch,
		ctrl:         ctrl,
		rlog:         rlog,
		lastRound:    1,
		done:         make(chan struct{}),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		ctrl.Close()
		return "", ErrShutDown
	}
	if _, exists := s.sessions[id]; exists {
		ctrl.Close()
		return "", fmt.Errorf("%w: %s", ErrDuplicateSession, id)
	}
	s.sessions[id] = sess
	s.logger.Info("session created", "id", id, "variant", v, "tier", tier, "seed", seed)
	return id, nil
}

// Start arms the session's fixed-rate timer. Starting a running session is
// a no-op; starting an unknown one is a caller error.
func (s *Scheduler) Start(id string) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.running || sess.finalized {
		return nil
	}
	sess.running = true
	go s.run(sess)
	s.logger.Info("session started", "id", id)
	return nil
}

// run is the per-session tick loop: one goroutine, one ticker, strictly
// sequential ticks.
func (s *Scheduler) run(sess *session) {
	period := time.Second / time.Duration(s.cfg.Timing.TickRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if done := s.step(sess); done {
				return
			}
		case <-sess.done:
			return
		}
	}
}

// step runs one full tick pipeline and notifies observers. It returns true
// when the session reached game over.
func (s *Scheduler) step(sess *session) bool {
	sess.mu.Lock()
	if sess.finalized {
		// A ticker fire can already be pending when Stop seals the log;
		// the orchestrator must not advance past the artifact.
		sess.mu.Unlock()
		return true
	}
	input := sess.input
	sess.input = maze.None

	snap := sess.orch.Tick(input)

	var inputs []replay.Input
	if input != maze.None {
		inputs = []replay.Input{{ParticipantIndex: 0, Direction: input.String()}}
	}
	sess.rlog.Record(snap.Tick, inputs, snap.Fingerprint)

	roundChanged := snap.Round != sess.lastRound
	sess.lastRound = snap.Round
	gameOver := snap.GameOver
	if gameOver {
		sess.finalized = true
		sess.running = false
		sess.rlog.Stop([]int{snap.Score})
	}
	sess.mu.Unlock()

	s.notify(sess.id, snap, roundChanged, gameOver)

	if gameOver {
		sess.doneOnce.Do(func() { close(sess.done) })
		s.logger.Info("session finished", "id", sess.id, "score", snap.Score, "ticks", snap.Tick)
		return true
	}
	return false
}

func (s *Scheduler) notify(id string, snap sim.Snapshot, roundChanged, gameOver bool) {
	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()
	for _, obs := range observers {
		if obs.OnState != nil {
			obs.OnState(id, snap)
		}
		if roundChanged && obs.OnRoundChange != nil {
			obs.OnRoundChange(id, snap.Round)
		}
		if gameOver && obs.OnGameOver != nil {
			obs.OnGameOver(id, snap)
		}
	}
}

// Stop cancels the session's timer and finalizes its log. Stopping an
// absent or already-stopped session is a silent no-op.
func (s *Scheduler) Stop(id string) {
	sess, err := s.get(id)
	if err != nil {
		return
	}
	s.stopSession(sess)
}

func (s *Scheduler) stopSession(sess *session) {
	// Cancel the timer before touching session state so no tick races
	// the teardown.
	sess.doneOnce.Do(func() { close(sess.done) })

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.running = false
	if !sess.finalized {
		sess.finalized = true
		sess.rlog.Stop([]int{sess.orch.Snapshot().Score})
	}
}

// Remove stops the session and destroys it together with its log. Removing
// an absent session is a silent no-op.
func (s *Scheduler) Remove(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	s.stopSession(sess)
	sess.ctrl.Close()
	s.logger.Info("session removed", "id", id)
}

// InjectInput records a participant's direction for the next tick,
// last-writer-wins. Inputs for unknown sessions or participants are
// dropped: a bad input source never stalls the simulation.
func (s *Scheduler) InjectInput(id, participantID string, direction maze.Direction) {
	sess, err := s.get(id)
	if err != nil {
		return
	}
	if len(sess.participants) > 0 && !contains(sess.participants, participantID) {
		return
	}
	sess.mu.Lock()
	sess.input = direction
	sess.mu.Unlock()
}

// State returns the session's latest snapshot.
func (s *Scheduler) State(id string) (sim.Snapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return sim.Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.orch.Snapshot(), nil
}

// FullSync returns the snapshot plus board topology for late joiners.
func (s *Scheduler) FullSync(id string) (sim.FullSync, error) {
	sess, err := s.get(id)
	if err != nil {
		return sim.FullSync{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.orch.FullSync(), nil
}

// ReplayBytes returns the compressed replay artifact of a finished session.
func (s *Scheduler) ReplayBytes(id string) ([]byte, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.finalized {
		return nil, fmt.Errorf("%w: %s", ErrSessionActive, id)
	}
	return sess.rlog.Compress()
}

// Shutdown stops every session and clears the registry. Safe against
// concurrently firing tick timers and idempotent.
func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return nil
	}
	s.shutdown = true
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	var g errgroup.Group
	for _, sess := range sessions {
		sess := sess
		g.Go(func() error {
			s.stopSession(sess)
			sess.ctrl.Close()
			return nil
		})
	}
	err := g.Wait()
	s.logger.Info("scheduler shut down", "sessions", len(sessions))
	return err
}

// SessionCount returns the number of live sessions.
func (s *Scheduler) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Scheduler) get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return sess, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
