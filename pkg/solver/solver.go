package solver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/screa/hash-challenge-solver/internal/config"
	"github.com/screa/hash-challenge-solver/internal/crypto"
	"github.com/screa/hash-challenge-solver/internal/logger"
	"github.com/screa/hash-challenge-solver/pkg/cancel"
	"github.com/screa/hash-challenge-solver/pkg/planner"
	"github.com/screa/hash-challenge-solver/pkg/types"
	"github.com/screa/hash-challenge-solver/pkg/worker"
)

// Errors
var (
	ErrWorkerPanicked = errors.New("search worker panicked")
	ErrBusy           = errors.New("solver is already running a search")
)

// State of the most recent search
type State int

const (
	Idle State = iota
	Searching
	Solved
	Exhausted
	Interrupted
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	case Interrupted:
		return "interrupted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Solver coordinates a parallel bidirectional search.
// A Solver runs one search at a time; Solve returns ErrBusy while another
// call on the same Solver is in progress.
type Solver struct {
	config   *config.Config
	logger   *logger.Logger
	oracle   *crypto.Oracle
	attempts *atomic.Uint64
	running  *atomic.Bool

	mu    sync.RWMutex
	state State

	wrapSink func(worker.Sink) worker.Sink
}

// Option customises a Solver
type Option func(*Solver)

// WithOracle replaces the oracle named by the configuration
func WithOracle(oracle crypto.Oracle) Option {
	return func(s *Solver) {
		s.oracle = &oracle
	}
}

// NewSolver creates a new solver instance
func NewSolver(cfg *config.Config, log *logger.Logger, opts ...Option) *Solver {
	if cfg.WorkersPerDirection <= 0 {
		cfg.WorkersPerDirection = config.DefaultWorkersPerDirection
	}
	if log == nil {
		log = logger.Discard()
	}
	s := &Solver{
		config:   cfg,
		logger:   log,
		attempts: atomic.NewUint64(0),
		running:  atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve searches [0, challenge.MaxNumber) for a number whose digest equals
// the challenge target. It returns nil and no error when the space is
// exhausted without a match, and ctx.Err() if ctx ends first. Every worker
// has stopped by the time Solve returns. The challenge's Algorithm label
// is not consulted; the oracle comes from the configuration or WithOracle.
func (s *Solver) Solve(ctx context.Context, challenge *types.Challenge) (*types.Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.running.Store(false)

	start := time.Now()
	id := uuid.New()

	oracle, err := s.getOracle()
	if err != nil {
		return nil, err
	}
	ranges, err := planner.Plan(challenge.MaxNumber, s.config.WorkersPerDirection)
	if err != nil {
		return nil, err
	}

	signal := cancel.New()
	results := make(chan types.Result, 1)
	var sink worker.Sink = worker.ChanSink(results)
	if s.wrapSink != nil {
		sink = s.wrapSink(sink)
	}

	s.attempts.Store(0)
	s.setState(Searching)
	s.logger.Printf("[%s] searching [0, %d) with %d workers using %s", id, challenge.MaxNumber, len(ranges), oracle.Name)

	var g errgroup.Group
	for _, r := range ranges {
		wc := &types.WorkerConfig{
			Range:         r,
			Salt:          challenge.Salt,
			Target:        challenge.Challenge,
			Oracle:        oracle,
			ProgressEvery: s.config.ProgressEvery,
		}
		g.Go(func() error {
			return s.runWorker(wc, signal, sink, start)
		})
	}

	// results is closed only after every worker has returned, so a
	// receive without a value means the whole space was exhausted
	joined := make(chan error, 1)
	go func() {
		joined <- g.Wait()
		close(results)
	}()

	stopProgress := s.startProgressLogger(id, start)
	defer stopProgress()

	var (
		result  types.Result
		ok      bool
		stopped bool
	)
	select {
	case result, ok = <-results:
	case <-ctx.Done():
		stopped = true
	}

	signal.Cancel()
	err = <-joined

	if err != nil {
		s.setState(Failed)
		s.logger.Printf("[%s] search failed: %v", id, err)
		return nil, err
	}

	if !ok && stopped {
		// a worker may have won between ctx ending and the join
		result, ok = <-results
	}

	switch {
	case ok:
		s.setState(Solved)
		s.logger.Printf("[%s] solved by %s worker %d after %d attempts", id, result.Range.Direction, result.Range.Index, s.attempts.Load())
		return &result, nil
	case stopped:
		s.setState(Interrupted)
		s.logger.Printf("[%s] search stopped after %d attempts", id, s.attempts.Load())
		return nil, ctx.Err()
	default:
		s.setState(Exhausted)
		s.logger.Printf("[%s] no solution in [0, %d) after %d attempts", id, challenge.MaxNumber, s.attempts.Load())
		return nil, nil
	}
}

func (s *Solver) getOracle() (crypto.Oracle, error) {
	if s.oracle != nil {
		return *s.oracle, nil
	}
	return s.config.GetOracle()
}

// runWorker scans one range and turns a panic into ErrWorkerPanicked
func (s *Solver) runWorker(wc *types.WorkerConfig, signal *cancel.Signal, sink worker.Sink, start time.Time) (err error) {
	defer func() {
		if p := recover(); p != nil {
			signal.Cancel()
			err = fmt.Errorf("%w: %s worker %d [%d, %d): %v",
				ErrWorkerPanicked, wc.Range.Direction, wc.Range.Index, wc.Range.Start, wc.Range.End, p)
		}
	}()

	w := worker.NewWorker(wc, signal, sink, start, s.attempts, s.logger)
	w.Run()
	return nil
}

// Attempts returns the number of candidates evaluated by the current or last search
func (s *Solver) Attempts() uint64 {
	return s.attempts.Load()
}

// State returns the state of the current or last search
func (s *Solver) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Solver) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// startProgressLogger logs the hash rate at regular intervals when verbose
func (s *Solver) startProgressLogger(id uuid.UUID, start time.Time) func() {
	if !s.logger.Verbose() || s.config.LogInterval <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(time.Duration(s.config.LogInterval) * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				attempts := s.attempts.Load()
				elapsed := time.Since(start)

				rate := 0.0
				if elapsed.Seconds() > 0 {
					rate = float64(attempts) / elapsed.Seconds()
				}
				s.logger.Printf("[%s] progress: %d attempts, %.2f hashes/sec", id, attempts, rate)
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}
