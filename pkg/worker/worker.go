package worker

import (
	"time"

	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	"github.com/screa/hash-challenge-solver/internal/crypto"
	"github.com/screa/hash-challenge-solver/internal/logger"
	"github.com/screa/hash-challenge-solver/pkg/cancel"
	"github.com/screa/hash-challenge-solver/pkg/types"
)

// flushEvery is how often (in candidates) local counts are added to the shared counter
const flushEvery = 4096

// Sink receives results found by workers
type Sink interface {
	// Offer delivers r without blocking and reports whether it was accepted.
	// A rejected offer means another worker already won.
	Offer(r types.Result) bool
}

// ChanSink offers results on a buffered channel
type ChanSink chan<- types.Result

// Offer implements Sink
func (c ChanSink) Offer(r types.Result) bool {
	select {
	case c <- r:
		return true
	default:
		return false
	}
}

// Worker scans one search range
type Worker struct {
	config   *types.WorkerConfig
	signal   *cancel.Signal
	sink     Sink
	start    time.Time
	attempts *atomic.Uint64
	logger   *logger.Logger

	matcher  *crypto.Matcher
	progress *rate.Sometimes
	scanned  uint64
	pending  uint64
}

// NewWorker creates a new worker instance. attempts may be nil.
func NewWorker(config *types.WorkerConfig, signal *cancel.Signal, sink Sink, start time.Time, attempts *atomic.Uint64, log *logger.Logger) *Worker {
	if attempts == nil {
		attempts = atomic.NewUint64(0)
	}
	if log == nil {
		log = logger.Discard()
	}

	w := &Worker{
		config:   config,
		signal:   signal,
		sink:     sink,
		start:    start,
		attempts: attempts,
		logger:   log,
		matcher:  crypto.NewMatcher(config.Oracle, config.Salt, config.Target),
	}
	if config.ProgressEvery > 0 && log.Verbose() {
		w.progress = &rate.Sometimes{Every: config.ProgressEvery}
	}
	return w
}

// Run scans the range until it is exhausted, a match is found or the
// signal is cancelled. It returns the number of candidates evaluated.
func (w *Worker) Run() uint64 {
	defer w.flush()

	r := w.config.Range
	switch r.Direction {
	case types.Ascending:
		for n := r.Start; n < r.End; n++ {
			if w.try(n) {
				return w.scanned
			}
		}
	case types.Descending:
		for n := r.End; n > r.Start; {
			n--
			if w.try(n) {
				return w.scanned
			}
		}
	}
	return w.scanned
}

// try evaluates one candidate and reports whether the scan should stop
func (w *Worker) try(n uint64) bool {
	if w.signal.Done() {
		return true
	}

	w.scanned++
	w.pending++
	if w.pending == flushEvery {
		w.flush()
	}

	if w.matcher.Match(n) {
		w.found(n)
		return true
	}

	if w.progress != nil {
		w.progress.Do(func() {
			w.logger.Printf("%s worker %d tried: %d", w.config.Range.Direction, w.config.Range.Index, n)
		})
	}
	return false
}

// found stops the other workers and offers the result
func (w *Worker) found(n uint64) {
	w.signal.Cancel()
	result := types.Result{
		Number: n,
		Took:   time.Since(w.start),
		Range:  w.config.Range,
	}
	if !w.sink.Offer(result) {
		w.logger.Verbosef("%s worker %d: match %d arrived after another worker", w.config.Range.Direction, w.config.Range.Index, n)
	}
}

func (w *Worker) flush() {
	if w.pending > 0 {
		w.attempts.Add(w.pending)
		w.pending = 0
	}
}
