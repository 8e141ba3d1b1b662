package worker

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/screa/hash-challenge-solver/internal/crypto"
	"github.com/screa/hash-challenge-solver/internal/logger"
	"github.com/screa/hash-challenge-solver/pkg/cancel"
	"github.com/screa/hash-challenge-solver/pkg/types"
)

// recordingSink keeps every offer it receives
type recordingSink struct {
	mu      sync.Mutex
	results []types.Result
}

func (s *recordingSink) Offer(r types.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return len(s.results) == 1
}

func newConfig(r types.SearchRange, planted uint64) *types.WorkerConfig {
	return &types.WorkerConfig{
		Range:  r,
		Salt:   "test-",
		Target: crypto.HexDigest("test-", planted),
	}
}

func TestNewWorker(t *testing.T) {
	config := newConfig(types.SearchRange{Start: 0, End: 10}, 3)
	worker := NewWorker(config, cancel.New(), &recordingSink{}, time.Now(), nil, nil)
	if worker == nil {
		t.Fatal("NewWorker returned nil")
	}

	if worker.config != config {
		t.Error("Config not set correctly")
	}
	if worker.attempts == nil || worker.logger == nil {
		t.Error("defaults not applied")
	}
}

func TestWorkerScanOrder(t *testing.T) {
	tests := []struct {
		name            string
		rng             types.SearchRange
		planted         uint64
		expectedFound   bool
		expectedScanned uint64
	}{
		{
			name:            "ascending finds after start",
			rng:             types.SearchRange{Start: 0, End: 100, Direction: types.Ascending},
			planted:         10,
			expectedFound:   true,
			expectedScanned: 11,
		},
		{
			name:            "descending starts at end-1",
			rng:             types.SearchRange{Start: 0, End: 100, Direction: types.Descending},
			planted:         90,
			expectedFound:   true,
			expectedScanned: 10,
		},
		{
			name:            "descending reaches start",
			rng:             types.SearchRange{Start: 50, End: 60, Direction: types.Descending},
			planted:         50,
			expectedFound:   true,
			expectedScanned: 10,
		},
		{
			name:            "end is exclusive",
			rng:             types.SearchRange{Start: 0, End: 20, Direction: types.Descending},
			planted:         20,
			expectedFound:   false,
			expectedScanned: 20,
		},
		{
			name:            "empty range",
			rng:             types.SearchRange{Start: 7, End: 7, Direction: types.Ascending},
			planted:         7,
			expectedFound:   false,
			expectedScanned: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			signal := cancel.New()
			attempts := atomic.NewUint64(0)

			scanned := NewWorker(newConfig(tt.rng, tt.planted), signal, sink, time.Now(), attempts, nil).Run()

			assert.Equal(t, tt.expectedScanned, scanned)
			assert.Equal(t, tt.expectedScanned, attempts.Load())
			assert.Equal(t, tt.expectedFound, signal.Done(), "signal is set only by a match")
			if tt.expectedFound {
				require.Len(t, sink.results, 1)
				assert.Equal(t, tt.planted, sink.results[0].Number)
				assert.Equal(t, tt.rng, sink.results[0].Range)
			} else {
				assert.Empty(t, sink.results)
			}
		})
	}
}

func TestWorkerStopsWhenCancelled(t *testing.T) {
	signal := cancel.New()
	signal.Cancel()
	sink := &recordingSink{}

	rng := types.SearchRange{Start: 0, End: 1000, Direction: types.Ascending}
	scanned := NewWorker(newConfig(rng, 0), signal, sink, time.Now(), nil, nil).Run()

	assert.Zero(t, scanned)
	assert.Empty(t, sink.results)
}

func TestWorkerLosingOfferIsIgnored(t *testing.T) {
	ch := make(chan types.Result, 1)
	ch <- types.Result{Number: 1}
	signal := cancel.New()

	rng := types.SearchRange{Start: 0, End: 100, Direction: types.Ascending}
	NewWorker(newConfig(rng, 5), signal, ChanSink(ch), time.Now(), nil, nil).Run()

	assert.True(t, signal.Done())
	assert.Equal(t, uint64(1), (<-ch).Number, "first result is kept")
}

func TestChanSink(t *testing.T) {
	ch := make(chan types.Result, 1)
	sink := ChanSink(ch)

	assert.True(t, sink.Offer(types.Result{Number: 1}))
	assert.False(t, sink.Offer(types.Result{Number: 2}))
	assert.Equal(t, uint64(1), (<-ch).Number)
}

func TestWorkerProgress(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf)
	log.SetFlags(0)
	log.SetVerbose(true)

	config := newConfig(types.SearchRange{Index: 3, Start: 0, End: 25, Direction: types.Descending}, 1000)
	config.ProgressEvery = 10
	NewWorker(config, cancel.New(), &recordingSink{}, time.Now(), nil, log).Run()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"backward worker 3 tried: 24",
		"backward worker 3 tried: 14",
		"backward worker 3 tried: 4",
	}, lines)
}
