package planner

import (
	"errors"

	"github.com/screa/hash-challenge-solver/pkg/types"
)

// ErrNoWorkers is returned when fewer than one worker per direction is requested
var ErrNoWorkers = errors.New("workers per direction must be at least 1")

// Plan splits [0, maxNumber) into workersPerDirection ascending ranges
// covering [0, midpoint) followed by workersPerDirection descending ranges
// covering [midpoint, maxNumber), where midpoint = maxNumber/2.
//
// Batch sizes come from truncating division; the last range of each
// direction absorbs the remainder so both halves are covered exactly.
// Small or zero maxNumber yields empty ranges rather than an error.
func Plan(maxNumber uint64, workersPerDirection int) ([]types.SearchRange, error) {
	if workersPerDirection < 1 {
		return nil, ErrNoWorkers
	}

	w := uint64(workersPerDirection)
	midpoint := maxNumber / 2
	forwardBatch := midpoint / w
	backwardBatch := (maxNumber - midpoint) / w

	ranges := make([]types.SearchRange, 0, 2*workersPerDirection)

	for i := uint64(0); i < w; i++ {
		start := i * forwardBatch
		end := start + forwardBatch
		if i == w-1 {
			end = midpoint
		}
		ranges = append(ranges, types.SearchRange{
			Index:     len(ranges),
			Start:     start,
			End:       end,
			Direction: types.Ascending,
		})
	}

	for i := uint64(0); i < w; i++ {
		// the scan starts just below upper and stops before lower
		upper := maxNumber - i*backwardBatch
		lower := upper - backwardBatch
		if i == w-1 {
			lower = midpoint
		}
		ranges = append(ranges, types.SearchRange{
			Index:     len(ranges),
			Start:     lower,
			End:       upper,
			Direction: types.Descending,
		})
	}

	return ranges, nil
}

// Covered returns the total number of candidates across ranges
func Covered(ranges []types.SearchRange) uint64 {
	var total uint64
	for _, r := range ranges {
		total += r.Len()
	}
	return total
}
