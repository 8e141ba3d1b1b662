package report

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/screa/hash-challenge-solver/internal/crypto"
	"github.com/screa/hash-challenge-solver/internal/logger"
	"github.com/screa/hash-challenge-solver/pkg/types"
)

// Verdict is the outcome of re-checking a result
type Verdict struct {
	Verified bool
	Half     types.Half
}

// Reporter prints search results
type Reporter struct {
	logger *logger.Logger
	oracle crypto.Oracle
	ok     *color.Color
	bad    *color.Color
}

// New creates a reporter that re-checks results with oracle.
// Colours are only used when colored is set.
func New(log *logger.Logger, oracle crypto.Oracle, colored bool) *Reporter {
	if oracle.New == nil {
		oracle = crypto.SHA256
	}
	r := &Reporter{
		logger: log,
		oracle: oracle,
		ok:     color.New(color.FgGreen, color.Bold),
		bad:    color.New(color.FgRed, color.Bold),
	}
	if !colored {
		r.ok.DisableColor()
		r.bad.DisableColor()
	}
	return r
}

// Verify recomputes the digest of n with oracle. The challenge's
// algorithm label plays no part.
func Verify(oracle crypto.Oracle, challenge *types.Challenge, n uint64) bool {
	return crypto.HexDigestWith(oracle, challenge.Salt, n) == challenge.Challenge
}

// Start logs the parameters of a search
func (r *Reporter) Start(challenge *types.Challenge, source string, workersPerDirection int) {
	r.logger.Printf("Starting bidirectional hash challenge solver...")
	r.logger.Printf("Challenge: %s (%s)", challenge.Challenge, source)
	r.logger.Printf("Algorithm: %s (oracle %s), search space: [0, %d), workers: %d per direction",
		challenge.Algorithm, r.oracle.Name, challenge.MaxNumber, workersPerDirection)
}

// Result logs a search outcome. A nil result means no solution was found.
func (r *Reporter) Result(challenge *types.Challenge, result *types.Result) *Verdict {
	if result == nil {
		r.logger.Println(r.bad.Sprint("No solution found"))
		return nil
	}

	r.logger.Printf("Found solution: %d", result.Number)
	r.logger.Printf("Time taken: %s", FormatMillis(result.Took))

	verdict := r.Check(challenge, result.Number)
	return &verdict
}

// Check verifies n and logs which half of the space it lies in
func (r *Reporter) Check(challenge *types.Challenge, n uint64) Verdict {
	verdict := Verdict{
		Verified: Verify(r.oracle, challenge, n),
		Half:     challenge.HalfOf(n),
	}

	if !verdict.Verified {
		r.logger.Println(r.bad.Sprint("Hash verification failed"))
		return verdict
	}

	r.logger.Println(r.ok.Sprint("Hash verified successfully"))
	midpoint := challenge.Midpoint()
	if verdict.Half == types.LowerHalf {
		r.logger.Printf("Found in lower half (0 -> %d)", midpoint)
	} else {
		r.logger.Printf("Found in upper half (%d -> %d)", midpoint, challenge.MaxNumber)
	}
	return verdict
}

// FormatMillis renders a duration as milliseconds with two decimals
func FormatMillis(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}
