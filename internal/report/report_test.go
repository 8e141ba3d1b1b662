package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screa/hash-challenge-solver/internal/crypto"
	"github.com/screa/hash-challenge-solver/internal/logger"
	"github.com/screa/hash-challenge-solver/pkg/types"
)

func newReporter() (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf)
	log.SetFlags(0)
	return New(log, crypto.SHA256, false), &buf
}

func challengeFor(planted uint64) *types.Challenge {
	return &types.Challenge{
		Algorithm: "SHA-256",
		Challenge: crypto.HexDigest("test-", planted),
		MaxNumber: 1000,
		Salt:      "test-",
	}
}

func TestResultUpperHalf(t *testing.T) {
	r, buf := newReporter()
	verdict := r.Result(challengeFor(777), &types.Result{Number: 777, Took: 1500 * time.Microsecond})

	require.NotNil(t, verdict)
	assert.True(t, verdict.Verified)
	assert.Equal(t, types.UpperHalf, verdict.Half)
	assert.Equal(t, "Found solution: 777\n"+
		"Time taken: 1.50ms\n"+
		"Hash verified successfully\n"+
		"Found in upper half (500 -> 1000)\n", buf.String())
}

func TestResultLowerHalf(t *testing.T) {
	r, buf := newReporter()
	verdict := r.Result(challengeFor(12), &types.Result{Number: 12})

	require.NotNil(t, verdict)
	assert.Equal(t, types.LowerHalf, verdict.Half)
	assert.Contains(t, buf.String(), "Found in lower half (0 -> 500)")
}

func TestResultVerificationFailure(t *testing.T) {
	r, buf := newReporter()
	verdict := r.Result(challengeFor(12), &types.Result{Number: 13})

	require.NotNil(t, verdict)
	assert.False(t, verdict.Verified)
	assert.Contains(t, buf.String(), "Hash verification failed")
	assert.NotContains(t, buf.String(), "half")
}

func TestResultNone(t *testing.T) {
	r, buf := newReporter()
	assert.Nil(t, r.Result(challengeFor(1), nil))
	assert.Equal(t, "No solution found\n", buf.String())
}

func TestVerifyUsesGivenOracle(t *testing.T) {
	challenge := &types.Challenge{
		Algorithm: "SHA-256",
		Challenge: crypto.HexDigestWith(crypto.SHA3256, "s-", 5),
		Salt:      "s-",
	}
	assert.True(t, Verify(crypto.SHA3256, challenge, 5))
	assert.False(t, Verify(crypto.SHA256, challenge, 5))
}

func TestCheckIgnoresAlgorithmLabel(t *testing.T) {
	r, _ := newReporter()
	challenge := challengeFor(777)
	challenge.Algorithm = "SHA3-256"

	assert.True(t, r.Check(challenge, 777).Verified)
}

func TestNewDefaultsToSHA256(t *testing.T) {
	r := New(logger.Discard(), crypto.Oracle{}, false)
	assert.True(t, r.Check(challengeFor(3), 3).Verified)
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "0.00ms", FormatMillis(0))
	assert.Equal(t, "2500.00ms", FormatMillis(2500*time.Millisecond))
}
