package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Algorithm names accepted by OracleFor
const (
	AlgorithmSHA256    = "SHA-256"
	AlgorithmSHA3256   = "SHA3-256"
	AlgorithmKeccak256 = "KECCAK-256"
)

// Oracle is the one-way function candidates are tested against
type Oracle struct {
	Name string
	New  func() hash.Hash
}

var (
	// SHA256 is the default oracle
	SHA256 = Oracle{Name: AlgorithmSHA256, New: sha256.New}

	// SHA3256 is the FIPS-202 SHA3-256 oracle
	SHA3256 = Oracle{Name: AlgorithmSHA3256, New: sha3.New256}

	// Keccak256 is the legacy (pre-FIPS) keccak oracle used by Ethereum
	Keccak256 = Oracle{Name: AlgorithmKeccak256, New: sha3.NewLegacyKeccak256}
)

// ErrUnknownOracle is returned by OracleFor for names it does not know
var ErrUnknownOracle = errors.New("unknown hash oracle")

// OracleFor returns the oracle registered under name, ignoring case,
// dashes and underscores. An empty name selects SHA256.
func OracleFor(name string) (Oracle, error) {
	switch normaliseAlgorithm(name) {
	case "", "SHA256":
		return SHA256, nil
	case "SHA3256":
		return SHA3256, nil
	case "KECCAK256":
		return Keccak256, nil
	default:
		return Oracle{}, fmt.Errorf("%w: %q (want %s, %s or %s)",
			ErrUnknownOracle, name, AlgorithmSHA256, AlgorithmSHA3256, AlgorithmKeccak256)
	}
}

func normaliseAlgorithm(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "")
	return strings.ReplaceAll(n, "_", "")
}

// Digest returns SHA-256(salt || decimal(n))
func Digest(salt string, n uint64) [sha256.Size]byte {
	buf := make([]byte, 0, len(salt)+20)
	buf = append(buf, salt...)
	buf = strconv.AppendUint(buf, n, 10)
	return sha256.Sum256(buf)
}

// HexDigest returns the lowercase hex encoding of Digest
func HexDigest(salt string, n uint64) string {
	sum := Digest(salt, n)
	return hex.EncodeToString(sum[:])
}

// Matches reports whether the SHA-256 hex digest of salt || decimal(n) is
// exactly target. Comparison is case-sensitive.
func Matches(salt string, n uint64, target string) bool {
	return HexDigest(salt, n) == target
}

// Matcher evaluates one oracle against a fixed salt and target.
// It reuses its hasher and buffers, so it must not be shared between goroutines.
type Matcher struct {
	hasher  hash.Hash
	saltLen int
	input   []byte
	sum     []byte
	target  []byte
	valid   bool
}

// NewMatcher prepares a matcher. A target that is not the lowercase hex
// encoding of a digest of the oracle's size never matches.
func NewMatcher(oracle Oracle, salt, target string) *Matcher {
	if oracle.New == nil {
		oracle = SHA256
	}
	h := oracle.New()

	m := &Matcher{
		hasher:  h,
		saltLen: len(salt),
		input:   append(make([]byte, 0, len(salt)+20), salt...),
		sum:     make([]byte, 0, h.Size()),
	}

	decoded, err := hex.DecodeString(target)
	if err == nil && len(decoded) == h.Size() && target == strings.ToLower(target) {
		m.target = decoded
		m.valid = true
	}
	return m
}

// Valid reports whether the target can be matched at all
func (m *Matcher) Valid() bool {
	return m.valid
}

// Match hashes salt || decimal(n) and compares it with the target
func (m *Matcher) Match(n uint64) bool {
	if !m.valid {
		return false
	}
	m.input = strconv.AppendUint(m.input[:m.saltLen], n, 10)
	m.hasher.Reset()
	m.hasher.Write(m.input)
	m.sum = m.hasher.Sum(m.sum[:0])
	return bytes.Equal(m.sum, m.target)
}

// HexDigestWith hashes salt || decimal(n) with an arbitrary oracle
func HexDigestWith(oracle Oracle, salt string, n uint64) string {
	h := oracle.New()
	h.Write([]byte(salt))
	h.Write(strconv.AppendUint(nil, n, 10))
	return hex.EncodeToString(h.Sum(nil))
}
