package config

import (
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/screa/hash-challenge-solver/internal/crypto"
	"github.com/screa/hash-challenge-solver/pkg/types"
)

// Defaults
const (
	DefaultWorkersPerDirection = 10
	DefaultProgressEvery       = 10000
	DefaultLogInterval         = 5
)

// Errors
var (
	ErrInvalidWorkers = stderrors.New("--workers must be at least 1")
	ErrNoChallenge    = stderrors.New("must specify --target with --salt, or use --challenge-file")
	ErrInvalidTarget  = stderrors.New("target must be a lowercase hex digest")
)

// SampleChallenge is solved when no challenge is given on the command line
var SampleChallenge = types.Challenge{
	Algorithm: "SHA-256",
	Challenge: "11d22bf8463d767164170a40f8398e21ce61b14b68a0d9638690b712239f1b4b",
	MaxNumber: 150000,
	Salt:      "10c8977c6e2142024387a52c?expires=1746012392",
	Signature: "82f4a474856d66c3678550246e0612a17f8f5d47f8fe5b99a0821c2725a05119",
}

// Config holds the application configuration
type Config struct {
	WorkersPerDirection int
	ProgressEvery       int // per-worker progress line every N candidates
	Verbose             bool
	LogFile             string
	LogInterval         int    // Logging interval in seconds
	Oracle              string // hash run by the search, see crypto.OracleFor

	// Challenge sources, file first
	ChallengeFile string
	Algorithm     string
	Salt          string
	Target        string
	MaxNumber     uint64
	Signature     string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		WorkersPerDirection: DefaultWorkersPerDirection,
		ProgressEvery:       DefaultProgressEvery,
		LogInterval:         DefaultLogInterval,
		Oracle:              crypto.AlgorithmSHA256,
		Algorithm:           SampleChallenge.Algorithm,
		MaxNumber:           SampleChallenge.MaxNumber,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.WorkersPerDirection < 1 {
		return ErrInvalidWorkers
	}
	if c.ChallengeFile == "" && c.Salt != "" && c.Target == "" {
		return ErrNoChallenge
	}
	if _, err := c.GetOracle(); err != nil {
		return err
	}
	if c.Target != "" {
		return ValidateTarget(c.Target)
	}
	return nil
}

// ValidateTarget checks that target is a lowercase hex string of whole bytes
func ValidateTarget(target string) error {
	if target != strings.ToLower(target) {
		return ErrInvalidTarget
	}
	if _, err := hex.DecodeString(target); err != nil {
		return errors.Wrap(ErrInvalidTarget, err.Error())
	}
	return nil
}

// GetOracle returns the hash the search runs. It never depends on the
// challenge's algorithm label.
func (c *Config) GetOracle() (crypto.Oracle, error) {
	return crypto.OracleFor(c.Oracle)
}

// GetChallenge returns the challenge to solve: the challenge file if set,
// otherwise the salt and target flags, otherwise SampleChallenge with the
// max-number, algorithm and signature flags applied
func (c *Config) GetChallenge() (*types.Challenge, error) {
	if c.ChallengeFile != "" {
		return LoadChallenge(c.ChallengeFile)
	}

	if c.Salt == "" && c.Target == "" {
		challenge := SampleChallenge
		challenge.MaxNumber = c.MaxNumber
		if c.Algorithm != "" {
			challenge.Algorithm = c.Algorithm
		}
		if c.Signature != "" {
			challenge.Signature = c.Signature
		}
		return &challenge, nil
	}

	return &types.Challenge{
		Algorithm: c.Algorithm,
		Challenge: c.Target,
		MaxNumber: c.MaxNumber,
		Salt:      c.Salt,
		Signature: c.Signature,
	}, nil
}

// GetChallengeDescription returns a human-readable description of where the challenge comes from
func (c *Config) GetChallengeDescription() string {
	if c.ChallengeFile != "" {
		return "file: " + c.ChallengeFile
	}
	if c.Salt != "" {
		return fmt.Sprintf("flags: salt %q", c.Salt)
	}
	return "built-in sample"
}

// LoadChallenge reads a challenge from a YAML or JSON file
func LoadChallenge(filename string) (*types.Challenge, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read challenge file")
	}
	return ParseChallenge(content)
}

// ParseChallenge decodes a challenge document. Both the snake_case
// max_number key and maxnumber are accepted.
func ParseChallenge(content []byte) (*types.Challenge, error) {
	var doc struct {
		types.Challenge `yaml:",inline"`
		MaxNumberSnake  *uint64 `yaml:"max_number"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, errors.Wrap(err, "decode challenge")
	}

	challenge := doc.Challenge
	if doc.MaxNumberSnake != nil {
		challenge.MaxNumber = *doc.MaxNumberSnake
	}
	challenge.Challenge = strings.TrimSpace(challenge.Challenge)

	if challenge.Challenge == "" {
		return nil, errors.Wrap(ErrNoChallenge, "challenge file has no challenge digest")
	}
	if err := ValidateTarget(challenge.Challenge); err != nil {
		return nil, errors.Wrapf(err, "challenge %q", challenge.Challenge)
	}
	return &challenge, nil
}
