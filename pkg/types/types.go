package types

import (
	"time"

	"github.com/screa/hash-challenge-solver/internal/crypto"
)

// Challenge is the search problem handed to the solver
type Challenge struct {
	Algorithm string `yaml:"algorithm" json:"algorithm"` // informational
	Challenge string `yaml:"challenge" json:"challenge"` // target digest, lowercase hex
	MaxNumber uint64 `yaml:"maxnumber" json:"maxnumber"` // exclusive upper bound
	Salt      string `yaml:"salt" json:"salt"`
	Signature string `yaml:"signature" json:"signature"`
}

// Midpoint returns the boundary between the forward and backward halves
func (c *Challenge) Midpoint() uint64 {
	return c.MaxNumber / 2
}

// HalfOf reports which half of the search space n falls in
func (c *Challenge) HalfOf(n uint64) Half {
	if n < c.Midpoint() {
		return LowerHalf
	}
	return UpperHalf
}

// Half identifies one side of the midpoint
type Half int

const (
	LowerHalf Half = iota
	UpperHalf
)

func (h Half) String() string {
	if h == LowerHalf {
		return "lower half"
	}
	return "upper half"
}

// Direction is the order in which a worker visits its range
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "forward"
	case Descending:
		return "backward"
	default:
		return "unknown"
	}
}

// SearchRange is the half-open interval [Start, End) assigned to one worker.
// Descending ranges are visited from End-1 down to Start.
type SearchRange struct {
	Index     int
	Start     uint64
	End       uint64
	Direction Direction
}

// Len returns the number of candidates in the range
func (r SearchRange) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether n lies inside the range
func (r SearchRange) Contains(n uint64) bool {
	return n >= r.Start && n < r.End
}

// Result represents a solved challenge
type Result struct {
	Number uint64
	Took   time.Duration
	Range  SearchRange // range of the worker that found Number
}

// WorkerConfig contains configuration for individual workers
type WorkerConfig struct {
	Range         SearchRange
	Salt          string
	Target        string
	Oracle        crypto.Oracle // zero value means SHA-256
	ProgressEvery int           // log every N candidates when verbose, 0 disables
}
