// Package cancel provides the stop flag shared by search workers.
//
// Workers poll Done once per candidate, so the flag is a plain atomic
// load rather than a channel receive.
package cancel

import "go.uber.org/atomic"

// Signal is a monotone flag: once cancelled it stays cancelled.
// The zero value is not usable; create one with New.
type Signal struct {
	done *atomic.Bool
}

// New returns a signal that has not been cancelled
func New() *Signal {
	return &Signal{done: atomic.NewBool(false)}
}

// Cancel sets the flag. Safe to call any number of times from any goroutine.
// It reports whether this call was the one that flipped the flag.
func (s *Signal) Cancel() bool {
	return s.done.CompareAndSwap(false, true)
}

// Done reports whether the flag has been set
func (s *Signal) Done() bool {
	return s.done.Load()
}
