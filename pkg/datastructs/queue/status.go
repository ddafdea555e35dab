package queue

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFull is returned by Status.Err for StatusFull.
	ErrFull = errors.New("queue is full")

	// ErrTimeout is returned by Status.Err for StatusTimeout.
	ErrTimeout = errors.New("queue pull timed out")
)

// Status is the outcome of Push and PullTimeout.
type Status int

const (
	// StatusSuccess means the item was pushed or pulled.
	StatusSuccess Status = iota
	// StatusFull means the queue was full when Push was called.
	// Under EvictOldest the item was still accepted and the oldest one dropped.
	StatusFull
	// StatusTimeout means no item became available before the deadline.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFull:
		return "full"
	case StatusTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Err maps the status to ErrFull or ErrTimeout, nil on success.
func (s Status) Err() error {
	switch s {
	case StatusFull:
		return ErrFull
	case StatusTimeout:
		return ErrTimeout
	default:
		return nil
	}
}

// Policy selects what Push does when the queue is full.
type Policy int

const (
	// Reject leaves the queue untouched and the item with the caller.
	Reject Policy = iota
	// EvictOldest drops the front item and appends the new one.
	EvictOldest
)

func (p Policy) String() string {
	switch p {
	case Reject:
		return "reject"
	case EvictOldest:
		return "evict_oldest"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses the names produced by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return Reject, nil
	case "evict_oldest", "evict-oldest", "evictoldest":
		return EvictOldest, nil
	default:
		return Reject, fmt.Errorf("queue: unknown overflow policy %q", s)
	}
}

// State is the fill level of a queue, recomputed on every call.
type State int

const (
	StateEmpty State = iota
	StatePartial
	StateFull
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartial:
		return "partial"
	case StateFull:
		return "full"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
