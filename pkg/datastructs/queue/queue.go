package queue

import (
	"context"
	"time"
)

// Queue is a generic interface for bounded blocking FIFO queues.
// W is the unit the capacity is expressed in (item count or weight).
type Queue[T any, W Weight] interface {
	// Push adds an item to the back of the queue.
	// Returns StatusFull if the queue was full when the item arrived.
	Push(item T) Status

	// Pull removes and returns the oldest item, blocking until one exists.
	Pull() T

	// PullTimeout is Pull bounded by d. Returns (zero, StatusTimeout) if nothing arrived in time.
	PullTimeout(d time.Duration) (T, Status)

	// PullContext is Pull bounded by ctx. Returns ctx.Err() if ctx ends first.
	PullContext(ctx context.Context) (T, error)

	// Peek returns the oldest item without removing it.
	Peek() (T, bool)

	// Len returns the number of stored items.
	Len() int

	// WeightedSize returns the accumulated measure of the stored items.
	WeightedSize() W

	// SetCapacity changes the bound without touching stored items.
	SetCapacity(limit W)

	// Capacity returns the current bound.
	Capacity() W

	// IsFull reports whether a Push would hit the overflow policy right now.
	IsFull() bool

	// Clear removes and releases every stored item.
	Clear() error
}
