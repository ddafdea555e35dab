package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-fifo/pkg/datastructs/buffer"
)

var _ Queue[int, int] = (*FIFO[int, int])(nil)

// FIFO is a bounded, thread-safe, first-in-first-out queue.
//
// Behavior:
//   - The Strategy decides how much each item weighs and when the queue is full.
//   - When full, Push applies the Policy: Reject or EvictOldest.
//   - Pull, PullTimeout and PullContext park the caller until an item arrives.
//     Every successful insertion wakes exactly one parked consumer.
//   - Every operation takes the same mutex; only the pull family ever blocks.
type FIFO[T any, W Weight] struct {
	mu       sync.Mutex
	items    *buffer.Ring[T]
	waiters  waitList
	limit    W // capacity bound, in strategy units
	size     W // running measure of items
	strategy Strategy[T, W]
	releaser Releaser[T]
	policy   Policy
	name     string
	logger   *zap.Logger

	pushed   uint64
	pulled   uint64
	rejected uint64
	evicted  uint64
	timeouts uint64
	cleared  uint64

	releaseFailures atomic.Uint64 // releases run outside mu
}

// New creates a FIFO bounded by item count for plain values.
// A capacity of zero keeps the queue full until SetCapacity is called.
func New[T any](capacity int, opts ...Option) *FIFO[T, int] {
	return NewWithStrategy[T, int](Count[T]{}, Keep[T]{}, capacity, opts...)
}

// NewOwned creates a FIFO bounded by item count whose items are disposed
// when evicted or cleared.
func NewOwned[T Disposable](capacity int, opts ...Option) *FIFO[T, int] {
	return NewWithStrategy[T, int](Count[T]{}, Dispose[T]{}, capacity, opts...)
}

// NewWeighted creates a FIFO bounded by the sum of the items' Weight().
func NewWeighted[T Weigher[W], W Weight](capacity W, opts ...Option) *FIFO[T, W] {
	return NewWithStrategy[T, W](Weighted[T, W]{}, Keep[T]{}, capacity, opts...)
}

// NewWeightedOwned is NewWeighted for items that are disposed when evicted or cleared.
func NewWeightedOwned[T DisposableWeigher[W], W Weight](capacity W, opts ...Option) *FIFO[T, W] {
	return NewWithStrategy[T, W](Weighted[T, W]{}, Dispose[T]{}, capacity, opts...)
}

// NewWithStrategy creates a FIFO with an explicit strategy and releaser.
// A nil releaser behaves like Keep.
func NewWithStrategy[T any, W Weight](strategy Strategy[T, W], releaser Releaser[T], capacity W, opts ...Option) *FIFO[T, W] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if releaser == nil {
		releaser = Keep[T]{}
	}

	return &FIFO[T, W]{
		items:    buffer.NewRing[T](o.InitialSize),
		limit:    capacity,
		strategy: strategy,
		releaser: releaser,
		policy:   o.Policy,
		name:     o.Name,
		logger:   o.Logger.With(zap.String("queue", o.Name)),
	}
}

// Push adds item to the back of the queue.
//
// If the queue is not full the item is appended and StatusSuccess is returned.
// If it is full StatusFull is returned and the policy applies: under Reject
// nothing changes, under EvictOldest the oldest item is released and item
// is appended.
func (q *FIFO[T, W]) Push(item T) Status {
	q.mu.Lock()

	if !q.isFull() {
		q.pushLast(item)
		q.waiters.signal()
		q.mu.Unlock()
		return StatusSuccess
	}

	if q.policy == Reject {
		q.rejected++
		q.mu.Unlock()
		return StatusFull
	}

	old, evicted := q.popFirst()
	if evicted {
		q.evicted++
	}
	q.pushLast(item)
	q.waiters.signal()
	q.mu.Unlock()

	if evicted {
		q.logger.Debug("evicted oldest item")
		q.release(old)
	}
	return StatusFull
}

// Pull removes and returns the oldest item, blocking until one is available.
func (q *FIFO[T, W]) Pull() T {
	item, _ := q.pull(context.Background(), time.Time{})
	return item
}

// PullTimeout removes and returns the oldest item, waiting at most d.
// The deadline is fixed on entry, wake-ups that find the queue empty only
// wait for what is left of it. d <= 0 polls without blocking.
func (q *FIFO[T, W]) PullTimeout(d time.Duration) (T, Status) {
	item, err := q.pull(context.Background(), time.Now().Add(d))
	if err != nil {
		return item, StatusTimeout
	}
	return item, StatusSuccess
}

// PullContext removes and returns the oldest item, waiting until ctx is done.
func (q *FIFO[T, W]) PullContext(ctx context.Context) (T, error) {
	return q.pull(ctx, time.Time{})
}

// TryPull removes and returns the oldest item without blocking.
func (q *FIFO[T, W]) TryPull() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.IsEmpty() {
		var zero T
		return zero, false
	}
	return q.popPulled(), true
}

// Peek returns the oldest item without removing it.
func (q *FIFO[T, W]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Front()
}

// pull waits until the queue is non-empty, ctx is done or deadline passes.
// A zero deadline means no deadline.
func (q *FIFO[T, W]) pull(ctx context.Context, deadline time.Time) (T, error) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	// Another consumer may take the item between the signal and our relock,
	// so emptiness is re-checked after every wake-up.
	for q.items.IsEmpty() {
		var remaining time.Duration
		if !deadline.IsZero() {
			remaining = time.Until(deadline)
			if remaining <= 0 {
				q.timeouts++
				return zero, ErrTimeout
			}
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		w := q.waiters.add()
		q.mu.Unlock()
		park(ctx, w, remaining)
		q.mu.Lock()
		q.waiters.remove(w)
	}

	return q.popPulled(), nil
}

// park blocks until w is signalled, ctx is done or the timeout elapses.
// A zero timeout means wait without a timer.
func park(ctx context.Context, w waiter, timeout time.Duration) {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-w:
	case <-expired:
	case <-ctx.Done():
	}
}

// Len returns the number of stored items.
func (q *FIFO[T, W]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// WeightedSize returns the accumulated measure of the stored items.
// For a count strategy it equals Len.
func (q *FIFO[T, W]) WeightedSize() W {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// SetCapacity changes the bound. Stored items are never evicted by it.
func (q *FIFO[T, W]) SetCapacity(limit W) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.limit = limit
}

// Capacity returns the current bound.
func (q *FIFO[T, W]) Capacity() W {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit
}

// IsFull reports whether the strategy considers the queue full.
func (q *FIFO[T, W]) IsFull() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.isFull()
}

// State returns the current fill level. A full queue is StateFull even when
// it is empty (zero capacity). Empty means no items are stored, so a queue
// holding only zero-weight items is StatePartial.
func (q *FIFO[T, W]) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch {
	case q.isFull():
		return StateFull
	case q.items.IsEmpty():
		return StateEmpty
	default:
		return StatePartial
	}
}

// Clear removes every stored item and resets the measure to zero, then
// releases the removed items. The queue is empty when Clear returns even if
// some releases failed; their errors are combined in the result.
func (q *FIFO[T, W]) Clear() error {
	q.mu.Lock()
	items := q.items.Drain()
	q.size = 0
	q.cleared += uint64(len(items))
	q.mu.Unlock()

	var err error
	for _, item := range items {
		if rerr := q.releaser.Release(item); rerr != nil {
			q.releaseFailures.Add(1)
			err = multierr.Append(err, rerr)
		}
	}
	if err != nil {
		q.logger.Warn("release failed during clear",
			zap.Int("items", len(items)),
			zap.Error(err),
		)
	}
	return err
}

// Stats returns a snapshot of the queue counters and levels.
func (q *FIFO[T, W]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return Stats{
		Name:            q.name,
		Policy:          q.policy.String(),
		Len:             q.items.Len(),
		WeightedSize:    float64(q.size),
		Capacity:        float64(q.limit),
		Full:            q.isFull(),
		Waiters:         q.waiters.len(),
		Pushed:          q.pushed,
		Pulled:          q.pulled,
		Rejected:        q.rejected,
		Evicted:         q.evicted,
		Timeouts:        q.timeouts,
		Cleared:         q.cleared,
		ReleaseFailures: q.releaseFailures.Load(),
	}
}

// isFull must be called with mu held.
func (q *FIFO[T, W]) isFull() bool {
	return q.strategy.IsFull(q.size, q.limit)
}

// pushLast appends item and adds its measure. mu must be held.
func (q *FIFO[T, W]) pushLast(item T) {
	q.size += q.strategy.MeasureOf(item)
	q.items.PushBack(item)
	q.pushed++
}

// popFirst removes the front item and subtracts its measure. mu must be held.
func (q *FIFO[T, W]) popFirst() (T, bool) {
	item, ok := q.items.PopFront()
	if !ok {
		return item, false
	}

	q.size -= q.strategy.MeasureOf(item)
	if q.items.IsEmpty() {
		// An empty queue always measures zero, whatever the rounding of W.
		q.size = 0
	}
	return item, true
}

// popPulled is popFirst for items handed to a consumer. mu must be held and
// the queue must not be empty.
func (q *FIFO[T, W]) popPulled() T {
	item, _ := q.popFirst()
	q.pulled++
	return item
}

// release frees an item the queue dropped. Called without mu.
func (q *FIFO[T, W]) release(item T) {
	if err := q.releaser.Release(item); err != nil {
		q.releaseFailures.Add(1)
		q.logger.Warn("release of evicted item failed", zap.Error(err))
	}
}
