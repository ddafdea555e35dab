package buffer

import (
	"github.com/huynhanx03/go-fifo/pkg/utils"
)

const defaultRingCap = 16

// Ring is a growable circular buffer of items kept in insertion order.
// The capacity is always a power of two so indexes wrap with a mask.
// It is NOT thread-safe.
type Ring[T any] struct {
	buf      []T
	readPos  int // index of the oldest item
	count    int // number of buffered items
	capacity int
}

// NewRing creates a Ring able to hold capacity items before growing.
// The capacity will be rounded up to the nearest power of two.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		return &Ring[T]{}
	}
	if !utils.IsPowerOfTwo(capacity) {
		capacity = utils.CeilToPowerOfTwo(capacity)
	}
	return &Ring[T]{
		buf:      make([]T, capacity),
		capacity: capacity,
	}
}

// PushBack appends item after the newest element, growing if necessary.
func (r *Ring[T]) PushBack(item T) {
	if r.count == r.capacity {
		r.grow(r.count + 1)
	}
	r.buf[r.wrapIndex(r.readPos+r.count)] = item
	r.count++
}

// PopFront removes and returns the oldest element.
// Returns (zero, false) if the ring is empty.
func (r *Ring[T]) PopFront() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}

	item := r.buf[r.readPos]
	r.buf[r.readPos] = zero // drop the reference for the GC
	r.readPos = r.wrapIndex(r.readPos + 1)
	r.count--
	if r.count == 0 {
		r.readPos = 0
	}
	return item, true
}

// Front returns the oldest element without removing it.
func (r *Ring[T]) Front() (T, bool) {
	if r.count == 0 {
		var zero T
		return zero, false
	}
	return r.buf[r.readPos], true
}

// Len returns the number of buffered items.
func (r *Ring[T]) Len() int {
	return r.count
}

// Cap returns the number of items the ring holds before it has to grow.
func (r *Ring[T]) Cap() int {
	return r.capacity
}

// IsEmpty returns true if the ring holds no items.
func (r *Ring[T]) IsEmpty() bool {
	return r.count == 0
}

// Drain removes every item and returns them oldest first.
// The backing storage is kept for reuse.
func (r *Ring[T]) Drain() []T {
	if r.count == 0 {
		return nil
	}

	out := make([]T, r.count)
	r.copyTo(out)
	r.Reset()
	return out
}

// Reset clears the ring and zeroes every slot so that stale items can be collected.
func (r *Ring[T]) Reset() {
	clear(r.buf)
	r.readPos = 0
	r.count = 0
}

// copyTo copies the buffered items into dst oldest first, handling wrap-around.
func (r *Ring[T]) copyTo(dst []T) {
	if r.count == 0 {
		return
	}

	// Simple case: no wrap-around
	if r.readPos+r.count <= r.capacity {
		copy(dst, r.buf[r.readPos:r.readPos+r.count])
		return
	}

	// Wrap-around case
	n := copy(dst, r.buf[r.readPos:])
	copy(dst[n:], r.buf[:r.count-n])
}

// wrapIndex returns the index wrapped within ring capacity.
func (r *Ring[T]) wrapIndex(idx int) int {
	return idx & (r.capacity - 1)
}

// grow expands the ring to at least minCap slots and realigns items at index 0.
func (r *Ring[T]) grow(minCap int) {
	newCap := r.calculateGrowth(minCap)

	newBuf := make([]T, newCap)
	r.copyTo(newBuf)

	r.buf = newBuf
	r.readPos = 0
	r.capacity = newCap
}

// calculateGrowth determines the new capacity based on growth strategy.
func (r *Ring[T]) calculateGrowth(minCap int) int {
	oldCap := r.capacity

	// Initial allocation
	if oldCap == 0 {
		if minCap <= defaultRingCap {
			return defaultRingCap
		}
		return utils.CeilToPowerOfTwo(minCap)
	}

	// Capacity must stay a power of two for wrapIndex.
	newCap := oldCap * 2
	if newCap < minCap {
		return utils.CeilToPowerOfTwo(minCap)
	}
	return newCap
}
