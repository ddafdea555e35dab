package queue

// Weight is the set of numeric types a capacity can be expressed in.
// time.Duration satisfies it.
type Weight interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Strategy decides how much room an item takes and when the queue is full.
// Implementations must be deterministic and free of side effects.
type Strategy[T any, W Weight] interface {
	// MeasureOf returns the contribution of item to the queue size.
	MeasureOf(item T) W

	// IsFull reports whether a queue of the given size has reached limit.
	IsFull(size, limit W) bool
}

// Weigher is implemented by items that declare their own weight, e.g. a frame duration.
type Weigher[W Weight] interface {
	Weight() W
}

var _ Strategy[int, int] = Count[int]{}

// Count measures the queue in items.
type Count[T any] struct{}

// MeasureOf returns 1.
func (Count[T]) MeasureOf(T) int { return 1 }

// IsFull returns size >= limit.
func (Count[T]) IsFull(size, limit int) bool { return size >= limit }

// Weighted measures the queue as the sum of the items' Weight().
type Weighted[T Weigher[W], W Weight] struct{}

// MeasureOf returns item.Weight().
func (Weighted[T, W]) MeasureOf(item T) W { return item.Weight() }

// IsFull returns size >= limit.
func (Weighted[T, W]) IsFull(size, limit W) bool { return size >= limit }
