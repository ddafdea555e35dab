package queue

// Disposable is implemented by items owning a resource that must be freed
// when the queue drops them (eviction or Clear).
type Disposable interface {
	Dispose() error
}

// DisposableWeigher is a weighted item that also owns a resource.
type DisposableWeigher[W Weight] interface {
	Disposable
	Weigher[W]
}

// Releaser frees items the queue discards. Pulled items are never released,
// ownership moves to the caller.
type Releaser[T any] interface {
	Release(item T) error
}

var (
	_ Releaser[int]        = Keep[int]{}
	_ Releaser[Disposable] = Dispose[Disposable]{}
)

// Keep is the Releaser for plain values: nothing to free.
type Keep[T any] struct{}

func (Keep[T]) Release(T) error { return nil }

// Dispose releases items by calling their Dispose method.
type Dispose[T Disposable] struct{}

func (Dispose[T]) Release(item T) error { return item.Dispose() }
