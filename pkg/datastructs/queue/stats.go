package queue

// Stats is a point-in-time snapshot of a FIFO.
// Levels are converted to float64 so every Weight type exports the same way.
type Stats struct {
	Name         string  `json:"name"`
	Policy       string  `json:"policy"`
	Len          int     `json:"len"`
	WeightedSize float64 `json:"weighted_size"`
	Capacity     float64 `json:"capacity"`
	Full         bool    `json:"full"`
	Waiters      int     `json:"waiters"`

	Pushed          uint64 `json:"pushed"`
	Pulled          uint64 `json:"pulled"`
	Rejected        uint64 `json:"rejected"`
	Evicted         uint64 `json:"evicted"`
	Timeouts        uint64 `json:"timeouts"`
	Cleared         uint64 `json:"cleared"`
	ReleaseFailures uint64 `json:"release_failures"`
}
