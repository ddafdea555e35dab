package buffer

import (
	"testing"
)

// =============================================================================
// Method: NewRing()
// =============================================================================

func TestRing_NewRing(t *testing.T) {
	tests := []struct {
		name    string
		cap     int
		wantCap int
	}{
		{"valid_1024", 1024, 1024},
		{"round_up_100", 100, 128},
		{"zero", 0, 0}, // lazily allocated on first push
		{"negative", -4, 0},
		{"one", 1, 1},
		{"round_up_3", 3, 4},
		{"non_power_2_large", 4097, 8192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing[int](tt.cap)
			if r.Cap() != tt.wantCap {
				t.Errorf("NewRing(%d) Cap = %d; want %d", tt.cap, r.Cap(), tt.wantCap)
			}
			if r.Len() != 0 {
				t.Errorf("NewRing len = %d; want 0", r.Len())
			}
			if !r.IsEmpty() {
				t.Error("NewRing expected empty ring")
			}
		})
	}
}

// =============================================================================
// Method: PushBack() / PopFront()
// =============================================================================

func TestRing_PushPop(t *testing.T) {
	t.Run("pop_empty", func(t *testing.T) {
		r := NewRing[string](4)
		v, ok := r.PopFront()
		if ok || v != "" {
			t.Errorf("PopFront() on empty = (%q, %v); want (\"\", false)", v, ok)
		}
	})

	t.Run("fifo_order", func(t *testing.T) {
		r := NewRing[int](4)
		for i := 1; i <= 4; i++ {
			r.PushBack(i)
		}
		for want := 1; want <= 4; want++ {
			got, ok := r.PopFront()
			if !ok || got != want {
				t.Errorf("PopFront() = (%d, %v); want (%d, true)", got, ok, want)
			}
		}
		if !r.IsEmpty() {
			t.Error("ring should be empty after draining")
		}
	})

	t.Run("wrap_around", func(t *testing.T) {
		r := NewRing[int](4)
		// Advance readPos to 3
		for i := 0; i < 3; i++ {
			r.PushBack(i)
		}
		for i := 0; i < 2; i++ {
			r.PopFront()
		}
		// Items 2, 10, 11, 12 occupy slots 2, 3, 0, 1
		r.PushBack(10)
		r.PushBack(11)
		r.PushBack(12)
		if r.Cap() != 4 {
			t.Fatalf("Cap() = %d; want 4 (no grow expected)", r.Cap())
		}
		want := []int{2, 10, 11, 12}
		for _, w := range want {
			got, _ := r.PopFront()
			if got != w {
				t.Errorf("PopFront() = %d; want %d", got, w)
			}
		}
	})

	t.Run("zero_cap_lazy_alloc", func(t *testing.T) {
		r := NewRing[int](0)
		r.PushBack(7)
		if r.Cap() != defaultRingCap {
			t.Errorf("Cap() = %d; want %d", r.Cap(), defaultRingCap)
		}
		if got, _ := r.PopFront(); got != 7 {
			t.Errorf("PopFront() = %d; want 7", got)
		}
	})

	t.Run("pop_releases_slot", func(t *testing.T) {
		r := NewRing[*int](2)
		v := 5
		r.PushBack(&v)
		r.PopFront()
		if r.buf[0] != nil {
			t.Error("popped slot should be zeroed")
		}
	})
}

// =============================================================================
// Method: grow()
// =============================================================================

func TestRing_Grow(t *testing.T) {
	t.Run("doubles", func(t *testing.T) {
		r := NewRing[int](4)
		for i := 0; i < 5; i++ {
			r.PushBack(i)
		}
		if r.Cap() != 8 {
			t.Errorf("Cap() = %d; want 8", r.Cap())
		}
	})

	t.Run("grow_wrap_correctness", func(t *testing.T) {
		// Verify items are realigned after grow when wrapped
		r := NewRing[int](4)
		for i := 0; i < 4; i++ {
			r.PushBack(i)
		}
		r.PopFront()
		r.PopFront()
		r.PushBack(4)
		r.PushBack(5) // ring is full and wrapped: 2 3 | 4 5
		r.PushBack(6) // forces grow

		for want := 2; want <= 6; want++ {
			got, ok := r.PopFront()
			if !ok || got != want {
				t.Errorf("PopFront() = (%d, %v); want (%d, true)", got, ok, want)
			}
		}
	})

	t.Run("calculate_growth", func(t *testing.T) {
		tests := []struct {
			name    string
			oldCap  int
			minCap  int
			wantCap int
		}{
			{"initial_small", 0, 1, defaultRingCap},
			{"initial_large", 0, 100, 128},
			{"double", 8, 9, 16},
			{"jump", 8, 40, 64},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r := &Ring[int]{capacity: tt.oldCap}
				if got := r.calculateGrowth(tt.minCap); got != tt.wantCap {
					t.Errorf("calculateGrowth(%d) = %d; want %d", tt.minCap, got, tt.wantCap)
				}
			})
		}
	})
}

// =============================================================================
// Method: Front() / Drain() / Reset()
// =============================================================================

func TestRing_Front(t *testing.T) {
	r := NewRing[int](4)
	if _, ok := r.Front(); ok {
		t.Error("Front() on empty should return false")
	}
	r.PushBack(1)
	r.PushBack(2)
	if v, ok := r.Front(); !ok || v != 1 {
		t.Errorf("Front() = (%d, %v); want (1, true)", v, ok)
	}
	if r.Len() != 2 {
		t.Errorf("Front() must not consume, Len() = %d", r.Len())
	}
}

func TestRing_Drain(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		r := NewRing[int](4)
		if out := r.Drain(); out != nil {
			t.Errorf("Drain() on empty = %v; want nil", out)
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		r := NewRing[int](4)
		for i := 0; i < 4; i++ {
			r.PushBack(i)
		}
		r.PopFront()
		r.PopFront()
		r.PushBack(4)

		out := r.Drain()
		want := []int{2, 3, 4}
		if len(out) != len(want) {
			t.Fatalf("Drain() len = %d; want %d", len(out), len(want))
		}
		for i := range want {
			if out[i] != want[i] {
				t.Errorf("Drain()[%d] = %d; want %d", i, out[i], want[i])
			}
		}
		if !r.IsEmpty() || r.Cap() != 4 {
			t.Errorf("after Drain() Len = %d Cap = %d; want 0, 4", r.Len(), r.Cap())
		}
	})
}

func TestRing_Reset(t *testing.T) {
	r := NewRing[*int](4)
	v := 1
	r.PushBack(&v)
	r.PushBack(&v)
	r.Reset()

	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d; want 0", r.Len())
	}
	for i, p := range r.buf {
		if p != nil {
			t.Errorf("slot %d not cleared", i)
		}
	}
}
