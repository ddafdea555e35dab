package utils

import "testing"

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{-8, false},
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{64, true},
		{96, false},
		{1 << 40, true},
	}

	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.n); got != tt.want {
			t.Errorf("IsPowerOfTwo(%d) = %v; want %v", tt.n, got, tt.want)
		}
	}
}

func TestCeilToPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{-1, 2},
		{0, 2},
		{2, 2},
		{3, 4},
		{16, 16},
		{17, 32},
		{4097, 8192},
	}

	for _, tt := range tests {
		if got := CeilToPowerOfTwo(tt.n); got != tt.want {
			t.Errorf("CeilToPowerOfTwo(%d) = %d; want %d", tt.n, got, tt.want)
		}
	}
}

func TestCeilToPowerOfTwo_Overflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for oversized argument")
		}
	}()
	CeilToPowerOfTwo(maxPowerOfTwo + 1)
}
