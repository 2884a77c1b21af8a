package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		expected float64
	}{
		{"normal", 694, 8992, 694.0 / 8992.0},
		{"zero denominator", 694, 0, 0},
		{"zero over zero", 0, 0, 0},
		{"nan denominator", 1, math.NaN(), 0},
		{"inf denominator", 1, math.Inf(1), 0},
		{"nan numerator", math.NaN(), 2, 0},
		{"overflow", math.MaxFloat64, 1e-300, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SafeDivide(tt.num, tt.den, 0), 1e-12)
		})
	}
}

func TestSafeDivideOpt(t *testing.T) {
	num, den := 10.0, 4.0
	assert.InDelta(t, 2.5, SafeDivideOpt(&num, &den, -1), 1e-12)
	assert.Equal(t, -1.0, SafeDivideOpt(nil, &den, -1))
	assert.Equal(t, -1.0, SafeDivideOpt(&num, nil, -1))
}

// FuzzSafeDivide checks that the result is always finite.
func FuzzSafeDivide(f *testing.F) {
	f.Add(1.0, 0.0)
	f.Add(0.0, 0.0)
	f.Add(500.0, 8992.0)
	f.Add(math.MaxFloat64, math.SmallestNonzeroFloat64)
	f.Fuzz(func(t *testing.T, num, den float64) {
		got := SafeDivide(num, den, 0)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("SafeDivide(%v, %v) = %v", num, den, got)
		}
		if den == 0 && got != 0 {
			t.Fatalf("SafeDivide(%v, 0) = %v, want 0", num, got)
		}
	})
}
