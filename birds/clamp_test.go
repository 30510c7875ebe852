package birds

import (
	"errors"
	"testing"
)

func TestClampLogical(t *testing.T) {
	tests := []struct {
		in       int
		expected int
		clamped  bool
	}{
		{0, 0, false},
		{90, 90, false},
		{180, 180, false},
		{-10, 0, true},
		{190, 180, true},
		{1000, 180, true},
	}

	for _, tt := range tests {
		got, err := ClampLogical(tt.in)
		if got != tt.expected {
			t.Errorf("ClampLogical(%d) = %d, expected %d", tt.in, got, tt.expected)
		}
		if errors.Is(err, ErrOutOfRange) != tt.clamped {
			t.Errorf("ClampLogical(%d) error = %v, clamped expected %v", tt.in, err, tt.clamped)
		}
	}
}

func TestAngleRange_Physical(t *testing.T) {
	tests := []struct {
		logical  int
		expected int
	}{
		{0, 0},
		{60, 50},
		{90, 75},
		{135, 113},
		{180, 150},
		{-20, 0},
		{200, 150},
	}

	for _, tt := range tests {
		if got := DefaultAngleRange.Physical(tt.logical); got != tt.expected {
			t.Errorf("Physical(%d) = %d, expected %d", tt.logical, got, tt.expected)
		}
	}
}

func TestAngleRange_LogicalRoundTrip(t *testing.T) {
	for logical := 0; logical <= 180; logical += 10 {
		back := DefaultAngleRange.Logical(DefaultAngleRange.Physical(logical))
		if diff := back - logical; diff < -1 || diff > 1 {
			t.Errorf("round trip %d -> %d -> %d", logical, DefaultAngleRange.Physical(logical), back)
		}
	}
}

func TestAngleRange_Identity(t *testing.T) {
	for logical := 0; logical <= 180; logical++ {
		if got := identityRange.Physical(logical); got != logical {
			t.Errorf("identity Physical(%d) = %d", logical, got)
		}
	}
}

func TestAngleRange_Valid(t *testing.T) {
	tests := []struct {
		r        AngleRange
		expected bool
	}{
		{DefaultAngleRange, true},
		{AngleRange{Min: 0, Max: 180}, true},
		{AngleRange{Min: 10, Max: 10}, false},
		{AngleRange{Min: -5, Max: 150}, false},
		{AngleRange{Min: 0, Max: 270}, false},
	}

	for _, tt := range tests {
		if got := tt.r.Valid(); got != tt.expected {
			t.Errorf("%+v.Valid() = %v, expected %v", tt.r, got, tt.expected)
		}
	}
}
