package utils

import (
	"math"
	"testing"
)

func AssertTrue(t *testing.T, a bool) {
	if !a {
		t.Fatalf("Expected true, got false")
	}
}

func AssertEqual(t *testing.T, a interface{}, b interface{}) {
	if a != b {
		t.Fatalf("Expected equal: %s != %s\n", a, b)
	}
}

func AssertClose(t *testing.T, a, b, tolerance float64) {
	if math.Abs(a-b) > tolerance {
		t.Fatalf("Expected close: %v != %v (tolerance %v)\n", a, b, tolerance)
	}
}

// AssertRelClose checks |a-b| <= tolerance * max(|a|, |b|).
func AssertRelClose(t *testing.T, a, b, tolerance float64) {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if math.Abs(a-b) > tolerance*scale {
		t.Fatalf("Expected close: %v != %v (relative tolerance %v)\n", a, b, tolerance)
	}
}
