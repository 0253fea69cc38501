package testutil

import (
	"math"
	"testing"
)

func TestSpectrumSinglePeak(t *testing.T) {
	s := Spectrum(200, 5, Line{Channel: 100, Sigma: 8, Height: 1000})
	if len(s) != 200 {
		t.Fatalf("len = %d, want 200", len(s))
	}
	if math.Abs(s[100]-1005) > 1e-12 {
		t.Fatalf("s[100] = %v, want 1005", s[100])
	}
	if math.Abs(s[0]-5) > 1e-6 {
		t.Fatalf("s[0] = %v, want background 5", s[0])
	}
	for i := 1; i <= 100; i++ {
		if s[i] < s[i-1] {
			t.Fatalf("rising edge not monotone at %d", i)
		}
	}
}

func TestLineFWHM(t *testing.T) {
	l := Line{Channel: 50, Sigma: 10, Height: 1}
	s := Spectrum(101, 0, l)
	half := l.Channel + l.FWHM()/2
	x := (half - l.Channel) / l.Sigma
	if v := math.Exp(-0.5 * x * x); math.Abs(v-0.5) > 1e-12 {
		t.Fatalf("value at FWHM/2 = %v, want 0.5", v)
	}
	if s[50] != 1 {
		t.Fatalf("s[50] = %v, want 1", s[50])
	}
}

func TestRamp(t *testing.T) {
	r := Ramp(5, 10, 2)
	want := []float64{10, 8, 6, 4, 2}
	RequireSliceNearlyEqual(t, r, want, 1e-12)

	if one := Ramp(1, 3, 7); one[0] != 3 {
		t.Fatalf("Ramp(1) = %v, want [3]", one)
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] >= 1 {
			t.Fatalf("noise[%d] = %v out of range", i, a[i])
		}
	}
}

func TestDeterministicNoiseDifferentSeeds(t *testing.T) {
	a := DeterministicNoise(1, 1.0, 16)
	b := DeterministicNoise(2, 1.0, 16)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestAdd(t *testing.T) {
	a := []float64{1, 2, 3}
	got := Add(a, []float64{1, 1, 1}, []float64{0, 1, 2})
	RequireSliceNearlyEqual(t, got, []float64{2, 4, 6}, 0)
	if a[0] != 1 {
		t.Fatal("Add modified its first argument")
	}
}
