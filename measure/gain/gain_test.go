package gain

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-detector/stats/linfit"
)

// powerLaw returns h = a * v^n for each v.
func powerLaw(a, n float64, v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = a * math.Pow(x, n)
	}
	return out
}

func TestFitRecoversExponent(t *testing.T) {
	bias := []float64{800, 900, 1000, 1100, 1200, 1300}

	tests := []struct {
		name string
		a, n float64
	}{
		{"six stages", 1e-15, 6},
		{"ten stages", 2e-27, 10},
		{"fractional", 3.5e-20, 7.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Fit(bias, powerLaw(tt.a, tt.n, bias))
			if err != nil {
				t.Fatal(err)
			}

			if math.Abs(res.Exponent-tt.n) > 1e-9 {
				t.Errorf("Exponent = %v, want %v", res.Exponent, tt.n)
			}

			if !res.HasErrors || res.ExponentErr > 1e-9 {
				t.Errorf("ExponentErr = %v (HasErrors=%v), want ~0", res.ExponentErr, res.HasErrors)
			}

			if math.Abs(res.Prefactor-tt.a)/tt.a > 1e-6 {
				t.Errorf("Prefactor = %v, want %v", res.Prefactor, tt.a)
			}

			for _, v := range bias {
				want := tt.a * math.Pow(v, tt.n)
				if got := res.PulseHeight(v); math.Abs(got-want)/want > 1e-6 {
					t.Errorf("PulseHeight(%v) = %v, want %v", v, got, want)
				}
			}
		})
	}
}

func TestFitMeasuredData(t *testing.T) {
	// Pulse heights in volts read off a scope for a 10-stage tube.
	bias := []float64{1000, 1100, 1200, 1300, 1400, 1500}
	pulse := []float64{0.12, 0.31, 0.72, 1.52, 3.0, 5.6}

	res, err := Fit(bias, pulse)
	if err != nil {
		t.Fatal(err)
	}

	if res.Exponent < 9 || res.Exponent > 10 {
		t.Errorf("Exponent = %v, want in [9, 10]", res.Exponent)
	}

	if !res.HasErrors || res.ExponentErr <= 0 || res.ExponentErr > 0.5 {
		t.Errorf("ExponentErr = %v, want small positive", res.ExponentErr)
	}
}

func TestFitTwoPoints(t *testing.T) {
	res, err := Fit([]float64{1000, 2000}, []float64{1, 128})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(res.Exponent-7) > 1e-12 {
		t.Errorf("Exponent = %v, want 7", res.Exponent)
	}

	if res.HasErrors {
		t.Error("HasErrors = true for 2 points")
	}
}

func TestFitValidation(t *testing.T) {
	tests := []struct {
		name        string
		bias, pulse []float64
		wantErr     error
	}{
		{"empty", nil, nil, linfit.ErrTooFewPoints},
		{"single", []float64{1000}, []float64{1}, linfit.ErrTooFewPoints},
		{"mismatch", []float64{1000, 1100}, []float64{1}, linfit.ErrLengthMismatch},
		{"zero bias", []float64{0, 1100}, []float64{1, 2}, ErrNonPositive},
		{"negative pulse", []float64{1000, 1100}, []float64{1, -2}, ErrNonPositive},
		{"nan pulse", []float64{1000, 1100}, []float64{math.NaN(), 2}, ErrNonPositive},
		{"same bias", []float64{1000, 1000, 1000}, []float64{1, 2, 3}, linfit.ErrDegenerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.bias, tt.pulse)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Fit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRelativeGainChange(t *testing.T) {
	res := Result{Exponent: 7}
	if got := res.RelativeGainChange(0.001); math.Abs(got-0.007) > 1e-15 {
		t.Errorf("RelativeGainChange(0.1%%) = %v, want 0.007", got)
	}
}
