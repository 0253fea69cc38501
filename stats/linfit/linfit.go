package linfit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Errors returned by Fit.
var (
	ErrLengthMismatch = errors.New("linfit: x and y must have the same length")
	ErrTooFewPoints   = errors.New("linfit: at least 2 points are required")
	ErrDegenerate     = errors.New("linfit: all x values are identical")
	ErrNonFinite      = errors.New("linfit: input contains NaN or Inf")
)

// Result holds a straight-line fit y = Slope*x + Intercept.
//
// SlopeErr, InterceptErr, Covariance and ResidualVar are standard errors and
// variances from the least-squares covariance. They are only meaningful when
// HasErrors is true and are zero otherwise.
type Result struct {
	Slope     float64
	Intercept float64

	SlopeErr     float64
	InterceptErr float64
	Covariance   float64 // cov(slope, intercept)
	ResidualVar  float64 // s² = SSR / (N-2)
	HasErrors    bool

	RSquared float64
	N        int
}

// Fit computes the unweighted least-squares line through the points (x[i], y[i]).
func Fit(x, y []float64) (Result, error) {
	if len(x) != len(y) {
		return Result{}, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrLengthMismatch, len(x), len(y))
	}

	n := len(x)
	if n < 2 {
		return Result{}, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}

	if i := firstNonFinite(x); i >= 0 {
		return Result{}, fmt.Errorf("%w: x[%d] = %v", ErrNonFinite, i, x[i])
	}

	if i := firstNonFinite(y); i >= 0 {
		return Result{}, fmt.Errorf("%w: y[%d] = %v", ErrNonFinite, i, y[i])
	}

	if floats.Max(x) == floats.Min(x) {
		return Result{}, fmt.Errorf("%w: x = %v for all %d points", ErrDegenerate, x[0], n)
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	res := Result{
		Slope:     slope,
		Intercept: intercept,
		N:         n,
		RSquared:  rSquared(x, y, intercept, slope),
	}

	if n < 3 {
		return res, nil
	}

	nf := float64(n)
	meanX := floats.Sum(x) / nf

	var ssr, sxx float64

	for i := range x {
		r := y[i] - (slope*x[i] + intercept)
		ssr += r * r

		dx := x[i] - meanX
		sxx += dx * dx
	}

	s2 := ssr / (nf - 2)

	res.ResidualVar = s2
	res.SlopeErr = math.Sqrt(s2 / sxx)
	res.InterceptErr = math.Sqrt(s2 * (1/nf + meanX*meanX/sxx))
	res.Covariance = -meanX * s2 / sxx
	res.HasErrors = true

	return res, nil
}

// Predict evaluates the fitted line at x.
func (r Result) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// PredictAll evaluates the fitted line at every x and writes the values to dst.
// If dst is nil or too short a new slice is allocated.
func (r Result) PredictAll(dst, x []float64) []float64 {
	if len(dst) < len(x) {
		dst = make([]float64, len(x))
	}

	dst = dst[:len(x)]
	for i, v := range x {
		dst[i] = r.Predict(v)
	}

	return dst
}

// Residuals returns y[i] - Predict(x[i]) for every point.
func (r Result) Residuals(x, y []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrLengthMismatch, len(x), len(y))
	}

	out := make([]float64, len(x))
	for i := range x {
		out[i] = y[i] - r.Predict(x[i])
	}

	return out, nil
}

// CovMatrix returns the 2x2 parameter covariance matrix ordered
// (slope, intercept). It returns nil when the fit has no error estimate.
func (r Result) CovMatrix() *mat.SymDense {
	if !r.HasErrors {
		return nil
	}

	return mat.NewSymDense(2, []float64{
		r.SlopeErr * r.SlopeErr, r.Covariance,
		r.Covariance, r.InterceptErr * r.InterceptErr,
	})
}

// rSquared is 1 - SSR/SST, taken as 1 when y has no variance.
func rSquared(x, y []float64, intercept, slope float64) float64 {
	if floats.Max(y) == floats.Min(y) {
		return 1
	}

	return stat.RSquared(x, y, nil, intercept, slope)
}

func firstNonFinite(v []float64) int {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}

	return -1
}
