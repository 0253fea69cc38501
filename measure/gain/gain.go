// Package gain extracts the power-law exponent relating photomultiplier pulse
// height to the applied bias voltage.
//
// The gain of an n-stage tube grows as G ∝ Vⁿ, so pulse height h = A·Vⁿ and
//
//	ln h = n·ln V + ln A
//
// is a straight line in log–log space. Fit takes natural logarithms of both
// series and hands them to the shared line fit; the slope is n.
package gain

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-detector/stats/linfit"
)

// ErrNonPositive is returned when a bias voltage or pulse height is not
// strictly positive and therefore has no logarithm.
var ErrNonPositive = errors.New("gain: values must be strictly positive")

// Result holds the gain-law fit h = Prefactor · V^Exponent.
type Result struct {
	Exponent    float64
	ExponentErr float64 // valid when HasErrors
	Prefactor   float64 // exp(intercept of the log-log line)
	HasErrors   bool

	// Fit is the underlying line fit of ln(pulse) against ln(bias).
	Fit linfit.Result
}

// Fit fits ln(pulse) against ln(bias) and returns the gain exponent.
func Fit(bias, pulse []float64) (Result, error) {
	if len(bias) != len(pulse) {
		return Result{}, fmt.Errorf("gain: %w: len(bias)=%d, len(pulse)=%d",
			linfit.ErrLengthMismatch, len(bias), len(pulse))
	}

	if len(bias) == 0 {
		return Result{}, fmt.Errorf("gain: %w: got 0", linfit.ErrTooFewPoints)
	}

	logV, err := logAll("bias", bias)
	if err != nil {
		return Result{}, err
	}

	logH, err := logAll("pulse", pulse)
	if err != nil {
		return Result{}, err
	}

	fit, err := linfit.Fit(logV, logH)
	if err != nil {
		return Result{}, fmt.Errorf("gain: %w", err)
	}

	return Result{
		Exponent:    fit.Slope,
		ExponentErr: fit.SlopeErr,
		Prefactor:   math.Exp(fit.Intercept),
		HasErrors:   fit.HasErrors,
		Fit:         fit,
	}, nil
}

// PulseHeight evaluates the fitted power law at bias voltage v.
func (r Result) PulseHeight(v float64) float64 {
	return r.Prefactor * math.Pow(v, r.Exponent)
}

// RelativeGainChange returns ΔG/G for a relative bias change ΔV/V, to first
// order n·ΔV/V. A tube with n = 7 needs a supply stable to 0.1% for 0.7% gain
// stability.
func (r Result) RelativeGainChange(relVoltage float64) float64 {
	return r.Exponent * relVoltage
}

func logAll(name string, v []float64) ([]float64, error) {
	out := make([]float64, len(v))

	for i, x := range v {
		if !(x > 0) {
			return nil, fmt.Errorf("%w: %s[%d] = %v", ErrNonPositive, name, i, x)
		}

		out[i] = math.Log(x)
	}

	return out, nil
}
