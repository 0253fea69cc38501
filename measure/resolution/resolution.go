// Package resolution fits the energy-resolution law of a detector.
//
// The variance of the number of charge carriers grows linearly with the
// deposited energy, so the squared peak width follows
//
//	ΔE² = Fw·E + Noise
//
// where Fw is the product of the Fano factor and the mean energy per carrier
// and Noise collects the energy-independent electronic contribution. Peak
// positions are calibrated through the full channel-to-energy map, peak widths
// through the calibration slope only.
package resolution

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-detector/measure/calib"
	"github.com/cwbudde/algo-detector/stats/linfit"
)

// ErrNegativeWidth is returned for a peak width below zero.
var ErrNegativeWidth = errors.New("resolution: peak width must not be negative")

// Result holds the resolution-law fit ΔE² = Fw·E + Noise.
type Result struct {
	Fw       float64
	FwErr    float64 // valid when HasErrors
	Noise    float64 // ΔE² at E = 0
	NoiseErr float64 // valid when HasErrors

	HasErrors bool

	Energies []float64 // peak positions in energy units
	Widths   []float64 // FWHM in energy units

	// WidthErrs is the uncertainty of each width from the calibration slope
	// error. Nil for FitEnergy or a calibration without an error estimate.
	WidthErrs []float64

	// Fit is the line fit of Widths² against Energies.
	Fit linfit.Result
}

// Fit converts peak channels and channel FWHMs with cal and fits the
// resolution law.
func Fit(cal calib.Calibration, peakCh, widthCh []float64) (Result, error) {
	if len(peakCh) != len(widthCh) {
		return Result{}, fmt.Errorf("resolution: %w: %d peaks, %d widths",
			linfit.ErrLengthMismatch, len(peakCh), len(widthCh))
	}

	if err := checkWidths(widthCh); err != nil {
		return Result{}, err
	}

	res, err := fitEnergy(cal.Energies(nil, peakCh), cal.Widths(nil, widthCh))
	if err != nil {
		return Result{}, err
	}

	if cal.HasErrors {
		res.WidthErrs = make([]float64, len(widthCh))
		for i, w := range widthCh {
			res.WidthErrs[i] = cal.WidthErr(w)
		}
	}

	return res, nil
}

// FitEnergy fits the resolution law to peaks already expressed in energy
// units.
func FitEnergy(e, de []float64) (Result, error) {
	if len(e) != len(de) {
		return Result{}, fmt.Errorf("resolution: %w: %d peaks, %d widths",
			linfit.ErrLengthMismatch, len(e), len(de))
	}

	if err := checkWidths(de); err != nil {
		return Result{}, err
	}

	energies := make([]float64, len(e))
	widths := make([]float64, len(de))
	copy(energies, e)
	copy(widths, de)

	return fitEnergy(energies, widths)
}

// FWHM evaluates the fitted law at energy e. A negative ΔE² (possible below
// the lowest fitted peak) is clamped to zero.
func (r Result) FWHM(e float64) float64 {
	return math.Sqrt(math.Max(0, r.Fw*e+r.Noise))
}

// Relative returns FWHM(e)/e, the usual percent-resolution figure.
func (r Result) Relative(e float64) float64 {
	if e == 0 {
		return math.Inf(1)
	}

	return r.FWHM(e) / e
}

// fitEnergy owns energies and widths.
func fitEnergy(energies, widths []float64) (Result, error) {
	sq := make([]float64, len(widths))
	vecmath.MulBlock(sq, widths, widths)

	fit, err := linfit.Fit(energies, sq)
	if err != nil {
		return Result{}, fmt.Errorf("resolution: %w", err)
	}

	return Result{
		Fw:        fit.Slope,
		FwErr:     fit.SlopeErr,
		Noise:     fit.Intercept,
		NoiseErr:  fit.InterceptErr,
		HasErrors: fit.HasErrors,
		Energies:  energies,
		Widths:    widths,
		Fit:       fit,
	}, nil
}

func checkWidths(w []float64) error {
	for i, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: width[%d] = %v", ErrNegativeWidth, i, v)
		}
	}

	return nil
}
