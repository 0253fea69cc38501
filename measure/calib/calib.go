// Package calib maps multichannel-analyser channels to energies with a
// linear calibration E = Slope·channel + Intercept.
//
// Positions (peak channels) go through the full affine map. Widths (FWHM) are
// differences of two positions, so the intercept cancels and they scale by the
// slope alone: ΔE = |Slope|·Δchannel.
package calib

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-detector/stats/linfit"
)

// ErrFlat is returned when inverting a calibration with zero slope.
var ErrFlat = errors.New("calib: calibration slope is zero")

// Calibration is a linear channel-to-energy map.
type Calibration struct {
	Slope     float64 // energy per channel
	Intercept float64 // energy at channel 0

	SlopeErr     float64
	InterceptErr float64
	Covariance   float64
	HasErrors    bool

	// Fit is the line fit the calibration came from. Zero for New.
	Fit linfit.Result
}

// New returns a calibration with known parameters and no uncertainty.
func New(slope, intercept float64) Calibration {
	return Calibration{Slope: slope, Intercept: intercept}
}

// Fit fits energy against channel for reference peaks of known energy.
// At least two peaks are needed; three or more give parameter errors.
func Fit(channel, energy []float64) (Calibration, error) {
	fit, err := linfit.Fit(channel, energy)
	if err != nil {
		return Calibration{}, fmt.Errorf("calib: %w", err)
	}

	return Calibration{
		Slope:        fit.Slope,
		Intercept:    fit.Intercept,
		SlopeErr:     fit.SlopeErr,
		InterceptErr: fit.InterceptErr,
		Covariance:   fit.Covariance,
		HasErrors:    fit.HasErrors,
		Fit:          fit,
	}, nil
}

// Energy converts a channel position to energy.
func (c Calibration) Energy(ch float64) float64 {
	return c.Slope*ch + c.Intercept
}

// Energies converts every channel in ch and writes the energies to dst.
// If dst is too short a new slice is allocated.
func (c Calibration) Energies(dst, ch []float64) []float64 {
	dst = resize(dst, len(ch))
	vecmath.ScaleBlock(dst, ch, c.Slope)

	for i := range dst {
		dst[i] += c.Intercept
	}

	return dst
}

// Channel is the inverse of Energy.
func (c Calibration) Channel(e float64) (float64, error) {
	if c.Slope == 0 {
		return 0, ErrFlat
	}

	return (e - c.Intercept) / c.Slope, nil
}

// Width converts a width in channels to a width in energy.
func (c Calibration) Width(w float64) float64 {
	return math.Abs(c.Slope) * w
}

// Widths converts every width in w and writes the result to dst.
// If dst is too short a new slice is allocated.
func (c Calibration) Widths(dst, w []float64) []float64 {
	dst = resize(dst, len(w))
	vecmath.ScaleBlock(dst, w, math.Abs(c.Slope))

	return dst
}

// EnergyErr is the first-order uncertainty of Energy(ch) from the parameter
// errors, summed in quadrature with the slope-intercept covariance ignored:
//
//	σE = √((ch·σm)² + σb²)
func (c Calibration) EnergyErr(ch float64) float64 {
	return math.Hypot(ch*c.SlopeErr, c.InterceptErr)
}

// EnergyErrCov is EnergyErr with the slope-intercept covariance included,
// σE² = gᵀ C g with g = (ch, 1).
func (c Calibration) EnergyErrCov(ch float64) float64 {
	if !c.HasErrors {
		return c.EnergyErr(ch)
	}

	cov := mat.NewSymDense(2, []float64{
		c.SlopeErr * c.SlopeErr, c.Covariance,
		c.Covariance, c.InterceptErr * c.InterceptErr,
	})
	g := mat.NewVecDense(2, []float64{ch, 1})

	return math.Sqrt(math.Max(0, mat.Inner(g, cov, g)))
}

// WidthErr is the uncertainty of Width(w) from the slope error.
func (c Calibration) WidthErr(w float64) float64 {
	return math.Abs(w) * c.SlopeErr
}

func resize(dst []float64, n int) []float64 {
	if len(dst) < n {
		return make([]float64, n)
	}

	return dst[:n]
}
