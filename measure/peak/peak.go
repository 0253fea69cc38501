// Package peak locates photopeaks in multichannel-analyser spectra and
// measures their centroid and full width at half maximum.
//
// The search runs inside a channel window chosen around one photopeak. The
// spectrum can be smoothed with a Gaussian kernel first, which suppresses
// counting noise at the cost of broadening the peak by √(σ² + σₛ²). A linear
// background drawn between the window edges can be subtracted so that a peak
// sitting on a Compton continuum is measured from its own base.
//
// # Usage
//
//	p, err := peak.Find(counts, peak.Config{Lo: 280, Hi: 390, Sigma: 2})
//	fmt.Printf("channel %.1f, FWHM %.1f\n", p.Centroid, p.FWHM)
package peak

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/floats"
)

// Errors returned by this package.
var (
	ErrEmptySpectrum = errors.New("peak: spectrum is empty")
	ErrInvalidWindow = errors.New("peak: invalid channel window")
	ErrInvalidSigma  = errors.New("peak: smoothing sigma must be non-negative and finite")
	ErrNoPeak        = errors.New("peak: no peak with both half-maximum crossings in window")
)

// kernelSpan is the half-width of the smoothing kernel in units of sigma.
const kernelSpan = 4.0

// Config selects the search window and preprocessing.
type Config struct {
	Lo, Hi int // channel window [Lo, Hi); Hi == 0 means the end of the spectrum

	Sigma              float64 // Gaussian smoothing width in channels, 0 disables
	SubtractBackground bool    // subtract a straight line through the window edges
}

// Peak describes one photopeak.
type Peak struct {
	Centroid   float64 // counts-weighted mean channel inside the FWHM
	MaxChannel int     // channel of the maximum
	Height     float64 // net counts at MaxChannel
	Background float64 // subtracted continuum at MaxChannel, 0 without subtraction
	FWHM       float64 // in channels
	Left       float64 // interpolated left half-maximum crossing
	Right      float64 // interpolated right half-maximum crossing
	Area       float64 // net counts summed between the crossings
}

// Find locates the highest peak inside the configured window.
func Find(counts []float64, cfg Config) (Peak, error) {
	if len(counts) == 0 {
		return Peak{}, ErrEmptySpectrum
	}

	lo, hi := cfg.Lo, cfg.Hi
	if hi == 0 {
		hi = len(counts)
	}

	if lo < 0 || hi > len(counts) || hi-lo < 3 {
		return Peak{}, fmt.Errorf("%w: [%d, %d) in %d channels", ErrInvalidWindow, cfg.Lo, cfg.Hi, len(counts))
	}

	data := counts
	if cfg.Sigma != 0 {
		var err error

		data, err = Smooth(counts, cfg.Sigma)
		if err != nil {
			return Peak{}, err
		}
	}

	net := make([]float64, hi-lo)
	copy(net, data[lo:hi])

	var base, slope float64
	if cfg.SubtractBackground {
		base, slope = subtractLine(net)
	}

	p, err := measure(net, lo)
	if err != nil {
		return Peak{}, err
	}

	p.Background = base + slope*float64(p.MaxChannel-lo)

	return p, nil
}

// Smooth convolves counts with a unit-area Gaussian of width sigma channels.
// The result has the same length as counts and is centred on it.
func Smooth(counts []float64, sigma float64) ([]float64, error) {
	if len(counts) == 0 {
		return nil, ErrEmptySpectrum
	}

	if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSigma, sigma)
	}

	if sigma == 0 {
		out := make([]float64, len(counts))
		copy(out, counts)

		return out, nil
	}

	kernel := gaussianKernel(sigma)
	half := len(kernel) / 2

	full, err := convolveFFT(counts, kernel)
	if err != nil {
		return nil, err
	}

	return full[half : half+len(counts)], nil
}

// measure runs the half-maximum search on a background-corrected window
// whose first element is channel offset.
func measure(net []float64, offset int) (Peak, error) {
	maxIdx := floats.MaxIdx(net)
	height := net[maxIdx]

	if !(height > 0) {
		return Peak{}, fmt.Errorf("%w: maximum %v at channel %d", ErrNoPeak, height, offset+maxIdx)
	}

	half := height / 2

	i := maxIdx
	for i > 0 && net[i] >= half {
		i--
	}

	if net[i] >= half {
		return Peak{}, fmt.Errorf("%w: left side does not fall below half maximum", ErrNoPeak)
	}

	left := float64(i) + (half-net[i])/(net[i+1]-net[i])

	j := maxIdx
	for j < len(net)-1 && net[j] >= half {
		j++
	}

	if net[j] >= half {
		return Peak{}, fmt.Errorf("%w: right side does not fall below half maximum", ErrNoPeak)
	}

	right := float64(j-1) + (net[j-1]-half)/(net[j-1]-net[j])

	var sum, moment float64

	for k := i + 1; k < j; k++ {
		sum += net[k]
		moment += float64(k) * net[k]
	}

	off := float64(offset)

	return Peak{
		Centroid:   off + moment/sum,
		MaxChannel: offset + maxIdx,
		Height:     height,
		FWHM:       right - left,
		Left:       off + left,
		Right:      off + right,
		Area:       sum,
	}, nil
}

// subtractLine removes the straight line through the first and last element
// and returns its value at the first element and its slope per channel.
func subtractLine(v []float64) (float64, float64) {
	n := len(v)
	a, b := v[0], v[n-1]
	step := (b - a) / float64(n-1)

	for i := range v {
		v[i] -= a + step*float64(i)
	}

	return a, step
}

func gaussianKernel(sigma float64) []float64 {
	half := int(math.Ceil(kernelSpan * sigma))
	k := make([]float64, 2*half+1)

	for i := range k {
		x := float64(i-half) / sigma
		k[i] = math.Exp(-0.5 * x * x)
	}

	floats.Scale(1/floats.Sum(k), k)

	return k
}

// convolveFFT returns the full linear convolution of a and b.
func convolveFFT(a, b []float64) ([]float64, error) {
	n := len(a)
	m := len(b)
	fftSize := nextPowerOf2(n + m - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("peak: failed to create FFT plan: %w", err)
	}

	aPadded := make([]complex128, fftSize)
	bPadded := make([]complex128, fftSize)

	for i, v := range a {
		aPadded[i] = complex(v, 0)
	}

	for i, v := range b {
		bPadded[i] = complex(v, 0)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)

	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("peak: forward FFT failed: %w", err)
	}

	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("peak: forward FFT failed: %w", err)
	}

	for i := range aFreq {
		aFreq[i] *= bFreq[i]
	}

	out := make([]complex128, fftSize)
	if err := plan.Inverse(out, aFreq); err != nil {
		return nil, fmt.Errorf("peak: inverse FFT failed: %w", err)
	}

	result := make([]float64, n+m-1)
	for i := range result {
		result[i] = real(out[i])
	}

	return result, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}

	return p
}
