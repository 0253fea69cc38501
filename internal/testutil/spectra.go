package testutil

import (
	"math"
	"math/rand"
)

// Line describes one Gaussian photopeak in a synthetic spectrum.
type Line struct {
	Channel float64 // centre
	Sigma   float64 // standard deviation in channels
	Height  float64 // counts at the centre
}

// FWHM returns the full width at half maximum of the line.
func (l Line) FWHM() float64 {
	return 2 * math.Sqrt(2*math.Ln2) * l.Sigma
}

// Spectrum returns n channels holding a flat background plus the given lines.
func Spectrum(n int, background float64, lines ...Line) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = background

		for _, l := range lines {
			x := (float64(i) - l.Channel) / l.Sigma
			out[i] += l.Height * math.Exp(-0.5*x*x)
		}
	}
	return out
}

// Ramp returns n channels falling linearly from start to end, a crude
// Compton continuum under a photopeak.
func Ramp(n int, start, end float64) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude) with a
// fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Add returns the element-wise sum of equally long slices.
func Add(a []float64, more ...[]float64) []float64 {
	out := make([]float64, len(a))
	copy(out, a)
	for _, m := range more {
		for i := range out {
			out[i] += m[i]
		}
	}
	return out
}
