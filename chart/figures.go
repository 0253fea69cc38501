package chart

import (
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-detector/measure/calib"
	"github.com/cwbudde/algo-detector/measure/compton"
	"github.com/cwbudde/algo-detector/measure/gain"
	"github.com/cwbudde/algo-detector/measure/peak"
	"github.com/cwbudde/algo-detector/measure/resolution"
)

// Gain plots pulse height against bias voltage on log-log axes with the
// fitted power law. Pulse heights carry no uncertainty in the dataset, so
// the points have no error bars.
func Gain(bias, pulse []float64, res gain.Result) (*Figure, error) {
	f := New("PMT gain law", "Bias voltage [V]", "Pulse height").LogScale(true, true)

	if err := f.Points("measured", bias, pulse, nil); err != nil {
		return nil, err
	}

	if err := f.Line("A·V^n", res.PulseHeight, floats.Min(bias), floats.Max(bias)); err != nil {
		return nil, err
	}

	return f, nil
}

// Compton plots the tabulated edges over the continuous edge curve.
func Compton(rows []compton.Row) (*Figure, error) {
	f := New("Compton edge", "Photopeak energy [MeV]", "Energy [MeV]")

	e := make([]float64, len(rows))
	edge := make([]float64, len(rows))
	bs := make([]float64, len(rows))

	for i, r := range rows {
		e[i], edge[i], bs[i] = r.Energy, r.Edge, r.Backscatter
	}

	if err := f.Points("Compton edge", e, edge, nil); err != nil {
		return nil, err
	}

	if err := f.Points("backscatter peak", e, bs, nil); err != nil {
		return nil, err
	}

	curve := func(x float64) float64 {
		v, err := compton.Edge(x)
		if err != nil {
			return 0
		}

		return v
	}

	if err := f.Line("edge formula", curve, 0.01, 1.1*floats.Max(e)); err != nil {
		return nil, err
	}

	return f, nil
}

// Calibration plots the reference peaks with the calibration line. With an
// error estimate each point gets the propagated energy uncertainty of the
// line at its channel.
func Calibration(channel, energy []float64, cal calib.Calibration) (*Figure, error) {
	f := New("Energy calibration", "Channel", "Energy [MeV]")

	var yerr []float64
	if cal.HasErrors {
		yerr = make([]float64, len(channel))
		for i, ch := range channel {
			yerr[i] = cal.EnergyErrCov(ch)
		}
	}

	if err := f.Points("reference peaks", channel, energy, yerr); err != nil {
		return nil, err
	}

	if err := f.Line("calibration", cal.Energy, 0, 1.1*floats.Max(channel)); err != nil {
		return nil, err
	}

	return f, nil
}

// Resolution plots ΔE² against E with the fitted resolution law. Widths
// converted through a calibration with an error estimate get error bars of
// 2·ΔE·σ(ΔE).
func Resolution(res resolution.Result) (*Figure, error) {
	f := New("Energy resolution", "E [MeV]", "ΔE² [MeV²]")

	sq := make([]float64, len(res.Widths))
	for i, w := range res.Widths {
		sq[i] = w * w
	}

	var yerr []float64
	if res.WidthErrs != nil {
		yerr = make([]float64, len(res.Widths))
		for i, w := range res.Widths {
			yerr[i] = 2 * w * res.WidthErrs[i]
		}
	}

	if err := f.Points("FWHM²", res.Energies, sq, yerr); err != nil {
		return nil, err
	}

	if err := f.Line("Fw·E + noise", res.Fit.Predict, 0, 1.1*floats.Max(res.Energies)); err != nil {
		return nil, err
	}

	return f, nil
}

// Spectrum plots raw counts per channel and marks each measured peak at its
// centroid and half maximum. Markers sit on the subtracted continuum so they
// line up with the raw trace.
func Spectrum(counts []float64, peaks []peak.Peak) (*Figure, error) {
	f := New("Pulse-height spectrum", "Channel", "Counts")

	ch := make([]float64, len(counts))
	for i := range ch {
		ch[i] = float64(i)
	}

	if err := f.Trace("counts", ch, counts); err != nil {
		return nil, err
	}

	if len(peaks) == 0 {
		return f, nil
	}

	var xs, ys []float64
	for _, p := range peaks {
		xs = append(xs, p.Left, p.Centroid, p.Right)
		top, half := p.Background+p.Height, p.Background+p.Height/2
		ys = append(ys, half, top, half)
	}

	if err := f.Points("peaks", xs, ys, nil); err != nil {
		return nil, err
	}

	return f, nil
}
