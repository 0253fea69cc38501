// Package report prints analysis results as fixed-width text tables.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-detector/measure/calib"
	"github.com/cwbudde/algo-detector/measure/compton"
	"github.com/cwbudde/algo-detector/measure/gain"
	"github.com/cwbudde/algo-detector/measure/peak"
	"github.com/cwbudde/algo-detector/measure/resolution"
)

// table wraps a tabwriter and keeps the first write error.
type table struct {
	tw  *tabwriter.Writer
	err error
}

func newTable(w io.Writer) *table {
	return &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (t *table) row(format string, args ...any) {
	if t.err != nil {
		return
	}

	_, t.err = fmt.Fprintf(t.tw, format+"\n", args...)
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}

	return t.tw.Flush()
}

// pm formats v ± e, or v alone when there is no error estimate.
func pm(format string, v, e float64, has bool) string {
	if !has {
		return fmt.Sprintf(format+" (no error estimate)", v)
	}

	return fmt.Sprintf(format+" ± "+format, v, e)
}

// WriteCompton prints one line per isotope photopeak.
func WriteCompton(w io.Writer, rows []compton.Row) error {
	t := newTable(w)
	t.row("Isotope\tE [MeV]\tEdge [MeV]\tBackscatter [MeV]")
	t.row("-------\t-------\t----------\t-----------------")

	for _, r := range rows {
		t.row("%s\t%.3f\t%.3f\t%.3f", r.Isotope, r.Energy, r.Edge, r.Backscatter)
	}

	return t.flush()
}

// WriteGain prints the gain-law samples and the fitted exponent.
func WriteGain(w io.Writer, bias, pulse []float64, res gain.Result) error {
	t := newTable(w)
	t.row("Bias [V]\tPulse\tFit\tResidual")
	t.row("--------\t-----\t---\t--------")

	for i := range bias {
		fit := res.PulseHeight(bias[i])
		t.row("%.1f\t%.4g\t%.4g\t%+.2f%%", bias[i], pulse[i], fit, 100*(pulse[i]-fit)/fit)
	}

	t.row("")
	t.row("Gain exponent n\t%s", pm("%.3f", res.Exponent, res.ExponentErr, res.HasErrors))
	t.row("Prefactor A\t%.4g", res.Prefactor)

	return t.flush()
}

// WriteCalibration prints the reference peaks against the calibration.
func WriteCalibration(w io.Writer, channel, energy []float64, cal calib.Calibration) error {
	t := newTable(w)
	t.row("Channel\tE known [MeV]\tE fit [MeV]\tResidual [keV]\tσE [keV]")
	t.row("-------\t-------------\t-----------\t--------------\t--------")

	for i, ch := range channel {
		e := cal.Energy(ch)
		t.row("%.1f\t%.4f\t%.4f\t%+.2f\t%.2f", ch, energy[i], e, 1000*(energy[i]-e), 1000*cal.EnergyErrCov(ch))
	}

	t.row("")
	t.row("Slope [keV/ch]\t%s", pm("%.5f", 1000*cal.Slope, 1000*cal.SlopeErr, cal.HasErrors))
	t.row("Intercept [keV]\t%s", pm("%.3f", 1000*cal.Intercept, 1000*cal.InterceptErr, cal.HasErrors))

	return t.flush()
}

// WriteResolution prints calibrated peaks and the fitted resolution law.
func WriteResolution(w io.Writer, res resolution.Result) error {
	t := newTable(w)
	t.row("E [MeV]\tΔE [keV]\tΔE² [keV²]\tFit [keV²]\tΔE/E")
	t.row("-------\t--------\t----------\t----------\t----")

	for i, e := range res.Energies {
		de := res.Widths[i]
		t.row("%.4f\t%.2f\t%.1f\t%.1f\t%.2f%%", e, 1000*de, 1e6*de*de, 1e6*res.Fit.Predict(e), 100*de/e)
	}

	t.row("")
	t.row("Fw [keV]\t%s", pm("%.4f", 1000*res.Fw, 1000*res.FwErr, res.HasErrors))
	t.row("Noise [keV²]\t%s", pm("%.1f", 1e6*res.Noise, 1e6*res.NoiseErr, res.HasErrors))

	return t.flush()
}

// WritePeaks prints photopeaks measured in a raw spectrum.
func WritePeaks(w io.Writer, peaks []peak.Peak) error {
	t := newTable(w)
	t.row("#\tCentroid [ch]\tFWHM [ch]\tHeight\tArea")
	t.row("-\t-------------\t---------\t------\t----")

	for i, p := range peaks {
		t.row("%d\t%.2f\t%.2f\t%.1f\t%.0f", i+1, p.Centroid, p.FWHM, p.Height, p.Area)
	}

	return t.flush()
}
