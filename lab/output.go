package lab

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/cwbudde/algo-detector/chart"
	"github.com/cwbudde/algo-detector/report"
)

// WriteText prints a table for every analysed section.
func (r Report) WriteText(w io.Writer) error {
	sections := []struct {
		title string
		ok    bool
		write func() error
	}{
		{"PMT gain law", r.Gain != nil, func() error {
			return report.WriteGain(w, r.Dataset.Gain.BiasVoltage, r.Dataset.Gain.PulseHeight, *r.Gain)
		}},
		{"Compton edges", r.Compton != nil, func() error {
			return report.WriteCompton(w, r.Compton)
		}},
		{"Spectrum peaks", r.Peaks != nil, func() error {
			return report.WritePeaks(w, r.Peaks)
		}},
		{"Energy calibration", r.Calibration != nil, func() error {
			return report.WriteCalibration(w, r.Dataset.Calibration.Channel, r.Dataset.Calibration.Energy, *r.Calibration)
		}},
		{"Energy resolution", r.Resolution != nil, func() error {
			return report.WriteResolution(w, *r.Resolution)
		}},
	}

	first := true

	for _, s := range sections {
		if !s.ok {
			continue
		}

		sep := "\n"
		if first {
			sep = ""
			first = false
		}

		if _, err := fmt.Fprintf(w, "%s== %s ==\n", sep, s.title); err != nil {
			return err
		}

		if err := s.write(); err != nil {
			return fmt.Errorf("lab: write %s: %w", s.title, err)
		}
	}

	return nil
}

// Figures builds one figure per analysed section, keyed by a file base name.
func (r Report) Figures() (map[string]*chart.Figure, error) {
	figs := make(map[string]*chart.Figure)

	add := func(name string, f *chart.Figure, err error) error {
		if err != nil {
			return fmt.Errorf("lab: %s figure: %w", name, err)
		}

		figs[name] = f

		return nil
	}

	if r.Gain != nil {
		f, err := chart.Gain(r.Dataset.Gain.BiasVoltage, r.Dataset.Gain.PulseHeight, *r.Gain)
		if err := add("gain", f, err); err != nil {
			return nil, err
		}
	}

	if r.Compton != nil {
		f, err := chart.Compton(r.Compton)
		if err := add("compton", f, err); err != nil {
			return nil, err
		}
	}

	if r.Peaks != nil {
		f, err := chart.Spectrum(r.Dataset.Spectrum.Counts, r.Peaks)
		if err := add("spectrum", f, err); err != nil {
			return nil, err
		}
	}

	if r.Calibration != nil {
		f, err := chart.Calibration(r.Dataset.Calibration.Channel, r.Dataset.Calibration.Energy, *r.Calibration)
		if err := add("calibration", f, err); err != nil {
			return nil, err
		}
	}

	if r.Resolution != nil {
		f, err := chart.Resolution(*r.Resolution)
		if err := add("resolution", f, err); err != nil {
			return nil, err
		}
	}

	return figs, nil
}

// SavePlots writes every figure to dir as <name>.<ext> and returns the paths
// written.
func (r Report) SavePlots(dir, ext string) ([]string, error) {
	figs, err := r.Figures()
	if err != nil {
		return nil, err
	}

	var paths []string

	for _, name := range []string{"gain", "compton", "spectrum", "calibration", "resolution"} {
		f, ok := figs[name]
		if !ok {
			continue
		}

		path := filepath.Join(dir, name+"."+ext)
		if err := f.Save(path); err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}
