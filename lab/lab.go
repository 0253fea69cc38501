// Package lab reads a detector-lab dataset and runs every analysis it holds.
//
// A dataset is a JSON document with up to five sections:
//
//	{
//	  "gain":        {"bias_voltage": [...], "pulse_height": [...]},
//	  "isotopes":    [{"name": "Cs-137", "energies": [0.662]}],
//	  "calibration": {"channel": [...], "energy": [...]},
//	  "resolution":  {"peak_channel": [...], "fwhm_channel": [...]},
//	  "spectrum":    {"counts": [...], "windows": [{"lo": 280, "hi": 390}], "sigma": 2}
//	}
//
// Sections that are absent are skipped. The resolution section is converted
// with the calibration and therefore requires it. A spectrum section yields
// one measured peak per window; without an explicit resolution section two or
// more of those peaks feed the resolution fit.
package lab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-detector/measure/calib"
	"github.com/cwbudde/algo-detector/measure/compton"
	"github.com/cwbudde/algo-detector/measure/gain"
	"github.com/cwbudde/algo-detector/measure/peak"
	"github.com/cwbudde/algo-detector/measure/resolution"
)

// Errors returned by this package.
var (
	ErrEmptyDataset    = errors.New("lab: dataset has no sections")
	ErrNeedCalibration = errors.New("lab: resolution section requires a calibration section")
	ErrNoWindows       = errors.New("lab: spectrum section needs at least one window")
)

// GainData holds bias voltages and the pulse heights measured at them.
type GainData struct {
	BiasVoltage []float64 `json:"bias_voltage"`
	PulseHeight []float64 `json:"pulse_height"`
}

// IsotopeData lists the photopeak energies (MeV) of one source.
type IsotopeData struct {
	Name     string    `json:"name"`
	Energies []float64 `json:"energies"`
}

// CalibrationData pairs reference peak channels with known energies (MeV).
type CalibrationData struct {
	Channel []float64 `json:"channel"`
	Energy  []float64 `json:"energy"`
}

// ResolutionData holds peak positions and FWHMs in channels.
type ResolutionData struct {
	PeakChannel []float64 `json:"peak_channel"`
	FWHMChannel []float64 `json:"fwhm_channel"`
}

// Window is a channel range [Lo, Hi) around one photopeak.
type Window struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// SpectrumData is a raw multichannel-analyser spectrum with the windows to
// search for photopeaks.
type SpectrumData struct {
	Counts             []float64 `json:"counts"`
	Windows            []Window  `json:"windows"`
	Sigma              float64   `json:"sigma"`
	SubtractBackground bool      `json:"subtract_background"`
}

// Dataset is the JSON schema of a lab dataset.
type Dataset struct {
	Gain        *GainData        `json:"gain,omitempty"`
	Isotopes    []IsotopeData    `json:"isotopes,omitempty"`
	Calibration *CalibrationData `json:"calibration,omitempty"`
	Resolution  *ResolutionData  `json:"resolution,omitempty"`
	Spectrum    *SpectrumData    `json:"spectrum,omitempty"`
}

// Report collects the results of every section that was present.
type Report struct {
	Dataset Dataset

	Gain        *gain.Result
	Compton     []compton.Row
	Calibration *calib.Calibration
	Resolution  *resolution.Result
	Peaks       []peak.Peak
}

// Load decodes a dataset. Unknown fields are rejected so that a misspelt
// section is not silently skipped.
func Load(r io.Reader) (Dataset, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("lab: parse dataset: %w", err)
	}

	return ds, nil
}

// LoadFile reads and decodes the dataset at path.
func LoadFile(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("lab: read dataset: %w", err)
	}

	return Load(bytes.NewReader(data))
}

// Table converts the isotope section into a compton.Table.
func (ds Dataset) Table() compton.Table {
	t := make(compton.Table, len(ds.Isotopes))
	for i, iso := range ds.Isotopes {
		t[i] = compton.Isotope{Name: iso.Name, Energies: iso.Energies}
	}

	return t
}

// Analyze runs every section of ds. The first failing section aborts the
// analysis; its error names the section or the package that rejected it.
func Analyze(ds Dataset) (Report, error) {
	if ds.Gain == nil && len(ds.Isotopes) == 0 && ds.Calibration == nil && ds.Resolution == nil && ds.Spectrum == nil {
		return Report{}, ErrEmptyDataset
	}

	if ds.Resolution != nil && ds.Calibration == nil {
		return Report{}, ErrNeedCalibration
	}

	rep := Report{Dataset: ds}

	if ds.Spectrum != nil {
		peaks, err := findPeaks(ds.Spectrum)
		if err != nil {
			return Report{}, fmt.Errorf("lab: spectrum: %w", err)
		}

		rep.Peaks = peaks

		if ds.Resolution == nil && ds.Calibration != nil && len(peaks) >= 2 {
			rd := &ResolutionData{}
			for _, p := range peaks {
				rd.PeakChannel = append(rd.PeakChannel, p.Centroid)
				rd.FWHMChannel = append(rd.FWHMChannel, p.FWHM)
			}

			ds.Resolution = rd
			rep.Dataset.Resolution = rd
		}
	}

	if ds.Gain != nil {
		res, err := gain.Fit(ds.Gain.BiasVoltage, ds.Gain.PulseHeight)
		if err != nil {
			return Report{}, fmt.Errorf("lab: %w", err)
		}

		rep.Gain = &res
	}

	if len(ds.Isotopes) > 0 {
		rows, err := compton.Rows(ds.Table())
		if err != nil {
			return Report{}, fmt.Errorf("lab: isotopes: %w", err)
		}

		rep.Compton = rows
	}

	if ds.Calibration != nil {
		cal, err := calib.Fit(ds.Calibration.Channel, ds.Calibration.Energy)
		if err != nil {
			return Report{}, fmt.Errorf("lab: %w", err)
		}

		rep.Calibration = &cal
	}

	if ds.Resolution != nil {
		res, err := resolution.Fit(*rep.Calibration, ds.Resolution.PeakChannel, ds.Resolution.FWHMChannel)
		if err != nil {
			return Report{}, fmt.Errorf("lab: %w", err)
		}

		rep.Resolution = &res
	}

	return rep, nil
}

func findPeaks(sd *SpectrumData) ([]peak.Peak, error) {
	if len(sd.Windows) == 0 {
		return nil, ErrNoWindows
	}

	peaks := make([]peak.Peak, len(sd.Windows))

	for i, w := range sd.Windows {
		p, err := peak.Find(sd.Counts, peak.Config{
			Lo:                 w.Lo,
			Hi:                 w.Hi,
			Sigma:              sd.Sigma,
			SubtractBackground: sd.SubtractBackground,
		})
		if err != nil {
			return nil, fmt.Errorf("window %d [%d, %d): %w", i, w.Lo, w.Hi, err)
		}

		peaks[i] = p
	}

	return peaks, nil
}
