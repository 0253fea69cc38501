// Package compton computes Compton-edge and backscatter-peak energies for
// gamma-ray photopeaks.
//
// A photon of energy E scattering through 180° hands the electron the largest
// possible recoil energy, the Compton edge:
//
//	E_edge = E · 2E / (mₑc² + 2E)
//
// The back-scattered photon itself carries E − E_edge and shows up as the
// backscatter peak. All energies are in MeV.
package compton

import (
	"errors"
	"fmt"
	"math"
)

// ElectronRestEnergy is mₑc² in MeV.
const ElectronRestEnergy = 0.511

// Errors returned by this package.
var (
	ErrInvalidEnergy = errors.New("compton: photopeak energy must be positive and finite")
	ErrEmptyIsotope  = errors.New("compton: isotope needs a name and at least one energy")
)

// Isotope lists the photopeak energies (MeV) of one source.
type Isotope struct {
	Name     string
	Energies []float64
}

// Table is an ordered list of isotopes. Order is preserved in Rows.
type Table []Isotope

// Row is one line of the Compton table.
type Row struct {
	Isotope     string
	Energy      float64 // photopeak
	Edge        float64 // Compton edge
	Backscatter float64 // backscatter peak
}

// Edge returns the Compton-edge energy for a photopeak at e MeV.
func Edge(e float64) (float64, error) {
	if err := validate(e); err != nil {
		return 0, err
	}

	return edge(e), nil
}

// Backscatter returns the energy of a photon of energy e after scattering
// through 180°.
func Backscatter(e float64) (float64, error) {
	if err := validate(e); err != nil {
		return 0, err
	}

	return backscatter(e), nil
}

// Rows evaluates every (isotope, energy) entry of t.
func Rows(t Table) ([]Row, error) {
	var n int
	for _, iso := range t {
		n += len(iso.Energies)
	}

	rows := make([]Row, 0, n)

	for i, iso := range t {
		if iso.Name == "" || len(iso.Energies) == 0 {
			return nil, fmt.Errorf("%w: entry %d (%q)", ErrEmptyIsotope, i, iso.Name)
		}

		for _, e := range iso.Energies {
			if err := validate(e); err != nil {
				return nil, fmt.Errorf("%s: %w", iso.Name, err)
			}

			rows = append(rows, Row{
				Isotope:     iso.Name,
				Energy:      e,
				Edge:        edge(e),
				Backscatter: backscatter(e),
			})
		}
	}

	return rows, nil
}

func validate(e float64) error {
	if !(e > 0) || math.IsInf(e, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidEnergy, e)
	}

	return nil
}

// edge computes E_edge (unchecked) in the form E / (1 + mₑc²/2E), which
// does not overflow for any finite E.
func edge(e float64) float64 {
	return e / (1 + ElectronRestEnergy/(2*e))
}

// backscatter computes E·mₑc²/(mₑc² + 2E) (unchecked).
func backscatter(e float64) float64 {
	return e * ElectronRestEnergy / (ElectronRestEnergy + 2*e)
}
