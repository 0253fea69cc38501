package compton_test

import (
	"fmt"

	"github.com/cwbudde/algo-detector/measure/compton"
)

func ExampleEdge() {
	e, _ := compton.Edge(0.662)
	fmt.Printf("Cs-137 edge: %.3f MeV\n", e)

	// Output:
	// Cs-137 edge: 0.478 MeV
}

func ExampleRows() {
	rows, err := compton.Rows(compton.Table{
		{Name: "Cs-137", Energies: []float64{0.662}},
		{Name: "Na-22", Energies: []float64{0.511, 1.275}},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, r := range rows {
		fmt.Printf("%-7s %.3f %.3f\n", r.Isotope, r.Energy, r.Edge)
	}

	// Output:
	// Cs-137  0.662 0.478
	// Na-22   0.511 0.341
	// Na-22   1.275 1.062
}
