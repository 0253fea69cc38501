package linfit_test

import (
	"fmt"

	"github.com/cwbudde/algo-detector/stats/linfit"
)

func ExampleFit() {
	res, err := linfit.Fit(
		[]float64{0, 1, 2, 3, 4},
		[]float64{1.1, 2.8, 5, 7.2, 8.9},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("slope=%.3f±%.3f intercept=%.3f±%.3f\n",
		res.Slope, res.SlopeErr, res.Intercept, res.InterceptErr)

	// Output:
	// slope=2.000±0.058 intercept=1.000±0.141
}

func ExampleFit_degenerate() {
	_, err := linfit.Fit([]float64{3, 3, 3}, []float64{1, 2, 3})
	fmt.Println(err)

	// Output:
	// linfit: all x values are identical: x = 3 for all 3 points
}
