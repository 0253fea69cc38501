// Package linfit provides the ordinary least-squares straight-line fit shared
// by every fitting step in this module.
//
// For aligned samples (xᵢ, yᵢ) the fit returns slope m and intercept b that
// minimize Σ(yᵢ − (m·xᵢ + b))², together with their standard errors:
//
//	s²   = Σrᵢ² / (n − 2)
//	Sxx  = Σ(xᵢ − x̄)²
//	σm   = √(s² / Sxx)
//	σb   = √(s² · (1/n + x̄²/Sxx))
//	cov  = −x̄ · s² / Sxx
//
// Two points determine the line but leave no degrees of freedom, so the
// standard errors are reported as absent (HasErrors == false) rather than NaN.
// Fewer than two points or a constant x column are rejected before any
// division takes place.
//
// # Usage
//
//	res, err := linfit.Fit(x, y)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("m = %.3f ± %.3f\n", res.Slope, res.SlopeErr)
package linfit
