// Package chart renders scatter points with error bars and fitted curves on
// linear or logarithmic axes.
//
// A Figure only records series; the gonum plot is built when Plot or Save is
// called, so axis scales may be set in any order.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Errors returned by Figure methods.
var (
	ErrLengthMismatch = errors.New("chart: series lengths differ")
	ErrEmptySeries    = errors.New("chart: series has no points")
	ErrInvalidRange   = errors.New("chart: line range must satisfy lo < hi")
	ErrLogDomain      = errors.New("chart: non-positive value on logarithmic axis")
)

// Default output size.
const (
	DefaultWidth  = 12 * vg.Centimeter
	DefaultHeight = 9 * vg.Centimeter
)

const lineSamples = 200

var palette = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
}

type pointSeries struct {
	name string
	xy   plotter.XYs
	yerr plotter.YErrors // nil without error bars
}

type lineSeries struct {
	name   string
	f      func(float64) float64
	lo, hi float64
	xy     plotter.XYs // fixed polyline when f is nil
}

// errorPoints satisfies plotter.XYer and plotter.YErrorer.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Figure collects series for one plot.
type Figure struct {
	Title  string
	XLabel string
	YLabel string

	logX, logY bool
	points     []pointSeries
	lines      []lineSeries
}

// New creates an empty figure.
func New(title, xLabel, yLabel string) *Figure {
	return &Figure{Title: title, XLabel: xLabel, YLabel: yLabel}
}

// LogScale switches the axes between linear and logarithmic.
func (f *Figure) LogScale(x, y bool) *Figure {
	f.logX, f.logY = x, y
	return f
}

// Points adds a scatter series. yerr may be nil; otherwise it gives the
// symmetric y error of every point.
func (f *Figure) Points(name string, xs, ys, yerr []float64) error {
	if len(xs) != len(ys) || (yerr != nil && len(yerr) != len(xs)) {
		return fmt.Errorf("%w: %q has %d x, %d y, %d errors", ErrLengthMismatch, name, len(xs), len(ys), len(yerr))
	}

	if len(xs) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptySeries, name)
	}

	s := pointSeries{name: name, xy: make(plotter.XYs, len(xs))}
	for i := range xs {
		s.xy[i].X = xs[i]
		s.xy[i].Y = ys[i]
	}

	if yerr != nil {
		s.yerr = make(plotter.YErrors, len(yerr))
		for i, e := range yerr {
			s.yerr[i].Low = e
			s.yerr[i].High = e
		}
	}

	f.points = append(f.points, s)

	return nil
}

// Line adds the curve y = fn(x) drawn over [lo, hi].
func (f *Figure) Line(name string, fn func(float64) float64, lo, hi float64) error {
	if !(lo < hi) {
		return fmt.Errorf("%w: %q over [%v, %v]", ErrInvalidRange, name, lo, hi)
	}

	f.lines = append(f.lines, lineSeries{name: name, f: fn, lo: lo, hi: hi})

	return nil
}

// Trace adds a polyline through the given points.
func (f *Figure) Trace(name string, xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %q has %d x, %d y", ErrLengthMismatch, name, len(xs), len(ys))
	}

	if len(xs) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptySeries, name)
	}

	xy := make(plotter.XYs, len(xs))
	for i := range xs {
		xy[i].X = xs[i]
		xy[i].Y = ys[i]
	}

	f.lines = append(f.lines, lineSeries{name: name, xy: xy})

	return nil
}

// Plot builds the gonum plot.
func (f *Figure) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if f.logX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	if f.logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	n := 0

	for _, s := range f.points {
		if err := f.checkDomain(s.name, s.xy); err != nil {
			return nil, err
		}

		c := palette[n%len(palette)]
		n++

		sc, err := plotter.NewScatter(s.xy)
		if err != nil {
			return nil, fmt.Errorf("chart: %q: %w", s.name, err)
		}

		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}

		if s.yerr != nil {
			eb, err := plotter.NewYErrorBars(errorPoints{XYs: s.xy, YErrors: s.yerr})
			if err != nil {
				return nil, fmt.Errorf("chart: %q: %w", s.name, err)
			}

			eb.LineStyle.Color = c
			p.Add(eb)
		}

		p.Add(sc)
		p.Legend.Add(s.name, sc)
	}

	for _, s := range f.lines {
		xy := f.sample(s)
		if err := f.checkDomain(s.name, xy); err != nil {
			return nil, err
		}

		l, err := plotter.NewLine(xy)
		if err != nil {
			return nil, fmt.Errorf("chart: %q: %w", s.name, err)
		}

		l.LineStyle.Color = palette[n%len(palette)]
		l.LineStyle.Width = vg.Points(1.5)
		n++

		p.Add(l)
		p.Legend.Add(s.name, l)
	}

	return p, nil
}

// Save renders the figure to path at the default size. The image format
// follows the file extension (.png, .svg, .pdf, ...).
func (f *Figure) Save(path string) error {
	return f.SaveSize(path, DefaultWidth, DefaultHeight)
}

// SaveSize renders the figure to path at the given size.
func (f *Figure) SaveSize(path string, w, h vg.Length) error {
	p, err := f.Plot()
	if err != nil {
		return err
	}

	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}

	return nil
}

// sample evaluates a line, geometrically spaced on a logarithmic x axis.
func (f *Figure) sample(s lineSeries) plotter.XYs {
	if s.f == nil {
		return s.xy
	}

	xy := make(plotter.XYs, lineSamples)
	logSpaced := f.logX && s.lo > 0

	for i := range xy {
		t := float64(i) / float64(lineSamples-1)

		var x float64
		if logSpaced {
			x = s.lo * math.Pow(s.hi/s.lo, t)
		} else {
			x = s.lo + t*(s.hi-s.lo)
		}

		xy[i].X = x
		xy[i].Y = s.f(x)
	}

	return xy
}

func (f *Figure) checkDomain(name string, xy plotter.XYs) error {
	for i, pt := range xy {
		if f.logX && !(pt.X > 0) {
			return fmt.Errorf("%w: %q x[%d] = %v", ErrLogDomain, name, i, pt.X)
		}

		if f.logY && !(pt.Y > 0) {
			return fmt.Errorf("%w: %q y[%d] = %v", ErrLogDomain, name, i, pt.Y)
		}
	}

	return nil
}
