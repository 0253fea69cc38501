package peak

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-detector/internal/testutil"
)

func TestFindCleanGaussian(t *testing.T) {
	line := testutil.Line{Channel: 331.4, Sigma: 9, Height: 1200}
	counts := testutil.Spectrum(1024, 0, line)

	p, err := Find(counts, Config{Lo: 280, Hi: 390})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, "Centroid", p.Centroid, line.Channel, 0.1)
	testutil.RequireNear(t, "FWHM", p.FWHM, line.FWHM(), 0.1)

	if p.MaxChannel != 331 {
		t.Errorf("MaxChannel = %d, want 331", p.MaxChannel)
	}

	if p.Left >= p.Centroid || p.Right <= p.Centroid {
		t.Errorf("crossings (%v, %v) do not bracket centroid %v", p.Left, p.Right, p.Centroid)
	}

	if p.Area <= 0 {
		t.Errorf("Area = %v, want positive", p.Area)
	}
}

func TestFindOnContinuum(t *testing.T) {
	line := testutil.Line{Channel: 640, Sigma: 12, Height: 800}
	counts := testutil.Add(
		testutil.Spectrum(1024, 0, line),
		testutil.Ramp(1024, 300, 100),
	)

	raw, err := Find(counts, Config{Lo: 560, Hi: 720})
	if err != nil {
		t.Fatal(err)
	}

	net, err := Find(counts, Config{Lo: 560, Hi: 720, SubtractBackground: true})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, "net FWHM", net.FWHM, line.FWHM(), 0.2)
	testutil.RequireNear(t, "net Centroid", net.Centroid, line.Channel, 0.2)
	testutil.RequireNear(t, "net Height", net.Height, line.Height, 1)
	testutil.RequireNear(t, "net Background", net.Background, counts[net.MaxChannel]-line.Height, 1)
	testutil.RequireNear(t, "net Height+Background", net.Height+net.Background, counts[net.MaxChannel], 1e-9)

	if raw.Background != 0 {
		t.Errorf("raw Background = %v, want 0 without subtraction", raw.Background)
	}

	// Half of peak+continuum sits lower on the flanks, so the raw width is wider.
	if raw.FWHM <= net.FWHM {
		t.Errorf("raw FWHM %v <= net FWHM %v", raw.FWHM, net.FWHM)
	}
}

func TestFindSmoothedNoisyPeak(t *testing.T) {
	line := testutil.Line{Channel: 500, Sigma: 10, Height: 400}
	counts := testutil.Add(
		testutil.Spectrum(1024, 20, line),
		testutil.DeterministicNoise(3, 15, 1024),
	)

	const sigma = 3.0

	p, err := Find(counts, Config{Lo: 420, Hi: 580, Sigma: sigma, SubtractBackground: true})
	if err != nil {
		t.Fatal(err)
	}

	broadened := 2 * math.Sqrt(2*math.Ln2) * math.Hypot(line.Sigma, sigma)
	testutil.RequireNear(t, "FWHM", p.FWHM, broadened, 1.0)
	testutil.RequireNear(t, "Centroid", p.Centroid, line.Channel, 0.5)
}

func TestSmoothPreservesArea(t *testing.T) {
	counts := testutil.Spectrum(512, 0, testutil.Line{Channel: 256, Sigma: 6, Height: 100})

	smoothed, err := Smooth(counts, 4)
	if err != nil {
		t.Fatal(err)
	}

	if len(smoothed) != len(counts) {
		t.Fatalf("len = %d, want %d", len(smoothed), len(counts))
	}

	testutil.RequireFinite(t, smoothed)

	var before, after float64
	for i := range counts {
		before += counts[i]
		after += smoothed[i]
	}

	testutil.RequireRelNear(t, "area", after, before, 1e-9)

	// Peak stays centred and drops by σ/√(σ²+σₛ²).
	maxIdx := 0
	for i, v := range smoothed {
		if v > smoothed[maxIdx] {
			maxIdx = i
		}
	}

	if maxIdx != 256 {
		t.Errorf("smoothed maximum at %d, want 256", maxIdx)
	}

	testutil.RequireNear(t, "smoothed height", smoothed[256], 100*6/math.Hypot(6, 4), 0.05)
}

func TestSmoothImpulseIsKernel(t *testing.T) {
	counts := make([]float64, 64)
	counts[32] = 1

	smoothed, err := Smooth(counts, 2)
	if err != nil {
		t.Fatal(err)
	}

	kernel := gaussianKernel(2)
	half := len(kernel) / 2

	testutil.RequireSliceNearlyEqual(t, smoothed[32-half:32+half+1], kernel, 1e-12)
}

func TestSmoothZeroSigmaCopies(t *testing.T) {
	counts := []float64{1, 2, 3}

	out, err := Smooth(counts, 0)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, out, counts, 0)

	out[0] = 9
	if counts[0] != 1 {
		t.Error("Smooth(σ=0) aliases its input")
	}
}

func TestFindValidation(t *testing.T) {
	counts := testutil.Spectrum(100, 0, testutil.Line{Channel: 50, Sigma: 5, Height: 10})

	tests := []struct {
		name    string
		counts  []float64
		cfg     Config
		wantErr error
	}{
		{"empty", nil, Config{}, ErrEmptySpectrum},
		{"negative lo", counts, Config{Lo: -1, Hi: 60}, ErrInvalidWindow},
		{"hi beyond end", counts, Config{Lo: 10, Hi: 101}, ErrInvalidWindow},
		{"inverted", counts, Config{Lo: 60, Hi: 40}, ErrInvalidWindow},
		{"too narrow", counts, Config{Lo: 10, Hi: 12}, ErrInvalidWindow},
		{"negative sigma", counts, Config{Sigma: -1}, ErrInvalidSigma},
		{"window cuts peak", counts, Config{Lo: 48, Hi: 100}, ErrNoPeak},
		{"flat", make([]float64, 100), Config{}, ErrNoPeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Find(tt.counts, tt.cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("Find() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindWholeSpectrumDefaultWindow(t *testing.T) {
	line := testutil.Line{Channel: 60.5, Sigma: 4, Height: 50}
	counts := testutil.Spectrum(128, 0, line)

	p, err := Find(counts, Config{})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, "Centroid", p.Centroid, line.Channel, 0.05)
}
