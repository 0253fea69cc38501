package peak

import (
	"testing"

	"github.com/cwbudde/algo-detector/internal/testutil"
)

func BenchmarkFindSmoothed(b *testing.B) {
	counts := testutil.Add(
		testutil.Spectrum(2048, 10, testutil.Line{Channel: 662, Sigma: 14, Height: 900}),
		testutil.DeterministicNoise(1, 20, 2048),
	)
	cfg := Config{Lo: 580, Hi: 740, Sigma: 3, SubtractBackground: true}

	b.ResetTimer()

	for b.Loop() {
		_, err := Find(counts, cfg)
		if err != nil {
			b.Fatal(err)
		}
	}
}
