package level

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return true
	}
	return math.Abs(a-b) <= tol
}

// generateSine creates exactly numCycles full cycles of a sine wave.
func generateSine(amplitude, freq, sampleRate float64, numCycles int) []float64 {
	samplesPerCycle := int(sampleRate / freq)
	out := make([]float64, samplesPerCycle*numCycles)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Length != 0 || !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
		t.Fatalf("unexpected empty stats: %+v", s)
	}
}

func TestCalculateSine(t *testing.T) {
	sig := generateSine(0.5, 1000, 48000, 10)
	s := Calculate(sig)

	if !almostEqual(s.RMS, 0.5/math.Sqrt2, 1e-9) {
		t.Fatalf("RMS=%v, want %v", s.RMS, 0.5/math.Sqrt2)
	}

	if !almostEqual(s.Peak, 0.5, 1e-9) {
		t.Fatalf("Peak=%v, want 0.5", s.Peak)
	}

	if !almostEqual(s.CrestFactor, math.Sqrt2, 1e-6) {
		t.Fatalf("CrestFactor=%v, want sqrt2", s.CrestFactor)
	}

	if !almostEqual(s.MeanAbs, 0.5*2/math.Pi, 1e-3) {
		t.Fatalf("MeanAbs=%v, want %v", s.MeanAbs, 0.5*2/math.Pi)
	}
}

func TestRMSAndPeak(t *testing.T) {
	sig := []float64{1, -1, 1, -1}
	if !almostEqual(RMS(sig), 1, tolerance) {
		t.Fatalf("RMS=%v, want 1", RMS(sig))
	}

	if Peak([]float64{0.2, -0.7, 0.5}) != 0.7 {
		t.Fatal("Peak mismatch")
	}

	if RMS(nil) != 0 {
		t.Fatal("RMS of empty signal must be 0")
	}
}

func TestMeanAbsDiff(t *testing.T) {
	d, err := MeanAbsDiff([]float64{0, 1, 2, 3}, []float64{1, 1, 0, 3})
	if err != nil {
		t.Fatalf("MeanAbsDiff: %v", err)
	}

	if !almostEqual(d, 0.75, tolerance) {
		t.Fatalf("d=%v, want 0.75", d)
	}

	if _, err := MeanAbsDiff([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}

	same := generateSine(1, 100, 8000, 3)
	if d, _ := MeanAbsDiff(same, same); d != 0 {
		t.Fatalf("identical signals: d=%v, want 0", d)
	}
}

func TestMeanAbsDiffPrefix(t *testing.T) {
	d := MeanAbsDiffPrefix([]float64{1, 2, 3}, []float64{1, 4})
	if !almostEqual(d, 1, tolerance) {
		t.Fatalf("d=%v, want 1", d)
	}
}

func TestNormalizePeak(t *testing.T) {
	sig := []float64{0.25, -0.5, 0.1}
	gain := NormalizePeak(sig)

	if gain != 2 {
		t.Fatalf("gain=%v, want 2", gain)
	}

	if sig[1] != -1 || sig[0] != 0.5 {
		t.Fatalf("unexpected normalised signal %v", sig)
	}

	silent := []float64{0, 0}
	if g := NormalizePeak(silent); g != 1 || silent[0] != 0 {
		t.Fatalf("silent signal must be untouched, gain=%v", g)
	}
}
