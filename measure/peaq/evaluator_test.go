package peaq

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-peaq/internal/testutil"
)

func TestNumFrames(t *testing.T) {
	tests := []struct {
		length, size, hop int
		want              int
	}{
		{4096, 2048, 1024, 3},
		{2048, 2048, 1024, 1},
		{2047, 2048, 1024, 0},
		{3071, 2048, 1024, 1},
		{3072, 2048, 1024, 2},
		{0, 2048, 1024, 0},
		{100, 0, 1, 0},
	}

	for _, tt := range tests {
		if got := NumFrames(tt.length, tt.size, tt.hop); got != tt.want {
			t.Errorf("NumFrames(%d,%d,%d)=%d, want %d", tt.length, tt.size, tt.hop, got, tt.want)
		}
	}
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(WithFrameSize(2047)); !errors.Is(err, ErrInvalidFrameSize) {
		t.Fatalf("expected ErrInvalidFrameSize, got %v", err)
	}

	if _, err := New(WithFrameSize(256), WithHopSize(512)); !errors.Is(err, ErrInvalidHopSize) {
		t.Fatalf("expected ErrInvalidHopSize, got %v", err)
	}

	cfg := Config{FrameSize: 256}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}
}

func TestProcessFrameGrid(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	x := testutil.DeterministicNoise(1, 0.5, 4096)
	y := testutil.DeterministicNoise(2, 0.5, 4096)

	frames, err := e.Process(x, y)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if frames != 3 || e.Frames() != 3 {
		t.Fatalf("frames=%d/%d, want 3", frames, e.Frames())
	}

	for name, m := range map[string]*Matrix{"EbNMatR": e.EbNMatR(), "EbNMatT": e.EbNMatT(), "EhsR": e.EhsR()} {
		if m.Rows() != 3 || m.Cols() != NumBands {
			t.Fatalf("%s shape=%dx%d, want 3x24", name, m.Rows(), m.Cols())
		}
		for i := 0; i < m.Rows(); i++ {
			testutil.RequireFinite(t, m.Row(i))
		}
	}

	if len(e.BWRef()) != 3 || len(e.BWTest()) != 3 {
		t.Fatalf("bw lengths=%d/%d, want 3", len(e.BWRef()), len(e.BWTest()))
	}

	for i := 0; i < 3; i++ {
		if e.EbNMatR().At(i, NumBands-1) != 0 {
			t.Fatalf("frame %d: raw band 23=%v, want 0", i, e.EbNMatR().At(i, NumBands-1))
		}
	}
}

func TestProcessTooShort(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	x := testutil.Zeros(2047)

	frames, err := e.Process(x, x)
	if !errors.Is(err, ErrSignalTooShort) {
		t.Fatalf("expected ErrSignalTooShort, got %v", err)
	}
	if frames != 0 {
		t.Fatalf("frames=%d, want 0", frames)
	}

	if _, _, err := e.ComputeODG(); !errors.Is(err, ErrNotProcessed) {
		t.Fatalf("expected ErrNotProcessed after failed Process, got %v", err)
	}
}

func TestProcessLengthMismatch(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Process(testutil.Zeros(4096), testutil.Zeros(4095)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestComputeBeforeProcess(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if v := e.ComputeNMR(); !math.IsNaN(v) {
		t.Fatalf("ComputeNMR=%v, want NaN", v)
	}
	if v := e.ComputeADB(-30); !math.IsNaN(v) {
		t.Fatalf("ComputeADB=%v, want NaN", v)
	}
	if v := e.ComputeMFPD(); !math.IsNaN(v) {
		t.Fatalf("ComputeMFPD=%v, want NaN", v)
	}
	if _, _, err := e.ComputeODG(); !errors.Is(err, ErrNotProcessed) {
		t.Fatalf("expected ErrNotProcessed, got %v", err)
	}
	if _, err := e.Diagnostics(); !errors.Is(err, ErrNotProcessed) {
		t.Fatalf("expected ErrNotProcessed, got %v", err)
	}
}

func TestIdentityScoresTransparent(t *testing.T) {
	x := testutil.DeterministicNoise(7, 0.5, 16384)

	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Process(x, x); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if e.AddedEnergy() != 0 {
		t.Fatalf("AddedEnergy=%v, want 0", e.AddedEnergy())
	}
	testutil.RequireSliceNearlyEqual(t, e.BWRef(), e.BWTest(), 0)

	odg, movs, err := e.ComputeODG()
	if err != nil {
		t.Fatalf("ComputeODG: %v", err)
	}

	if odg <= -0.01 {
		t.Fatalf("identity ODG=%v, want > -0.01", odg)
	}
	if movs.NMRtotB >= 0 {
		t.Fatalf("identity NMRtotB=%v, want < 0", movs.NMRtotB)
	}
	if movs.MFPD > DetectionProbability(0)+1e-3 {
		t.Fatalf("identity MFPD=%v, want <= %v", movs.MFPD, DetectionProbability(0))
	}
}

// A silent reference leaves nothing to mask the test: NMR runs to the
// ε-floor ratio and the grade pins at the bottom.
func TestSilentReferenceScoresWorst(t *testing.T) {
	x := testutil.DeterministicNoise(11, 0.5, 8192)

	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Process(testutil.Zeros(len(x)), x); err != nil {
		t.Fatalf("Process: %v", err)
	}

	odg, movs, err := e.ComputeODG()
	if err != nil {
		t.Fatalf("ComputeODG: %v", err)
	}

	if odg != MinODG {
		t.Fatalf("ODG=%v, want %v", odg, MinODG)
	}
	if movs.MFPD < 0.99 {
		t.Fatalf("MFPD=%v, want ~1", movs.MFPD)
	}
	if movs.NMRtotB < 20 {
		t.Fatalf("NMRtotB=%v, want large positive", movs.NMRtotB)
	}
}

// A silent test signal carries no noise, so NMR collapses and MFPD goes to
// zero. The band-weighted sum gap between reference and test is what drives
// the grade to the floor.
func TestSilentTestScoresWorst(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
	}{
		{"noise", testutil.DeterministicNoise(11, 0.5, 8192)},
		{"sine", testutil.DeterministicSine(1000, DefaultSampleRate, 0.5, 8192)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New()
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			if _, err := e.Process(tt.x, testutil.Zeros(len(tt.x))); err != nil {
				t.Fatalf("Process: %v", err)
			}

			odg, movs, err := e.ComputeODG()
			if err != nil {
				t.Fatalf("ComputeODG: %v", err)
			}

			if odg != MinODG {
				t.Fatalf("ODG=%v, want %v", odg, MinODG)
			}
			if movs.NMRtotB > -20 {
				t.Fatalf("NMRtotB=%v, want strongly negative", movs.NMRtotB)
			}
			if movs.MFPD > 0.1 {
				t.Fatalf("MFPD=%v, want near 0", movs.MFPD)
			}
			if movs.AvgBwTst != 0 || movs.AvgBwRef <= 0 {
				t.Fatalf("AvgBwRef=%v AvgBwTst=%v", movs.AvgBwRef, movs.AvgBwTst)
			}

			bwTerm := weightBandwidth * math.Abs(movs.AvgBwRef-movs.AvgBwTst)
			rest := weightNMR*movs.NMRtotB + weightADB*movs.ADB +
				weightMFPD*movs.MFPD + weightAddedEnergy*e.AddedEnergy()
			if rest <= MinODG {
				t.Fatalf("remaining terms %v already reach the floor", rest)
			}
			if bwTerm+rest >= MinODG {
				t.Fatalf("bandwidth term %v does not push %v below %v", bwTerm, rest, MinODG)
			}
		})
	}
}

func TestAllSilentPair(t *testing.T) {
	z := testutil.Zeros(4096)

	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Process(z, z); err != nil {
		t.Fatalf("Process: %v", err)
	}

	odg, movs, err := e.ComputeODG()
	if err != nil {
		t.Fatalf("ComputeODG: %v", err)
	}

	testutil.RequireNear(t, "NMRtotB", movs.NMRtotB, 0, 0)
	testutil.RequireNear(t, "MFPD", movs.MFPD, DetectionProbability(0), 1e-15)
	testutil.RequireNear(t, "ODG", odg, weightMFPD*DetectionProbability(0)+weightADB*movs.ADB, 1e-12)
}

func TestODGStaysInRange(t *testing.T) {
	n := 8192
	loud := make([]float64, n)
	for i := range loud {
		if i%2 == 0 {
			loud[i] = 1e6
		} else {
			loud[i] = -1e6
		}
	}

	pairs := []struct {
		name      string
		ref, test []float64
	}{
		{"noise vs noise", testutil.DeterministicNoise(1, 1, n), testutil.DeterministicNoise(2, 1, n)},
		{"tone vs loud", testutil.DeterministicSine(440, 48000, 0.1, n), loud},
		{"loud vs silence", loud, testutil.Zeros(n)},
		{"tiny vs tone", testutil.DeterministicNoise(3, 1e-9, n), testutil.DeterministicSine(9000, 48000, 1, n)},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(tt.ref, tt.test)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if res.ODG < MinODG || res.ODG > MaxODG {
				t.Fatalf("ODG=%v outside [%v, %v]", res.ODG, MinODG, MaxODG)
			}
		})
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	ref := testutil.MultiTone([]float64{300, 1200, 5000}, 48000, 0.8, 12000)
	test := testutil.Delay(ref, 3)

	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Process(ref, test); err != nil {
		t.Fatalf("Process: %v", err)
	}

	odg1, movs1, err := e.ComputeODG()
	if err != nil {
		t.Fatalf("ComputeODG: %v", err)
	}
	odg2, movs2, _ := e.ComputeODG()

	if odg1 != odg2 || movs1 != movs2 {
		t.Fatalf("repeated ComputeODG differs: %v %+v vs %v %+v", odg1, movs1, odg2, movs2)
	}
	if e.ComputeNMR() != movs1.NMRtotB {
		t.Fatal("ComputeNMR differs from cached MOV")
	}
}

func TestProcessDiscardsCachedNMR(t *testing.T) {
	x := testutil.DeterministicNoise(5, 0.5, 4096)

	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Process(x, x); err != nil {
		t.Fatalf("Process: %v", err)
	}
	first := e.ComputeNMR()
	if e.NMR() == nil {
		t.Fatal("NMR matrix not cached")
	}

	if _, err := e.Process(x, testutil.Zeros(len(x))); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if e.NMR() != nil {
		t.Fatal("NMR cache survived Process")
	}
	if second := e.ComputeNMR(); second == first {
		t.Fatalf("NMRtotB unchanged after new pair: %v", second)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	ref := testutil.DeterministicNoise(21, 0.5, 48000)
	test := testutil.DeterministicNoise(22, 0.5, 48000)

	seq, err := New(WithParallelism(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	par, err := New(WithParallelism(5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := seq.Process(ref, test); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := par.Process(ref, test); err != nil {
		t.Fatalf("Process: %v", err)
	}

	for i := 0; i < seq.Frames(); i++ {
		testutil.RequireSliceNearlyEqual(t, par.EbNMatR().Row(i), seq.EbNMatR().Row(i), 0)
		testutil.RequireSliceNearlyEqual(t, par.EbNMatT().Row(i), seq.EbNMatT().Row(i), 0)
		testutil.RequireSliceNearlyEqual(t, par.EhsR().Row(i), seq.EhsR().Row(i), 0)
	}
}

func TestCustomHop(t *testing.T) {
	e, err := New(WithFrameSize(256), WithHopSize(256), WithSampleRate(25600))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	frames, err := e.Process(testutil.Zeros(1024), testutil.Zeros(1024))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if frames != 4 {
		t.Fatalf("frames=%d, want 4", frames)
	}
}
