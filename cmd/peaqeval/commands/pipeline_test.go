package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-peaq/audiofile"
	"github.com/cwbudde/algo-peaq/internal/testutil"
	"github.com/cwbudde/algo-peaq/measure/peaq"
)

func writeWAV(t *testing.T, path string, samples []float64, rate int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if err := audiofile.WriteWAV(f, &audiofile.Audio{SampleRate: rate, Samples: samples}, 16); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
}

func TestLoadAudioLogsLevels(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	silent := filepath.Join(dir, "silent.wav")
	tone := filepath.Join(dir, "tone.wav")
	writeWAV(t, silent, testutil.Zeros(4096), 44100)
	writeWAV(t, tone, testutil.DeterministicSine(1000, 44100, 0.5, 4096), 44100)

	s := defaultSettings()
	if _, err := loadAudio(tone, s); err != nil {
		t.Fatalf("loadAudio: %v", err)
	}
	if out := logs.String(); !strings.Contains(out, "rms_db=") || strings.Contains(out, "audio is silent") {
		t.Fatalf("unexpected log for tone:\n%s", out)
	}

	logs.Reset()
	if _, err := loadAudio(silent, s); err != nil {
		t.Fatalf("loadAudio: %v", err)
	}
	if out := logs.String(); !strings.Contains(out, "audio is silent") {
		t.Fatalf("missing silence warning:\n%s", out)
	}
}

func TestCompareSignalsAlignsDelayedCopy(t *testing.T) {
	ref := testutil.DeterministicNoise(1, 0.5, 20000)
	test := append(testutil.Zeros(50), ref...)

	c, err := compareSignals(ref, test, defaultSettings(), true)
	if err != nil {
		t.Fatalf("compareSignals: %v", err)
	}

	if c.Lag != 50 {
		t.Fatalf("lag=%d, want 50", c.Lag)
	}
	if c.DiffAfter != 0 {
		t.Fatalf("post-alignment diff=%v, want 0", c.DiffAfter)
	}
	if c.DiffBefore <= 0 {
		t.Fatalf("pre-alignment diff=%v, want > 0", c.DiffBefore)
	}
	if c.Quality != peaq.QualityExcellent || c.ODG <= -0.01 {
		t.Fatalf("ODG=%v quality=%v, want transparent", c.ODG, c.Quality)
	}
	if c.Diagnostics == nil || len(c.Diagnostics.NMRMean) != c.Frames {
		t.Fatalf("diagnostics missing or wrong length")
	}
}

func TestCompareSignalsFixedDelay(t *testing.T) {
	ref := testutil.DeterministicNoise(2, 0.5, 10000)
	test := append(testutil.Zeros(7), ref...)

	s := defaultSettings()
	delay := 7
	s.Delay = &delay

	c, err := compareSignals(ref, test, s, false)
	if err != nil {
		t.Fatalf("compareSignals: %v", err)
	}
	if c.Lag != 7 || c.DiffAfter != 0 {
		t.Fatalf("lag=%d diff=%v", c.Lag, c.DiffAfter)
	}
	if c.Diagnostics != nil {
		t.Fatal("diagnostics not requested")
	}
}

func TestCompareSignalsTooShort(t *testing.T) {
	x := testutil.DeterministicNoise(3, 0.5, 1000)

	_, err := compareSignals(x, x, defaultSettings(), false)
	if !errors.Is(err, errTooShort) {
		t.Fatalf("expected errTooShort, got %v", err)
	}

	// Above the guard but below one analysis frame.
	x = testutil.DeterministicNoise(3, 0.5, 1500)
	if _, err := compareSignals(x, x, defaultSettings(), false); !errors.Is(err, peaq.ErrSignalTooShort) {
		t.Fatalf("expected peaq.ErrSignalTooShort, got %v", err)
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	ref := testutil.DeterministicNoise(4, 0.5, 22050)

	refPath := filepath.Join(dir, "ref.wav")
	testPath := filepath.Join(dir, "test.wav")
	writeWAV(t, refPath, ref, 44100)
	writeWAV(t, testPath, append(testutil.Zeros(120), ref...), 44100)

	c, err := compareFiles(refPath, testPath, defaultSettings(), false)
	if err != nil {
		t.Fatalf("compareFiles: %v", err)
	}

	if c.Lag != 120 {
		t.Fatalf("lag=%d, want 120", c.Lag)
	}
	if c.Quality != peaq.QualityExcellent {
		t.Fatalf("quality=%v (ODG %v), want Excellent", c.Quality, c.ODG)
	}

	var buf bytes.Buffer
	if err := printComparison(&buf, c); err != nil {
		t.Fatalf("printComparison: %v", err)
	}
	for _, want := range []string{"ODG:", "Excellent", "NMRtotB", "120 samples"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("table output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRenderJSON(t *testing.T) {
	c := &Comparison{Reference: "a.wav", Test: "b.wav", ODG: -1.25, Quality: peaq.QualityGood, Frames: 10}

	var buf bytes.Buffer
	if err := render(&buf, "json", c, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got["quality"] != "Good" || got["odg"] != -1.25 {
		t.Fatalf("unexpected JSON: %v", got)
	}
	if _, ok := got["diagnostics"]; ok {
		t.Fatal("nil diagnostics should be omitted")
	}
}

func TestRenderYAML(t *testing.T) {
	c := &Comparison{Reference: "a.wav", ODG: -3.5, Quality: peaq.QualityBad}

	var buf bytes.Buffer
	if err := render(&buf, "yaml", c, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"reference: a.wav", "odg: -3.5", "quality: Bad"} {
		if !strings.Contains(out, want) {
			t.Fatalf("YAML output missing %q:\n%s", want, out)
		}
	}
}
