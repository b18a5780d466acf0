package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-peaq/audiofile"
	"github.com/cwbudde/algo-peaq/dsp/align"
	"github.com/cwbudde/algo-peaq/measure/peaq"
	"github.com/cwbudde/algo-peaq/stats/level"
)

var errTooShort = errors.New("signals too short for analysis")

// Comparison is the outcome of evaluating one reference/test pair.
type Comparison struct {
	Reference   string            `json:"reference" yaml:"reference"`
	Test        string            `json:"test" yaml:"test"`
	SampleRate  int               `json:"sample_rate" yaml:"sample_rate"`
	Lag         int               `json:"lag_samples" yaml:"lag_samples"`
	LagSeconds  float64           `json:"lag_seconds" yaml:"lag_seconds"`
	DiffBefore  float64           `json:"mean_abs_diff_before" yaml:"mean_abs_diff_before"`
	DiffAfter   float64           `json:"mean_abs_diff_after" yaml:"mean_abs_diff_after"`
	Samples     int               `json:"samples" yaml:"samples"`
	ODG         float64           `json:"odg" yaml:"odg"`
	Quality     peaq.Quality      `json:"quality" yaml:"quality"`
	Frames      int               `json:"frames" yaml:"frames"`
	MOVs        peaq.MOVs         `json:"movs" yaml:"movs"`
	Diagnostics *peaq.Diagnostics `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// compareFiles loads, aligns and evaluates one pair of files.
func compareFiles(refPath, testPath string, s Settings, withDiagnostics bool) (*Comparison, error) {
	ref, err := loadAudio(refPath, s)
	if err != nil {
		return nil, err
	}
	test, err := loadAudio(testPath, s)
	if err != nil {
		return nil, err
	}

	c, err := compareSignals(ref.Samples, test.Samples, s, withDiagnostics)
	if err != nil {
		return nil, fmt.Errorf("%s vs %s: %w", refPath, testPath, err)
	}
	c.Reference = refPath
	c.Test = testPath
	return c, nil
}

func loadAudio(path string, s Settings) (*audiofile.Audio, error) {
	a, err := audiofile.Load(path, audiofile.WithTargetRate(s.SampleRate))
	if err != nil {
		return nil, err
	}
	st := level.Calculate(a.Samples)
	slog.Debug("audio loaded",
		"path", path,
		"sample_rate", a.SampleRate,
		"channels", a.Channels,
		"samples", st.Length,
		"gain", a.Gain,
		"rms_db", st.RMS_dB,
		"crest_db", st.CrestFactor_dB)
	if st.Peak == 0 {
		slog.Warn("audio is silent", "path", path)
	}
	return a, nil
}

// compareSignals aligns and evaluates two signals already at s.SampleRate.
func compareSignals(ref, test []float64, s Settings, withDiagnostics bool) (*Comparison, error) {
	c := &Comparison{SampleRate: s.SampleRate}

	c.DiffBefore = level.MeanAbsDiffPrefix(ref, test)
	slog.Info("before alignment", "mean_abs_diff", c.DiffBefore)

	var (
		pair align.Result
		err  error
	)
	switch {
	case s.Delay != nil:
		pair, err = align.FixedDelay(ref, test, *s.Delay)
	case s.Align:
		pair, err = align.CrossCorrelate(ref, test)
	default:
		pair, err = align.FixedDelay(ref, test, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("alignment failed: %w", err)
	}

	c.Lag = pair.Lag
	c.LagSeconds = float64(pair.Lag) / float64(s.SampleRate)
	c.Samples = len(pair.Ref)
	c.DiffAfter = level.MeanAbsDiffPrefix(pair.Ref, pair.Test)
	slog.Info("after alignment",
		"lag_samples", c.Lag,
		"lag_seconds", c.LagSeconds,
		"mean_abs_diff", c.DiffAfter,
		"samples", c.Samples)

	if c.Samples < s.MinSamples {
		return nil, fmt.Errorf("%w: %d samples, need %d", errTooShort, c.Samples, s.MinSamples)
	}

	e, err := peaq.New(s.evaluatorOptions()...)
	if err != nil {
		return nil, err
	}

	res, err := e.Evaluate(pair.Ref, pair.Test)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	c.ODG = res.ODG
	c.Quality = res.Quality
	c.Frames = res.Frames
	c.MOVs = res.MOVs
	slog.Info("evaluated", "frames", c.Frames, "odg", c.ODG, "quality", c.Quality.String())

	if withDiagnostics {
		d, err := e.Diagnostics()
		if err != nil {
			return nil, err
		}
		c.Diagnostics = &d
	}

	return c, nil
}
