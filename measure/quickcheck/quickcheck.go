// Package quickcheck flags gross problems in a reference/test pair before a
// full perceptual evaluation: lost high-frequency bandwidth and level
// mismatch.
package quickcheck

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-peaq/stats/frequency"
	"github.com/cwbudde/algo-peaq/stats/level"
)

const (
	defaultDropDB         = 20.0
	defaultModerateLossHz = 500.0
	defaultMajorLossHz    = 2000.0
	defaultLevelTolerance = 0.2
)

var (
	ErrEmptyInput        = errors.New("quickcheck: empty input")
	ErrInvalidSampleRate = errors.New("quickcheck: sample rate must be > 0")
)

// Config holds the check thresholds. Zero fields take the defaults.
type Config struct {
	SampleRate float64
	// DropDB is how far below the spectral peak a bin may sit and still
	// count towards the bandwidth.
	DropDB         float64
	ModerateLossHz float64
	MajorLossHz    float64
	// LevelTolerance is the allowed |RMS ratio - 1|.
	LevelTolerance float64
}

// BandwidthVerdict grades the bandwidth lost by the test signal.
type BandwidthVerdict int

const (
	BandwidthOK BandwidthVerdict = iota
	BandwidthModerateLoss
	BandwidthMajorLoss
)

func (v BandwidthVerdict) String() string {
	switch v {
	case BandwidthModerateLoss:
		return "moderate loss"
	case BandwidthMajorLoss:
		return "major loss"
	default:
		return "ok"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v BandwidthVerdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Report holds the check results. Bandwidths are in Hz. RMSRatio is nil
// when the reference is silent and the test is not.
type Report struct {
	RefBandwidth  float64          `json:"ref_bandwidth_hz" yaml:"ref_bandwidth_hz"`
	TestBandwidth float64          `json:"test_bandwidth_hz" yaml:"test_bandwidth_hz"`
	BandwidthLoss float64          `json:"bandwidth_loss_hz" yaml:"bandwidth_loss_hz"`
	RefRMS        float64          `json:"ref_rms" yaml:"ref_rms"`
	TestRMS       float64          `json:"test_rms" yaml:"test_rms"`
	RMSRatio      *float64         `json:"rms_ratio" yaml:"rms_ratio"`
	Bandwidth     BandwidthVerdict `json:"bandwidth" yaml:"bandwidth"`
	LevelMismatch bool             `json:"level_mismatch" yaml:"level_mismatch"`
}

// OK reports whether neither check found a problem.
func (r Report) OK() bool {
	return r.Bandwidth == BandwidthOK && !r.LevelMismatch
}

// Run checks the pair with default thresholds.
func Run(ref, test []float64, sampleRate float64) (Report, error) {
	return RunWithConfig(ref, test, Config{SampleRate: sampleRate})
}

// RunWithConfig checks the pair. Both signals are truncated to their common
// length first.
func RunWithConfig(ref, test []float64, cfg Config) (Report, error) {
	cfg = normalizeConfig(cfg)
	if !(cfg.SampleRate > 0) {
		return Report{}, fmt.Errorf("%w: %v", ErrInvalidSampleRate, cfg.SampleRate)
	}

	n := min(len(ref), len(test))
	if n == 0 {
		return Report{}, ErrEmptyInput
	}
	ref, test = ref[:n], test[:n]

	refBW, err := frequency.Bandwidth(ref, cfg.SampleRate, cfg.DropDB)
	if err != nil {
		return Report{}, fmt.Errorf("quickcheck: reference bandwidth: %w", err)
	}

	testBW, err := frequency.Bandwidth(test, cfg.SampleRate, cfg.DropDB)
	if err != nil {
		return Report{}, fmt.Errorf("quickcheck: test bandwidth: %w", err)
	}

	r := Report{
		RefBandwidth:  refBW,
		TestBandwidth: testBW,
		BandwidthLoss: refBW - testBW,
		RefRMS:        level.RMS(ref),
		TestRMS:       level.RMS(test),
	}
	r.RMSRatio = rmsRatio(r.RefRMS, r.TestRMS)

	switch {
	case r.BandwidthLoss > cfg.MajorLossHz:
		r.Bandwidth = BandwidthMajorLoss
	case r.BandwidthLoss > cfg.ModerateLossHz:
		r.Bandwidth = BandwidthModerateLoss
	}

	r.LevelMismatch = r.RMSRatio == nil || math.Abs(*r.RMSRatio-1) > cfg.LevelTolerance

	return r, nil
}

// rmsRatio is test/ref. Two silent signals match. Signal against a silent
// reference has no finite ratio.
func rmsRatio(ref, test float64) *float64 {
	var ratio float64
	switch {
	case ref > 0:
		ratio = test / ref
	case test > 0:
		return nil
	default:
		ratio = 1
	}
	return &ratio
}

func normalizeConfig(cfg Config) Config {
	if cfg.DropDB <= 0 {
		cfg.DropDB = defaultDropDB
	}
	if cfg.ModerateLossHz <= 0 {
		cfg.ModerateLossHz = defaultModerateLossHz
	}
	if cfg.MajorLossHz <= 0 {
		cfg.MajorLossHz = defaultMajorLossHz
	}
	if cfg.LevelTolerance <= 0 {
		cfg.LevelTolerance = defaultLevelTolerance
	}
	return cfg
}
