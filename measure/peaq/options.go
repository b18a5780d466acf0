package peaq

import (
	"fmt"
	"runtime"

	"github.com/cwbudde/algo-peaq/dsp/window"
)

const (
	DefaultSampleRate     = 48000.0
	DefaultFrameSize      = 2048
	DefaultADBThresholdDB = -30.0
)

// Config defines evaluator settings.
type Config struct {
	SampleRate float64
	FrameSize  int
	// HopSize is the frame advance in samples. Zero means FrameSize/2.
	HopSize        int
	ADBThresholdDB float64
	// Parallelism bounds the number of goroutines used by the frame loop.
	Parallelism int
	Window      window.Type
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the model's reference settings.
func DefaultConfig() Config {
	return Config{
		SampleRate:     DefaultSampleRate,
		FrameSize:      DefaultFrameSize,
		ADBThresholdDB: DefaultADBThresholdDB,
		Parallelism:    runtime.GOMAXPROCS(0),
		Window:         window.TypeHann,
	}
}

// WithSampleRate sets the sample rate shared by reference and test.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithFrameSize sets the analysis frame and FFT size.
func WithFrameSize(size int) Option {
	return func(cfg *Config) {
		if size > 0 {
			cfg.FrameSize = size
		}
	}
}

// WithHopSize overrides the default hop of FrameSize/2.
func WithHopSize(hop int) Option {
	return func(cfg *Config) {
		if hop > 0 {
			cfg.HopSize = hop
		}
	}
}

// WithADBThreshold sets the per-band NMR level in dB above which a frame
// counts as distorted for ADB.
func WithADBThreshold(db float64) Option {
	return func(cfg *Config) {
		cfg.ADBThresholdDB = db
	}
}

// WithParallelism bounds the frame loop's goroutine count. 1 runs inline.
func WithParallelism(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Parallelism = n
		}
	}
}

// WithWindow replaces the Hann analysis window. Results are only comparable
// between runs that use the same window.
func WithWindow(t window.Type) Option {
	return func(cfg *Config) {
		cfg.Window = t
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Hop returns the effective hop size.
func (c Config) Hop() int {
	if c.HopSize > 0 {
		return c.HopSize
	}
	return c.FrameSize / 2
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !(c.SampleRate > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, c.SampleRate)
	}
	if c.FrameSize < 2 || c.FrameSize%2 != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFrameSize, c.FrameSize)
	}
	if hop := c.Hop(); hop < 1 || hop > c.FrameSize {
		return fmt.Errorf("%w: %d", ErrInvalidHopSize, hop)
	}
	return nil
}
