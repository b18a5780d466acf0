// Package audiofile decodes WAV, MP3, FLAC and Ogg Vorbis files into mono
// float64 signals at a common analysis rate.
package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-peaq/stats/level"
)

// DefaultTargetRate is the rate signals are resampled to unless overridden.
const DefaultTargetRate = 44100

var (
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	ErrEmptyAudio        = errors.New("audiofile: no samples decoded")
	ErrInvalidBitDepth   = errors.New("audiofile: bit depth must be 16, 24 or 32")
)

// Format identifies a container/codec.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
)

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".mp3":
		return FormatMP3, nil
	case ".flac":
		return FormatFLAC, nil
	case ".ogg", ".oga":
		return FormatOGG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Audio is a mono signal in [-1, 1] nominal range.
type Audio struct {
	SampleRate int
	Samples    []float64
	// Channels is the channel count of the source before downmixing.
	Channels int
	// Gain is the peak-normalisation factor that was applied, 1 if none.
	Gain float64
}

// Duration returns the signal length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// Config controls decoding.
type Config struct {
	// TargetRate is the output sample rate. Zero keeps the source rate.
	TargetRate int
	// Normalize scales the decoded signal to a peak of 1.
	Normalize bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the analysis defaults: 44.1 kHz, peak-normalised.
func DefaultConfig() Config {
	return Config{TargetRate: DefaultTargetRate, Normalize: true}
}

// WithTargetRate sets the output rate. Zero keeps the source rate.
func WithTargetRate(rate int) Option {
	return func(cfg *Config) {
		if rate >= 0 {
			cfg.TargetRate = rate
		}
	}
}

// WithoutNormalize keeps the decoded level.
func WithoutNormalize() Option {
	return func(cfg *Config) {
		cfg.Normalize = false
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

// Load opens and decodes the file at path.
func Load(path string, opts ...Option) (*Audio, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	a, err := Decode(f, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return a, nil
}

// Decode reads a whole stream of the given format.
func Decode(r io.ReadSeeker, format Format, opts ...Option) (*Audio, error) {
	cfg := ApplyOptions(opts...)

	var (
		pcm *interleaved
		err error
	)

	switch format {
	case FormatWAV:
		pcm, err = decodeWAV(r)
	case FormatMP3:
		pcm, err = decodeMP3(r)
	case FormatFLAC:
		pcm, err = decodeFLAC(r)
	case FormatOGG:
		pcm, err = decodeOGG(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	samples := pcm.mono()
	if len(samples) == 0 {
		return nil, ErrEmptyAudio
	}

	a := &Audio{SampleRate: pcm.sampleRate, Samples: samples, Channels: pcm.channels, Gain: 1}

	if cfg.TargetRate > 0 && cfg.TargetRate != a.SampleRate {
		if a.Samples, err = resample(a.Samples, a.SampleRate, cfg.TargetRate); err != nil {
			return nil, err
		}
		a.SampleRate = cfg.TargetRate
		if len(a.Samples) == 0 {
			return nil, ErrEmptyAudio
		}
	}

	if cfg.Normalize {
		a.Gain = level.NormalizePeak(a.Samples)
	}

	return a, nil
}

// interleaved is decoded PCM scaled to [-1, 1].
type interleaved struct {
	sampleRate int
	channels   int
	data       []float64
}

// mono averages the channels of every sample frame.
func (p *interleaved) mono() []float64 {
	if p.channels <= 1 {
		return p.data
	}

	frames := len(p.data) / p.channels
	out := make([]float64, frames)
	scale := 1 / float64(p.channels)

	for i := range out {
		var sum float64
		for _, v := range p.data[i*p.channels : (i+1)*p.channels] {
			sum += v
		}
		out[i] = sum * scale
	}

	return out
}
