package audiofile

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV encodes a as a mono PCM WAV stream. Samples outside [-1, 1] are
// clipped.
func WriteWAV(w io.WriteSeeker, a *Audio, bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidBitDepth, bitDepth)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: a.SampleRate},
		Data:           Quantize(a.Samples, bitDepth),
		SourceBitDepth: bitDepth,
	}

	enc := wav.NewEncoder(w, a.SampleRate, bitDepth, 1, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: writing WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finalising WAV: %w", err)
	}

	return nil
}

// Quantize converts samples to signed integers of the given bit depth.
func Quantize(samples []float64, bitDepth int) []int {
	fs := fullScale(bitDepth)
	maxVal := fs - 1

	out := make([]int, len(samples))
	for i, v := range samples {
		q := math.Round(v * fs)
		q = math.Max(-fs, math.Min(maxVal, q))
		out[i] = int(q)
	}

	return out
}
