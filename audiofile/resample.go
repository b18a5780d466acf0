package audiofile

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// resample converts a mono signal between rates.
func resample(samples []float64, from, to int) ([]float64, error) {
	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("audiofile: failed to create resampler: %w", err)
	}

	out, err := r.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("audiofile: resample %d -> %d Hz: %w", from, to, err)
	}

	return out, nil
}
