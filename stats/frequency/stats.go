// Package frequency computes whole-signal spectral statistics.
package frequency

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-peaq/dsp/spectrum"
)

// ErrEmptySignal is returned for zero-length input.
var ErrEmptySignal = errors.New("frequency: empty signal")

// magnitudeFloor is added to magnitudes before taking logarithms.
const magnitudeFloor = 1e-10

// toDB converts a linear magnitude to decibels with a small floor.
func toDB(v float64) float64 {
	return 20 * math.Log10(v+magnitudeFloor)
}

// binFreq returns the frequency in Hz of a given bin index.
// fftSize = 2 * (len(magnitude) - 1).
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// MagnitudeSpectrum returns the one-sided magnitude spectrum of the whole
// signal, zero-padded to the next power of two.
func MagnitudeSpectrum(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	fftSize := 2
	for fftSize < len(signal) {
		fftSize *= 2
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("frequency: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, x := range signal {
		in[i] = complex(x, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("frequency: forward FFT failed: %w", err)
	}

	return spectrum.Magnitude(out[:spectrum.OneSidedBins(fftSize)]), nil
}

// UpperEdge returns the highest frequency (Hz) whose magnitude lies within
// dropDB of the spectral peak. magnitude is a one-sided linear spectrum.
//
// A flat-zero spectrum reports the top bin, since every bin sits at the floor.
func UpperEdge(magnitude []float64, sampleRate, dropDB float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	peakDB := math.Inf(-1)
	for _, v := range magnitude {
		if d := toDB(v); d > peakDB {
			peakDB = d
		}
	}

	threshold := peakDB - dropDB
	for i := n - 1; i >= 0; i-- {
		if toDB(magnitude[i]) > threshold {
			return binFreq(i, sampleRate, n)
		}
	}

	return 0
}

// Bandwidth returns [UpperEdge] of the signal's whole-signal spectrum.
func Bandwidth(signal []float64, sampleRate, dropDB float64) (float64, error) {
	mag, err := MagnitudeSpectrum(signal)
	if err != nil {
		return 0, err
	}

	return UpperEdge(mag, sampleRate, dropDB), nil
}
