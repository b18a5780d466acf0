// Package level computes time-domain level statistics of sample buffers.
package level

import (
	"errors"
	"math"
)

// ErrLengthMismatch is returned when two signals must share a length but do not.
var ErrLengthMismatch = errors.New("level: signal length mismatch")

// Stats holds time-domain level statistics.
//
//nolint:revive
type Stats struct {
	Length         int
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	MeanAbs        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	Energy         float64 // sum of squares
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Calculate computes all level statistics in a single pass.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{
			RMS_dB:         math.Inf(-1),
			Peak_dB:        math.Inf(-1),
			CrestFactor_dB: math.Inf(-1),
		}
	}

	var sumSq, sumAbs, peak float64
	for _, x := range signal {
		a := math.Abs(x)
		sumSq += x * x
		sumAbs += a
		if a > peak {
			peak = a
		}
	}

	nf := float64(n)
	rms := math.Sqrt(sumSq / nf)

	var crest, crestdB float64
	if rms > 0 {
		crest = peak / rms
		crestdB = ampTodB(crest)
	}

	return Stats{
		Length:         n,
		RMS:            rms,
		RMS_dB:         ampTodB(rms),
		Peak:           peak,
		Peak_dB:        ampTodB(peak),
		MeanAbs:        sumAbs / nf,
		CrestFactor:    crest,
		CrestFactor_dB: crestdB,
		Energy:         sumSq,
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns max |x| of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// MeanAbsDiff returns mean(|b - a|) over two equal-length signals.
func MeanAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	if len(a) == 0 {
		return 0, nil
	}

	// Kahan summation keeps long recordings from drifting.
	var sum, c float64
	for i := range a {
		y := math.Abs(b[i]-a[i]) - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(a)), nil
}

// MeanAbsDiffPrefix returns mean(|b - a|) over the common prefix of a and b.
func MeanAbsDiffPrefix(a, b []float64) float64 {
	n := min(len(a), len(b))
	d, _ := MeanAbsDiff(a[:n], b[:n])
	return d
}

// NormalizePeak scales signal in place so that max |x| == 1.
// Silent signals are left untouched. Returns the applied gain.
func NormalizePeak(signal []float64) float64 {
	peak := Peak(signal)
	if peak == 0 {
		return 1
	}

	gain := 1 / peak
	for i := range signal {
		signal[i] *= gain
	}

	return gain
}
