// Package testutil holds deterministic signal generators and assertion
// helpers shared by package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// MultiTone sums equal-amplitude sines at the given frequencies and scales
// the result to the requested peak.
func MultiTone(freqs []float64, sampleRate, peak float64, length int) []float64 {
	out := make([]float64, length)
	for _, f := range freqs {
		step := 2 * math.Pi * f / sampleRate
		for i := range out {
			out[i] += math.Sin(step * float64(i))
		}
	}

	maxAbs := 0.0
	for _, v := range out {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	if maxAbs > 0 {
		for i := range out {
			out[i] *= peak / maxAbs
		}
	}
	return out
}

// Delay returns x shifted right by n samples (zero-filled), same length.
// Negative n shifts left.
func Delay(x []float64, n int) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		j := i - n
		if j >= 0 && j < len(x) {
			out[i] = x[j]
		}
	}
	return out
}

// Zeros returns a silent buffer of length n.
func Zeros(n int) []float64 {
	return make([]float64, n)
}
