package peaq

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-peaq/dsp/spectrum"
	"github.com/cwbudde/algo-peaq/dsp/window"
)

// FrameAnalyzer turns a time-domain frame into a window-energy-normalised
// power spectrum of size/2+1 bins.
//
// A FrameAnalyzer owns an FFT plan and scratch buffers and is not safe for
// concurrent use; the frame loop gives every goroutine its own.
type FrameAnalyzer struct {
	size      int
	winType   window.Type
	win       []float64
	winEnergy float64
	plan      *algofft.Plan[complex128]
	windowed  []float64
	in        []complex128
	out       []complex128
}

// NewFrameAnalyzer creates an analyzer for frames of up to size samples.
func NewFrameAnalyzer(size int, winType window.Type) (*FrameAnalyzer, error) {
	if size < 2 || size%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("peaq: failed to create FFT plan: %w", err)
	}

	win := window.Generate(winType, size)

	energy, err := window.EnergySum(win)
	if err != nil {
		return nil, fmt.Errorf("peaq: window energy: %w", err)
	}

	return &FrameAnalyzer{
		size:      size,
		winType:   winType,
		win:       win,
		winEnergy: energy,
		plan:      plan,
		windowed:  make([]float64, size),
		in:        make([]complex128, size),
		out:       make([]complex128, size),
	}, nil
}

// Size returns the FFT size.
func (a *FrameAnalyzer) Size() int { return a.size }

// Bins returns the number of one-sided power bins produced per frame.
func (a *FrameAnalyzer) Bins() int { return spectrum.OneSidedBins(a.size) }

// Analyze returns the power spectrum of frame in a new slice.
func (a *FrameAnalyzer) Analyze(frame []float64) ([]float64, error) {
	dst := make([]float64, a.Bins())
	if err := a.AnalyzeTo(dst, frame); err != nil {
		return nil, err
	}
	return dst, nil
}

// AnalyzeTo writes the power spectrum of frame into dst.
//
// The frame is multiplied by a window of its own length, zero-padded to the
// FFT size, transformed, and every |X[k]|^2 is divided by the window's sum
// of squared coefficients.
func (a *FrameAnalyzer) AnalyzeTo(dst, frame []float64) error {
	n := len(frame)
	switch {
	case n == 0:
		return ErrEmptyFrame
	case n > a.size:
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLong, n, a.size)
	case len(dst) != a.Bins():
		return fmt.Errorf("%w: got %d bins, want %d", ErrSpectrumSize, len(dst), a.Bins())
	}

	win, energy := a.win, a.winEnergy
	if n != a.size {
		win = window.Generate(a.winType, n)

		var err error
		if energy, err = window.EnergySum(win); err != nil {
			return err
		}
	}

	windowed := a.windowed[:n]
	if err := window.ApplyCoefficientsTo(windowed, frame, win); err != nil {
		return err
	}

	for i, x := range windowed {
		a.in[i] = complex(x, 0)
	}
	for i := n; i < a.size; i++ {
		a.in[i] = 0
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return fmt.Errorf("peaq: forward FFT failed: %w", err)
	}

	spectrum.PowerTo(dst, a.out)

	if energy > 0 {
		inv := 1 / energy
		for k := range dst {
			dst[k] *= inv
		}
	}

	return nil
}
