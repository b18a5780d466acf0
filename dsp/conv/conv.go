package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// Mode specifies the output mode for convolution.
type Mode int

const (
	// ModeFull returns the full convolution result with length len(a)+len(b)-1.
	ModeFull Mode = iota

	// ModeSame returns output with the same length as the first input,
	// centred on the full result.
	ModeSame

	// ModeValid returns only the portion where signals fully overlap,
	// with length max(len(a), len(b)) - min(len(a), len(b)) + 1.
	ModeValid
)

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)

	DirectTo(result, a, b)
	return result, nil
}

// simdThreshold is the kernel length from which DirectScratchTo uses the
// vecmath block kernels.
const simdThreshold = 4

// DirectTo performs direct convolution, writing to a pre-allocated destination.
// dst must have length len(a) + len(b) - 1. Kernels of simdThreshold taps or
// more allocate a len(b) temporary; use DirectScratchTo to supply it.
func DirectTo(dst, a, b []float64) {
	var temp []float64
	if len(b) >= simdThreshold {
		temp = make([]float64, len(b))
	}
	DirectScratchTo(dst, temp, a, b)
}

// DirectScratchTo is DirectTo with caller-owned scratch. temp must have
// length len(b) when len(b) >= simdThreshold and is ignored otherwise.
func DirectScratchTo(dst, temp, a, b []float64) {
	for i := range dst {
		dst[i] = 0
	}

	m := len(b)
	if m < simdThreshold {
		for i := range a {
			for j := 0; j < m; j++ {
				dst[i+j] += a[i] * b[j]
			}
		}
		return
	}

	temp = temp[:m]
	for i := range a {
		vecmath.ScaleBlock(temp, b, a[i])
		vecmath.AddBlockInPlace(dst[i:i+m], temp)
	}
}

// ConvolveMode convolves a with b and trims the result to mode.
func ConvolveMode(a, b []float64, mode Mode) ([]float64, error) {
	full, err := Direct(a, b)
	if err != nil {
		return nil, err
	}

	return trimToMode(full, len(a), len(b), mode), nil
}

// SameTo writes the ModeSame convolution of a and b into dst. full and temp
// are scratch of length len(a)+len(b)-1 and len(b). SameTo does not
// allocate, so hot loops can convolve many short vectors with one kernel.
func SameTo(dst, full, temp, a, b []float64) error {
	if len(dst) != len(a) || len(full) != len(a)+len(b)-1 || len(temp) != len(b) {
		return ErrLengthMismatch
	}
	if len(a) == 0 {
		return ErrEmptyInput
	}
	if len(b) == 0 {
		return ErrEmptyKernel
	}

	DirectScratchTo(full, temp, a, b)
	copy(dst, trimToMode(full, len(a), len(b), ModeSame))
	return nil
}

func trimToMode(full []float64, lenA, lenB int, mode Mode) []float64 {
	switch mode {
	case ModeFull:
		return full
	case ModeSame:
		start := (lenB - 1) / 2
		return full[start : start+lenA]
	case ModeValid:
		if lenA >= lenB {
			return full[lenB-1 : lenA]
		}
		return full[lenA-1 : lenB]
	default:
		return full
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
