package align

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-peaq/dsp/conv"
)

var (
	ErrEmptyInput  = errors.New("align: empty input")
	ErrLagTooLarge = errors.New("align: lag exceeds signal length")
)

// Result is an aligned pair. Ref and Test share their length and may alias
// the input slices.
type Result struct {
	Ref  []float64
	Test []float64
	// Lag is the delay of Test relative to Ref in samples. Positive means
	// Test lags behind Ref.
	Lag int
}

// directLimit is the len(ref)*len(test) product below which the
// time-domain correlation is used.
const directLimit = 1 << 16

// EstimateLag returns the lag of test relative to ref at the peak of their
// cross-correlation.
func EstimateLag(ref, test []float64) (int, error) {
	if len(ref) == 0 || len(test) == 0 {
		return 0, ErrEmptyInput
	}

	correlate := conv.CorrelateFFT
	if len(ref)*len(test) < directLimit {
		correlate = conv.CorrelateDirect
	}

	corr, err := correlate(test, ref)
	if err != nil {
		return 0, fmt.Errorf("align: %w", err)
	}

	idx, _ := conv.FindPeak(corr)
	return conv.LagFromIndex(idx, len(ref)), nil
}

// CrossCorrelate estimates the lag between ref and test and returns the
// aligned pair.
func CrossCorrelate(ref, test []float64) (Result, error) {
	lag, err := EstimateLag(ref, test)
	if err != nil {
		return Result{}, err
	}
	return FixedDelay(ref, test, lag)
}

// FixedDelay aligns the pair assuming test lags ref by delay samples. A
// negative delay means ref lags test.
func FixedDelay(ref, test []float64, delay int) (Result, error) {
	if len(ref) == 0 || len(test) == 0 {
		return Result{}, ErrEmptyInput
	}

	switch {
	case delay > 0:
		if delay >= len(test) {
			return Result{}, fmt.Errorf("%w: %d >= %d test samples", ErrLagTooLarge, delay, len(test))
		}
		test = test[delay:]
	case delay < 0:
		if -delay >= len(ref) {
			return Result{}, fmt.Errorf("%w: %d >= %d reference samples", ErrLagTooLarge, -delay, len(ref))
		}
		ref = ref[-delay:]
	}

	n := min(len(ref), len(test))
	return Result{Ref: ref[:n], Test: test[:n], Lag: delay}, nil
}
