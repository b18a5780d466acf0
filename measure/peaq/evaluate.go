package peaq

import (
	"fmt"
	"math"
)

// Result is the outcome of a one-shot evaluation.
type Result struct {
	ODG     float64 `json:"odg" yaml:"odg"`
	Quality Quality `json:"quality" yaml:"quality"`
	MOVs    MOVs    `json:"movs" yaml:"movs"`
	Frames  int     `json:"frames" yaml:"frames"`
}

// Evaluate runs Process and ComputeODG on a fresh evaluator.
//
// Unlike ComputeODG it treats a non-finite grade as a failure and returns
// ErrInvalidODG alongside the partial result.
func Evaluate(ref, test []float64, opts ...Option) (Result, error) {
	e, err := New(opts...)
	if err != nil {
		return Result{}, err
	}

	return e.Evaluate(ref, test)
}

// Evaluate runs Process and ComputeODG on this evaluator, leaving its
// matrices available for diagnostics afterwards.
func (e *Evaluator) Evaluate(ref, test []float64) (Result, error) {
	frames, err := e.Process(ref, test)
	if err != nil {
		return Result{}, err
	}

	odg, movs, err := e.ComputeODG()
	if err != nil {
		return Result{}, err
	}

	res := Result{ODG: odg, Quality: Classify(odg), MOVs: movs, Frames: frames}
	if math.IsNaN(odg) || math.IsInf(odg, 0) {
		return res, fmt.Errorf("%w: %v", ErrInvalidODG, odg)
	}

	return res, nil
}
