package peaq

import "math"

// Diagnostics holds per-frame series for plotting an evaluation.
type Diagnostics struct {
	BWRef  []float64 `json:"bw_ref" yaml:"bw_ref"`
	BWTest []float64 `json:"bw_test" yaml:"bw_test"`
	// NMRMean is the unweighted mean NMR of each frame in dB.
	NMRMean []float64 `json:"nmr_mean" yaml:"nmr_mean"`
	// NMRContribution and BWContribution are the per-frame analogues of the
	// NMR and bandwidth terms of the ODG.
	NMRContribution []float64 `json:"nmr_contribution" yaml:"nmr_contribution"`
	BWContribution  []float64 `json:"bw_contribution" yaml:"bw_contribution"`
	// MaxDetectionProbability is the largest band detection probability of
	// each frame.
	MaxDetectionProbability []float64 `json:"max_detection_probability" yaml:"max_detection_probability"`
}

// Diagnostics derives the per-frame series from the processed matrices,
// computing the NMR matrix if needed.
func (e *Evaluator) Diagnostics() (Diagnostics, error) {
	nmr := e.nmrMatrix()
	if nmr == nil {
		return Diagnostics{}, ErrNotProcessed
	}

	d := Diagnostics{
		BWRef:                   append([]float64(nil), e.bwRef...),
		BWTest:                  append([]float64(nil), e.bwTest...),
		NMRMean:                 make([]float64, e.frames),
		NMRContribution:         make([]float64, e.frames),
		BWContribution:          make([]float64, e.frames),
		MaxDetectionProbability: make([]float64, e.frames),
	}

	for i := 0; i < e.frames; i++ {
		row := nmr.Row(i)

		d.NMRMean[i] = mean(row)
		d.NMRContribution[i] = weightNMR * d.NMRMean[i]
		d.BWContribution[i] = weightBandwidth * math.Abs(e.bwRef[i]-e.bwTest[i])

		best := 0.0
		for _, v := range row {
			best = math.Max(best, DetectionProbability(v))
		}
		d.MaxDetectionProbability[i] = best
	}

	return d, nil
}
