package peaq

import (
	"math"
)

// ODG combination weights.
const (
	weightNMR         = -0.25
	weightBandwidth   = -0.1
	weightADB         = -0.3
	weightMFPD        = -0.35
	weightAddedEnergy = -0.5

	// MinODG and MaxODG bound the grade.
	MinODG = -4.0
	MaxODG = 0.0
)

// MOV names as reported in [MOVs.Map].
const (
	MOVAvgBwRef = "AvgBwRef"
	MOVAvgBwTst = "AvgBwTst"
	MOVNMRtotB  = "NMRtotB"
	MOVADB      = "ADB"
	MOVMFPD     = "MFPD"
)

// MOVs are the model output values behind an ODG.
type MOVs struct {
	AvgBwRef float64 `json:"AvgBwRef" yaml:"AvgBwRef"`
	AvgBwTst float64 `json:"AvgBwTst" yaml:"AvgBwTst"`
	NMRtotB  float64 `json:"NMRtotB" yaml:"NMRtotB"`
	ADB      float64 `json:"ADB" yaml:"ADB"`
	MFPD     float64 `json:"MFPD" yaml:"MFPD"`
}

// Map returns the MOVs keyed by name.
func (m MOVs) Map() map[string]float64 {
	return map[string]float64{
		MOVAvgBwRef: m.AvgBwRef,
		MOVAvgBwTst: m.AvgBwTst,
		MOVNMRtotB:  m.NMRtotB,
		MOVADB:      m.ADB,
		MOVMFPD:     m.MFPD,
	}
}

// ComputeODG computes all metrics and combines them into the clipped grade.
//
// Repeated calls without an intervening Process return identical values.
// A NaN grade is passed through unclipped so callers can reject it.
func (e *Evaluator) ComputeODG() (float64, MOVs, error) {
	if !e.processed {
		return math.NaN(), MOVs{}, ErrNotProcessed
	}

	movs := MOVs{
		AvgBwRef: mean(e.bwRef),
		AvgBwTst: mean(e.bwTest),
		NMRtotB:  e.ComputeNMR(),
		ADB:      e.ComputeADB(e.cfg.ADBThresholdDB),
		MFPD:     e.ComputeMFPD(),
	}

	raw := weightNMR*movs.NMRtotB +
		weightBandwidth*math.Abs(movs.AvgBwRef-movs.AvgBwTst) +
		weightADB*movs.ADB +
		weightMFPD*movs.MFPD +
		weightAddedEnergy*e.addedEnergy

	return ClipODG(raw), movs, nil
}

// ClipODG limits v to [MinODG, MaxODG]. NaN stays NaN.
func ClipODG(v float64) float64 {
	return math.Max(MinODG, math.Min(MaxODG, v))
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}
