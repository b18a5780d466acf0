package peaq

import (
	"math"
)

// Epsilon guards every ratio and logarithm of possibly-zero energies.
const Epsilon = 1e-12

const (
	// bandWeightKnee sets the down-weighting of higher bands: 1/(1+b/knee).
	bandWeightKnee = 5.0

	// Logistic detection probability p = 1/(1+exp(-slope*(NMR-offset))).
	detectionSlope    = 0.6
	detectionOffsetDB = 5.0
)

// BandWeight returns the NMRtotB weight of band b.
func BandWeight(b int) float64 {
	return 1 / (1 + float64(b)/bandWeightKnee)
}

// DetectionProbability maps an NMR in dB to a detection probability.
func DetectionProbability(nmrDB float64) float64 {
	return 1 / (1 + math.Exp(-detectionSlope*(nmrDB-detectionOffsetDB)))
}

// ComputeNMR returns the band-weighted mean noise-to-mask ratio in dB and
// caches the full NMR matrix:
//
//	NMR[i][b] = 10*log10((EbNMatT[i][b]+ε) / (EhsR[i][b]+ε))
//
// It returns NaN if Process has not completed.
func (e *Evaluator) ComputeNMR() float64 {
	nmr := e.nmrMatrix()
	if nmr == nil {
		return math.NaN()
	}

	var sum float64
	for i := 0; i < nmr.Rows(); i++ {
		for b, v := range nmr.Row(i) {
			sum += v * BandWeight(b)
		}
	}

	return sum / float64(nmr.Rows()*nmr.Cols())
}

// NMR returns the cached NMR matrix, or nil before the first Compute call.
func (e *Evaluator) NMR() *Matrix { return e.nmr }

func (e *Evaluator) nmrMatrix() *Matrix {
	if !e.processed {
		return nil
	}
	if e.nmr != nil {
		return e.nmr
	}

	nmr := NewMatrix(e.frames, NumBands)
	for i := 0; i < e.frames; i++ {
		tst := e.ebnT.Row(i)
		mask := e.ehsR.Row(i)
		dst := nmr.Row(i)
		for b := range dst {
			dst[b] = 10 * math.Log10((tst[b]+Epsilon)/(mask[b]+Epsilon))
		}
	}

	e.nmr = nmr
	return nmr
}

// ComputeADB returns log10 of the fraction of frames in which any band's NMR
// exceeds thresholdDB. The result is at most 0 and bounded below by
// log10(ε). It returns NaN if Process has not completed.
func (e *Evaluator) ComputeADB(thresholdDB float64) float64 {
	nmr := e.nmrMatrix()
	if nmr == nil {
		return math.NaN()
	}

	distorted := 0
	for i := 0; i < nmr.Rows(); i++ {
		for _, v := range nmr.Row(i) {
			if v > thresholdDB {
				distorted++
				break
			}
		}
	}

	return math.Log10(float64(distorted)/float64(nmr.Rows()) + Epsilon)
}

// ComputeMFPD returns the largest per-frame, per-band detection
// probability. It returns NaN if Process has not completed.
func (e *Evaluator) ComputeMFPD() float64 {
	nmr := e.nmrMatrix()
	if nmr == nil {
		return math.NaN()
	}

	best := 0.0
	for i := 0; i < nmr.Rows(); i++ {
		for _, v := range nmr.Row(i) {
			if p := DetectionProbability(v); p > best {
				best = p
			}
		}
	}

	return best
}
