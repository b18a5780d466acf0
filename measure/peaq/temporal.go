package peaq

// TemporalAlpha is the per-frame decay of [TemporalSmooth].
const TemporalAlpha = 0.7

// TemporalSmooth applies first-order exponential smoothing across frames:
// row 0 is copied and row i = alpha*out[i-1] + (1-alpha)*in[i].
//
// The evaluator does not call it; it is offered for callers that want to
// model forward temporal masking on any per-frame matrix.
func TemporalSmooth(in *Matrix, alpha float64) *Matrix {
	out := NewMatrix(in.Rows(), in.Cols())
	if in.Rows() == 0 {
		return out
	}

	copy(out.Row(0), in.Row(0))

	for i := 1; i < in.Rows(); i++ {
		prev := out.Row(i - 1)
		cur := in.Row(i)
		dst := out.Row(i)
		for j := range dst {
			dst[j] = alpha*prev[j] + (1-alpha)*cur[j]
		}
	}

	return out
}
