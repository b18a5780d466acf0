// Package conv provides convolution and correlation routines.
//
//   - Direct convolution: O(N*M) time-domain convolution for short kernels,
//     such as the 25-tap critical-band spreading kernel.
//   - FFT cross-correlation: O(N log N) correlation for time alignment of
//     long recordings.
//
// # Usage
//
//	full, err := conv.Direct(signal, kernel)
//	same, err := conv.ConvolveMode(signal, kernel, conv.ModeSame)
//
// # Correlation
//
//	corr, err := conv.CorrelateFFT(test, ref)
//	peakIdx, _ := conv.FindPeak(corr)
//	lag := conv.LagFromIndex(peakIdx, len(ref))
package conv
