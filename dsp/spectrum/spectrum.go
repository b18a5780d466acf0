package spectrum

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	PowerTo(out, in)
	return out
}

// PowerTo computes |X[k]|^2 for the first len(dst) bins of in.
//
// Scratch buffers are pooled, so in steady state this does not allocate.
// in must hold at least len(dst) bins.
func PowerTo(dst []float64, in []complex128) {
	n := len(dst)
	if n == 0 {
		return
	}

	re, im, buf := getScratch(n)

	for i, c := range in[:n] {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(dst, re, im)
	putScratch(buf)
}

// OneSidedBins returns the number of non-negative-frequency bins of a real
// FFT of size fftSize: fftSize/2 + 1.
func OneSidedBins(fftSize int) int {
	return fftSize/2 + 1
}

// BinFrequencies returns the centre frequency in Hz of every one-sided bin
// of a real FFT of size fftSize at the given sample rate.
//
// Bin k maps to k*sampleRate/fftSize.
func BinFrequencies(fftSize int, sampleRate float64) ([]float64, error) {
	if fftSize <= 0 {
		return nil, fmt.Errorf("spectrum: fftSize must be > 0: %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("spectrum: sampleRate must be > 0: %f", sampleRate)
	}

	out := make([]float64, OneSidedBins(fftSize))
	step := sampleRate / float64(fftSize)
	for k := range out {
		out[k] = float64(k) * step
	}

	return out, nil
}
