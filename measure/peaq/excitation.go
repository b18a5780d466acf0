package peaq

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-peaq/dsp/conv"
	"github.com/cwbudde/algo-peaq/dsp/spectrum"
)

// NumBands is the number of critical bands in an excitation pattern.
const NumBands = 24

// BarkEdges are the lower band edges in Hz.
//
// Band i covers [BarkEdges[i], BarkEdges[i+1]). The table has no upper edge
// for the last entry, so only bands 0..22 ever receive spectral energy and
// band 23 is populated solely by spreading from its neighbours.
var BarkEdges = [NumBands]float64{
	0, 100, 200, 300, 400, 510, 630, 770, 920, 1080, 1270, 1480,
	1720, 2000, 2320, 2700, 3150, 3700, 4400, 5300, 6400, 7700, 9500, 12000,
}

// spreadHalfWidth is the kernel reach in bands on either side.
const spreadHalfWidth = 12

// MapScratchLen is the scratch length [ExcitationMapper.MapTo] needs: the
// full spreading convolution followed by one kernel-length temporary.
const MapScratchLen = NumBands + 2*(2*spreadHalfWidth+1) - 1

// BandIndex returns the band that contains freq, or -1 if freq lies below 0
// Hz or at/above the last edge.
func BandIndex(freq float64) int {
	for i := 0; i < NumBands-1; i++ {
		if freq >= BarkEdges[i] && freq < BarkEdges[i+1] {
			return i
		}
	}
	return -1
}

// SpreadingKernel returns the 25-tap linear spreading kernel. Tap j spreads
// energy by Δ = j-12 bands:
//
//	10^((15.81 + 7.5(Δ+0.474) - 17.5·sqrt(1+(Δ+0.474)²)) / 10)
func SpreadingKernel() []float64 {
	k := make([]float64, 2*spreadHalfWidth+1)
	for j := range k {
		d := float64(j-spreadHalfWidth) + 0.474
		db := 15.81 + 7.5*d - 17.5*math.Sqrt(1+d*d)
		k[j] = math.Pow(10, db/10)
	}
	return k
}

// ExcitationMapper sums power spectra into critical bands and applies the
// spreading kernel. It holds only read-only tables and is safe for
// concurrent use; scratch lives in the caller.
type ExcitationMapper struct {
	bandOf []int
	kernel []float64
}

// NewExcitationMapper precomputes the bin-to-band table for a real FFT of
// fftSize at sampleRate.
func NewExcitationMapper(fftSize int, sampleRate float64) (*ExcitationMapper, error) {
	freqs, err := spectrum.BinFrequencies(fftSize, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("peaq: %w", err)
	}

	bandOf := make([]int, len(freqs))
	for k, f := range freqs {
		bandOf[k] = BandIndex(f)
	}

	return &ExcitationMapper{bandOf: bandOf, kernel: SpreadingKernel()}, nil
}

// Bins returns the power spectrum length the mapper expects.
func (m *ExcitationMapper) Bins() int { return len(m.bandOf) }

// BinCounts returns how many FFT bins fall into each band.
func (m *ExcitationMapper) BinCounts() [NumBands]int {
	var counts [NumBands]int
	for _, b := range m.bandOf {
		if b >= 0 {
			counts[b]++
		}
	}
	return counts
}

// Map returns the raw band energies and their spread (masked) version.
func (m *ExcitationMapper) Map(power []float64) (raw, spread []float64, err error) {
	raw = make([]float64, NumBands)
	if err := m.bandEnergies(raw, power); err != nil {
		return nil, nil, err
	}

	spread, err = conv.ConvolveMode(raw, m.kernel, conv.ModeSame)
	if err != nil {
		return nil, nil, fmt.Errorf("peaq: %w", err)
	}
	return raw, spread, nil
}

// MapTo is the allocation-free form of [ExcitationMapper.Map]. raw and
// spread must have NumBands entries and scratch MapScratchLen.
func (m *ExcitationMapper) MapTo(raw, spread, scratch, power []float64) error {
	if len(scratch) != MapScratchLen {
		return fmt.Errorf("%w: got %d, want %d", ErrScratchSize, len(scratch), MapScratchLen)
	}
	if err := m.bandEnergies(raw, power); err != nil {
		return err
	}

	n := NumBands + len(m.kernel) - 1
	return conv.SameTo(spread, scratch[:n], scratch[n:], raw, m.kernel)
}

// bandEnergies sums power into raw by band. Bins outside the edge table are
// dropped.
func (m *ExcitationMapper) bandEnergies(raw, power []float64) error {
	if len(power) != len(m.bandOf) {
		return fmt.Errorf("%w: got %d bins, want %d", ErrSpectrumSize, len(power), len(m.bandOf))
	}

	for i := range raw {
		raw[i] = 0
	}
	for k, b := range m.bandOf {
		if b >= 0 {
			raw[b] += power[k]
		}
	}
	return nil
}
