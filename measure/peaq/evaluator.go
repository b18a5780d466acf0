package peaq

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-peaq/stats/level"
)

// Evaluator compares one reference/test pair at a time.
//
// Process fills the per-frame matrices; the Compute* methods derive metrics
// from them. An Evaluator is not safe for concurrent use, but Process itself
// fans the frame loop out over several goroutines.
type Evaluator struct {
	cfg    Config
	mapper *ExcitationMapper

	frames      int
	ebnR        *Matrix
	ebnT        *Matrix
	ehsR        *Matrix
	bwRef       []float64
	bwTest      []float64
	addedEnergy float64
	processed   bool

	nmr *Matrix
}

// New creates an evaluator with the given options.
func New(opts ...Option) (*Evaluator, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mapper, err := NewExcitationMapper(cfg.FrameSize, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	// Fail fast on FFT sizes the backend cannot plan.
	if _, err := NewFrameAnalyzer(cfg.FrameSize, cfg.Window); err != nil {
		return nil, err
	}

	return &Evaluator{cfg: cfg, mapper: mapper}, nil
}

// Config returns the evaluator settings.
func (e *Evaluator) Config() Config { return e.cfg }

// NumFrames returns how many full frames of frameSize at hop fit into
// length samples. The result is 0 when not even one frame fits.
func NumFrames(length, frameSize, hop int) int {
	if frameSize <= 0 || hop <= 0 || length < frameSize {
		return 0
	}
	return (length-frameSize)/hop + 1
}

// Process analyses ref and test frame by frame and returns the frame count.
//
// Both signals must have the same length and hold at least one frame. Any
// previous results, including a cached NMR matrix, are discarded.
func (e *Evaluator) Process(ref, test []float64) (int, error) {
	e.reset()

	if len(ref) != len(test) {
		return 0, fmt.Errorf("%w: %d vs %d samples", ErrLengthMismatch, len(ref), len(test))
	}

	hop := e.cfg.Hop()
	frames := NumFrames(len(ref), e.cfg.FrameSize, hop)
	if frames < 1 {
		return 0, fmt.Errorf("%w: %d samples, need at least %d", ErrSignalTooShort, len(ref), e.cfg.FrameSize)
	}

	ebnR := NewMatrix(frames, NumBands)
	ebnT := NewMatrix(frames, NumBands)
	ehsR := NewMatrix(frames, NumBands)

	if err := e.frameLoop(ref, test, frames, hop, ebnR, ebnT, ehsR); err != nil {
		return 0, err
	}

	addedEnergy, err := level.MeanAbsDiff(ref, test)
	if err != nil {
		return 0, fmt.Errorf("peaq: added energy: %w", err)
	}

	e.frames = frames
	e.ebnR, e.ebnT, e.ehsR = ebnR, ebnT, ehsR
	e.bwRef = bandIndexWeightedSum(ebnR)
	e.bwTest = bandIndexWeightedSum(ebnT)
	e.addedEnergy = addedEnergy
	e.processed = true

	return frames, nil
}

func (e *Evaluator) reset() {
	e.frames = 0
	e.ebnR, e.ebnT, e.ehsR = nil, nil, nil
	e.bwRef, e.bwTest = nil, nil
	e.addedEnergy = 0
	e.processed = false
	e.nmr = nil
}

// frameWorker holds everything one goroutine needs to analyse frames
// without touching shared mutable state.
type frameWorker struct {
	analyzer   *FrameAnalyzer
	mapper     *ExcitationMapper
	power      []float64
	spread     []float64
	scratch    []float64
	frameSize  int
	hop        int
	ref, test  []float64
	ebnR, ebnT *Matrix
	ehsR       *Matrix
}

func (w *frameWorker) run(from, to int) error {
	for i := from; i < to; i++ {
		start := i * w.hop
		end := start + w.frameSize

		if err := w.analyzer.AnalyzeTo(w.power, w.ref[start:end]); err != nil {
			return err
		}
		if err := w.mapper.MapTo(w.ebnR.Row(i), w.ehsR.Row(i), w.scratch, w.power); err != nil {
			return err
		}

		if err := w.analyzer.AnalyzeTo(w.power, w.test[start:end]); err != nil {
			return err
		}
		// Only the reference's masking threshold is used downstream.
		if err := w.mapper.MapTo(w.ebnT.Row(i), w.spread, w.scratch, w.power); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) frameLoop(ref, test []float64, frames, hop int, ebnR, ebnT, ehsR *Matrix) error {
	workers := min(max(e.cfg.Parallelism, 1), frames)

	pool := make([]*frameWorker, workers)
	for i := range pool {
		analyzer, err := NewFrameAnalyzer(e.cfg.FrameSize, e.cfg.Window)
		if err != nil {
			return err
		}
		pool[i] = &frameWorker{
			analyzer:  analyzer,
			mapper:    e.mapper,
			power:     make([]float64, analyzer.Bins()),
			spread:    make([]float64, NumBands),
			scratch:   make([]float64, MapScratchLen),
			frameSize: e.cfg.FrameSize,
			hop:       hop,
			ref:       ref,
			test:      test,
			ebnR:      ebnR,
			ebnT:      ebnT,
			ehsR:      ehsR,
		}
	}

	if workers == 1 {
		return pool[0].run(0, frames)
	}

	chunk := (frames + workers - 1) / workers
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := range pool {
		from := w * chunk
		to := min(from+chunk, frames)
		if from >= to {
			continue
		}

		wg.Add(1)
		go func(w, from, to int) {
			defer wg.Done()
			errs[w] = pool[w].run(from, to)
		}(w, from, to)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// bandIndexWeightedSum returns Σ_b m[i][b]*b for every row. It is a coarse
// spectral-balance label, not a bandwidth in Hz.
func bandIndexWeightedSum(m *Matrix) []float64 {
	out := make([]float64, m.Rows())
	for i := range out {
		var sum float64
		for b, v := range m.Row(i) {
			sum += v * float64(b)
		}
		out[i] = sum
	}
	return out
}

// Frames returns the frame count of the last successful Process call.
func (e *Evaluator) Frames() int { return e.frames }

// EbNMatR returns the reference's raw band energies, frames x NumBands.
func (e *Evaluator) EbNMatR() *Matrix { return e.ebnR }

// EbNMatT returns the test's raw band energies, frames x NumBands.
func (e *Evaluator) EbNMatT() *Matrix { return e.ebnT }

// EhsR returns the reference's spread band energies (the masking threshold).
func (e *Evaluator) EhsR() *Matrix { return e.ehsR }

// BWRef returns the per-frame band-index-weighted energy of the reference.
func (e *Evaluator) BWRef() []float64 { return e.bwRef }

// BWTest returns the per-frame band-index-weighted energy of the test.
func (e *Evaluator) BWTest() []float64 { return e.bwTest }

// AddedEnergy returns mean(|test - ref|) over the whole signals.
func (e *Evaluator) AddedEnergy() float64 { return e.addedEnergy }
