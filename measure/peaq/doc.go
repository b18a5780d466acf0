// Package peaq implements a simplified perceptual audio-quality evaluator.
//
// Given a reference signal and a degraded test signal of equal length and
// sample rate, the evaluator grades the perceived quality loss as an
// Objective Difference Grade (ODG) in [-4, 0], where 0 means no audible
// difference and -4 means very annoying degradation. It also reports a small
// set of Model Output Values (MOVs) for diagnostics.
//
// The model is in the spirit of ITU-R BS.1387 but heavily reduced and not
// conformant to it:
//
//   - Frames of NF samples (default 2048, hop NF/2) are Hann-windowed and
//     transformed to an energy-normalised power spectrum.
//   - Spectral energy is summed into fixed Bark bands and spread across
//     neighbouring bands with a static 25-tap kernel to model simultaneous
//     masking. The spread reference energy is the masking threshold.
//   - Noise-to-mask ratios of the test signal against that threshold are
//     aggregated into NMRtotB, ADB and MFPD, which are combined with a
//     band-index-weighted energy difference and a whole-signal mean absolute
//     difference into the ODG.
//
// # Usage
//
//	e, err := peaq.New(peaq.WithSampleRate(48000))
//	if err != nil { ... }
//	if _, err := e.Process(ref, test); err != nil { ... }
//	odg, movs, err := e.ComputeODG()
//
// or one-shot:
//
//	res, err := peaq.Evaluate(ref, test, peaq.WithSampleRate(48000))
//
// After Process the per-frame matrices are available through [Evaluator.EbNMatR],
// [Evaluator.EbNMatT], [Evaluator.EhsR], [Evaluator.BWRef] and [Evaluator.BWTest]
// for plotting.
package peaq
