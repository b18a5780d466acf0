package peaq

import "errors"

// Errors returned by the evaluator.
var (
	ErrInvalidSampleRate = errors.New("peaq: sample rate must be > 0")
	ErrInvalidFrameSize  = errors.New("peaq: frame size must be an even number >= 2")
	ErrInvalidHopSize    = errors.New("peaq: hop size must be in [1, frame size]")
	ErrSignalTooShort    = errors.New("peaq: signal too short for one frame")
	ErrLengthMismatch    = errors.New("peaq: reference and test length differ")
	ErrEmptyFrame        = errors.New("peaq: empty frame")
	ErrFrameTooLong      = errors.New("peaq: frame longer than FFT size")
	ErrSpectrumSize      = errors.New("peaq: power spectrum size mismatch")
	ErrScratchSize       = errors.New("peaq: scratch buffer size mismatch")
	ErrNotProcessed      = errors.New("peaq: Process has not completed")
	ErrInvalidODG        = errors.New("peaq: ODG is not finite")
)
