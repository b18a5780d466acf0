package window

import "errors"

// ErrUnknownType is returned by ParseType for unrecognised names.
var ErrUnknownType = errors.New("window: unknown window type")

var (
	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errMismatchedLength = errors.New("samples and coefficients must have same length")
)
