// Package spectrum provides FFT-adjacent spectrum-domain utilities.
//
// The package does not implement FFT itself. It turns complex bins produced
// by an FFT backend into power and magnitude values and maps one-sided bin
// indices to frequencies.
package spectrum
