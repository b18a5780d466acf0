// Package align time-aligns a reference/test signal pair before comparison.
//
// [CrossCorrelate] estimates the lag from the peak of the full
// cross-correlation; [FixedDelay] applies a known lag. Both trim the leading
// samples of whichever signal is ahead and truncate the pair to a common
// length.
package align
