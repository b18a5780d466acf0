// Command peaqeval grades the perceived quality of a test recording against
// its reference.
//
// Usage:
//
//	peaqeval [flags] <command> [args]
//
// Commands:
//
//	compare REF TEST    evaluate one pair and print ODG, quality and MOVs
//	batch DIR_A DIR_B   evaluate files of two folders pairwise, write CSV
//	check REF TEST      quick bandwidth and level sanity check
//	bands               print the critical band table
//
// Examples:
//
//	peaqeval compare master.wav capture.flac
//	peaqeval compare -o json --diagnostics master.wav capture.mp3
//	peaqeval batch --csv results.csv refs/ captures/
//	peaqeval bands --frame-size 4096 --rate 48000
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-peaq/cmd/peaqeval/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
