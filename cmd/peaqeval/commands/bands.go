package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-peaq/measure/peaq"
)

var bandsCmd = &cobra.Command{
	Use:   "bands",
	Short: "Print the critical band table",
	Long: `Print the 24 critical bands with their edges, spreading weights and the
number of FFT bins that fall into each band for the configured frame size
(--frame-size) and sample rate (--rate).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printBands(cmd.OutOrStdout(), settings.FrameSize, float64(settings.SampleRate))
	},
}

func printBands(w io.Writer, frameSize int, sampleRate float64) error {
	m, err := peaq.NewExcitationMapper(frameSize, sampleRate)
	if err != nil {
		return err
	}
	counts := m.BinCounts()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Band\tLower [Hz]\tUpper [Hz]\tBins\tNMR weight\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t----------\t----------\t----\t----------\n"); err != nil {
		return err
	}

	for b := 0; b < peaq.NumBands; b++ {
		upper := "-"
		if b+1 < peaq.NumBands {
			upper = strconv.FormatFloat(peaq.BarkEdges[b+1], 'f', 0, 64)
		}
		if _, err := fmt.Fprintf(tw, "%d\t%.0f\t%s\t%d\t%.4f\n",
			b, peaq.BarkEdges[b], upper, counts[b], peaq.BandWeight(b)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
