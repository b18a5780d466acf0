package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-peaq/measure/quickcheck"
)

var checkCmd = &cobra.Command{
	Use:   "check REF TEST",
	Short: "Quick bandwidth and level sanity check",
	Long: `Compare the upper bandwidth edge (highest frequency within 20 dB of the
spectral peak) and the RMS level of two files. Flags gross problems such as
a band-limited capture or a wrong recording level before a full evaluation.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := loadAudio(args[0], settings)
		if err != nil {
			return err
		}
		test, err := loadAudio(args[1], settings)
		if err != nil {
			return err
		}

		r, err := quickcheck.Run(ref.Samples, test.Samples, float64(settings.SampleRate))
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), settings.Output, r, func(w io.Writer) error {
			return printCheck(w, r)
		})
	},
}

func formatRatio(ratio *float64) string {
	if ratio == nil {
		return "n/a (silent reference)"
	}
	return fmt.Sprintf("%.4f", *ratio)
}

func printCheck(w io.Writer, r quickcheck.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	lines := [][2]string{
		{"Bandwidth ref", fmt.Sprintf("%.0f Hz", r.RefBandwidth)},
		{"Bandwidth test", fmt.Sprintf("%.0f Hz", r.TestBandwidth)},
		{"Bandwidth loss", fmt.Sprintf("%.0f Hz", r.BandwidthLoss)},
		{"RMS ref", fmt.Sprintf("%.4f", r.RefRMS)},
		{"RMS test", fmt.Sprintf("%.4f", r.TestRMS)},
		{"RMS ratio", formatRatio(r.RMSRatio)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", l[0], l[1]); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var bw string
	switch r.Bandwidth {
	case quickcheck.BandwidthMajorLoss:
		bw = failStyle.Render("major bandwidth loss, check the recording format")
	case quickcheck.BandwidthModerateLoss:
		bw = warnStyle.Render("moderate bandwidth loss")
	default:
		bw = okStyle.Render("bandwidth ok")
	}

	lvl := okStyle.Render("level ok")
	if r.LevelMismatch {
		lvl = failStyle.Render("significant level difference, check the recording level")
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", bw, lvl)
	return err
}
