package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	compareDelay       int
	compareNoAlign     bool
	compareDiagnostics bool
)

var compareCmd = &cobra.Command{
	Use:   "compare REF TEST",
	Short: "Evaluate a test recording against its reference",
	Long: `Load both files, align them, and print the Objective Difference Grade, its
quality class and the model output values.

Alignment uses the peak of the cross-correlation unless --delay gives a
fixed lag (positive when the test starts late) or --no-align disables it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings
		if cmd.Flags().Changed("delay") {
			s.Delay = &compareDelay
		}
		if compareNoAlign {
			s.Align = false
		}

		c, err := compareFiles(args[0], args[1], s, compareDiagnostics)
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), s.Output, c, func(w io.Writer) error {
			return printComparison(w, c)
		})
	},
}

func init() {
	compareCmd.Flags().IntVar(&compareDelay, "delay", 0, "fixed lag of TEST behind REF in samples")
	compareCmd.Flags().BoolVar(&compareNoAlign, "no-align", false, "skip time alignment")
	compareCmd.Flags().BoolVar(&compareDiagnostics, "diagnostics", false, "include per-frame diagnostics")
}

func printComparison(w io.Writer, c *Comparison) error {
	if _, err := fmt.Fprintf(w, "%s %.3f  %s\n", labelStyle.Render("ODG:"), c.ODG, styledQuality(c.Quality)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value string
	}{
		{"Lag", fmt.Sprintf("%d samples (%.3f s)", c.Lag, c.LagSeconds)},
		{"Mean |diff| before", fmt.Sprintf("%.6f", c.DiffBefore)},
		{"Mean |diff| after", fmt.Sprintf("%.6f", c.DiffAfter)},
		{"Frames", fmt.Sprintf("%d", c.Frames)},
		{"AvgBwRef", fmt.Sprintf("%.4f", c.MOVs.AvgBwRef)},
		{"AvgBwTst", fmt.Sprintf("%.4f", c.MOVs.AvgBwTst)},
		{"NMRtotB", fmt.Sprintf("%.4f dB", c.MOVs.NMRtotB)},
		{"ADB", fmt.Sprintf("%.4f", c.MOVs.ADB)},
		{"MFPD", fmt.Sprintf("%.4f", c.MOVs.MFPD)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r.name, r.value); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if c.Diagnostics == nil {
		return nil
	}

	d := c.Diagnostics
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tw, "\nFrame\tBW ref\tBW test\tNMR mean [dB]\tNMR term\tBW term\tmax p\t\n"); err != nil {
		return err
	}
	for i := range d.NMRMean {
		if _, err := fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t%.3f\t%.3f\t%.3f\t\n",
			i, d.BWRef[i], d.BWTest[i], d.NMRMean[i], d.NMRContribution[i], d.BWContribution[i], d.MaxDetectionProbability[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
