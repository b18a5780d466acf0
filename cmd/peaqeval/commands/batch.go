package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-peaq/audiofile"
)

var batchCSV string

var batchCmd = &cobra.Command{
	Use:   "batch DIR_A DIR_B",
	Short: "Evaluate the files of two folders pairwise",
	Long: `Pair the audio files of DIR_A (references) and DIR_B (tests) in sorted name
order and evaluate every pair. Surplus files in the longer folder are
skipped. A failing pair is logged and recorded without a grade; the batch
continues.

Results are written as CSV to --csv, or printed as a table.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, err := pairFiles(args[0], args[1])
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			return fmt.Errorf("no audio files to pair in %s and %s", args[0], args[1])
		}

		rows := runBatch(pairs, settings)

		if batchCSV != "" {
			f, err := os.Create(batchCSV)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", batchCSV, err)
			}
			defer f.Close()

			if err := writeCSV(f, rows); err != nil {
				return err
			}
			slog.Info("batch results written", "path", batchCSV, "pairs", len(rows))
			return f.Close()
		}

		return render(cmd.OutOrStdout(), settings.Output, rows, func(w io.Writer) error {
			return printBatch(w, rows)
		})
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchCSV, "csv", "", "write results as CSV to this file")
}

type filePair struct {
	Ref, Test string
}

// BatchRow is one line of a batch report. ODG is nil for failed pairs.
type BatchRow struct {
	Reference string   `json:"reference" yaml:"reference"`
	Test      string   `json:"test" yaml:"test"`
	ODG       *float64 `json:"odg" yaml:"odg"`
	Quality   string   `json:"quality,omitempty" yaml:"quality,omitempty"`
	Lag       int      `json:"lag_samples" yaml:"lag_samples"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// listAudioFiles returns the decodable files of dir in sorted order.
func listAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := audiofile.FormatFromPath(e.Name()); err != nil {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// pairFiles zips the sorted audio files of both folders.
func pairFiles(dirA, dirB string) ([]filePair, error) {
	refs, err := listAudioFiles(dirA)
	if err != nil {
		return nil, err
	}
	tests, err := listAudioFiles(dirB)
	if err != nil {
		return nil, err
	}

	if len(refs) != len(tests) {
		slog.Warn("folders hold different numbers of audio files; extra files are skipped",
			"refs", len(refs), "tests", len(tests))
	}

	n := min(len(refs), len(tests))
	pairs := make([]filePair, n)
	for i := range pairs {
		pairs[i] = filePair{Ref: refs[i], Test: tests[i]}
	}
	return pairs, nil
}

func runBatch(pairs []filePair, s Settings) []BatchRow {
	rows := make([]BatchRow, len(pairs))
	for i, p := range pairs {
		rows[i] = BatchRow{Reference: filepath.Base(p.Ref), Test: filepath.Base(p.Test)}

		slog.Info("comparing", "pair", i+1, "of", len(pairs), "ref", p.Ref, "test", p.Test)
		c, err := compareFiles(p.Ref, p.Test, s, false)
		if err != nil {
			slog.Error("pair failed", "ref", p.Ref, "test", p.Test, "error", err)
			rows[i].Error = err.Error()
			continue
		}

		odg := c.ODG
		rows[i].ODG = &odg
		rows[i].Quality = c.Quality.String()
		rows[i].Lag = c.Lag
	}
	return rows
}

func writeCSV(w io.Writer, rows []BatchRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"reference", "test", "odg", "quality", "lag_samples", "error"}); err != nil {
		return err
	}

	for _, r := range rows {
		odg := ""
		if r.ODG != nil {
			odg = strconv.FormatFloat(*r.ODG, 'f', 4, 64)
		}
		if err := cw.Write([]string{r.Reference, r.Test, odg, r.Quality, strconv.Itoa(r.Lag), r.Error}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func printBatch(w io.Writer, rows []BatchRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Reference\tTest\tODG\tQuality\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "---------\t----\t---\t-------\n"); err != nil {
		return err
	}

	for _, r := range rows {
		odg, quality := "-", failStyle.Render("failed")
		if r.ODG != nil {
			odg = strconv.FormatFloat(*r.ODG, 'f', 3, 64)
			quality = r.Quality
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Reference, r.Test, odg, quality); err != nil {
			return err
		}
	}
	return tw.Flush()
}
