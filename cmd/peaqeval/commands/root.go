package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
	flagRate     int
	flagFrame    int
	flagHop      int
	flagADB      float64
	flagWindow   string
	flagMinLen   int
	flagParallel int

	// Effective settings after merging file and flags.
	settings = defaultSettings()
)

var rootCmd = &cobra.Command{
	Use:   "peaqeval",
	Short: "Perceptual audio quality evaluation",
	Long: `peaqeval compares a test recording against its reference with a simplified
PEAQ model and reports an Objective Difference Grade between 0 (transparent)
and -4 (very annoying).

Both files are decoded (WAV, MP3, FLAC, Ogg Vorbis), mixed to mono,
resampled to a common rate, peak-normalised and time-aligned before the
evaluation.

Settings may be read from a YAML file (--config); flags override it.

Examples:
  peaqeval compare master.wav capture.flac
  peaqeval compare --delay 441 -o yaml master.wav capture.wav
  peaqeval batch --csv results.csv refs/ captures/
  peaqeval check master.wav capture.mp3
  peaqeval bands --frame-size 2048 --rate 48000
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return loadSettings(cmd) },
}

// Command returns the root cobra command.
func Command() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	d := defaultSettings()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "settings file (YAML)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&outputFormat, "output", "o", d.Output, "output format: table, yaml or json")
	pf.IntVar(&flagRate, "rate", d.SampleRate, "analysis sample rate in Hz")
	pf.IntVar(&flagFrame, "frame-size", d.FrameSize, "analysis frame and FFT size")
	pf.IntVar(&flagHop, "hop", d.HopSize, "frame hop in samples (0 = frame-size/2)")
	pf.Float64Var(&flagADB, "adb-threshold", d.ADBThresholdDB, "per-band NMR in dB above which a frame counts as distorted")
	pf.StringVar(&flagWindow, "window", d.Window, "analysis window: hann, hamming, blackman or rectangular")
	pf.IntVar(&flagMinLen, "min-samples", d.MinSamples, "minimum aligned length in samples")
	pf.IntVar(&flagParallel, "parallel", d.Parallelism, "frame loop goroutines (0 = GOMAXPROCS)")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(bandsCmd)
}

func initLogging() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

// loadSettings merges defaults, the settings file and explicitly set flags.
func loadSettings(cmd *cobra.Command) error {
	s := defaultSettings()
	if cfgFile != "" {
		if err := readSettingsFile(cfgFile, &s); err != nil {
			return err
		}
		slog.Debug("settings file loaded", "path", cfgFile)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		s.Output = outputFormat
	}
	if flags.Changed("rate") {
		s.SampleRate = flagRate
	}
	if flags.Changed("frame-size") {
		s.FrameSize = flagFrame
	}
	if flags.Changed("hop") {
		s.HopSize = flagHop
	}
	if flags.Changed("adb-threshold") {
		s.ADBThresholdDB = flagADB
	}
	if flags.Changed("window") {
		s.Window = flagWindow
	}
	if flags.Changed("min-samples") {
		s.MinSamples = flagMinLen
	}
	if flags.Changed("parallel") {
		s.Parallelism = flagParallel
	}

	if err := s.validate(); err != nil {
		return err
	}

	settings = s
	return nil
}
