package commands

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/algo-peaq/audiofile"
	"github.com/cwbudde/algo-peaq/dsp/window"
	"github.com/cwbudde/algo-peaq/measure/peaq"
)

// Settings is the CLI configuration as read from a YAML file.
type Settings struct {
	SampleRate     int     `yaml:"sample_rate"`
	FrameSize      int     `yaml:"frame_size"`
	HopSize        int     `yaml:"hop_size"`
	ADBThresholdDB float64 `yaml:"adb_threshold_db"`
	Window         string  `yaml:"window"`
	Parallelism    int     `yaml:"parallelism"`
	// Align enables cross-correlation alignment. Delay, when set, replaces
	// it with a fixed lag in samples.
	Align      bool   `yaml:"align"`
	Delay      *int   `yaml:"delay,omitempty"`
	MinSamples int    `yaml:"min_samples"`
	Output     string `yaml:"output"`
}

func defaultSettings() Settings {
	return Settings{
		SampleRate:     audiofile.DefaultTargetRate,
		FrameSize:      peaq.DefaultFrameSize,
		ADBThresholdDB: peaq.DefaultADBThresholdDB,
		Window:         "hann",
		Align:          true,
		MinSamples:     1024,
		Output:         "table",
	}
}

func readSettingsFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return nil
}

func (s Settings) validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be > 0, got %d", s.SampleRate)
	}
	switch s.Output {
	case "table", "yaml", "json":
	default:
		return fmt.Errorf("unknown output format %q (want table, yaml or json)", s.Output)
	}
	if _, err := window.ParseType(s.Window); err != nil {
		return err
	}
	if s.MinSamples < 0 {
		return fmt.Errorf("min_samples must be >= 0, got %d", s.MinSamples)
	}

	cfg := peaq.ApplyOptions(s.evaluatorOptions()...)
	return cfg.Validate()
}

// evaluatorOptions maps the settings onto evaluator options. The window
// name must already be valid.
func (s Settings) evaluatorOptions() []peaq.Option {
	win, _ := window.ParseType(s.Window)

	return []peaq.Option{
		peaq.WithSampleRate(float64(s.SampleRate)),
		peaq.WithFrameSize(s.FrameSize),
		peaq.WithHopSize(s.HopSize),
		peaq.WithADBThreshold(s.ADBThresholdDB),
		peaq.WithParallelism(s.Parallelism),
		peaq.WithWindow(win),
	}
}
