package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/cwbudde/algo-peaq/measure/peaq"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)

	qualityStyles = map[peaq.Quality]lipgloss.Style{
		peaq.QualityExcellent:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")),
		peaq.QualityGood:         lipgloss.NewStyle().Foreground(lipgloss.Color("#7ee787")),
		peaq.QualitySatisfactory: lipgloss.NewStyle().Foreground(lipgloss.Color("#e3b341")),
		peaq.QualityPoor:         lipgloss.NewStyle().Foreground(lipgloss.Color("#f0883e")),
		peaq.QualityBad:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f")),
	}

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e3b341"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f"))
)

func styledQuality(q peaq.Quality) string {
	return qualityStyles[q].Render(q.String())
}

// render writes v as YAML or JSON, or calls table for the table format.
func render(w io.Writer, format string, v any, table func(io.Writer) error) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return table(w)
	}
}
