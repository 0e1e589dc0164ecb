package analytics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ChartConfig holds the presentation constants of the dashboard charts.
//
//	palette: ["#2563eb", "#16a34a"]
//	radar:
//	  - metric: projects
//	    multiplier: 10
type ChartConfig struct {
	Palette []string   `yaml:"palette"`
	Radar   RadarTable `yaml:"radar"`
}

// DefaultPalette is used when no palette is configured.
func DefaultPalette() []string {
	return []string{
		"#2563eb", "#16a34a", "#f59e0b", "#dc2626",
		"#7c3aed", "#0891b2", "#db2777", "#65a30d",
	}
}

// DefaultChartConfig returns the built-in palette and radar table.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{Palette: DefaultPalette(), Radar: DefaultRadarTable()}
}

// LoadChartConfig reads a YAML chart file. An empty path returns the
// defaults; sections missing from the file keep their defaults.
func LoadChartConfig(path string) (ChartConfig, error) {
	if path == "" {
		return DefaultChartConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ChartConfig{}, fmt.Errorf("read chart config: %w", err)
	}
	return ParseChartConfig(data)
}

// ParseChartConfig decodes YAML chart settings and validates them.
func ParseChartConfig(data []byte) (ChartConfig, error) {
	var cfg ChartConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return ChartConfig{}, fmt.Errorf("parse chart config: %w", err)
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = DefaultPalette()
	}
	if len(cfg.Radar) == 0 {
		cfg.Radar = DefaultRadarTable()
	}
	for _, e := range cfg.Radar {
		if _, ok := RadarValue(Metrics{}, e.Metric); !ok {
			return ChartConfig{}, fmt.Errorf("chart config: unknown radar metric %q", e.Metric)
		}
		if e.Multiplier < 0 {
			return ChartConfig{}, fmt.Errorf("chart config: negative multiplier for %q", e.Metric)
		}
	}
	return cfg, nil
}
