// Package config loads and validates pipeline configuration from an optional
// YAML file plus environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldMap names the CSV columns a record's fields are read from. Site
// exports rarely agree on headers, so every column is remappable.
type FieldMap struct {
	// Hole is the column holding the drill-hole identifier.
	Hole string `yaml:"hole"`

	// Name is the column holding the box or sample name.
	Name string `yaml:"name"`

	// From and To are the columns holding the depth range, in meters.
	From string `yaml:"from"`
	To   string `yaml:"to"`

	// TagPosition, SkippedTags and ForcedTags only apply to the labels CSV.
	// TagPosition selects which end of a sample a tag sits at; the skip and
	// force columns carry pipe-separated tag name lists.
	TagPosition string `yaml:"tag_position"`
	SkippedTags string `yaml:"skipped_tags"`
	ForcedTags  string `yaml:"forced_tags"`
}

// PrinterConfig identifies the physical printer and the PDF viewer used to
// drive it.
type PrinterConfig struct {
	// Name is the installed printer's name. Defaults to the lab's DYMO.
	Name string `yaml:"name"`

	// Viewer is the path to the SumatraPDF executable used for silent
	// printing.
	Viewer string `yaml:"viewer"`
}

// Config holds all configuration for a label-printing run.
type Config struct {
	// LabelsCSV and SamplesCSV are the input files: box records and tag
	// records respectively.
	LabelsCSV  string `yaml:"labels_csv"`
	SamplesCSV string `yaml:"samples_csv"`

	// LedgerPath is the printed-labels JSON ledger.
	LedgerPath string `yaml:"ledger"`

	// LabelSize selects the label stock: "small" (30252 Address) or
	// "large" (30323 Shipping). Unknown values are rejected when the
	// printer and renderer are constructed.
	LabelSize string `yaml:"label_size"`

	// TagsEnabled controls whether sample tags are ingested, assigned and
	// rendered at all. When false, labels carry only the box identity.
	TagsEnabled bool `yaml:"tags_enabled"`

	// Boundary is the ambiguity policy: "ask" prompts interactively,
	// "yes"/"no" answer every boundary case the same way.
	Boundary string `yaml:"boundary"`

	// WorkDir receives the QR/LaTeX/PDF artifacts. Empty means a fresh
	// temp directory per run.
	WorkDir string `yaml:"work_dir"`

	// LogLevel controls the minimum log level. Defaults to "info", or the
	// LOG_LEVEL environment variable when set.
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Printer     PrinterConfig `yaml:"printer"`
	LabelFields FieldMap      `yaml:"label_fields"`
	TagFields   FieldMap      `yaml:"tag_fields"`
}

// Default returns the built-in configuration, matching the column headers
// and printer the field workflow has always used.
func Default() Config {
	return Config{
		LabelsCSV:   "Labels.csv",
		SamplesCSV:  "Samples.csv",
		LedgerPath:  "Printed Labels.json",
		LabelSize:   "small",
		TagsEnabled: true,
		Boundary:    "ask",
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Printer: PrinterConfig{
			Name:   "DYMO LabelWriter 450",
			Viewer: "bin/SumatraPDF-3.5.2-64.exe",
		},
		LabelFields: FieldMap{
			Hole:        "Hole ID",
			Name:        "Box ID",
			From:        "From",
			To:          "To",
			TagPosition: "Tag Position",
			SkippedTags: "Skipped Tags",
			ForcedTags:  "Forced Tags",
		},
		TagFields: FieldMap{
			Hole: "Hole",
			Name: "Sample",
			From: "From",
			To:   "To",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path skips the file and returns validated defaults
// (flags-only operation); an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config.Load: config file %s does not exist", path)
			}
			return Config{}, fmt.Errorf("config.Load: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate rejects values no component downstream would accept.
func (c Config) validate() error {
	switch c.Boundary {
	case "ask", "yes", "no":
	default:
		return fmt.Errorf("config: boundary must be ask, yes or no, got %q", c.Boundary)
	}
	if c.LabelsCSV == "" {
		return errors.New("config: labels_csv must not be empty")
	}
	if c.TagsEnabled && c.SamplesCSV == "" {
		return errors.New("config: samples_csv must not be empty when tags are enabled")
	}
	if c.LedgerPath == "" {
		return errors.New("config: ledger must not be empty")
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
