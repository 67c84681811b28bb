// Package main is the entry point for the boxlabel CLI.
// Its sole responsibility is flag handling and wiring dependencies together.
// No business logic belongs here.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pkordes/boxlabel/internal/config"
	"github.com/pkordes/boxlabel/internal/domain"
	"github.com/pkordes/boxlabel/internal/ingest"
	"github.com/pkordes/boxlabel/internal/ledger"
	"github.com/pkordes/boxlabel/internal/printing"
	"github.com/pkordes/boxlabel/internal/prompt"
	"github.com/pkordes/boxlabel/internal/render"
	"github.com/pkordes/boxlabel/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// flags that override the config file when set on the command line.
type overrides struct {
	configPath string
	labelsCSV  string
	samplesCSV string
	ledgerPath string
	labelSize  string
	boundary   string
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	var o overrides

	cmd := &cobra.Command{
		Use:   "boxlabel",
		Short: "Print QR identification labels for core-sample boxes",
		Long: `boxlabel reads box records from a labels CSV and sample tags from a
samples CSV, assigns each tag to the boxes covering its depth, and prints
one QR label per box. Printed boxes are recorded in a JSON ledger so
re-running the tool only prints what is still missing.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			return run(cmd, cfg, o.dryRun)
		},
	}

	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&o.labelsCSV, "labels", "", "labels CSV with one row per box")
	cmd.Flags().StringVar(&o.samplesCSV, "samples", "", "samples CSV with one row per tag")
	cmd.Flags().StringVar(&o.ledgerPath, "ledger", "", "printed-labels JSON ledger")
	cmd.Flags().StringVar(&o.labelSize, "size", "", "label stock: small or large")
	cmd.Flags().StringVar(&o.boundary, "assume", "", "boundary-tag policy: ask, yes or no")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "render labels but do not print")

	return cmd
}

// loadConfig merges the config file with command-line overrides.
func loadConfig(cmd *cobra.Command, o overrides) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("labels") {
		cfg.LabelsCSV = o.labelsCSV
	}
	if cmd.Flags().Changed("samples") {
		cfg.SamplesCSV = o.samplesCSV
	}
	if cmd.Flags().Changed("ledger") {
		cfg.LedgerPath = o.ledgerPath
	}
	if cmd.Flags().Changed("size") {
		cfg.LabelSize = o.labelSize
	}
	if cmd.Flags().Changed("assume") {
		cfg.Boundary = o.boundary
	}
	return cfg, nil
}

// run wires the pipeline and executes it.
func run(cmd *cobra.Command, cfg config.Config, dryRun bool) error {
	// log/slog is the stdlib structured logger. JSON handler writes
	// machine-readable output; prompts go to stderr separately.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Construct the renderer and printer first: an unsupported label size
	// must fail before ingestion starts.
	renderer, err := render.NewRenderer(cfg.LabelSize, cfg.WorkDir, cfg.TagsEnabled)
	if err != nil {
		return err
	}
	printer, err := printing.New(cfg.Printer, cfg.LabelSize, dryRun, logger)
	if err != nil {
		return err
	}

	led, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return err
	}

	boxes, err := readBoxes(cfg, led)
	if err != nil {
		return err
	}
	logger.Info("boxes ingested", "count", len(boxes), "ledger", cfg.LedgerPath)

	var tags []domain.Tag
	if cfg.TagsEnabled {
		tags, err = readTags(cfg, boxes)
		if err != nil {
			return err
		}
		logger.Info("tags ingested", "count", len(tags))
	}

	var resolver domain.BoundaryResolver
	switch cfg.Boundary {
	case "yes":
		resolver = domain.FixedResolver(true)
	case "no":
		resolver = domain.FixedResolver(false)
	default:
		resolver = prompt.New(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	// A ctrl-C between boxes stops the run cleanly; the ledger already
	// holds everything printed so far.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := service.NewRunService(led, renderer, printer, resolver, logger)
	if err := svc.Run(ctx, boxes, tags); err != nil {
		return err
	}
	return nil
}

// readBoxes ingests the labels CSV, excluding already-printed boxes.
func readBoxes(cfg config.Config, led ledger.Ledger) ([]*domain.Box, error) {
	f, err := os.Open(cfg.LabelsCSV)
	if err != nil {
		return nil, fmt.Errorf("open labels csv: %w", err)
	}
	defer f.Close()

	lr := ingest.LabelReader{
		Fields:         cfg.LabelFields,
		TagStartColumn: cfg.TagFields.From,
		TagsEnabled:    cfg.TagsEnabled,
		Printed:        led.Contains,
	}
	return lr.Read(f)
}

// readTags ingests the samples CSV, limited to holes the run's boxes cover.
func readTags(cfg config.Config, boxes []*domain.Box) ([]domain.Tag, error) {
	f, err := os.Open(cfg.SamplesCSV)
	if err != nil {
		return nil, fmt.Errorf("open samples csv: %w", err)
	}
	defer f.Close()

	sr := ingest.SampleReader{
		Fields: cfg.TagFields,
		Holes:  service.Holes(boxes),
	}
	return sr.Read(f)
}
