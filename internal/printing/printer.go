// Package printing sends compiled label PDFs to the label printer by driving
// a PDF viewer's silent-print mode.
package printing

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/pkordes/boxlabel/internal/config"
	"github.com/pkordes/boxlabel/internal/domain"
)

// paperFor maps a label size to the viewer's paper name for that stock.
func paperFor(labelSize string) (string, error) {
	switch strings.ToLower(labelSize) {
	case "small":
		return "30252 Address", nil
	case "large":
		return "30323 Shipping", nil
	default:
		return "", fmt.Errorf("printing: %w: %q", domain.ErrUnsupportedLabelSize, labelSize)
	}
}

// Printer prints PDFs on a named label printer through the configured
// viewer (SumatraPDF's -print-to interface).
type Printer struct {
	viewer  string
	printer string
	paper   string
	dryRun  bool
	log     *slog.Logger

	// Run executes the constructed command. The default spawns the viewer
	// process; tests substitute their own.
	Run func(ctx context.Context, name string, args ...string) error
}

// New builds a Printer for the given label size. The size is resolved to a
// paper name eagerly so a bad configuration fails before anything renders.
func New(cfg config.PrinterConfig, labelSize string, dryRun bool, log *slog.Logger) (*Printer, error) {
	paper, err := paperFor(labelSize)
	if err != nil {
		return nil, err
	}
	return &Printer{
		viewer:  cfg.Viewer,
		printer: cfg.Name,
		paper:   paper,
		dryRun:  dryRun,
		log:     log,
		Run:     runCommand,
	}, nil
}

// Args returns the viewer arguments used to print pdfPath.
func (p *Printer) Args(pdfPath string) []string {
	return []string{
		"-print-to", p.printer,
		"-print-settings", "noscale,paper=" + p.paper,
		"-silent",
		"-exit-when-done",
		pdfPath,
	}
}

// Print sends pdfPath to the printer. In dry-run mode the command is logged
// and not executed.
func (p *Printer) Print(ctx context.Context, pdfPath string) error {
	args := p.Args(pdfPath)
	if p.dryRun {
		p.log.Info("dry run, skipping print", "viewer", p.viewer, "args", strings.Join(args, " "))
		return nil
	}
	if err := p.Run(ctx, p.viewer, args...); err != nil {
		return fmt.Errorf("printing.Printer.Print %s: %w", pdfPath, err)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w\n%s", name, err, out)
	}
	return nil
}
