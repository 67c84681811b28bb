package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/boxlabel/internal/domain"
	"github.com/pkordes/boxlabel/internal/ledger"
)

// Renderer produces a printable PDF for one assigned box.
type Renderer interface {
	Render(ctx context.Context, box *domain.Box) (pdfPath string, err error)
}

// Printer sends a PDF to the label printer.
type Printer interface {
	Print(ctx context.Context, pdfPath string) error
}

// RunService executes a full label run over already-ingested boxes and tags.
type RunService struct {
	ledger   ledger.Ledger
	renderer Renderer
	printer  Printer
	resolver domain.BoundaryResolver
	log      *slog.Logger
}

// NewRunService constructs a RunService with its collaborators.
func NewRunService(led ledger.Ledger, r Renderer, p Printer, resolve domain.BoundaryResolver, log *slog.Logger) *RunService {
	return &RunService{ledger: led, renderer: r, printer: p, resolver: resolve, log: log}
}

// Run sorts the boxes, assigns tags, and prints one label per box in order.
// The ledger is updated and saved after every printed box, so interrupting
// the run loses at most the box in flight; the next run skips everything
// already recorded.
func (s *RunService) Run(ctx context.Context, boxes []*domain.Box, tags []domain.Tag) error {
	domain.SortBoxes(boxes)

	if err := Assign(boxes, tags, s.resolver); err != nil {
		return fmt.Errorf("service.RunService.Run: %w", err)
	}

	for _, box := range boxes {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("service.RunService.Run: %w", err)
		}

		s.log.Info("printing label", "box", box.String(), "tags", len(box.Tags()))

		pdfPath, err := s.renderer.Render(ctx, box)
		if err != nil {
			return fmt.Errorf("service.RunService.Run: %w", err)
		}
		if err := s.printer.Print(ctx, pdfPath); err != nil {
			return fmt.Errorf("service.RunService.Run: %w", err)
		}

		s.ledger.Record(box.Hole(), box.Name())
		if err := s.ledger.Save(); err != nil {
			return fmt.Errorf("service.RunService.Run: %w", err)
		}
		s.log.Debug("label recorded", "box", box.String(), "pdf", pdfPath)
	}

	s.log.Info("run complete", "boxes", len(boxes))
	return nil
}
