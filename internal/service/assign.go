// Package service implements the business logic of a label run: assigning
// tags to boxes and driving each box through render, print, and ledger
// recording.
package service

import (
	"fmt"

	"github.com/pkordes/boxlabel/internal/domain"
)

// Assign offers every tag to every box of the same hole and then sorts each
// box's accepted tags by starting depth. Boxes with overlapping intervals
// may each accept the same tag; the engine deliberately does not enforce
// exclusivity.
//
// Deterministic: for fixed inputs and fixed resolver answers, repeated runs
// produce identical tag lists. The only error source is the resolver, whose
// failure aborts the pass.
func Assign(boxes []*domain.Box, tags []domain.Tag, resolve domain.BoundaryResolver) error {
	for _, tag := range tags {
		for _, box := range boxes {
			if box.Hole() != tag.Hole() {
				continue
			}
			if err := box.AddTag(tag, resolve); err != nil {
				return fmt.Errorf("service.Assign: %w", err)
			}
		}
	}
	for _, box := range boxes {
		box.SortTags()
	}
	return nil
}

// Holes returns the set of hole identifiers the boxes cover, used to limit
// tag ingestion to holes that can actually receive tags.
func Holes(boxes []*domain.Box) map[string]struct{} {
	holes := make(map[string]struct{}, len(boxes))
	for _, box := range boxes {
		holes[box.Hole()] = struct{}{}
	}
	return holes
}
