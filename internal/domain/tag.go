// Package domain holds the core entities of the label pipeline: Tags (point
// samples taken from a drill hole) and Boxes (physical containers covering a
// depth interval of a hole), together with the rules by which tags are
// assigned to boxes.
package domain

import (
	"fmt"
	"strconv"
)

// Tag is a single sample tag: a named marker taken from a hole over a depth
// range, in meters. Tags are immutable after construction; boxes hold
// references to them but never change them.
type Tag struct {
	hole          string
	name          string
	startingDepth float64
	endingDepth   float64
}

// NewTag builds a Tag from raw record fields. The depth fields arrive as the
// strings found in the source record; a missing or non-numeric depth makes
// the whole record invalid (wrapped ErrInvalidRecord).
func NewTag(hole, name, startingDepth, endingDepth string) (Tag, error) {
	start, err := parseDepth(startingDepth)
	if err != nil {
		return Tag{}, fmt.Errorf("domain.NewTag %q: starting depth: %w", name, err)
	}
	end, err := parseDepth(endingDepth)
	if err != nil {
		return Tag{}, fmt.Errorf("domain.NewTag %q: ending depth: %w", name, err)
	}
	return Tag{hole: hole, name: name, startingDepth: start, endingDepth: end}, nil
}

// Hole returns the identifier of the drill hole the sample was taken from.
func (t Tag) Hole() string { return t.hole }

// Name returns the tag's name.
func (t Tag) Name() string { return t.name }

// StartingDepth returns the depth at which the sample starts, in meters.
func (t Tag) StartingDepth() float64 { return t.startingDepth }

// EndingDepth returns the depth at which the sample ends, in meters.
func (t Tag) EndingDepth() float64 { return t.endingDepth }

// Less reports whether t sorts before other. Tags order by starting depth
// only; equal depths carry no tie-break, so a stable sort keeps their
// insertion order.
func (t Tag) Less(other Tag) bool {
	return t.startingDepth < other.startingDepth
}

// String returns the display identity "HOLE-NAME", the form used in prompts
// and on labels.
func (t Tag) String() string {
	return t.hole + "-" + t.name
}

// Describe returns the long human-readable form including the depth range.
func (t Tag) Describe() string {
	return fmt.Sprintf("%s-%s | %.2f m - %.2f m", t.hole, t.name, t.startingDepth, t.endingDepth)
}

// parseDepth converts a raw depth cell to meters.
func parseDepth(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: depth is empty", ErrInvalidRecord)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: depth %q is not a number", ErrInvalidRecord, s)
	}
	return v, nil
}
