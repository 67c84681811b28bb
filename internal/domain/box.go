package domain

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
)

// BoundaryResolver decides whether a tag whose matching depth falls exactly
// on a box's interval edge belongs in that box. It is invoked synchronously
// from AddTag, only on exact boundary equality, and blocks that single
// tag/box comparison until it answers.
//
// Production wiring supplies an interactive yes/no prompt; non-interactive
// runs supply a fixed policy. An error aborts the run: failing to obtain an
// answer is not the same as answering no.
type BoundaryResolver interface {
	Resolve(tag Tag, box *Box) (bool, error)
}

// ResolverFunc adapts a function to the BoundaryResolver interface.
type ResolverFunc func(tag Tag, box *Box) (bool, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(tag Tag, box *Box) (bool, error) { return f(tag, box) }

// FixedResolver is a BoundaryResolver that always gives the same answer.
// Used for non-interactive runs (--assume yes / --assume no).
type FixedResolver bool

// Resolve returns the fixed answer.
func (r FixedResolver) Resolve(Tag, *Box) (bool, error) { return bool(r), nil }

// BoxSpec is the mutable configuration applied to a Box once, before
// assignment begins. Identity lives on the Box itself and never changes;
// everything that tunes the inclusion policy lives here.
type BoxSpec struct {
	// SkippedTags holds tag names never admitted to the box. Skip beats
	// force: a name in both sets is rejected.
	SkippedTags map[string]struct{}

	// ForcedTags holds tag names always admitted, without any depth check.
	ForcedTags map[string]struct{}

	// TagAtSampleStart selects which end of a tag's depth range is matched
	// against the box interval: the starting depth when true, the ending
	// depth when false.
	TagAtSampleStart bool
}

// Box is a physical sample container covering a depth interval of one hole.
// It owns the list of tags assigned to it; the list grows only through
// AddTag and is sorted once after all assignment completes.
type Box struct {
	hole          string
	name          string
	startingDepth float64
	endingDepth   float64

	spec BoxSpec
	tags []Tag
}

// NewBox builds a Box from raw record fields with the given configuration.
// Depth fields follow the same contract as NewTag: missing or non-numeric
// values invalidate the record. A nil skip/force set in spec means empty.
func NewBox(hole, name, startingDepth, endingDepth string, spec BoxSpec) (*Box, error) {
	start, err := parseDepth(startingDepth)
	if err != nil {
		return nil, fmt.Errorf("domain.NewBox %q: starting depth: %w", name, err)
	}
	end, err := parseDepth(endingDepth)
	if err != nil {
		return nil, fmt.Errorf("domain.NewBox %q: ending depth: %w", name, err)
	}
	return &Box{
		hole:          hole,
		name:          name,
		startingDepth: start,
		endingDepth:   end,
		spec:          spec,
	}, nil
}

// Hole returns the identifier of the hole this box belongs to.
func (b *Box) Hole() string { return b.hole }

// Name returns the box's name.
func (b *Box) Name() string { return b.name }

// StartingDepth returns the start of the interval the box covers, in meters.
func (b *Box) StartingDepth() float64 { return b.startingDepth }

// EndingDepth returns the end of the interval the box covers, in meters.
func (b *Box) EndingDepth() float64 { return b.endingDepth }

// TagAtSampleStart reports which end of a tag's range this box matches on.
func (b *Box) TagAtSampleStart() bool { return b.spec.TagAtSampleStart }

// Tags returns the box's tag list. During assignment the list is in
// discovery order; after SortTags it is ordered by starting depth.
func (b *Box) Tags() []Tag { return b.tags }

// String returns the display identity "HOLE-NAME".
func (b *Box) String() string {
	return b.hole + "-" + b.name
}

// Describe returns the long human-readable form including the depth range.
func (b *Box) Describe() string {
	return fmt.Sprintf("%s-%s | %.2f m - %.2f m", b.hole, b.name, b.startingDepth, b.endingDepth)
}

// AddTag applies the inclusion policy to tag and appends it on acceptance.
// Rejection is silent and non-exceptional; the outcome is observable only
// through Tags. The checks run in a fixed order:
//
//  1. a tag from another hole is never admitted;
//  2. a skipped name is never admitted, even if also forced;
//  3. a forced name is always admitted, without a depth check;
//  4. otherwise the tag's matching depth must lie in the closed box
//     interval — strictly inside is admitted outright, exactly on a bound
//     asks resolve, outside is rejected.
//
// The only returned errors are the resolver's own.
func (b *Box) AddTag(tag Tag, resolve BoundaryResolver) error {
	if tag.hole != b.hole {
		return nil
	}
	if _, skipped := b.spec.SkippedTags[tag.name]; skipped {
		return nil
	}

	if _, forced := b.spec.ForcedTags[tag.name]; !forced {
		depth := tag.endingDepth
		if b.spec.TagAtSampleStart {
			depth = tag.startingDepth
		}
		if depth < b.startingDepth || depth > b.endingDepth {
			return nil
		}

		if depth == b.startingDepth || depth == b.endingDepth {
			include, err := resolve.Resolve(tag, b)
			if err != nil {
				return fmt.Errorf("domain.Box.AddTag: resolve boundary: %w", err)
			}
			if !include {
				return nil
			}
		}
	}

	b.tags = append(b.tags, tag)
	return nil
}

// SortTags orders the box's tags by starting depth. The sort is stable, so
// tags with equal starting depths keep the order in which they were added.
// Called once per box after all assignment completes.
func (b *Box) SortTags() {
	sort.SliceStable(b.tags, func(i, j int) bool {
		return b.tags[i].Less(b.tags[j])
	})
}

// Less reports whether b sorts before other: boxes of the same hole order by
// starting depth; otherwise the hole identifiers order naturally, so
// "Hole-2" precedes "Hole-10".
func (b *Box) Less(other *Box) bool {
	if b.hole == other.hole {
		return b.startingDepth < other.startingDepth
	}
	return natural.Less(b.hole, other.hole)
}

// SortBoxes orders boxes by hole (natural order), then starting depth.
// Applied once after ingestion; holes and depths do not change afterwards.
func SortBoxes(boxes []*Box) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].Less(boxes[j])
	})
}
