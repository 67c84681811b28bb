// Package ingest reads box and tag records from CSV exports. Column names
// are supplied by configuration, so the same reader handles exports from
// different logging packages.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pkordes/boxlabel/internal/config"
	"github.com/pkordes/boxlabel/internal/domain"
)

// tagDelimiter separates multiple tag names inside one skip/force cell.
const tagDelimiter = "|"

// LabelReader ingests box records from a labels CSV.
type LabelReader struct {
	// Fields maps record fields to column names.
	Fields config.FieldMap

	// TagStartColumn is the value the tag-position cell is compared
	// against: when equal, tags match on their starting depth. It is the
	// samples CSV's "from" column name, mirroring how the position cell is
	// filled in.
	TagStartColumn string

	// TagsEnabled controls whether the per-box tag configuration columns
	// are consulted at all.
	TagsEnabled bool

	// Printed reports whether a box already had its label printed; such
	// boxes are excluded from the run entirely. Nil means no history.
	Printed func(hole, box string) bool
}

// Read parses all box records from src. Rows with an empty hole cell are
// skipped; already-printed boxes are dropped before their configuration is
// even read. Malformed depth cells fail the run with row context.
func (lr LabelReader) Read(src io.Reader) ([]*domain.Box, error) {
	rows, err := newRows(src)
	if err != nil {
		return nil, fmt.Errorf("ingest.LabelReader.Read: %w", err)
	}

	var boxes []*domain.Box
	for rows.next() {
		hole := rows.get(lr.Fields.Hole)
		if hole == "" {
			continue
		}
		name := rows.get(lr.Fields.Name)
		if lr.Printed != nil && lr.Printed(hole, name) {
			continue
		}

		spec := domain.BoxSpec{TagAtSampleStart: true}
		if lr.TagsEnabled {
			// True only on an exact match: a blank or unrecognized cell
			// means tags sit at the sample ends.
			spec.TagAtSampleStart = rows.get(lr.Fields.TagPosition) == lr.TagStartColumn
			spec.SkippedTags = splitTagSet(rows.get(lr.Fields.SkippedTags))
			spec.ForcedTags = splitTagSet(rows.get(lr.Fields.ForcedTags))
		}

		box, err := domain.NewBox(hole, name, rows.get(lr.Fields.From), rows.get(lr.Fields.To), spec)
		if err != nil {
			return nil, fmt.Errorf("ingest.LabelReader.Read: row %d: %w", rows.line, err)
		}
		boxes = append(boxes, box)
	}
	if err := rows.err(); err != nil {
		return nil, fmt.Errorf("ingest.LabelReader.Read: %w", err)
	}
	return boxes, nil
}

// SampleReader ingests tag records from a samples CSV.
type SampleReader struct {
	// Fields maps record fields to column names.
	Fields config.FieldMap

	// Holes restricts ingestion to tags of holes that actually have a box
	// in the run; tags for any other hole are skipped without parsing.
	Holes map[string]struct{}
}

// Read parses all tag records from src. Rows with an empty hole cell, or a
// hole outside Holes, are skipped. A samples export without a from/to column
// yields depth 0 for that side.
func (sr SampleReader) Read(src io.Reader) ([]domain.Tag, error) {
	rows, err := newRows(src)
	if err != nil {
		return nil, fmt.Errorf("ingest.SampleReader.Read: %w", err)
	}

	var tags []domain.Tag
	for rows.next() {
		hole := rows.get(sr.Fields.Hole)
		if hole == "" {
			continue
		}
		if _, ok := sr.Holes[hole]; !ok {
			continue
		}

		tag, err := domain.NewTag(hole,
			rows.get(sr.Fields.Name),
			rows.getDefault(sr.Fields.From, "0.0"),
			rows.getDefault(sr.Fields.To, "0.0"))
		if err != nil {
			return nil, fmt.Errorf("ingest.SampleReader.Read: row %d: %w", rows.line, err)
		}
		tags = append(tags, tag)
	}
	if err := rows.err(); err != nil {
		return nil, fmt.Errorf("ingest.SampleReader.Read: %w", err)
	}
	return tags, nil
}

// splitTagSet turns a pipe-separated cell into a name set. Empty cells and
// empty segments contribute nothing.
func splitTagSet(cell string) map[string]struct{} {
	var set map[string]struct{}
	for _, name := range strings.Split(cell, tagDelimiter) {
		if name == "" {
			continue
		}
		if set == nil {
			set = map[string]struct{}{}
		}
		set[name] = struct{}{}
	}
	return set
}

// rows iterates CSV records by header name.
type rows struct {
	r       *csv.Reader
	columns map[string]int
	record  []string
	line    int
	readErr error
}

// newRows reads the header row and prepares column lookups.
func newRows(src io.Reader) (*rows, error) {
	r := csv.NewReader(src)
	// Real-world exports occasionally have ragged rows; missing cells read
	// as empty rather than failing the file.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return &rows{r: r, columns: columns, line: 1}, nil
}

// next advances to the following record, returning false at EOF or on error.
func (rs *rows) next() bool {
	record, err := rs.r.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		rs.readErr = err
		return false
	}
	rs.record = record
	rs.line++
	return true
}

// get returns the named column's cell for the current record, or "" when the
// column or cell is absent.
func (rs *rows) get(column string) string {
	i, ok := rs.columns[column]
	if !ok || i >= len(rs.record) {
		return ""
	}
	return strings.TrimSpace(rs.record[i])
}

// getDefault is get with a fallback for exports that omit the column.
func (rs *rows) getDefault(column, fallback string) string {
	if _, ok := rs.columns[column]; !ok {
		return fallback
	}
	return rs.get(column)
}

// err reports any non-EOF read failure encountered by next.
func (rs *rows) err() error {
	return rs.readErr
}
