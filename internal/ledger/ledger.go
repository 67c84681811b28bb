// Package ledger persists the record of which boxes have already had labels
// printed. The on-disk format is a JSON object keyed by hole identifier, each
// value the list of printed box names — the file is shared with the field
// crew's existing tooling, so the shape and formatting are fixed.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/maruel/natural"
)

// Ledger tracks printed boxes across runs. Implementations must make
// membership checks cheap: the pipeline consults the ledger for every
// ingested box before assignment starts.
type Ledger interface {
	// Contains reports whether a label for the box was already printed.
	Contains(hole, box string) bool

	// Record marks a box as printed. Idempotent.
	Record(hole, box string)

	// Save persists the ledger. Safe to call repeatedly; the pipeline saves
	// after every printed box so an interrupted run loses at most the box
	// in flight.
	Save() error
}

// fileLedger is the JSON-file implementation of Ledger.
type fileLedger struct {
	path    string
	printed map[string][]string
}

// Open loads the ledger at path. A missing or empty file yields an empty
// ledger — first runs start with no printed history.
func Open(path string) (Ledger, error) {
	l := &fileLedger{path: path, printed: map[string][]string{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger.Open: %w", err)
	}
	if err := json.Unmarshal(data, &l.printed); err != nil {
		return nil, fmt.Errorf("ledger.Open: parse %s: %w", path, err)
	}
	return l, nil
}

func (l *fileLedger) Contains(hole, box string) bool {
	for _, name := range l.printed[hole] {
		if name == box {
			return true
		}
	}
	return false
}

func (l *fileLedger) Record(hole, box string) {
	if l.Contains(hole, box) {
		return
	}
	l.printed[hole] = append(l.printed[hole], box)
}

// Save writes the ledger as tab-indented JSON. Hole keys marshal in sorted
// order; box names within a hole are natural-sorted so "Box 2" lists before
// "Box 10".
func (l *fileLedger) Save() error {
	for hole := range l.printed {
		names := l.printed[hole]
		sort.SliceStable(names, func(i, j int) bool {
			return natural.Less(names[i], names[j])
		})
	}

	data, err := json.MarshalIndent(l.printed, "", "\t")
	if err != nil {
		return fmt.Errorf("ledger.Save: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("ledger.Save: %w", err)
	}
	return nil
}
