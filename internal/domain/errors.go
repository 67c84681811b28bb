package domain

import "errors"

// ErrInvalidRecord is returned by entity constructors when a source record
// cannot be turned into an entity (e.g. a depth cell that is missing or not
// numeric). Ingestion wraps it with row context; callers match it with
// errors.Is. The record is rejected whole — there is no partial recovery.
var ErrInvalidRecord = errors.New("invalid record")

// ErrUnsupportedLabelSize is returned when a label-size configuration value
// matches none of the known label stocks. Unknown sizes must fail fast:
// silently defaulting would print on the wrong stock.
var ErrUnsupportedLabelSize = errors.New("unsupported label size")
