// pkg/model/cleaning.go
package model

import (
	"time"
)

// CleaningOperation represents a single row-level data repair performed
// while preparing an input table. Row-level repairs are never fatal; they
// are recorded so the operator can audit what the pipeline changed.
type CleaningOperation struct {
	TableName     string    // Logical table name ("product", "comment")
	ColumnName    string    // Column that was cleaned
	OriginalValue string    // Original value (empty when the value was missing)
	NewValue      string    // Value after cleaning
	RowIdentifier string    // Value identifying the row (usually product_name)
	Operation     string    // Type of cleaning performed (e.g. "median_imputation")
	Reason        string    // Why the cleaning was needed (e.g. "missing_value")
	CleanedAt     time.Time // When the cleaning occurred (set by the audit store)
}

// Cleaning operation types.
const (
	OpDefaultZero      = "default_zero"
	OpDefaultSentinel  = "default_sentinel"
	OpMedianImputation = "median_imputation"
)

// Cleaning reasons.
const (
	ReasonMissingValue    = "missing_value"
	ReasonUnparsableValue = "unparsable_value"
)
