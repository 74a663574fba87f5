// pkg/pipeline/error.go
package pipeline

import (
	"errors"
	"fmt"
)

// ErrorCategory defines the classes of failure a run can hit. Row-level
// data problems are not in this taxonomy: they are repaired in place by the
// cleaner and the normalizer and never abort a run.
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	ErrorCategoryMissingInput
	ErrorCategoryMissingResource
	ErrorCategorySchemaMismatch
	ErrorCategoryPersistence
	ErrorCategoryInternal
)

// String returns a human-readable name for the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryMissingInput:
		return "MissingInput"
	case ErrorCategoryMissingResource:
		return "MissingResource"
	case ErrorCategorySchemaMismatch:
		return "SchemaMismatch"
	case ErrorCategoryPersistence:
		return "Persistence"
	case ErrorCategoryInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// RunError is a fatal pipeline error. It records the stage the run was in
// when the failure occurred; by then no partial artifact has been written.
type RunError struct {
	Category ErrorCategory
	Stage    State
	Err      error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("[%s at %s] %v", e.Category, e.Stage, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *RunError) Unwrap() error {
	return e.Err
}

func newRunError(category ErrorCategory, stage State, err error) *RunError {
	return &RunError{Category: category, Stage: stage, Err: err}
}

// CategoryOf extracts the category from an error, or ErrorCategoryNone for
// nil and ErrorCategoryInternal for errors outside the taxonomy.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}
	var re *RunError
	if errors.As(err, &re) {
		return re.Category
	}
	return ErrorCategoryInternal
}
