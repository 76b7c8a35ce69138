package impute

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTargets is returned when no target columns are requested.
	ErrNoTargets = errors.New("no target columns")

	// ErrInvalidK is returned when the neighbor count is not positive or
	// not smaller than the number of fully-observed candidate rows.
	ErrInvalidK = errors.New("k must be positive and smaller than the number of fully-observed rows")

	// ErrInvalidCompletions is returned when the multiple-imputation
	// ensemble size is not positive.
	ErrInvalidCompletions = errors.New("completions must be positive")

	// ErrInvalidIterations is returned when an iteration cap is not positive.
	ErrInvalidIterations = errors.New("iterations must be positive")

	// ErrInvalidTrees is returned when the forest size is not positive.
	ErrInvalidTrees = errors.New("tree count must be positive")

	// ErrDegenerateColumn is returned when a target column has zero observed
	// values, so no plausible imputation exists.
	ErrDegenerateColumn = errors.New("degenerate column")
)

// DegenerateColumnError reports a target column with no observed values.
//
// errors.Is(err, ErrDegenerateColumn) matches it.
type DegenerateColumnError struct {
	Column string
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("column %q has no observed values", e.Column)
}

func (e *DegenerateColumnError) Unwrap() error { return ErrDegenerateColumn }
