package imputego

import (
	"errors"
	"fmt"

	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/evaluate"
	"github.com/hupe1980/imputego/impute"
	"github.com/hupe1980/imputego/mar"
)

var (
	// ErrInvalidProportion is returned when a missingness proportion is
	// outside (0, 1).
	ErrInvalidProportion = errors.New("invalid proportion")

	// ErrInvalidK is returned when a neighbor count is not positive.
	ErrInvalidK = errors.New("invalid k")

	// ErrInvalidCompletions is returned when a completion count is not
	// positive.
	ErrInvalidCompletions = errors.New("invalid completions")

	// ErrInvalidIterations is returned when an iteration cap is not
	// positive.
	ErrInvalidIterations = errors.New("invalid iterations")

	// ErrInvalidTrees is returned when a forest size is not positive.
	ErrInvalidTrees = errors.New("invalid tree count")

	// ErrNoTargets is returned when an operation names no target columns.
	ErrNoTargets = errors.New("no target columns")

	// ErrEmptyMask is returned when an evaluation mask selects no cells.
	ErrEmptyMask = errors.New("empty mask")

	// ErrNotInjected is returned when an operation needs the missingness
	// mask but InjectMAR has not been called.
	ErrNotInjected = errors.New("no missingness injected")
)

// ErrUnknownColumn indicates a reference to a column the dataset lacks.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnknownColumn struct {
	Column string
	cause  error
}

func (e *ErrUnknownColumn) Error() string {
	return fmt.Sprintf("unknown column: %q", e.Column)
}

func (e *ErrUnknownColumn) Unwrap() error { return e.cause }

// ErrDuplicateColumn indicates a column name occurring more than once.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDuplicateColumn struct {
	Column string
	cause  error
}

func (e *ErrDuplicateColumn) Error() string {
	return fmt.Sprintf("duplicate column: %q", e.Column)
}

func (e *ErrDuplicateColumn) Unwrap() error { return e.cause }

// ErrShapeMismatch indicates sequences of unequal length.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrShapeMismatch struct {
	Want  int
	Got   int
	cause error
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch: want length %d, got %d", e.Want, e.Got)
}

func (e *ErrShapeMismatch) Unwrap() error { return e.cause }

// ErrDegenerateColumn indicates a target column with no observed values.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDegenerateColumn struct {
	Column string
	cause  error
}

func (e *ErrDegenerateColumn) Error() string {
	return fmt.Sprintf("degenerate column: %q", e.Column)
}

func (e *ErrDegenerateColumn) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Dataset shape normalization.
	var uc *dataset.UnknownColumnError
	if errors.As(err, &uc) {
		return &ErrUnknownColumn{Column: uc.Column, cause: err}
	}
	var dc *dataset.DuplicateColumnError
	if errors.As(err, &dc) {
		return &ErrDuplicateColumn{Column: dc.Column, cause: err}
	}
	var sm *dataset.ShapeMismatchError
	if errors.As(err, &sm) {
		return &ErrShapeMismatch{Want: sm.Want, Got: sm.Got, cause: err}
	}

	// Argument normalization.
	if errors.Is(err, mar.ErrInvalidProportion) {
		return fmt.Errorf("%w: %w", ErrInvalidProportion, err)
	}
	if errors.Is(err, impute.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}
	if errors.Is(err, impute.ErrInvalidCompletions) {
		return fmt.Errorf("%w: %w", ErrInvalidCompletions, err)
	}
	if errors.Is(err, impute.ErrInvalidIterations) {
		return fmt.Errorf("%w: %w", ErrInvalidIterations, err)
	}
	if errors.Is(err, impute.ErrInvalidTrees) {
		return fmt.Errorf("%w: %w", ErrInvalidTrees, err)
	}
	if errors.Is(err, impute.ErrNoTargets) {
		return fmt.Errorf("%w: %w", ErrNoTargets, err)
	}

	// Data pathologies.
	var dg *impute.DegenerateColumnError
	if errors.As(err, &dg) {
		return &ErrDegenerateColumn{Column: dg.Column, cause: err}
	}
	if errors.Is(err, evaluate.ErrEmptyMask) {
		return fmt.Errorf("%w: %w", ErrEmptyMask, err)
	}

	return err
}
