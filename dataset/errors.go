package dataset

import "fmt"

// UnknownColumnError indicates that a named column does not exist.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column: %q", e.Column)
}

// DuplicateColumnError indicates that a column name occurs more than once.
type DuplicateColumnError struct {
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column: %q", e.Column)
}

// ShapeMismatchError indicates sequences of unequal length.
type ShapeMismatchError struct {
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: want length %d, got %d", e.Want, e.Got)
}
