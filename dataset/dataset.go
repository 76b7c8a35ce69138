package dataset

import (
	"fmt"
	"math"
)

// Dataset is a rectangular collection of named float64 columns of equal
// length. Column order and row order are stable across all transformations;
// derived datasets are produced by Clone, never by mutating a shared
// instance.
type Dataset struct {
	cols  []Column
	index map[string]int
}

// New creates a dataset from columns, validating equal lengths and unique,
// non-empty names.
func New(cols ...Column) (*Dataset, error) {
	ds := &Dataset{
		cols:  make([]Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}

	want := -1
	for _, c := range cols {
		if c.name == "" {
			return nil, fmt.Errorf("dataset: column name must not be empty")
		}
		if _, ok := ds.index[c.name]; ok {
			return nil, &DuplicateColumnError{Column: c.name}
		}
		if want >= 0 && c.Len() != want {
			return nil, &ShapeMismatchError{Want: want, Got: c.Len()}
		}
		want = c.Len()

		ds.index[c.name] = len(ds.cols)
		ds.cols = append(ds.cols, c.clone())
	}

	return ds, nil
}

// MustNew is like New but panics on error. Intended for tests and examples
// with hard-coded columns.
func MustNew(cols ...Column) *Dataset {
	ds, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return ds
}

// FromColumns creates a dataset from parallel name and value slices.
func FromColumns(names []string, values [][]float64) (*Dataset, error) {
	if len(names) != len(values) {
		return nil, &ShapeMismatchError{Want: len(names), Got: len(values)}
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = NewColumn(name, values[i])
	}
	return New(cols...)
}

// Len returns the number of rows.
func (ds *Dataset) Len() int {
	if len(ds.cols) == 0 {
		return 0
	}
	return ds.cols[0].Len()
}

// NumColumns returns the number of columns.
func (ds *Dataset) NumColumns() int { return len(ds.cols) }

// Columns returns the column names in order.
func (ds *Dataset) Columns() []string {
	names := make([]string, len(ds.cols))
	for i, c := range ds.cols {
		names[i] = c.name
	}
	return names
}

// HasColumn reports whether a column exists.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.index[name]
	return ok
}

// Column returns the named column.
func (ds *Dataset) Column(name string) (Column, error) {
	i, ok := ds.index[name]
	if !ok {
		return Column{}, &UnknownColumnError{Column: name}
	}
	return ds.cols[i], nil
}

// Values returns the backing value slice of the named column, NaN at missing
// rows. The returned slice must not be modified.
func (ds *Dataset) Values(name string) ([]float64, error) {
	c, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	return c.Values(), nil
}

// IsMissing reports whether the cell at (name, row) is missing.
func (ds *Dataset) IsMissing(name string, row int) (bool, error) {
	c, err := ds.Column(name)
	if err != nil {
		return false, err
	}
	return c.IsMissing(row), nil
}

// HasMissing reports whether any cell of the dataset is missing.
func (ds *Dataset) HasMissing() bool {
	for _, c := range ds.cols {
		if c.MissingCount() > 0 {
			return true
		}
	}
	return false
}

// CompleteRows returns the rows observed in every listed column, in row
// order. With no columns listed, all columns are considered.
func (ds *Dataset) CompleteRows(names ...string) ([]int, error) {
	if len(names) == 0 {
		names = ds.Columns()
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		c, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	rows := make([]int, 0, ds.Len())
	for row := range ds.Len() {
		complete := true
		for _, c := range cols {
			if c.IsMissing(row) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Clone returns a deep copy of the dataset.
func (ds *Dataset) Clone() *Dataset {
	out := &Dataset{
		cols:  make([]Column, len(ds.cols)),
		index: make(map[string]int, len(ds.index)),
	}
	for i, c := range ds.cols {
		out.cols[i] = c.clone()
		out.index[c.name] = i
	}
	return out
}

// SetValue writes an observed value into the cell at (name, row), clearing
// its missingness. Intended for construction and for strategies filling their
// own clones.
func (ds *Dataset) SetValue(name string, row int, v float64) error {
	i, ok := ds.index[name]
	if !ok {
		return &UnknownColumnError{Column: name}
	}
	if row < 0 || row >= ds.cols[i].Len() {
		return fmt.Errorf("dataset: row %d out of range [0,%d)", row, ds.cols[i].Len())
	}
	ds.cols[i].set(row, v)
	return nil
}

// SetMissing nulls the cell at (name, row).
func (ds *Dataset) SetMissing(name string, row int) error {
	i, ok := ds.index[name]
	if !ok {
		return &UnknownColumnError{Column: name}
	}
	if row < 0 || row >= ds.cols[i].Len() {
		return fmt.Errorf("dataset: row %d out of range [0,%d)", row, ds.cols[i].Len())
	}
	ds.cols[i].setMissing(row)
	return nil
}

// Equal reports whether two datasets have identical shape, column order and
// cell contents. Two cells are equal when both are missing or both hold the
// same value.
func (ds *Dataset) Equal(other *Dataset) bool {
	if other == nil || len(ds.cols) != len(other.cols) || ds.Len() != other.Len() {
		return false
	}
	for i, c := range ds.cols {
		oc := other.cols[i]
		if c.name != oc.name {
			return false
		}
		for row, v := range c.values {
			switch {
			case c.IsMissing(row) != oc.IsMissing(row):
				return false
			case c.IsMissing(row):
				continue
			case v != oc.values[row] && !(math.IsNaN(v) && math.IsNaN(oc.values[row])):
				return false
			}
		}
	}
	return true
}
