package dataset

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// Column is a named sequence of float64 values with per-row missingness.
// A missing cell holds NaN in the value slot and has its row bit set in the
// missing bitmap; the two views always agree.
type Column struct {
	name    string
	values  []float64
	missing *roaring.Bitmap
}

// NewColumn creates a column from values. NaN entries are recorded as missing.
// The values slice is copied.
func NewColumn(name string, values []float64) Column {
	c := Column{
		name:    name,
		values:  make([]float64, len(values)),
		missing: roaring.New(),
	}
	copy(c.values, values)
	for i, v := range c.values {
		if math.IsNaN(v) {
			c.missing.Add(uint32(i))
		}
	}
	return c
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Len returns the number of rows.
func (c Column) Len() int { return len(c.values) }

// Values returns the backing value slice, NaN at missing rows.
// The returned slice must not be modified.
func (c Column) Values() []float64 { return c.values }

// Value returns the value at row. It is NaN if the cell is missing.
func (c Column) Value(row int) float64 { return c.values[row] }

// IsMissing reports whether the cell at row is missing.
func (c Column) IsMissing(row int) bool { return c.missing.Contains(uint32(row)) }

// MissingCount returns the number of missing cells.
func (c Column) MissingCount() int { return int(c.missing.GetCardinality()) }

// ObservedCount returns the number of observed (non-missing) cells.
func (c Column) ObservedCount() int { return len(c.values) - c.MissingCount() }

// Missing returns a copy of the missingness bitmap.
func (c Column) Missing() *roaring.Bitmap { return c.missing.Clone() }

// ObservedValues returns the observed values in row order.
func (c Column) ObservedValues() []float64 {
	out := make([]float64, 0, c.ObservedCount())
	for i, v := range c.values {
		if !c.missing.Contains(uint32(i)) {
			out = append(out, v)
		}
	}
	return out
}

// clone returns a deep copy of the column.
func (c Column) clone() Column {
	out := Column{
		name:    c.name,
		values:  make([]float64, len(c.values)),
		missing: c.missing.Clone(),
	}
	copy(out.values, c.values)
	return out
}

// set writes an observed value, clearing missingness at row.
func (c *Column) set(row int, v float64) {
	c.values[row] = v
	c.missing.Remove(uint32(row))
}

// setMissing nulls the cell at row.
func (c *Column) setMissing(row int) {
	c.values[row] = math.NaN()
	c.missing.Add(uint32(row))
}
