package dataset

import "github.com/RoaringBitmap/roaring/v2"

// Mask is a per-(row, column) missingness snapshot, one bitmap per column.
// It is derived from a dataset at a point in time and does not track later
// changes, so the injector's mask stays valid after strategies fill cells.
type Mask struct {
	names []string
	bits  map[string]*roaring.Bitmap
}

// NewMask builds a mask from parallel name and bitmap slices. The bitmaps
// are cloned.
func NewMask(names []string, bits []*roaring.Bitmap) (*Mask, error) {
	if len(names) != len(bits) {
		return nil, &ShapeMismatchError{Want: len(names), Got: len(bits)}
	}

	m := &Mask{
		names: make([]string, 0, len(names)),
		bits:  make(map[string]*roaring.Bitmap, len(names)),
	}
	for i, name := range names {
		if _, ok := m.bits[name]; ok {
			return nil, &DuplicateColumnError{Column: name}
		}
		m.names = append(m.names, name)
		m.bits[name] = bits[i].Clone()
	}
	return m, nil
}

// Mask snapshots the current missingness of the listed columns. With no
// columns listed, all columns are included.
func (ds *Dataset) Mask(names ...string) (*Mask, error) {
	if len(names) == 0 {
		names = ds.Columns()
	}

	m := &Mask{
		names: make([]string, 0, len(names)),
		bits:  make(map[string]*roaring.Bitmap, len(names)),
	}
	for _, name := range names {
		c, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		m.names = append(m.names, name)
		m.bits[name] = c.Missing()
	}
	return m, nil
}

// Columns returns the masked column names in order.
func (m *Mask) Columns() []string { return m.names }

// IsSet reports whether the cell at (name, row) is masked.
func (m *Mask) IsSet(name string, row int) bool {
	b, ok := m.bits[name]
	return ok && b.Contains(uint32(row))
}

// Column returns the bitmap for a column, or nil if the column is not masked.
// The returned bitmap must not be modified.
func (m *Mask) Column(name string) *roaring.Bitmap { return m.bits[name] }

// Count returns the number of masked cells in a column.
func (m *Mask) Count(name string) int {
	b, ok := m.bits[name]
	if !ok {
		return 0
	}
	return int(b.GetCardinality())
}

// Any reports whether any cell is masked.
func (m *Mask) Any() bool {
	for _, b := range m.bits {
		if !b.IsEmpty() {
			return true
		}
	}
	return false
}

// Union returns the rows masked in at least one column.
func (m *Mask) Union() *roaring.Bitmap {
	out := roaring.New()
	for _, b := range m.bits {
		out.Or(b)
	}
	return out
}
