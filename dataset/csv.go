package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVOptions contains options for CSV loading.
type CSVOptions struct {
	// Comma is the field delimiter.
	Comma rune

	// NullValues are the cell literals treated as missing, compared after
	// trimming surrounding whitespace.
	NullValues []string
}

// DefaultCSVOptions contains the default options for CSV loading.
var DefaultCSVOptions = CSVOptions{
	Comma:      ',',
	NullValues: []string{"", "NA", "NaN", "nan", "null"},
}

// ReadCSV loads a dataset from CSV. The first record is the header naming
// the columns; every other cell must parse as a float64 or match a null
// literal.
func ReadCSV(r io.Reader, optFns ...func(o *CSVOptions)) (*Dataset, error) {
	opts := DefaultCSVOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	nulls := make(map[string]struct{}, len(opts.NullValues))
	for _, v := range opts.NullValues {
		nulls[v] = struct{}{}
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset: empty csv input")
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read csv header: %w", err)
	}

	names := make([]string, len(header))
	values := make([][]float64, len(header))
	for i, name := range header {
		names[i] = strings.TrimSpace(name)
		values[i] = make([]float64, 0)
	}

	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read csv row %d: %w", row, err)
		}

		for i, cell := range record {
			cell = strings.TrimSpace(cell)
			if _, ok := nulls[cell]; ok {
				values[i] = append(values[i], math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: row %d column %q: parse %q: %w", row, names[i], cell, err)
			}
			values[i] = append(values[i], v)
		}
	}

	return FromColumns(names, values)
}

// WriteCSV writes the dataset as CSV with a header row. Missing cells are
// written as NA, which ReadCSV maps back to missing by default. An empty
// field would turn single-column rows into blank lines, which csv readers
// skip.
func (ds *Dataset) WriteCSV(w io.Writer, optFns ...func(o *CSVOptions)) error {
	opts := DefaultCSVOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Comma

	if err := cw.Write(ds.Columns()); err != nil {
		return fmt.Errorf("dataset: write csv header: %w", err)
	}

	record := make([]string, ds.NumColumns())
	for row := 0; row < ds.Len(); row++ {
		for i, c := range ds.cols {
			if c.IsMissing(row) {
				record[i] = "NA"
			} else {
				record[i] = strconv.FormatFloat(c.Value(row), 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("dataset: write csv row %d: %w", row, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// ReadCSVFile loads a dataset from a CSV file, transparently decompressing
// gzip, zstd and lz4 streams.
func ReadCSVFile(path string, optFns ...func(o *CSVOptions)) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	r, err := DecompressReader(f)
	if err != nil {
		return nil, err
	}
	return ReadCSV(r, optFns...)
}
