package dataset

import (
	"bytes"
	"context"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/imputego/blobstore"
)

const sampleCSV = "age,income\n23,50000\n35,NA\n41,72000\n"

func TestReadCSV(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		ds, err := ReadCSV(strings.NewReader(sampleCSV))
		require.NoError(t, err)

		assert.Equal(t, []string{"age", "income"}, ds.Columns())
		assert.Equal(t, 3, ds.Len())

		income, err := ds.Column("income")
		require.NoError(t, err)
		assert.True(t, income.IsMissing(1))
		assert.Equal(t, 1, income.MissingCount())
		assert.Equal(t, []float64{50000, 72000}, income.ObservedValues())
	})

	t.Run("NullLiterals", func(t *testing.T) {
		in := "x,y\nnull,1\nNaN,2\n,3\n1.5,4\n"
		ds, err := ReadCSV(strings.NewReader(in))
		require.NoError(t, err)

		x, err := ds.Column("x")
		require.NoError(t, err)
		assert.Equal(t, 3, x.MissingCount())
		assert.Equal(t, []float64{1.5}, x.ObservedValues())
	})

	t.Run("CustomComma", func(t *testing.T) {
		in := "a;b\n1;2\n"
		ds, err := ReadCSV(strings.NewReader(in), func(o *CSVOptions) {
			o.Comma = ';'
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ds.Columns())
	})

	t.Run("CustomNullValues", func(t *testing.T) {
		in := "a\n-999\n1\n"
		ds, err := ReadCSV(strings.NewReader(in), func(o *CSVOptions) {
			o.NullValues = []string{"-999"}
		})
		require.NoError(t, err)

		a, err := ds.Column("a")
		require.NoError(t, err)
		assert.True(t, a.IsMissing(0))
		assert.False(t, a.IsMissing(1))
	})

	t.Run("ParseError", func(t *testing.T) {
		in := "a\nnot-a-number\n"
		_, err := ReadCSV(strings.NewReader(in))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `column "a"`)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		assert.Error(t, err)
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		ds, err := ReadCSV(strings.NewReader(sampleCSV))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, ds.WriteCSV(&buf))

		back, err := ReadCSV(&buf)
		require.NoError(t, err)
		assert.True(t, ds.Equal(back))
	})

	t.Run("MissingCellsAsNA", func(t *testing.T) {
		ds := MustNew(NewColumn("x", []float64{1, math.NaN()}))

		var buf bytes.Buffer
		require.NoError(t, ds.WriteCSV(&buf))

		assert.Equal(t, "x\n1\nNA\n", buf.String())

		back, err := ReadCSV(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.True(t, ds.Equal(back))
	})

	t.Run("CustomComma", func(t *testing.T) {
		ds := MustNew(
			NewColumn("a", []float64{1}),
			NewColumn("b", []float64{2}),
		)

		var buf bytes.Buffer
		require.NoError(t, ds.WriteCSV(&buf, func(o *CSVOptions) {
			o.Comma = ';'
		}))

		assert.Equal(t, "a;b\n1;2\n", buf.String())
	})
}

func TestDecompressReader(t *testing.T) {
	tests := []struct {
		name     string
		compress func(t *testing.T, data []byte) []byte
	}{
		{
			"Plain",
			func(t *testing.T, data []byte) []byte { return data },
		},
		{
			"Gzip",
			func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				zw := gzip.NewWriter(&buf)
				_, err := zw.Write(data)
				require.NoError(t, err)
				require.NoError(t, zw.Close())
				return buf.Bytes()
			},
		},
		{
			"Zstd",
			func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				zw, err := zstd.NewWriter(&buf)
				require.NoError(t, err)
				_, err = zw.Write(data)
				require.NoError(t, err)
				require.NoError(t, zw.Close())
				return buf.Bytes()
			},
		},
		{
			"LZ4",
			func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				zw := lz4.NewWriter(&buf)
				_, err := zw.Write(data)
				require.NoError(t, err)
				require.NoError(t, zw.Close())
				return buf.Bytes()
			},
		},
	}

	want, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed := tt.compress(t, []byte(sampleCSV))

			r, err := DecompressReader(bytes.NewReader(compressed))
			require.NoError(t, err)

			got, err := ReadCSV(r)
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
		})
	}

	t.Run("ShortInput", func(t *testing.T) {
		r, err := DecompressReader(strings.NewReader("x\n"))
		require.NoError(t, err)

		ds, err := ReadCSV(r)
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, ds.Columns())
		assert.Equal(t, 0, ds.Len())
	})
}

func TestReadCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/data.csv.gz"

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	ds, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	_, err = ReadCSVFile(dir + "/missing.csv")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	store := blobstore.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "datasets/sample.csv", []byte(sampleCSV)))

	ds, err := Open(ctx, store, "datasets/sample.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	income, err := ds.Values("income")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(income[1]))

	_, err = Open(ctx, store, "datasets/nope.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
