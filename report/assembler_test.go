package report

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/imputego/blobstore"
	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/evaluate"
	"github.com/hupe1980/imputego/impute"
)

func readBlob(t *testing.T, store blobstore.BlobStore, name string) []byte {
	t.Helper()

	b, err := store.Open(context.Background(), name)
	require.NoError(t, err)
	defer b.Close()

	data, err := io.ReadAll(b)
	require.NoError(t, err)
	return data
}

func TestAssembler_WriteComparison(t *testing.T) {
	store := blobstore.NewMemoryStore()
	a := NewAssembler(store)

	c := &evaluate.Comparison{Records: []evaluate.Record{
		{Strategy: "knn", Target: "income", Metrics: evaluate.Metrics{MAE: 1, MSE: 2, RMSE: 1.41, MAPE: 0.2}},
	}}

	name, err := a.WriteComparison(context.Background(), "run-1", c)
	require.NoError(t, err)
	assert.Equal(t, "report/run-1/comparison.txt", name)

	data := readBlob(t, store, name)
	assert.Contains(t, string(data), "knn")
	assert.Contains(t, string(data), "income")
}

func TestAssembler_WriteDensity(t *testing.T) {
	store := blobstore.NewMemoryStore()
	a := NewAssembler(store)

	name, err := a.WriteDensity(context.Background(), "run-1", sampleDensity(t))
	require.NoError(t, err)
	assert.Equal(t, "report/run-1/density-income.png", name)

	data := readBlob(t, store, name)
	require.Greater(t, len(data), len(pngMagic))
	assert.Equal(t, pngMagic, data[:len(pngMagic)])
}

func TestAssembler_WriteDensitySVG(t *testing.T) {
	store := blobstore.NewMemoryStore()
	a := NewAssembler(store, func(o *AssemblerOptions) {
		o.Render.Format = FormatSVG
	})

	name, err := a.WriteDensity(context.Background(), "run-1", sampleDensity(t))
	require.NoError(t, err)
	assert.Equal(t, "report/run-1/density-income.svg", name)

	assert.Contains(t, string(readBlob(t, store, name)), "<svg")
}

func TestAssembler_WriteCompletions(t *testing.T) {
	store := blobstore.NewMemoryStore()
	a := NewAssembler(store)

	c1 := dataset.MustNew(dataset.NewColumn("y", []float64{1, 2, 3}))
	c2 := dataset.MustNew(dataset.NewColumn("y", []float64{1, 2.5, 3}))
	result := impute.NewResult("mice", []string{"y"}, []*dataset.Dataset{c1, c2}, nil)

	names, err := a.WriteCompletions(context.Background(), "run-1", result)
	require.NoError(t, err)
	require.Equal(t, []string{
		"report/run-1/completed-mice-1.csv",
		"report/run-1/completed-mice-2.csv",
	}, names)

	back, err := dataset.ReadCSV(bytes.NewReader(readBlob(t, store, names[1])))
	require.NoError(t, err)
	assert.True(t, c2.Equal(back))

	listed, err := store.List(context.Background(), "report/run-1/")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
