package dataset

import (
	"context"
	"fmt"

	"github.com/hupe1980/imputego/blobstore"
)

// Open loads a CSV dataset from a blob store, transparently decompressing
// gzip, zstd and lz4 streams. The blob name is resolved by the store.
func Open(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *CSVOptions)) (*Dataset, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("dataset: open blob %s: %w", name, err)
	}
	defer b.Close()

	r, err := DecompressReader(b)
	if err != nil {
		return nil, err
	}
	return ReadCSV(r, optFns...)
}
