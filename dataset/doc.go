// Package dataset provides the rectangular numeric table the imputation
// pipeline operates on.
//
// A Dataset holds named float64 columns of equal length. Missingness is
// tracked per column with Roaring bitmaps; a missing cell holds NaN in the
// value slot and the two views always agree. Datasets are effectively
// immutable within the pipeline: the injector and the imputation strategies
// work on clones and the ground truth is never touched.
//
// # Loading
//
//	ds, err := dataset.ReadCSVFile("crime.csv.zst")
//	ds, err := dataset.Open(ctx, store, "datasets/crime.csv")
//
// CSV loading understands plain, gzip, zstd and lz4 inputs, sniffed from the
// frame magic. Configurable null literals ("", "NA", "NaN", "null") become
// missing cells.
//
// # Masks
//
// A Mask snapshots which cells are missing at a point in time. The injector
// returns the mask of exactly the cells it nulled; because the mask is a
// snapshot, it stays valid after a strategy fills those cells.
package dataset
