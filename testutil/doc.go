// Package testutil provides testing utilities for Imputego.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random columns with known structure
// and for punching reproducible holes into complete data.
//
// # Random Column Generation
//
//	rng := testutil.NewRNG(seed)
//	x := rng.GaussianColumn(500, 10, 2)     // mean 10, sd 2
//	x, y := rng.CorrelatedPair(500, 0.8)    // standard normal, corr 0.8
//
// # Complete Datasets with Signal
//
//	ds := testutil.CorrelatedDataset(rng, 500, 0.8)
//
// # Missing-at-Random Holes
//
//	withHoles, holes := rng.PunchHoles(x, 0.3)
package testutil
