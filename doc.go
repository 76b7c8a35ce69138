// Package imputego simulates Missing At Random data and measures how well
// imputation strategies recover it.
//
// The pipeline starts from a fully-observed numeric table, nulls a chosen
// proportion of one or more target columns driven by an observed determinant
// column, fills the holes with interchangeable strategies, and scores each
// strategy strictly over the cells that were nulled. Because the ground
// truth is known, the scores measure real recovery accuracy rather than
// plausibility.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	ig, _ := imputego.NewFromFile("people.csv")
//
//	// Null 30% of income, driven by age.
//	_ = ig.InjectMAR(ctx, "age", 0.3, []string{"income"},
//	    func(o *imputego.InjectMAROptions) { o.Seed = 42 })
//
//	// Impute with one strategy and score it.
//	run, _ := ig.Impute(ctx, imputego.KNN(5).Weighted().MustBuild(), "income")
//	metrics, _ := ig.Evaluate(ctx, run, "income")
//	fmt.Printf("knn MAE=%.3f RMSE=%.3f\n", metrics.MAE, metrics.RMSE)
//
//	// Or benchmark the canonical four in one call.
//	comparison, _ := ig.Benchmark(ctx, nil, "income")
//	fmt.Println(comparison)
//
// # Strategy Selection
//
// Four strategies ship with the module, all behind impute.Strategy:
//
//   - Mean: column mean, the baseline every other strategy must beat
//   - ChainedEquations: multiple imputation, m completed tables whose
//     spread reflects imputation uncertainty
//   - KNN: neighbor mean over standardized complete rows, good when
//     similar rows imply similar targets
//   - RandomForest: iterative bagged trees, good for nonlinear relations
//
// Strategies are configured through immutable fluent builders:
//
//	s, err := imputego.RandomForest().Trees(200).Seed(42).Build()
//
// # Key Features
//
//   - Quantile-threshold MAR injection with reproducible seeded noise
//   - MAE, MSE, RMSE and MAPE strictly over the nulled cells
//   - Multiple-imputation pooling by elementwise mean across completions
//   - Deterministic parallelism for chains, trees and benchmark fan-out
//   - Density-plot and comparison-table export to fs, S3 or MinIO stores
//   - CSV loading with gzip, zstd and lz4 decompression
package imputego
