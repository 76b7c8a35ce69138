// Package impute defines the contract shared by all imputation strategies.
//
// A Strategy fills the missing cells of the requested target columns and
// returns one or more completed copies of the dataset, never mutating the
// input and never altering observed values. The four bundled strategies
// live in the subpackages mean, mice, knn and forest.
//
// # Usage
//
//	s := knn.New(5)
//	result, err := s.Impute(ctx, ds, []string{"income"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	completed := result.Completions[0]
//
// Iterative strategies expose convergence diagnostics on the result rather
// than failing when an iteration cap is reached:
//
//	if d := result.Diagnostics; d != nil && !d.Converged {
//	    log.Printf("stopped after %d iterations without converging", d.Iterations)
//	}
package impute
