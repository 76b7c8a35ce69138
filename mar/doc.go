// Package mar simulates Missing-at-Random data gaps in complete datasets.
//
// MAR means the probability that a value goes missing depends only on
// observed covariates, never on the unobserved value itself. The injector
// realizes this by scoring every row with an observed determinant column
// plus independent gaussian noise and nulling the rows whose score reaches
// the top proportion of the empirical score distribution.
//
// # Usage
//
//	amputated, mask, err := mar.InjectColumns(ds, "age", 0.3, []string{"income"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The returned mask records exactly the cells the injector nulled, so
// imputation accuracy can later be measured strictly over those cells.
//
// Injection is a pure function of its inputs and the configured seed:
//
//	_, _, _ = mar.Inject(det, target, 0.3, func(o *mar.Options) {
//	    o.Seed = 42
//	})
package mar
