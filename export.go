package imputego

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/hupe1980/imputego/blobstore"
	"github.com/hupe1980/imputego/evaluate"
	"github.com/hupe1980/imputego/impute"
	"github.com/hupe1980/imputego/report"
	"github.com/hupe1980/imputego/resource"
)

// Export writes the artifacts of a benchmark under report/<runID>/ in the
// given blob store: the accuracy comparison as text, one density plot per
// imputed target with the observed curve next to one curve per strategy,
// and every completed table as CSV.
//
// A nil comparison skips the comparison blob. Nil runs are skipped.
func (ig *Imputego) Export(ctx context.Context, store blobstore.BlobStore, runID string, comparison *evaluate.Comparison, runs []*impute.Result, optFns ...func(o *report.AssemblerOptions)) error {
	if store == nil {
		return fmt.Errorf("imputego: nil blob store")
	}

	start := time.Now()

	if ig.resources != nil {
		throttle := func(o *report.AssemblerOptions) {
			o.WrapWriter = func(w io.Writer) io.Writer {
				return resource.NewRateLimitedWriter(w, ig.resources, ctx)
			}
		}
		optFns = append([]func(o *report.AssemblerOptions){throttle}, optFns...)
	}

	assembler := report.NewAssembler(store, optFns...)

	blobs := 0
	err := func() error {
		if comparison != nil {
			if _, err := assembler.WriteComparison(ctx, runID, comparison); err != nil {
				return err
			}
			blobs++
		}

		for _, target := range targetOrder(runs) {
			density, err := ig.densityOverlay(runs, target)
			if err != nil {
				return err
			}

			if _, err := assembler.WriteDensity(ctx, runID, density); err != nil {
				return err
			}
			blobs++
		}

		for _, run := range runs {
			if run == nil {
				continue
			}

			names, err := assembler.WriteCompletions(ctx, runID, run)
			if err != nil {
				return err
			}
			blobs += len(names)
		}

		return nil
	}()

	duration := time.Since(start)
	err = translateError(err)
	ig.metrics.RecordExport(duration, err)
	ig.logger.LogExport(ctx, runID, blobs, err)
	return err
}

// densityOverlay merges the per-run density data of one target into a single
// plot input: the observed curve once, then one imputed curve per strategy.
func (ig *Imputego) densityOverlay(runs []*impute.Result, target string) (report.Density, error) {
	density := report.Density{Target: target}

	for _, run := range runs {
		if run == nil || !slices.Contains(run.Targets, target) {
			continue
		}

		d, err := ig.DensityData(run, target)
		if err != nil {
			return report.Density{}, err
		}

		if len(density.Series) == 0 {
			density.Series = append(density.Series, d.Series[0])
		}
		density.Series = append(density.Series, d.Series[1])
	}

	return density, nil
}

// targetOrder returns every target of the given runs once, in first-seen
// order.
func targetOrder(runs []*impute.Result) []string {
	var order []string
	for _, run := range runs {
		if run == nil {
			continue
		}
		for _, target := range run.Targets {
			if !slices.Contains(order, target) {
				order = append(order, target)
			}
		}
	}
	return order
}
