package report

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hupe1980/imputego/blobstore"
	"github.com/hupe1980/imputego/evaluate"
	"github.com/hupe1980/imputego/impute"
)

// AssemblerOptions configure artifact export.
type AssemblerOptions struct {
	// Render configures the density plots.
	Render RenderOptions

	// WrapWriter decorates the writer of every artifact, for example with
	// IO rate limiting. Nil writes straight to the blob.
	WrapWriter func(w io.Writer) io.Writer
}

// DefaultAssemblerOptions hold the canonical export configuration.
var DefaultAssemblerOptions = AssemblerOptions{
	Render: DefaultRenderOptions,
}

// Assembler writes run artifacts into a blob store under a common
// report/<run-id>/ prefix, so one benchmark's outputs stay together whether
// the store is a local directory, S3 or MinIO.
type Assembler struct {
	store blobstore.BlobStore
	opts  AssemblerOptions
}

// NewAssembler creates an assembler exporting into store.
func NewAssembler(store blobstore.BlobStore, optFns ...func(o *AssemblerOptions)) *Assembler {
	opts := DefaultAssemblerOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Assembler{store: store, opts: opts}
}

// WriteComparison exports the accuracy table and returns the blob name.
func (a *Assembler) WriteComparison(ctx context.Context, runID string, c *evaluate.Comparison) (string, error) {
	name := path.Join("report", runID, "comparison.txt")

	err := a.write(ctx, name, func(w io.Writer) error {
		return RenderComparison(w, c)
	})
	if err != nil {
		return "", err
	}

	return name, nil
}

// WriteDensity exports one density plot and returns the blob name.
func (a *Assembler) WriteDensity(ctx context.Context, runID string, d Density) (string, error) {
	name := path.Join("report", runID, fmt.Sprintf("density-%s.%s", d.Target, a.opts.Render.Format))

	err := a.write(ctx, name, func(w io.Writer) error {
		return RenderDensity(w, d, func(o *RenderOptions) {
			*o = a.opts.Render
		})
	})
	if err != nil {
		return "", err
	}

	return name, nil
}

// WriteCompletions exports every completed table of a run as CSV and
// returns the blob names in completion order.
func (a *Assembler) WriteCompletions(ctx context.Context, runID string, result *impute.Result) ([]string, error) {
	names := make([]string, 0, len(result.Completions))

	for i, c := range result.Completions {
		name := path.Join("report", runID, fmt.Sprintf("completed-%s-%d.csv", result.Strategy, i+1))

		err := a.write(ctx, name, func(w io.Writer) error {
			return c.WriteCSV(w)
		})
		if err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, nil
}

func (a *Assembler) write(ctx context.Context, name string, render func(w io.Writer) error) error {
	wc, err := a.store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", name, err)
	}

	var w io.Writer = wc
	if a.opts.WrapWriter != nil {
		w = a.opts.WrapWriter(wc)
	}

	if err := render(w); err != nil {
		_ = wc.Close()
		return err
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", name, err)
	}

	return nil
}
