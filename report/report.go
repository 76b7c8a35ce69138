// Package report renders benchmark artifacts.
//
// The density plot overlays the distribution of a column's observed values
// with the distribution of the values a strategy filled in; a well-behaved
// imputation produces curves of similar shape, while mean imputation shows
// up as a spike. The comparison table is the accuracy summary across
// strategies. The Assembler exports both, plus the completed tables, into a
// blob store.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hupe1980/imputego/evaluate"
)

// ErrEmptySeries is returned when a density series has no finite values to
// estimate a curve from.
var ErrEmptySeries = errors.New("series has no values")

// Format selects the image encoding of a rendered plot.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Series is one labeled sequence of values entering a density plot.
type Series struct {
	Label  string
	Values []float64
}

// Density describes one plot: the value distributions of a target column,
// one curve per series. Typically two series, the observed values and the
// imputed-only values.
type Density struct {
	Target string
	Series []Series
}

// RenderOptions configure density rendering.
type RenderOptions struct {
	// Format is the image encoding.
	Format Format

	// Width and Height are the canvas dimensions.
	Width  vg.Length
	Height vg.Length

	// Samples is the number of points per curve.
	Samples int
}

// DefaultRenderOptions hold the canonical rendering configuration.
var DefaultRenderOptions = RenderOptions{
	Format:  FormatPNG,
	Width:   6 * vg.Inch,
	Height:  4 * vg.Inch,
	Samples: 200,
}

var palette = []color.Color{
	color.RGBA{R: 50, G: 50, B: 255, A: 255},
	color.RGBA{R: 255, G: 80, B: 30, A: 255},
	color.RGBA{R: 0, G: 160, B: 80, A: 255},
	color.RGBA{R: 160, G: 60, B: 200, A: 255},
}

// RenderDensity draws kernel density curves for every series of d and
// writes the encoded image to w.
func RenderDensity(w io.Writer, d Density, optFns ...func(o *RenderOptions)) error {
	opts := DefaultRenderOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Samples < 2 {
		opts.Samples = DefaultRenderOptions.Samples
	}

	if len(d.Series) == 0 {
		return fmt.Errorf("report: density of %q: %w", d.Target, ErrEmptySeries)
	}

	kdes := make([]*stats.KDE, len(d.Series))
	lo, hi := math.Inf(1), math.Inf(-1)

	for i, s := range d.Series {
		sample := stats.Sample{Xs: finite(s.Values)}
		if len(sample.Xs) == 0 {
			return fmt.Errorf("report: series %q: %w", s.Label, ErrEmptySeries)
		}

		kde := &stats.KDE{Sample: sample}
		if sd := sample.StdDev(); !(sd > 0) {
			// Degenerate sample; a fixed bandwidth keeps the curve
			// renderable.
			kde.Bandwidth = 1
		}

		slo, shi := kde.Bounds()
		lo = math.Min(lo, slo)
		hi = math.Max(hi, shi)

		kdes[i] = kde
	}

	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	p := plot.New()
	p.Title.Text = "Density of " + d.Target
	p.X.Label.Text = d.Target
	p.Y.Label.Text = "density"
	p.Legend.Top = true

	step := (hi - lo) / float64(opts.Samples-1)
	for i, kde := range kdes {
		pts := make(plotter.XYs, opts.Samples)
		for j := range pts {
			x := lo + float64(j)*step
			pts[j].X = x
			pts[j].Y = kde.PDF(x)
		}

		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("report: density curve %q: %w", d.Series[i].Label, err)
		}
		l.Color = palette[i%len(palette)]
		l.LineStyle.Width = vg.Points(1.5)

		p.Add(l)
		p.Legend.Add(d.Series[i].Label, l)
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, string(opts.Format))
	if err != nil {
		return fmt.Errorf("report: render density of %q: %w", d.Target, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("report: write density of %q: %w", d.Target, err)
	}

	return nil
}

// RenderComparison writes the accuracy table as aligned text.
func RenderComparison(w io.Writer, c *evaluate.Comparison) error {
	if c == nil {
		return errors.New("report: nil comparison")
	}

	if _, err := io.WriteString(w, c.String()); err != nil {
		return fmt.Errorf("report: write comparison: %w", err)
	}

	return nil
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
